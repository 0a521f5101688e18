package app

import (
	"strings"

	"charm.land/lipgloss/v2"

	"parley/internal/session"
	"parley/internal/types"
)

// renderTranscript renders an open session's linearized history, the
// optimistic preview while a send is in flight, and the per-session
// error, if any.
func (m *Model) renderTranscript(open *session.Open, width int) string {
	if open == nil {
		return helpStyle.Render("no chat selected")
	}
	var blocks []string
	for _, message := range open.Messages {
		blocks = append(blocks, m.renderMessage(message, width))
	}
	if open.IsLoading && open.PreviewMessage != "" {
		preview := roleUserStyle.Render("you") + " " + previewStyle.Render(open.PreviewMessage)
		blocks = append(blocks, preview, previewStyle.Render(m.loader.View()+" waiting for reply"))
	}
	if open.Error != "" {
		blocks = append(blocks, errorTextStyle.Render(open.Error))
	}
	if len(blocks) == 0 {
		return helpStyle.Render("empty chat - type a message to begin")
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m *Model) renderMessage(message types.ChatMessage, width int) string {
	label := roleLabel(message)
	body := strings.TrimRight(message.Content, "\n")
	switch message.Role {
	case types.RoleAssistant:
		if tree, ok := renderJSONPayload(body); ok {
			body = tree
		} else if m.renderMarkdown {
			body = renderMarkdown(body, width)
		}
	case types.RoleTool:
		tree := renderJSONTree([]byte(message.Content), 1)
		if tree != "" {
			body = tree
		}
	}
	if len(message.ToolCall) > 0 {
		call := renderJSONTree(message.ToolCall, 1)
		if call != "" {
			if body != "" {
				body += "\n"
			}
			body += roleToolStyle.Render("tool call") + "\n" + call
		}
	}
	if body == "" {
		return label
	}
	return label + "\n" + body
}

func roleLabel(message types.ChatMessage) string {
	switch message.Role {
	case types.RoleUser:
		return roleUserStyle.Render("you")
	case types.RoleAssistant:
		return roleAgentStyle.Render("assistant")
	case types.RoleSystem:
		return roleSystemStyle.Render("system")
	case types.RoleTool:
		name := message.ToolName
		if name == "" {
			name = "tool"
		}
		return roleToolStyle.Render(name)
	default:
		return roleSystemStyle.Render(string(message.Role))
	}
}
