package app

import (
	"strings"

	"charm.land/lipgloss/v2"

	"parley/internal/session"
	"parley/internal/types"
)

const (
	maxTabTitleWidth = 18
	maxDecorWidth    = 10
)

// renderTabBar draws one entry per open tab in tab order. Decorations
// name the per-chat configuration and mark in-flight state: ⚙ plus the
// active tool, § plus the system prompt, ! for a failed send.
func (m *Model) renderTabBar(width int) string {
	order := m.controller.TabOrder()
	if len(order) == 0 {
		return helpStyle.Render("no open chats - ctrl+n to start one")
	}
	active := m.controller.ActiveTab()
	parts := make([]string, 0, len(order))
	for _, chatID := range order {
		tabID := session.TabID(chatID)
		open, ok := m.controller.Store().Session(tabID)
		if !ok {
			continue
		}
		label := truncatePlain(open.Chat.Title(), maxTabTitleWidth)
		decor := tabDecorations(open, m.assignedToolName(open.Chat), m.assignedPromptName(open.Chat))
		if decor != "" {
			label += " " + tabDecorStyle.Render(decor)
		}
		style := tabStyle
		switch {
		case tabID == active:
			style = tabActiveStyle
		case open.Error != "":
			style = tabErrorStyle
		case open.IsLoading:
			style = tabLoadingStyle
		}
		parts = append(parts, style.Render(label))
	}
	bar := strings.Join(parts, dividerStyle.Render("│"))
	return truncateToWidth(bar, width)
}

// tabDecorations names the assigned tool and prompt; empty names (the
// catalogs may not be loaded yet) fall back to the bare glyph.
func tabDecorations(open *session.Open, toolName, promptName string) string {
	var parts []string
	if open.Chat.ActiveToolID != nil {
		parts = append(parts, "⚙"+truncatePlain(toolName, maxDecorWidth))
	}
	if open.Chat.SystemPromptID != nil {
		parts = append(parts, "§"+truncatePlain(promptName, maxDecorWidth))
	}
	if open.Error != "" {
		parts = append(parts, "!")
	}
	return strings.Join(parts, " ")
}

func (m *Model) assignedToolName(chat *types.Chat) string {
	if chat.ActiveToolID == nil {
		return ""
	}
	for _, tool := range m.tools {
		if tool.ID == *chat.ActiveToolID {
			return tool.DisplayName()
		}
	}
	return ""
}

func (m *Model) assignedPromptName(chat *types.Chat) string {
	if chat.SystemPromptID == nil {
		return ""
	}
	for _, prompt := range m.prompts {
		if prompt.ID == *chat.SystemPromptID {
			return prompt.Name
		}
	}
	return ""
}

func renderStatusLine(width int, help, status string) string {
	if width <= 0 {
		return help
	}
	gap := width - lipgloss.Width(help) - lipgloss.Width(status)
	if gap < 1 {
		return truncateToWidth(help, width)
	}
	return help + strings.Repeat(" ", gap) + status
}
