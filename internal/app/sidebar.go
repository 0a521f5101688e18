package app

import (
	"strings"

	"parley/internal/types"
)

// Sidebar lists the full chat catalog. Open chats are marked; enter on
// an entry opens (or refocuses) it.
type Sidebar struct {
	chats  []*types.Chat
	cursor int
	width  int
}

func NewSidebar(width int) *Sidebar {
	return &Sidebar{width: width}
}

func (s *Sidebar) SetChats(chats []*types.Chat) {
	s.chats = chats
	if s.cursor >= len(chats) {
		s.cursor = max(0, len(chats)-1)
	}
}

func (s *Sidebar) Resize(width int) {
	s.width = width
}

func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.chats)-1 {
		s.cursor++
	}
}

// Selected returns the chat under the cursor, or false when the catalog
// is empty.
func (s *Sidebar) Selected() (*types.Chat, bool) {
	if s.cursor < 0 || s.cursor >= len(s.chats) {
		return nil, false
	}
	return s.chats[s.cursor], true
}

func (s *Sidebar) View(isOpen func(int) bool) string {
	if len(s.chats) == 0 {
		return helpStyle.Render("no chats")
	}
	lines := make([]string, 0, len(s.chats)+1)
	lines = append(lines, headerStyle.Render("Chats"))
	for i, chat := range s.chats {
		marker := "  "
		style := catalogStyle
		if isOpen != nil && isOpen(chat.ID) {
			marker = "● "
			style = catalogOpenStyle
		}
		line := marker + truncatePlain(chat.Title(), max(1, s.width-3))
		if i == s.cursor {
			line = selectedStyle.Render(padToWidth(line, s.width))
		} else {
			line = style.Render(line)
		}
		lines = append(lines, line)
		if preview := lastMessagePreview(chat, s.width-3); preview != "" {
			lines = append(lines, previewStyle.Render("  "+preview))
		}
	}
	return strings.Join(lines, "\n")
}

// lastMessagePreview shows a one-line excerpt of the newest message,
// "AI: "-prefixed for assistant replies.
func lastMessagePreview(chat *types.Chat, width int) string {
	message, ok := chat.LastMessage()
	if !ok || width < 2 {
		return ""
	}
	text := strings.Join(strings.Fields(message.Content), " ")
	if text == "" {
		return ""
	}
	if message.Role == types.RoleAssistant {
		text = "AI: " + text
	}
	return truncatePlain(text, width)
}
