package app

import (
	"testing"

	"parley/internal/types"
)

func TestLastMessagePreview(t *testing.T) {
	tests := []struct {
		name string
		chat *types.Chat
		want string
	}{
		{
			name: "assistant reply gets the AI prefix",
			chat: &types.Chat{ID: 1, History: []types.ChatMessage{
				{UUID: "a", Role: types.RoleUser, Content: "hi"},
				{UUID: "b", ParentMessageUUID: "a", Role: types.RoleAssistant, Content: "hello there"},
			}},
			want: "AI: hello there",
		},
		{
			name: "user message stays bare",
			chat: &types.Chat{ID: 2, History: []types.ChatMessage{
				{UUID: "a", Role: types.RoleUser, Content: "what time is it"},
			}},
			want: "what time is it",
		},
		{
			name: "empty history yields nothing",
			chat: &types.Chat{ID: 3},
			want: "",
		},
		{
			name: "newlines collapse to one line",
			chat: &types.Chat{ID: 4, History: []types.ChatMessage{
				{UUID: "a", Role: types.RoleUser, Content: "first\nsecond"},
			}},
			want: "first second",
		},
	}
	for _, tc := range tests {
		if got := lastMessagePreview(tc.chat, 40); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSidebarCursorClampsOnShrink(t *testing.T) {
	s := NewSidebar(24)
	s.SetChats([]*types.Chat{{ID: 1}, {ID: 2}, {ID: 3}})
	s.CursorDown()
	s.CursorDown()

	s.SetChats([]*types.Chat{{ID: 1}})
	chat, ok := s.Selected()
	if !ok || chat.ID != 1 {
		t.Fatalf("cursor should clamp to the remaining chat, got %v %v", chat, ok)
	}
}
