package app

import (
	"testing"

	"parley/internal/session"
	"parley/internal/types"
)

func TestTabDecorations(t *testing.T) {
	toolID := 3
	promptID := 9
	cases := []struct {
		name   string
		open   *session.Open
		tool   string
		prompt string
		want   string
	}{
		{name: "bare", open: &session.Open{Chat: &types.Chat{ID: 1}}, want: ""},
		{name: "tool", open: &session.Open{Chat: &types.Chat{ID: 1, ActiveToolID: &toolID}}, tool: "search", want: "⚙search"},
		{name: "prompt", open: &session.Open{Chat: &types.Chat{ID: 1, SystemPromptID: &promptID}}, prompt: "concise", want: "§concise"},
		{
			name: "catalogs not loaded yet",
			open: &session.Open{Chat: &types.Chat{ID: 1, ActiveToolID: &toolID}},
			want: "⚙",
		},
		{
			name: "long tool name truncates",
			open: &session.Open{Chat: &types.Chat{ID: 1, ActiveToolID: &toolID}},
			tool: "weather_forecaster",
			want: "⚙weather_f…",
		},
		{
			name:   "everything",
			open:   &session.Open{Chat: &types.Chat{ID: 1, ActiveToolID: &toolID, SystemPromptID: &promptID}, Error: "boom"},
			tool:   "search",
			prompt: "concise",
			want:   "⚙search §concise !",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tabDecorations(tc.open, tc.tool, tc.prompt); got != tc.want {
				t.Fatalf("tabDecorations = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAssignedNamesResolveFromCatalogs(t *testing.T) {
	toolID := 2
	promptID := 5
	m := newTestModel(newFakeAPI())
	m.tools = []*types.Tool{{ID: 2, Name: "search", IsCallable: true}}
	m.prompts = []*types.SystemPrompt{{ID: 5, Name: "concise"}}

	chat := &types.Chat{ID: 1, ActiveToolID: &toolID, SystemPromptID: &promptID}
	if got := m.assignedToolName(chat); got != "search" {
		t.Fatalf("tool name = %q, want search", got)
	}
	if got := m.assignedPromptName(chat); got != "concise" {
		t.Fatalf("prompt name = %q, want concise", got)
	}
	if got := m.assignedToolName(&types.Chat{ID: 2}); got != "" {
		t.Fatalf("unassigned chat should have no tool name, got %q", got)
	}
}

func TestActivityLabelStableOrder(t *testing.T) {
	label := activityLabel(map[types.Role]int{
		types.RoleAssistant: 2,
		types.RoleUser:      3,
	})
	if label != "user 3 assistant 2" {
		t.Fatalf("unexpected label %q", label)
	}
}

func TestRenderStatusLinePadsBetween(t *testing.T) {
	line := renderStatusLine(20, "help", "status")
	if len([]rune(line)) != 20 {
		t.Fatalf("expected a 20-cell line, got %d: %q", len([]rune(line)), line)
	}
}
