package session

import (
	"testing"

	"parley/internal/types"
)

func TestActivityCountsPerRoleAndGlobally(t *testing.T) {
	a := NewActivity()
	a.RecordMessage(1, types.RoleUser)
	a.RecordMessage(1, types.RoleAssistant)
	a.RecordMessage(2, types.RoleUser)
	a.RecordConfigChange(1)

	global := a.Global()
	if global.Messages[types.RoleUser] != 2 {
		t.Fatalf("expected 2 global user messages, got %d", global.Messages[types.RoleUser])
	}
	if global.Messages[types.RoleAssistant] != 1 {
		t.Fatalf("expected 1 global assistant message, got %d", global.Messages[types.RoleAssistant])
	}
	if global.ConfigChanges != 1 {
		t.Fatalf("expected 1 global config change, got %d", global.ConfigChanges)
	}
	if global.Total != 4 {
		t.Fatalf("expected global total 4, got %d", global.Total)
	}

	first := a.ForChat(1)
	if first.Messages[types.RoleUser] != 1 || first.Messages[types.RoleAssistant] != 1 || first.ConfigChanges != 1 {
		t.Fatalf("unexpected chat 1 counters: %+v", first)
	}
	second := a.ForChat(2)
	if second.Messages[types.RoleUser] != 1 || second.Total != 1 {
		t.Fatalf("unexpected chat 2 counters: %+v", second)
	}
}

func TestActivityUnknownChatReadsAsZero(t *testing.T) {
	a := NewActivity()
	entry := a.ForChat(42)
	if entry.Total != 0 || len(entry.Messages) != 0 {
		t.Fatalf("expected zero counters for unknown chat, got %+v", entry)
	}
}

func TestActivitySnapshotsAreDetached(t *testing.T) {
	a := NewActivity()
	a.RecordMessage(1, types.RoleUser)
	snapshot := a.ForChat(1)
	snapshot.Messages[types.RoleUser] = 99

	if got := a.ForChat(1).Messages[types.RoleUser]; got != 1 {
		t.Fatalf("snapshot mutation leaked into counters: %d", got)
	}
}
