package session

import (
	"testing"

	"parley/internal/types"
)

func TestOpenFetchedFocusesAndOrdersTab(t *testing.T) {
	c := NewController()
	c.OpenFetched(chatWith(3))
	c.OpenFetched(chatWith(1))

	if got := c.ActiveTab(); got != TabID(1) {
		t.Fatalf("expected focus on last opened tab, got %q", got)
	}
	if !equalInts(c.TabOrder(), []int{3, 1}) {
		t.Fatalf("expected discovery order [3 1], got %v", c.TabOrder())
	}

	// Reopening moves focus only; no duplicate tab appears.
	c.OpenFetched(chatWith(3))
	if got := c.ActiveTab(); got != TabID(3) {
		t.Fatalf("expected focus back on 3, got %q", got)
	}
	if !equalInts(c.TabOrder(), []int{3, 1}) {
		t.Fatalf("reopen changed tab order: %v", c.TabOrder())
	}
}

func TestSendLifecycleFeedsActivityCounters(t *testing.T) {
	c := NewController()
	c.OpenFetched(chatWith(1, msg("a", "", types.RoleUser)))

	if !c.BeginSend(TabID(1), "hello") {
		t.Fatalf("BeginSend refused a fresh session")
	}
	if c.BeginSend(TabID(1), "again") {
		t.Fatalf("BeginSend allowed a second outstanding send")
	}

	confirmed := chatWith(1,
		msg("a", "", types.RoleUser),
		msg("b", "a", types.RoleUser),
		msg("c", "b", types.RoleAssistant),
	)
	appended := c.FinishSend(TabID(1), confirmed)
	if len(appended) != 2 {
		t.Fatalf("expected 2 appended messages, got %d", len(appended))
	}

	global := c.Activity().Global()
	if global.Messages[types.RoleUser] != 1 || global.Messages[types.RoleAssistant] != 1 {
		t.Fatalf("unexpected counters after send: %+v", global.Messages)
	}

	open, _ := c.Store().Session(TabID(1))
	if open.IsLoading || open.PreviewMessage != "" || open.Error != "" {
		t.Fatalf("session not back to idle: %+v", open)
	}
}

func TestSendFailureIsPerSession(t *testing.T) {
	c := NewController()
	c.OpenFetched(chatWith(1))
	c.OpenFetched(chatWith(2))

	c.BeginSend(TabID(1), "hello")
	c.FailSend(TabID(1), "boom")

	failed, _ := c.Store().Session(TabID(1))
	if failed.Error != "boom" || failed.IsLoading || failed.PreviewMessage != "" {
		t.Fatalf("unexpected failed session state: %+v", failed)
	}
	other, _ := c.Store().Session(TabID(2))
	if other.Error != "" || other.IsLoading {
		t.Fatalf("failure leaked into another session: %+v", other)
	}

	// Retrying clears the prior error.
	c.BeginSend(TabID(1), "retry")
	retried, _ := c.Store().Session(TabID(1))
	if retried.Error != "" || !retried.IsLoading {
		t.Fatalf("retry did not reset error state: %+v", retried)
	}
}

func TestFinishSendAfterCloseIsNoOp(t *testing.T) {
	c := NewController()
	c.OpenFetched(chatWith(1))
	c.BeginSend(TabID(1), "hello")
	c.CloseTab(TabID(1))

	if appended := c.FinishSend(TabID(1), chatWith(1, msg("a", "", types.RoleUser))); appended != nil {
		t.Fatalf("late completion resurrected a closed session: %v", appended)
	}
	c.FailSend(TabID(1), "late failure")
	if c.Store().OpenCount() != 0 {
		t.Fatalf("closed session came back: %d open", c.Store().OpenCount())
	}
}

func TestCloseActiveTabFallsBackToCatalogOrder(t *testing.T) {
	c := NewController()
	c.OpenFetched(chatWith(5))
	c.OpenFetched(chatWith(2))
	c.OpenFetched(chatWith(9))
	c.MoveTab(0, 2) // order now [2 9 5]

	c.CloseTab(TabID(9))
	// Catalog-iteration order, not tab order, picks the fallback.
	if got := c.ActiveTab(); got != TabID(2) {
		t.Fatalf("expected fallback to chat 2, got %q", got)
	}
	if !equalInts(c.TabOrder(), []int{2, 5}) {
		t.Fatalf("unexpected tab order after close: %v", c.TabOrder())
	}
}

func TestCloseLastTabClearsFocusAndDerived(t *testing.T) {
	c := NewController()
	c.OpenFetched(&types.Chat{ID: 1, ActiveToolID: intPtr(7)})
	if d := c.Derived(); d.ToolID == nil || *d.ToolID != 7 {
		t.Fatalf("expected derived tool before close, got %+v", d)
	}

	c.CloseTab(TabID(1))
	if c.ActiveTab() != "" {
		t.Fatalf("expected no active tab, got %q", c.ActiveTab())
	}
	if d := c.Derived(); d.ToolID != nil || d.SystemPromptID != nil {
		t.Fatalf("expected derived state cleared, got %+v", d)
	}
}

func TestCloseFallbackPolicyOverride(t *testing.T) {
	c := NewController()
	c.SetCloseFallback(func(openIDs []int, order []int) (int, bool) {
		if len(order) == 0 {
			return 0, false
		}
		return order[len(order)-1], true
	})
	c.OpenFetched(chatWith(1))
	c.OpenFetched(chatWith(2))
	c.OpenFetched(chatWith(3))
	c.SetActive(TabID(3))

	c.CloseTab(TabID(3))
	if got := c.ActiveTab(); got != TabID(2) {
		t.Fatalf("expected policy to pick last tab, got %q", got)
	}
}

func TestRemoveChatCascades(t *testing.T) {
	c := NewController()
	c.SetCatalog([]*types.Chat{chatWith(1), chatWith(2)})
	c.OpenFetched(chatWith(1))
	c.OpenFetched(chatWith(2))
	c.SetActive(TabID(2))

	c.RemoveChat(2)
	if _, ok := c.Store().Chat(2); ok {
		t.Fatalf("catalog entry survived delete")
	}
	if c.Store().IsOpen(2) {
		t.Fatalf("open session survived delete")
	}
	if !equalInts(c.TabOrder(), []int{1}) {
		t.Fatalf("tab order still references deleted chat: %v", c.TabOrder())
	}
	if got := c.ActiveTab(); got != TabID(1) {
		t.Fatalf("expected deterministic fallback to chat 1, got %q", got)
	}
}

func TestCycleActiveWraps(t *testing.T) {
	c := NewController()
	c.OpenFetched(chatWith(1))
	c.OpenFetched(chatWith(2))
	c.OpenFetched(chatWith(3))
	c.SetActive(TabID(3))

	c.CycleActive(1)
	if got := c.ActiveTab(); got != TabID(1) {
		t.Fatalf("expected wrap to first tab, got %q", got)
	}
	c.CycleActive(-1)
	if got := c.ActiveTab(); got != TabID(3) {
		t.Fatalf("expected wrap back to last tab, got %q", got)
	}
}

func TestSetActiveIgnoresUnknownTab(t *testing.T) {
	c := NewController()
	c.OpenFetched(chatWith(1))
	c.SetActive("42")
	if got := c.ActiveTab(); got != TabID(1) {
		t.Fatalf("unknown tab stole focus: %q", got)
	}
}

func TestApplyConfigChangeBumpsCounterAndDerived(t *testing.T) {
	c := NewController()
	c.OpenFetched(chatWith(1))

	c.ApplyConfigChange(&types.Chat{ID: 1, ActiveToolID: intPtr(5)})
	if d := c.Derived(); d.ToolID == nil || *d.ToolID != 5 {
		t.Fatalf("derived tool not refreshed: %+v", d)
	}
	if got := c.Activity().ForChat(1).ConfigChanges; got != 1 {
		t.Fatalf("expected 1 config change, got %d", got)
	}
}

func TestSetCatalogReconcilesTabs(t *testing.T) {
	c := NewController()
	c.OpenFetched(chatWith(1))
	c.OpenFetched(chatWith(2))

	// A catalog reload never closes tabs by itself.
	c.SetCatalog([]*types.Chat{chatWith(2)})
	if !equalInts(c.TabOrder(), []int{1, 2}) {
		t.Fatalf("catalog reload disturbed tab order: %v", c.TabOrder())
	}
}
