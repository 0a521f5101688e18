package session

import "parley/internal/types"

// CloseFallback chooses the tab to focus after the active tab closes.
// It receives the remaining open chat ids in catalog-iteration order
// and the remaining tab order, and returns the chat id to focus or
// false for none.
type CloseFallback func(openIDs []int, order []int) (int, bool)

// FirstInCatalogOrder is the default fallback: the first remaining open
// chat in catalog-iteration order, not tab order.
func FirstInCatalogOrder(openIDs []int, _ []int) (int, bool) {
	if len(openIDs) == 0 {
		return 0, false
	}
	return openIDs[0], true
}

// Controller is the pure session state machine. It owns the store, the
// tab order, the focus selection, and the activity counters, and keeps
// them consistent by sequencing reconcile and derive after every
// mutation. It performs no I/O: callers fetch from the backend and feed
// results in.
type Controller struct {
	store    *Store
	order    []int
	selected Selection
	activity *Activity
	fallback CloseFallback
}

func NewController() *Controller {
	return &Controller{
		store:    NewStore(),
		activity: NewActivity(),
		fallback: FirstInCatalogOrder,
	}
}

// SetCloseFallback overrides the focus policy applied when the active
// tab closes. A nil policy restores the default.
func (c *Controller) SetCloseFallback(policy CloseFallback) {
	if policy == nil {
		policy = FirstInCatalogOrder
	}
	c.fallback = policy
}

func (c *Controller) Store() *Store       { return c.store }
func (c *Controller) Activity() *Activity { return c.activity }
func (c *Controller) TabOrder() []int     { return c.order }
func (c *Controller) ActiveTab() string   { return c.selected.ActiveTab() }
func (c *Controller) Derived() Derived    { return c.selected.Derived() }

// ActiveSession returns the focused open session, or false when no tab
// has focus.
func (c *Controller) ActiveSession() (*Open, bool) {
	if c.selected.ActiveTab() == "" {
		return nil, false
	}
	return c.store.Session(c.selected.ActiveTab())
}

// SetCatalog replaces the catalog wholesale and refreshes any open
// sessions whose backend snapshot changed.
func (c *Controller) SetCatalog(chats []*types.Chat) {
	c.store.SetCatalog(chats)
	c.sync()
}

// OpenFetched installs a freshly-fetched chat as an open session and
// focuses it. Opening an already-open chat only moves focus.
func (c *Controller) OpenFetched(chat *types.Chat) string {
	if chat == nil {
		return ""
	}
	tabID := TabID(chat.ID)
	if c.store.IsOpen(chat.ID) {
		c.store.UpsertChat(chat)
	} else {
		c.store.OpenSession(chat)
	}
	c.selected.SetActive(tabID)
	c.sync()
	return tabID
}

// CloseTab closes a tab without touching the backend. When the closed
// tab had focus the fallback policy picks the next one.
func (c *Controller) CloseTab(tabID string) {
	if _, ok := c.store.Session(tabID); !ok {
		return
	}
	wasActive := c.selected.ActiveTab() == tabID
	c.store.CloseSession(tabID)
	c.order = Reconcile(c.order, c.store.OpenIDs())
	if wasActive {
		c.applyFallback()
	}
	c.sync()
}

// RemoveChat drops a chat after the backend confirmed the delete,
// cascading to its open tab.
func (c *Controller) RemoveChat(chatID int) {
	tabID := TabID(chatID)
	wasActive := c.selected.ActiveTab() == tabID
	c.store.RemoveChat(chatID)
	c.order = Reconcile(c.order, c.store.OpenIDs())
	if wasActive {
		c.applyFallback()
	}
	c.sync()
}

// SetActive focuses an open tab. Unknown tabs are ignored; the empty
// string clears focus.
func (c *Controller) SetActive(tabID string) {
	if tabID != "" {
		if _, ok := c.store.Session(tabID); !ok {
			return
		}
	}
	c.selected.SetActive(tabID)
	c.sync()
}

// CycleActive moves focus along the tab order by delta, wrapping.
func (c *Controller) CycleActive(delta int) {
	if len(c.order) == 0 {
		return
	}
	current := -1
	if id, ok := ChatID(c.selected.ActiveTab()); ok {
		for i, tab := range c.order {
			if tab == id {
				current = i
				break
			}
		}
	}
	next := current + delta
	if current < 0 {
		next = 0
	}
	next = ((next % len(c.order)) + len(c.order)) % len(c.order)
	c.selected.SetActive(TabID(c.order[next]))
	c.sync()
}

// MoveTab reorders the tab strip. Invalid indices are ignored.
func (c *Controller) MoveTab(from, to int) {
	c.order = Reorder(c.order, from, to)
}

// BeginSend enters the optimistic send state. It reports false when the
// tab is unknown or already has a send outstanding, in which case
// nothing changes and no request should be issued.
func (c *Controller) BeginSend(tabID, content string) bool {
	open, ok := c.store.Session(tabID)
	if !ok || open.IsLoading {
		return false
	}
	c.store.BeginSend(tabID, content)
	return true
}

// FinishSend installs the confirmed chat and feeds the appended history
// suffix to the activity counters. It returns the appended messages.
// A tab closed while the send was in flight makes this a no-op.
func (c *Controller) FinishSend(tabID string, chat *types.Chat) []types.ChatMessage {
	open, ok := c.store.Session(tabID)
	if !ok || chat == nil {
		return nil
	}
	previous := 0
	if open.Chat != nil {
		previous = len(open.Chat.History)
	}
	c.store.CompleteSend(tabID, chat)
	var appended []types.ChatMessage
	if previous < len(chat.History) {
		appended = chat.History[previous:]
	}
	for _, message := range appended {
		c.activity.RecordMessage(chat.ID, message.Role)
	}
	c.sync()
	return appended
}

// FailSend records a per-session error. Safe on unknown tabs.
func (c *Controller) FailSend(tabID, message string) {
	c.store.FailSend(tabID, message)
}

// ApplyChat installs an authoritative snapshot returned by any mutating
// call (clear history, rename) without counting it as a config change.
func (c *Controller) ApplyChat(chat *types.Chat) {
	c.store.UpsertChat(chat)
	c.sync()
}

// ApplyConfigChange installs an authoritative snapshot produced by a
// tool / system-prompt assignment or an LLM config update, and bumps the
// chat's config-change counter.
func (c *Controller) ApplyConfigChange(chat *types.Chat) {
	if chat == nil {
		return
	}
	c.store.UpsertChat(chat)
	c.activity.RecordConfigChange(chat.ID)
	c.sync()
}

func (c *Controller) applyFallback() {
	if id, ok := c.fallback(c.store.OpenIDs(), c.order); ok {
		c.selected.SetActive(TabID(id))
		return
	}
	c.selected.SetActive("")
}

// sync sequences the dependent recomputation after a mutation: tab
// order reconcile first, then the derived selection facts.
func (c *Controller) sync() {
	c.order = Reconcile(c.order, c.store.OpenIDs())
	c.selected.Derive(c.store)
}
