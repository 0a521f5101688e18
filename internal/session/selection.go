package session

// Derived holds the facts projected from the focused session's chat.
// Both ids are nil when nothing is focused or the chat carries no
// assignment.
type Derived struct {
	ToolID         *int
	SystemPromptID *int
}

// Selection tracks which open session has focus. Derivation is a pure
// projection over the store so the view never observes a stale value:
// it is recomputed after every mutation that could change its inputs.
type Selection struct {
	active  string
	derived Derived
}

func (s *Selection) ActiveTab() string {
	return s.active
}

// SetActive moves focus. The empty string clears it.
func (s *Selection) SetActive(tabID string) {
	s.active = tabID
}

// Derive recomputes the projected ids from the focused session.
func (s *Selection) Derive(store *Store) Derived {
	s.derived = Derived{}
	if s.active == "" || store == nil {
		return s.derived
	}
	open, ok := store.Session(s.active)
	if !ok || open.Chat == nil {
		return s.derived
	}
	s.derived = Derived{
		ToolID:         open.Chat.ActiveToolID,
		SystemPromptID: open.Chat.SystemPromptID,
	}
	return s.derived
}

func (s *Selection) Derived() Derived {
	return s.derived
}
