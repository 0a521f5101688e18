package session

import (
	"sort"
	"strconv"

	"parley/internal/types"
)

// Open is the transient client-side state of a chat that is open in a
// tab. It wraps the cached authoritative Chat with the optimistic-send
// overlay; it is never persisted.
type Open struct {
	Chat           *types.Chat
	Messages       []types.ChatMessage
	IsLoading      bool
	Error          string
	PreviewMessage string
}

// Store holds the full chat catalog and the subset open in tabs. All
// mutation goes through its methods; operations on unknown tab ids are
// no-ops so a completion racing a close cannot fail.
type Store struct {
	catalog map[int]*types.Chat
	open    map[string]*Open
}

func NewStore() *Store {
	return &Store{
		catalog: map[int]*types.Chat{},
		open:    map[string]*Open{},
	}
}

// TabID is the tab key for a chat: the string form of its id.
func TabID(chatID int) string {
	return strconv.Itoa(chatID)
}

// ChatID parses a tab key back into a chat id.
func ChatID(tabID string) (int, bool) {
	id, err := strconv.Atoi(tabID)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SetCatalog replaces the catalog wholesale. Open sessions whose chat
// came back in the new catalog are refreshed, but only when the fetched
// snapshot actually differs from the cached one.
func (s *Store) SetCatalog(chats []*types.Chat) {
	s.catalog = make(map[int]*types.Chat, len(chats))
	for _, chat := range chats {
		if chat == nil {
			continue
		}
		s.catalog[chat.ID] = chat
		open, ok := s.open[TabID(chat.ID)]
		if !ok || open.Chat.Same(chat) {
			continue
		}
		open.Chat = chat
		open.Messages = Thread(chat.History)
	}
}

// UpsertChat refreshes or adds a single catalog entry, mirroring it into
// the open session when one exists.
func (s *Store) UpsertChat(chat *types.Chat) {
	if chat == nil {
		return
	}
	s.catalog[chat.ID] = chat
	if open, ok := s.open[TabID(chat.ID)]; ok {
		open.Chat = chat
		open.Messages = Thread(chat.History)
	}
}

// OpenSession creates the transient session for a chat. Opening an
// already-open chat leaves the existing session untouched.
func (s *Store) OpenSession(chat *types.Chat) {
	if chat == nil {
		return
	}
	tabID := TabID(chat.ID)
	if _, ok := s.open[tabID]; ok {
		return
	}
	s.catalog[chat.ID] = chat
	s.open[tabID] = &Open{
		Chat:     chat,
		Messages: Thread(chat.History),
	}
}

// CloseSession drops the transient session. The chat stays in the
// catalog; nothing is sent to the backend.
func (s *Store) CloseSession(tabID string) {
	delete(s.open, tabID)
}

// BeginSend flips the session into its optimistic state: loading, with
// the outgoing content held as preview and any prior error cleared.
func (s *Store) BeginSend(tabID, content string) {
	open, ok := s.open[tabID]
	if !ok {
		return
	}
	open.IsLoading = true
	open.PreviewMessage = content
	open.Error = ""
}

// CompleteSend installs the server-confirmed chat and clears the
// optimistic overlay.
func (s *Store) CompleteSend(tabID string, chat *types.Chat) {
	open, ok := s.open[tabID]
	if !ok || chat == nil {
		return
	}
	open.Chat = chat
	open.Messages = Thread(chat.History)
	open.IsLoading = false
	open.PreviewMessage = ""
	s.catalog[chat.ID] = chat
}

// FailSend clears the optimistic overlay and records the error on the
// session. Other sessions are unaffected.
func (s *Store) FailSend(tabID, message string) {
	open, ok := s.open[tabID]
	if !ok {
		return
	}
	open.IsLoading = false
	open.PreviewMessage = ""
	open.Error = message
}

// RemoveChat drops a chat from the catalog, cascading to its open
// session when one exists.
func (s *Store) RemoveChat(chatID int) {
	delete(s.catalog, chatID)
	delete(s.open, TabID(chatID))
}

func (s *Store) Session(tabID string) (*Open, bool) {
	open, ok := s.open[tabID]
	return open, ok
}

func (s *Store) Chat(chatID int) (*types.Chat, bool) {
	chat, ok := s.catalog[chatID]
	return chat, ok
}

func (s *Store) IsOpen(chatID int) bool {
	_, ok := s.open[TabID(chatID)]
	return ok
}

// OpenIDs returns the chat ids of all open sessions in ascending id
// order. This is the catalog-iteration order used for deterministic
// fallback selection; tab order is tracked separately.
func (s *Store) OpenIDs() []int {
	ids := make([]int, 0, len(s.open))
	for tabID := range s.open {
		if id, ok := ChatID(tabID); ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Catalog returns all known chats in ascending id order.
func (s *Store) Catalog() []*types.Chat {
	chats := make([]*types.Chat, 0, len(s.catalog))
	for _, chat := range s.catalog {
		chats = append(chats, chat)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].ID < chats[j].ID })
	return chats
}

func (s *Store) OpenCount() int {
	return len(s.open)
}
