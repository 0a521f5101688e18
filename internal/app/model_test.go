package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"parley/internal/config"
	"parley/internal/session"
	"parley/internal/types"
)

const testTimeout = 5 * time.Second

type fakeAPI struct {
	chats     map[int]*types.Chat
	nextID    int
	tools     []*types.Tool
	prompts   []*types.SystemPrompt
	configs   map[int]types.LLMConfig
	sendErr   error
	deleteErr error

	configFetches int
}

func newFakeAPI(chats ...*types.Chat) *fakeAPI {
	api := &fakeAPI{
		chats:   map[int]*types.Chat{},
		nextID:  100,
		configs: map[int]types.LLMConfig{},
	}
	for _, chat := range chats {
		api.chats[chat.ID] = chat
	}
	return api
}

func (f *fakeAPI) ListChats(context.Context) ([]*types.Chat, error) {
	chats := make([]*types.Chat, 0, len(f.chats))
	for _, chat := range f.chats {
		chats = append(chats, chat)
	}
	return chats, nil
}

func (f *fakeAPI) GetChat(_ context.Context, id int) (*types.Chat, error) {
	chat, ok := f.chats[id]
	if !ok {
		return nil, errors.New("chat not found")
	}
	return chat, nil
}

func (f *fakeAPI) CreateChat(context.Context) (*types.Chat, error) {
	f.nextID++
	chat := &types.Chat{ID: f.nextID}
	f.chats[chat.ID] = chat
	return chat, nil
}

func (f *fakeAPI) SendMessage(_ context.Context, chatID int, content string) (*types.Chat, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	prior, ok := f.chats[chatID]
	if !ok {
		return nil, errors.New("chat not found")
	}
	next := *prior
	next.History = append(append([]types.ChatMessage{}, prior.History...),
		types.ChatMessage{UUID: fmt.Sprintf("u%d", len(prior.History)+1), Role: types.RoleUser, Content: content},
		types.ChatMessage{UUID: fmt.Sprintf("a%d", len(prior.History)+2), Role: types.RoleAssistant, Content: "reply to " + content},
	)
	for i := 1; i < len(next.History); i++ {
		next.History[i].ParentMessageUUID = next.History[i-1].UUID
	}
	f.chats[chatID] = &next
	return &next, nil
}

func (f *fakeAPI) ClearHistory(_ context.Context, chatID int) (*types.Chat, error) {
	prior, ok := f.chats[chatID]
	if !ok {
		return nil, errors.New("chat not found")
	}
	next := *prior
	next.History = nil
	f.chats[chatID] = &next
	return &next, nil
}

func (f *fakeAPI) DeleteChat(_ context.Context, chatID int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.chats, chatID)
	return nil
}

func (f *fakeAPI) AssignTool(_ context.Context, chatID, toolID int) (*types.Chat, error) {
	prior, ok := f.chats[chatID]
	if !ok {
		return nil, errors.New("chat not found")
	}
	next := *prior
	next.ActiveToolID = &toolID
	f.chats[chatID] = &next
	return &next, nil
}

func (f *fakeAPI) AssignSystemPrompt(_ context.Context, chatID, promptID int) (*types.Chat, error) {
	prior, ok := f.chats[chatID]
	if !ok {
		return nil, errors.New("chat not found")
	}
	next := *prior
	next.SystemPromptID = &promptID
	f.chats[chatID] = &next
	return &next, nil
}

func (f *fakeAPI) ListTools(context.Context) ([]*types.Tool, error) {
	return f.tools, nil
}

func (f *fakeAPI) ListSystemPrompts(context.Context) ([]*types.SystemPrompt, error) {
	return f.prompts, nil
}

func (f *fakeAPI) GetLLMConfig(_ context.Context, chatID int) (*types.LLMConfig, error) {
	f.configFetches++
	cfg, ok := f.configs[chatID]
	if !ok {
		cfg = types.DefaultLLMConfig()
	}
	return &cfg, nil
}

func (f *fakeAPI) UpdateLLMConfig(_ context.Context, chatID int, update types.LLMConfigUpdate) (*types.Chat, error) {
	cfg, ok := f.configs[chatID]
	if !ok {
		cfg = types.DefaultLLMConfig()
	}
	if update.MaxTokens != nil {
		cfg.MaxTokens = *update.MaxTokens
	}
	if update.Temperature != nil {
		cfg.Temperature = *update.Temperature
	}
	if update.ResponseFormat != nil {
		cfg.ResponseFormat = *update.ResponseFormat
	}
	f.configs[chatID] = cfg
	chat, okChat := f.chats[chatID]
	if !okChat {
		return nil, errors.New("chat not found")
	}
	return chat, nil
}

func newTestModel(api ChatAPI) *Model {
	m := NewModel(api, config.DefaultConfig(), nil)
	m.resize(100, 30)
	return m
}

// deliver executes a command and feeds every resulting message back into
// the model, following batches recursively.
func deliver(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			deliver(t, m, sub)
		}
		return
	}
	_, next := m.Update(msg)
	deliver(t, m, next)
}

func openChat(t *testing.T, m *Model, api *fakeAPI, id int) {
	t.Helper()
	deliver(t, m, openChatCmd(api, id, testTimeout))
	if m.controller.ActiveTab() != session.TabID(id) {
		t.Fatalf("chat %d should be open and active, got %q", id, m.controller.ActiveTab())
	}
}

func TestCatalogLoadPopulatesSidebar(t *testing.T) {
	api := newFakeAPI(&types.Chat{ID: 1, Name: "alpha"}, &types.Chat{ID: 2, Name: "beta"})
	m := newTestModel(api)

	deliver(t, m, fetchChatsCmd(api, testTimeout))

	if got := len(m.controller.Store().Catalog()); got != 2 {
		t.Fatalf("expected 2 catalog chats, got %d", got)
	}
	if m.controller.Store().OpenCount() != 0 {
		t.Fatalf("catalog load must not open tabs")
	}
	if _, ok := m.sidebar.Selected(); !ok {
		t.Fatalf("sidebar should have a selection")
	}
}

func TestOpenSelectedFetchesBeforeOpening(t *testing.T) {
	api := newFakeAPI(&types.Chat{ID: 3, Name: "gamma", History: []types.ChatMessage{
		{UUID: "m1", Role: types.RoleUser, Content: "hi"},
	}})
	m := newTestModel(api)
	deliver(t, m, fetchChatsCmd(api, testTimeout))

	// Backend history grows after the catalog snapshot; opening must
	// pick up the fresh version.
	api.chats[3].History = append(api.chats[3].History,
		types.ChatMessage{UUID: "m2", ParentMessageUUID: "m1", Role: types.RoleAssistant, Content: "hello"})

	deliver(t, m, m.openSelected())

	open, ok := m.controller.Store().Session("3")
	if !ok {
		t.Fatalf("chat 3 should be open")
	}
	if len(open.Messages) != 2 {
		t.Fatalf("expected refreshed history of 2 messages, got %d", len(open.Messages))
	}
	if m.controller.ActiveTab() != "3" {
		t.Fatalf("opened chat should take focus, got %q", m.controller.ActiveTab())
	}
}

func TestReselectingOpenChatRefetches(t *testing.T) {
	api := newFakeAPI(
		&types.Chat{ID: 3, Name: "gamma", History: []types.ChatMessage{
			{UUID: "m1", Role: types.RoleUser, Content: "hi"},
		}},
		&types.Chat{ID: 4, Name: "delta"},
	)
	m := newTestModel(api)
	deliver(t, m, fetchChatsCmd(api, testTimeout))
	openChat(t, m, api, 3)
	openChat(t, m, api, 4)

	// Chat 3 grows on the backend while tab 4 has focus; reselecting it
	// from the sidebar must refresh the open transcript, not just
	// refocus the stale one.
	api.chats[3].History = append(api.chats[3].History,
		types.ChatMessage{UUID: "m2", ParentMessageUUID: "m1", Role: types.RoleAssistant, Content: "hello"})

	m.sidebar.cursor = 0
	deliver(t, m, m.openSelected())

	open, ok := m.controller.Store().Session("3")
	if !ok {
		t.Fatalf("chat 3 should still be open")
	}
	if len(open.Messages) != 2 {
		t.Fatalf("reselecting an open chat should re-fetch, messages=%d want 2", len(open.Messages))
	}
	if m.controller.ActiveTab() != "3" {
		t.Fatalf("reselected chat should take focus, got %q", m.controller.ActiveTab())
	}
}

func TestSubmitOptimisticSendAndConfirm(t *testing.T) {
	api := newFakeAPI(&types.Chat{ID: 1})
	m := newTestModel(api)
	deliver(t, m, fetchChatsCmd(api, testTimeout))
	openChat(t, m, api, 1)

	m.input.SetValue("hello")
	cmd := m.submit()
	if cmd == nil {
		t.Fatalf("submit should issue a send command")
	}

	open, _ := m.controller.Store().Session("1")
	if !open.IsLoading || open.PreviewMessage != "hello" {
		t.Fatalf("expected optimistic overlay, got loading=%t preview=%q", open.IsLoading, open.PreviewMessage)
	}
	if m.input.Value() != "" {
		t.Fatalf("input should clear on send")
	}

	deliver(t, m, cmd)

	open, _ = m.controller.Store().Session("1")
	if open.IsLoading || open.PreviewMessage != "" {
		t.Fatalf("overlay should clear on completion")
	}
	if len(open.Messages) != 2 {
		t.Fatalf("expected confirmed history of 2, got %d", len(open.Messages))
	}
	activity := m.controller.Activity().ForChat(1)
	if activity.Messages[types.RoleUser] != 1 || activity.Messages[types.RoleAssistant] != 1 {
		t.Fatalf("unexpected activity counters: %+v", activity.Messages)
	}
}

func TestSendFailureIsIsolatedPerSession(t *testing.T) {
	api := newFakeAPI(&types.Chat{ID: 1}, &types.Chat{ID: 2})
	m := newTestModel(api)
	deliver(t, m, fetchChatsCmd(api, testTimeout))
	openChat(t, m, api, 1)
	openChat(t, m, api, 2)

	m.controller.SetActive("1")
	api.sendErr = errors.New("boom")
	m.input.SetValue("hello")
	deliver(t, m, m.submit())

	one, _ := m.controller.Store().Session("1")
	if one.Error == "" || one.IsLoading {
		t.Fatalf("failed send should set the session error, got %+v", one)
	}
	if !strings.Contains(one.Error, "network error") {
		t.Fatalf("transport failures map to the network message, got %q", one.Error)
	}
	two, _ := m.controller.Store().Session("2")
	if two.Error != "" {
		t.Fatalf("other sessions must be unaffected, got %q", two.Error)
	}

	// Retry clears the error.
	api.sendErr = nil
	m.input.SetValue("again")
	deliver(t, m, m.submit())
	one, _ = m.controller.Store().Session("1")
	if one.Error != "" {
		t.Fatalf("successful retry should clear the error, got %q", one.Error)
	}
}

func TestSubmitWhileLoadingIsRejected(t *testing.T) {
	api := newFakeAPI(&types.Chat{ID: 1})
	m := newTestModel(api)
	deliver(t, m, fetchChatsCmd(api, testTimeout))
	openChat(t, m, api, 1)

	m.input.SetValue("first")
	if cmd := m.submit(); cmd == nil {
		t.Fatalf("first send should go out")
	}
	m.input.SetValue("second")
	if cmd := m.submit(); cmd != nil {
		t.Fatalf("second send must be rejected while the first is in flight")
	}
}

func TestDeleteIsBackendFirst(t *testing.T) {
	api := newFakeAPI(&types.Chat{ID: 1}, &types.Chat{ID: 2})
	m := newTestModel(api)
	deliver(t, m, fetchChatsCmd(api, testTimeout))
	openChat(t, m, api, 1)

	api.deleteErr = errors.New("backend down")
	deliver(t, m, deleteChatCmd(api, 1, testTimeout))
	if _, ok := m.controller.Store().Chat(1); !ok {
		t.Fatalf("failed delete must leave local state intact")
	}

	api.deleteErr = nil
	deliver(t, m, deleteChatCmd(api, 1, testTimeout))
	if _, ok := m.controller.Store().Chat(1); ok {
		t.Fatalf("confirmed delete should drop the chat")
	}
	if m.controller.Store().IsOpen(1) {
		t.Fatalf("delete should cascade to the open tab")
	}
}

func TestConfigRefreshAfterEnoughTraffic(t *testing.T) {
	api := newFakeAPI(&types.Chat{ID: 1})
	m := newTestModel(api)
	m.configRefreshEvery = 4
	deliver(t, m, fetchChatsCmd(api, testTimeout))
	openChat(t, m, api, 1)
	fetchesAfterOpen := api.configFetches

	m.input.SetValue("one")
	deliver(t, m, m.submit())
	if api.configFetches != fetchesAfterOpen {
		t.Fatalf("two messages should not trigger a refresh yet")
	}

	m.input.SetValue("two")
	deliver(t, m, m.submit())
	if api.configFetches != fetchesAfterOpen+1 {
		t.Fatalf("expected a config refresh after four messages, fetches=%d", api.configFetches)
	}
}

func TestLateSendCompletionAfterCloseIsNoOp(t *testing.T) {
	api := newFakeAPI(&types.Chat{ID: 1})
	m := newTestModel(api)
	deliver(t, m, fetchChatsCmd(api, testTimeout))
	openChat(t, m, api, 1)

	m.input.SetValue("hello")
	cmd := m.submit()
	m.controller.CloseTab("1")

	deliver(t, m, cmd)

	if m.controller.Store().IsOpen(1) {
		t.Fatalf("late completion must not reopen the closed tab")
	}
}

func TestMenuApplyIssuesOnlyChangedFields(t *testing.T) {
	toolID := 7
	api := newFakeAPI(&types.Chat{ID: 1, ActiveToolID: &toolID})
	api.tools = []*types.Tool{{ID: 7, Name: "search", IsCallable: true}, {ID: 8, Name: "calc", IsCallable: true}}
	m := newTestModel(api)
	deliver(t, m, fetchChatsCmd(api, testTimeout))
	deliver(t, m, fetchToolsCmd(api, testTimeout))
	openChat(t, m, api, 1)

	m.openMenu()
	if m.mode != uiModeMenu || m.menu == nil {
		t.Fatalf("menu should be open")
	}

	// Raise temperature, leave everything else alone.
	m.menu.cursor = configFieldTemperature
	m.menu.adjust(1)

	update, changed := m.menu.ChangedUpdate()
	if !changed || update.Temperature == nil {
		t.Fatalf("expected a temperature-only update, got %+v", update)
	}
	if update.MaxTokens != nil || update.ResponseFormat != nil {
		t.Fatalf("unchanged fields must stay nil")
	}
	if _, ok := m.menu.ToolChange(); ok {
		t.Fatalf("tool did not change")
	}

	deliver(t, m, m.applyMenu(m.menu))
	if got := api.configs[1].Temperature; got != 0.1 {
		t.Fatalf("expected temperature 0.1 applied, got %g", got)
	}
	if m.controller.Activity().ForChat(1).ConfigChanges != 1 {
		t.Fatalf("config update should count as a config change")
	}
}

func TestCloseFallbackFollowsCatalogOrder(t *testing.T) {
	api := newFakeAPI(&types.Chat{ID: 1}, &types.Chat{ID: 2}, &types.Chat{ID: 3})
	m := newTestModel(api)
	deliver(t, m, fetchChatsCmd(api, testTimeout))
	openChat(t, m, api, 2)
	openChat(t, m, api, 3)
	openChat(t, m, api, 1)

	m.controller.CloseTab("1")
	if m.controller.ActiveTab() != "2" {
		t.Fatalf("fallback should pick the lowest remaining id, got %q", m.controller.ActiveTab())
	}
}

type deadlineAPI struct {
	*fakeAPI
	deadline time.Time
}

func (d *deadlineAPI) ListChats(ctx context.Context) ([]*types.Chat, error) {
	d.deadline, _ = ctx.Deadline()
	return d.fakeAPI.ListChats(ctx)
}

func TestCommandsHonorConfiguredTimeout(t *testing.T) {
	api := &deadlineAPI{fakeAPI: newFakeAPI(&types.Chat{ID: 1})}

	before := time.Now()
	if msg := fetchChatsCmd(api, 90*time.Second)(); msg == nil {
		t.Fatalf("command produced no message")
	}
	if remaining := api.deadline.Sub(before); remaining < time.Minute {
		t.Fatalf("configured timeout not applied, deadline only %v away", remaining)
	}

	cfg := config.DefaultConfig()
	cfg.Backend.TimeoutSeconds = 90
	m := NewModel(api, cfg, nil)
	if m.timeout != 90*time.Second {
		t.Fatalf("model should carry the configured timeout, got %v", m.timeout)
	}
}
