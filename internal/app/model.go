package app

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"parley/internal/client"
	"parley/internal/config"
	"parley/internal/logging"
	"parley/internal/session"
	"parley/internal/types"
)

const (
	minSidebarWidth  = 20
	maxSidebarWidth  = 32
	minContentWidth  = 24
	minContentHeight = 6
	minPaneWidth     = 20
	minPaneHeight    = 5
	inputHeight      = 3
)

type uiMode int

const (
	uiModeNormal uiMode = iota
	uiModeMenu
	uiModeConfirmDelete
)

type layoutMode int

const (
	layoutSingle layoutMode = iota
	layoutGrid
)

type Model struct {
	api        ChatAPI
	controller *session.Controller
	log        logging.Logger

	sidebar  *Sidebar
	viewport viewport.Model
	input    textarea.Model
	loader   spinner.Model
	menu     *ConfigMenu

	mode           uiMode
	layout         layoutMode
	gridColumns    int
	sidebarVisible bool
	renderMarkdown bool

	tools   []*types.Tool
	prompts []*types.SystemPrompt

	llmConfigs         map[int]types.LLMConfig
	sinceConfigRefresh map[int]int
	configRefreshEvery int
	timeout            time.Duration

	pendingDelete int
	status        string
	width         int
	height        int

	toastText  string
	toastLevel toastLevel
	toastUntil time.Time
}

func NewModel(api ChatAPI, cfg config.Config, log logging.Logger) *Model {
	if log == nil {
		log = logging.Nop()
	}
	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.SetHeight(inputHeight)
	input.ShowLineNumbers = false
	input.Prompt = ""
	input.CharLimit = 0
	input.Focus()

	vp := viewport.New()
	vp.MouseWheelEnabled = true

	loader := spinner.New()
	loader.Spinner = spinner.Dot

	layout := layoutSingle
	if cfg.UI.StartInGrid {
		layout = layoutGrid
	}

	return &Model{
		api:                api,
		controller:         session.NewController(),
		log:                log,
		sidebar:            NewSidebar(minSidebarWidth),
		viewport:           vp,
		input:              input,
		loader:             loader,
		layout:             layout,
		gridColumns:        cfg.GridColumns(),
		sidebarVisible:     true,
		renderMarkdown:     cfg.RenderMarkdown(),
		llmConfigs:         map[int]types.LLMConfig{},
		sinceConfigRefresh: map[int]int{},
		configRefreshEvery: cfg.ConfigRefreshEvery(),
		timeout:            cfg.RequestTimeout(),
	}
}

func Run(api ChatAPI, cfg config.Config, log logging.Logger) error {
	model := NewModel(api, cfg, log)
	p := tea.NewProgram(model)
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(fetchChatsCmd(m.api, m.timeout), fetchToolsCmd(m.api, m.timeout), fetchPromptsCmd(m.api, m.timeout), tickCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tickMsg:
		if m.anyLoading() {
			m.loader, _ = m.loader.Update(spinner.TickMsg{Time: time.Time(msg), ID: m.loader.ID()})
			m.refreshViewport()
		}
		return m, tickCmd()
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	if handled, cmd := m.reduceBackendMessages(msg); handled {
		return m, cmd
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// reduceBackendMessages folds command results into the session state
// machine. Every mutation goes through the controller; the view layers
// only read from it.
func (m *Model) reduceBackendMessages(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case chatsMsg:
		if msg.err != nil {
			m.showErrorToast(client.ErrorMessage(msg.err))
			return true, nil
		}
		m.controller.SetCatalog(msg.chats)
		m.sidebar.SetChats(m.controller.Store().Catalog())
		m.refreshViewport()
		return true, nil
	case chatFetchedMsg:
		if msg.err != nil {
			m.showErrorToast(client.ErrorMessage(msg.err))
			return true, nil
		}
		m.warnBranches(msg.chat)
		m.controller.OpenFetched(msg.chat)
		m.sidebar.SetChats(m.controller.Store().Catalog())
		m.refreshViewport()
		return true, fetchLLMConfigCmd(m.api, msg.id, m.timeout)
	case chatCreatedMsg:
		if msg.err != nil {
			m.showErrorToast(client.ErrorMessage(msg.err))
			return true, nil
		}
		m.controller.OpenFetched(msg.chat)
		m.sidebar.SetChats(m.controller.Store().Catalog())
		m.refreshViewport()
		m.showInfoToast("chat created")
		return true, fetchLLMConfigCmd(m.api, msg.chat.ID, m.timeout)
	case sendResultMsg:
		if msg.err != nil {
			m.controller.FailSend(msg.tabID, client.ErrorMessage(msg.err))
			m.refreshViewport()
			return true, nil
		}
		m.warnBranches(msg.chat)
		appended := m.controller.FinishSend(msg.tabID, msg.chat)
		m.sidebar.SetChats(m.controller.Store().Catalog())
		m.refreshViewport()
		if msg.chat != nil {
			return true, m.noteChatTraffic(msg.chat.ID, len(appended))
		}
		return true, nil
	case clearResultMsg:
		if msg.err != nil {
			m.showErrorToast(client.ErrorMessage(msg.err))
			return true, nil
		}
		m.controller.ApplyChat(msg.chat)
		m.refreshViewport()
		m.showInfoToast("history cleared")
		return true, nil
	case deleteResultMsg:
		if msg.err != nil {
			m.showErrorToast(client.ErrorMessage(msg.err))
			return true, nil
		}
		m.controller.RemoveChat(msg.id)
		m.sidebar.SetChats(m.controller.Store().Catalog())
		m.refreshViewport()
		m.showInfoToast("chat deleted")
		return true, nil
	case toolsMsg:
		if msg.err != nil {
			m.showErrorToast(client.ErrorMessage(msg.err))
			return true, nil
		}
		m.tools = msg.tools
		return true, nil
	case promptsMsg:
		if msg.err != nil {
			m.showErrorToast(client.ErrorMessage(msg.err))
			return true, nil
		}
		m.prompts = msg.prompts
		return true, nil
	case toolAssignedMsg:
		return true, m.applyConfigResult(msg.chat, msg.err, "tool assigned")
	case promptAssignedMsg:
		return true, m.applyConfigResult(msg.chat, msg.err, "system prompt assigned")
	case llmConfigUpdatedMsg:
		cmd := m.applyConfigResult(msg.chat, msg.err, "config updated")
		if msg.err == nil {
			return true, tea.Batch(cmd, fetchLLMConfigCmd(m.api, msg.id, m.timeout))
		}
		return true, cmd
	case llmConfigMsg:
		if msg.err != nil {
			m.showErrorToast(client.ErrorMessage(msg.err))
			return true, nil
		}
		if msg.config != nil {
			m.llmConfigs[msg.id] = *msg.config
		}
		return true, nil
	}
	return false, nil
}

func (m *Model) applyConfigResult(chat *types.Chat, err error, success string) tea.Cmd {
	if err != nil {
		m.showErrorToast(client.ErrorMessage(err))
		return nil
	}
	m.controller.ApplyConfigChange(chat)
	m.sidebar.SetChats(m.controller.Store().Catalog())
	m.refreshViewport()
	m.showInfoToast(success)
	return nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.mode == uiModeMenu && m.menu != nil {
		done, apply := m.menu.HandleKey(msg)
		if !done {
			return m, nil
		}
		menu := m.menu
		m.menu = nil
		m.mode = uiModeNormal
		if !apply {
			return m, nil
		}
		return m, m.applyMenu(menu)
	}
	if m.mode == uiModeConfirmDelete {
		switch msg.String() {
		case "y":
			id := m.pendingDelete
			m.pendingDelete = 0
			m.mode = uiModeNormal
			m.status = "deleting chat"
			return m, deleteChatCmd(m.api, id, m.timeout)
		case "n", "esc":
			m.pendingDelete = 0
			m.mode = uiModeNormal
			m.status = ""
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.clearToast()
		m.status = ""
		return m, nil
	case "enter":
		return m, m.submit()
	case "up":
		m.sidebar.CursorUp()
		return m, nil
	case "down":
		m.sidebar.CursorDown()
		return m, nil
	case "tab":
		m.controller.CycleActive(1)
		m.refreshViewport()
		return m, m.activeConfigRefresh()
	case "shift+tab":
		m.controller.CycleActive(-1)
		m.refreshViewport()
		return m, m.activeConfigRefresh()
	case "ctrl+left", "ctrl+right":
		m.moveActiveTab(msg.String() == "ctrl+right")
		return m, nil
	case "ctrl+n":
		m.status = "creating chat"
		return m, createChatCmd(m.api, m.timeout)
	case "ctrl+r":
		m.status = "refreshing"
		return m, fetchChatsCmd(m.api, m.timeout)
	case "ctrl+w":
		if tabID := m.controller.ActiveTab(); tabID != "" {
			m.controller.CloseTab(tabID)
			m.refreshViewport()
		}
		return m, nil
	case "ctrl+x":
		if open, ok := m.controller.ActiveSession(); ok {
			m.pendingDelete = open.Chat.ID
			m.mode = uiModeConfirmDelete
			m.status = "delete " + open.Chat.Title() + "? y/n"
		}
		return m, nil
	case "ctrl+e":
		if open, ok := m.controller.ActiveSession(); ok {
			m.status = "clearing history"
			return m, clearHistoryCmd(m.api, open.Chat.ID, m.timeout)
		}
		return m, nil
	case "ctrl+g":
		if m.layout == layoutGrid {
			m.layout = layoutSingle
		} else {
			m.layout = layoutGrid
		}
		m.refreshViewport()
		return m, nil
	case "ctrl+b":
		m.sidebarVisible = !m.sidebarVisible
		m.resize(m.width, m.height)
		return m, nil
	case "ctrl+o":
		m.openMenu()
		return m, nil
	case "ctrl+y":
		m.copyLastReply()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the composed message to the active tab; with an empty
// input it opens the sidebar selection instead.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m.openSelected()
	}
	tabID := m.controller.ActiveTab()
	if tabID == "" {
		m.status = "no active chat - open one first"
		return nil
	}
	if !m.controller.BeginSend(tabID, text) {
		m.status = "send already in flight"
		return nil
	}
	m.input.SetValue("")
	m.status = ""
	m.refreshViewport()
	chatID, _ := session.ChatID(tabID)
	return sendMessageCmd(m.api, tabID, chatID, text, m.timeout)
}

// openSelected always re-fetches the selected chat, even when its tab
// is already open: the open transcript may have gone stale while
// another tab had focus.
func (m *Model) openSelected() tea.Cmd {
	chat, ok := m.sidebar.Selected()
	if !ok {
		return nil
	}
	if m.controller.Store().IsOpen(chat.ID) {
		m.controller.SetActive(session.TabID(chat.ID))
		m.refreshViewport()
	} else {
		m.status = "opening " + chat.Title()
	}
	return openChatCmd(m.api, chat.ID, m.timeout)
}

func (m *Model) openMenu() {
	open, ok := m.controller.ActiveSession()
	if !ok {
		m.status = "no active chat"
		return
	}
	cfg, ok := m.llmConfigs[open.Chat.ID]
	if !ok {
		cfg = types.DefaultLLMConfig()
	}
	m.menu = NewConfigMenu(open.Chat, cfg, m.tools, m.prompts)
	m.mode = uiModeMenu
}

func (m *Model) applyMenu(menu *ConfigMenu) tea.Cmd {
	var cmds []tea.Cmd
	if toolID, ok := menu.ToolChange(); ok {
		cmds = append(cmds, assignToolCmd(m.api, menu.ChatID(), toolID, m.timeout))
	}
	if promptID, ok := menu.PromptChange(); ok {
		cmds = append(cmds, assignPromptCmd(m.api, menu.ChatID(), promptID, m.timeout))
	}
	if update, ok := menu.ChangedUpdate(); ok {
		cmds = append(cmds, updateLLMConfigCmd(m.api, menu.ChatID(), update, m.timeout))
	}
	if len(cmds) == 0 {
		return nil
	}
	m.status = "applying settings"
	return tea.Batch(cmds...)
}

func (m *Model) copyLastReply() {
	open, ok := m.controller.ActiveSession()
	if !ok {
		m.status = "no active chat"
		return
	}
	for i := len(open.Messages) - 1; i >= 0; i-- {
		if open.Messages[i].Role == types.RoleAssistant {
			m.copyWithStatus(open.Messages[i].Content, "copied reply")
			return
		}
	}
	m.status = "nothing to copy"
}

func (m *Model) moveActiveTab(right bool) {
	order := m.controller.TabOrder()
	tabID := m.controller.ActiveTab()
	chatID, ok := session.ChatID(tabID)
	if !ok {
		return
	}
	for i, id := range order {
		if id != chatID {
			continue
		}
		to := i - 1
		if right {
			to = i + 1
		}
		if to >= 0 && to < len(order) {
			m.controller.MoveTab(i, to)
		}
		return
	}
}

// activeConfigRefresh re-fetches the focused chat's LLM config so the
// settings menu opens with current values.
func (m *Model) activeConfigRefresh() tea.Cmd {
	open, ok := m.controller.ActiveSession()
	if !ok {
		return nil
	}
	return fetchLLMConfigCmd(m.api, open.Chat.ID, m.timeout)
}

// noteChatTraffic counts confirmed messages per chat and re-fetches the
// chat's LLM config once enough have accumulated, so long-running tabs
// pick up backend-side config drift.
func (m *Model) noteChatTraffic(chatID, appended int) tea.Cmd {
	if appended <= 0 || m.configRefreshEvery <= 0 {
		return nil
	}
	m.sinceConfigRefresh[chatID] += appended
	if m.sinceConfigRefresh[chatID] < m.configRefreshEvery {
		return nil
	}
	m.sinceConfigRefresh[chatID] = 0
	return fetchLLMConfigCmd(m.api, chatID, m.timeout)
}

// warnBranches logs chat histories where a parent uuid is claimed by
// more than one message. The transcript follows the first child, so
// sibling branches are not rendered.
func (m *Model) warnBranches(chat *types.Chat) {
	if chat == nil {
		return
	}
	if branched := session.Branches(chat.History); len(branched) > 0 {
		m.log.Warn("chat history has branching parents",
			logging.F("chat_id", chat.ID),
			logging.F("parents", strings.Join(branched, ",")))
	}
}

func (m *Model) anyLoading() bool {
	for _, id := range m.controller.TabOrder() {
		if open, ok := m.controller.Store().Session(session.TabID(id)); ok && open.IsLoading {
			return true
		}
	}
	return false
}

func (m *Model) refreshViewport() {
	open, ok := m.controller.ActiveSession()
	if !ok {
		m.viewport.SetContent(helpStyle.Render("no chat selected"))
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript(open, m.transcriptWidth()))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) transcriptWidth() int {
	width := m.width
	if m.sidebarVisible && m.layout == layoutSingle {
		width -= m.sidebarWidth() + 1
	}
	return max(minContentWidth, width)
}

func (m *Model) sidebarWidth() int {
	return clamp(m.width/4, minSidebarWidth, maxSidebarWidth)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	contentHeight := max(minContentHeight, height-inputHeight-3)
	m.sidebar.Resize(m.sidebarWidth())
	m.viewport.SetWidth(m.transcriptWidth())
	m.viewport.SetHeight(contentHeight)
	m.input.SetWidth(max(minContentWidth, width-2))
	m.refreshViewport()
}

func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}

	tabBar := m.renderTabBar(m.width)

	var body string
	switch {
	case m.mode == uiModeMenu && m.menu != nil:
		body = m.menu.View()
	case m.layout == layoutGrid:
		body = m.renderGrid(m.width, m.viewport.Height())
	default:
		content := m.viewport.View()
		if m.sidebarVisible {
			sidebarView := m.sidebar.View(m.controller.Store().IsOpen)
			height := max(lipgloss.Height(sidebarView), lipgloss.Height(content))
			if height < 1 {
				height = 1
			}
			divider := strings.Repeat("│\n", height-1) + "│"
			body = lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, dividerStyle.Render(divider), content)
		} else {
			body = content
		}
	}

	statusLine := renderStatusLine(m.width, helpStyle.Render(m.helpText()), statusStyle.Render(m.statusText()))
	lines := []string{tabBar, body, m.input.View(), statusLine}
	if toast := m.toastLine(m.width); toast != "" {
		lines = append(lines, toast)
	}
	v.SetContent(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return v
}

func (m *Model) helpText() string {
	if m.mode == uiModeConfirmDelete {
		return "y confirm · n cancel"
	}
	return "enter send · tab next · ctrl+n new · ctrl+w close · ctrl+o settings · ctrl+g grid · ctrl+c quit"
}

func (m *Model) statusText() string {
	parts := []string{}
	if open, ok := m.controller.ActiveSession(); ok {
		activity := m.controller.Activity().ForChat(open.Chat.ID)
		if activity.Total > 0 {
			parts = append(parts, activityLabel(activity.Messages))
		}
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, " · ")
}

// activityLabel summarizes the per-role message counters for the status
// line, fixed role order so it does not jitter between renders.
func activityLabel(messages map[types.Role]int) string {
	order := []types.Role{types.RoleUser, types.RoleAssistant, types.RoleTool, types.RoleSystem}
	parts := make([]string, 0, len(order))
	for _, role := range order {
		if count := messages[role]; count > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", role, count))
		}
	}
	return strings.Join(parts, " ")
}
