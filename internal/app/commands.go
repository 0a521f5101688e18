package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"parley/internal/types"
)

const tickInterval = 100 * time.Millisecond

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func fetchChatsCmd(api ChatAPI, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		chats, err := api.ListChats(ctx)
		return chatsMsg{chats: chats, err: err}
	}
}

// openChatCmd re-fetches the chat before it is opened so the tab always
// starts from the backend's current snapshot, not the catalog cache.
func openChatCmd(api ChatAPI, id int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		chat, err := api.GetChat(ctx, id)
		return chatFetchedMsg{id: id, chat: chat, err: err}
	}
}

func createChatCmd(api ChatAPI, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		chat, err := api.CreateChat(ctx)
		return chatCreatedMsg{chat: chat, err: err}
	}
}

func sendMessageCmd(api ChatAPI, tabID string, chatID int, content string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		chat, err := api.SendMessage(ctx, chatID, content)
		return sendResultMsg{tabID: tabID, chat: chat, err: err}
	}
}

func clearHistoryCmd(api ChatAPI, chatID int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		chat, err := api.ClearHistory(ctx, chatID)
		return clearResultMsg{id: chatID, chat: chat, err: err}
	}
}

// deleteChatCmd issues the backend delete; local state is only dropped
// once deleteResultMsg confirms it.
func deleteChatCmd(api ChatAPI, chatID int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := api.DeleteChat(ctx, chatID)
		return deleteResultMsg{id: chatID, err: err}
	}
}

func fetchToolsCmd(api ChatAPI, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		tools, err := api.ListTools(ctx)
		return toolsMsg{tools: tools, err: err}
	}
}

func fetchPromptsCmd(api ChatAPI, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		prompts, err := api.ListSystemPrompts(ctx)
		return promptsMsg{prompts: prompts, err: err}
	}
}

func assignToolCmd(api ChatAPI, chatID, toolID int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		chat, err := api.AssignTool(ctx, chatID, toolID)
		return toolAssignedMsg{id: chatID, chat: chat, err: err}
	}
}

func assignPromptCmd(api ChatAPI, chatID, promptID int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		chat, err := api.AssignSystemPrompt(ctx, chatID, promptID)
		return promptAssignedMsg{id: chatID, chat: chat, err: err}
	}
}

func fetchLLMConfigCmd(api ChatAPI, chatID int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		config, err := api.GetLLMConfig(ctx, chatID)
		return llmConfigMsg{id: chatID, config: config, err: err}
	}
}

func updateLLMConfigCmd(api ChatAPI, chatID int, update types.LLMConfigUpdate, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		chat, err := api.UpdateLLMConfig(ctx, chatID, update)
		return llmConfigUpdatedMsg{id: chatID, chat: chat, err: err}
	}
}
