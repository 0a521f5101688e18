package app

import (
	"time"

	"parley/internal/types"
)

type tickMsg time.Time

type chatsMsg struct {
	chats []*types.Chat
	err   error
}

type chatFetchedMsg struct {
	id   int
	chat *types.Chat
	err  error
}

type chatCreatedMsg struct {
	chat *types.Chat
	err  error
}

type sendResultMsg struct {
	tabID string
	chat  *types.Chat
	err   error
}

type clearResultMsg struct {
	id   int
	chat *types.Chat
	err  error
}

type deleteResultMsg struct {
	id  int
	err error
}

type toolsMsg struct {
	tools []*types.Tool
	err   error
}

type promptsMsg struct {
	prompts []*types.SystemPrompt
	err     error
}

type toolAssignedMsg struct {
	id   int
	chat *types.Chat
	err  error
}

type promptAssignedMsg struct {
	id   int
	chat *types.Chat
	err  error
}

type llmConfigMsg struct {
	id     int
	config *types.LLMConfig
	err    error
}

type llmConfigUpdatedMsg struct {
	id   int
	chat *types.Chat
	err  error
}
