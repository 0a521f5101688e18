package app

import (
	"context"

	"parley/internal/client"
	"parley/internal/types"
)

// ChatAPI is the backend surface the UI depends on. Tests substitute a
// fake; production wires the HTTP client.
type ChatAPI interface {
	ListChats(ctx context.Context) ([]*types.Chat, error)
	GetChat(ctx context.Context, id int) (*types.Chat, error)
	CreateChat(ctx context.Context) (*types.Chat, error)
	SendMessage(ctx context.Context, chatID int, content string) (*types.Chat, error)
	ClearHistory(ctx context.Context, chatID int) (*types.Chat, error)
	DeleteChat(ctx context.Context, chatID int) error
	AssignTool(ctx context.Context, chatID, toolID int) (*types.Chat, error)
	AssignSystemPrompt(ctx context.Context, chatID, promptID int) (*types.Chat, error)
	ListTools(ctx context.Context) ([]*types.Tool, error)
	ListSystemPrompts(ctx context.Context) ([]*types.SystemPrompt, error)
	GetLLMConfig(ctx context.Context, chatID int) (*types.LLMConfig, error)
	UpdateLLMConfig(ctx context.Context, chatID int, update types.LLMConfigUpdate) (*types.Chat, error)
}

type ClientAPI struct {
	client *client.Client
}

func NewClientAPI(client *client.Client) *ClientAPI {
	return &ClientAPI{client: client}
}

func (a *ClientAPI) ListChats(ctx context.Context) ([]*types.Chat, error) {
	return a.client.ListChats(ctx)
}

func (a *ClientAPI) GetChat(ctx context.Context, id int) (*types.Chat, error) {
	return a.client.GetChat(ctx, id)
}

func (a *ClientAPI) CreateChat(ctx context.Context) (*types.Chat, error) {
	return a.client.CreateChat(ctx)
}

func (a *ClientAPI) SendMessage(ctx context.Context, chatID int, content string) (*types.Chat, error) {
	return a.client.SendMessage(ctx, chatID, content)
}

func (a *ClientAPI) ClearHistory(ctx context.Context, chatID int) (*types.Chat, error) {
	return a.client.ClearHistory(ctx, chatID)
}

func (a *ClientAPI) DeleteChat(ctx context.Context, chatID int) error {
	return a.client.DeleteChat(ctx, chatID)
}

func (a *ClientAPI) AssignTool(ctx context.Context, chatID, toolID int) (*types.Chat, error) {
	return a.client.AssignTool(ctx, chatID, toolID)
}

func (a *ClientAPI) AssignSystemPrompt(ctx context.Context, chatID, promptID int) (*types.Chat, error) {
	return a.client.AssignSystemPrompt(ctx, chatID, promptID)
}

func (a *ClientAPI) ListTools(ctx context.Context) ([]*types.Tool, error) {
	return a.client.ListTools(ctx)
}

func (a *ClientAPI) ListSystemPrompts(ctx context.Context) ([]*types.SystemPrompt, error) {
	return a.client.ListSystemPrompts(ctx)
}

func (a *ClientAPI) GetLLMConfig(ctx context.Context, chatID int) (*types.LLMConfig, error) {
	return a.client.GetLLMConfig(ctx, chatID)
}

func (a *ClientAPI) UpdateLLMConfig(ctx context.Context, chatID int, update types.LLMConfigUpdate) (*types.Chat, error) {
	return a.client.UpdateLLMConfig(ctx, chatID, update)
}
