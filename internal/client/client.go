package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"parley/internal/logging"
	"parley/internal/types"
)

const defaultBaseURL = "http://127.0.0.1:8000/api/v1/chats"
const defaultTimeout = 30 * time.Second

// Client talks to the chat backend. The backend owns all persisted
// truth: every mutating call returns the full updated Chat, which the
// caller installs wholesale.
type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

func New() *Client {
	return NewWithBaseURL(defaultBaseURL)
}

func NewWithBaseURL(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		log: logging.Nop(),
	}
}

// SetLogger attaches a logger for request tracing.
func (c *Client) SetLogger(log logging.Logger) {
	if log == nil {
		log = logging.Nop()
	}
	c.log = log
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.http.Timeout = timeout
	}
}

func (c *Client) ListChats(ctx context.Context) ([]*types.Chat, error) {
	var chats []*types.Chat
	if err := c.doJSON(ctx, http.MethodGet, "/", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (c *Client) GetChat(ctx context.Context, id int) (*types.Chat, error) {
	var chat types.Chat
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/%d", id), nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *Client) CreateChat(ctx context.Context) (*types.Chat, error) {
	var chat types.Chat
	if err := c.doJSON(ctx, http.MethodPost, "/", nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int, content string) (*types.Chat, error) {
	var chat types.Chat
	path := fmt.Sprintf("/%d/messages/", chatID)
	if err := c.doJSON(ctx, http.MethodPost, path, SendMessageRequest{Content: content}, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *Client) ClearHistory(ctx context.Context, chatID int) (*types.Chat, error) {
	var chat types.Chat
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/%d/clear", chatID), nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *Client) DeleteChat(ctx context.Context, chatID int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/%d", chatID), nil, nil)
}

func (c *Client) AssignTool(ctx context.Context, chatID, toolID int) (*types.Chat, error) {
	var chat types.Chat
	path := fmt.Sprintf("/%d/tool/%d", chatID, toolID)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *Client) AssignSystemPrompt(ctx context.Context, chatID, promptID int) (*types.Chat, error) {
	var chat types.Chat
	path := fmt.Sprintf("/%d/system_prompt/%d", chatID, promptID)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *Client) ListTools(ctx context.Context) ([]*types.Tool, error) {
	var tools []*types.Tool
	if err := c.doJSON(ctx, http.MethodGet, "/tools/", nil, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

func (c *Client) ListSystemPrompts(ctx context.Context) ([]*types.SystemPrompt, error) {
	var prompts []*types.SystemPrompt
	if err := c.doJSON(ctx, http.MethodGet, "/system_prompts/", nil, &prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

func (c *Client) GetLLMConfig(ctx context.Context, chatID int) (*types.LLMConfig, error) {
	var config types.LLMConfig
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/%d/llm_config", chatID), nil, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Client) UpdateLLMConfig(ctx context.Context, chatID int, update types.LLMConfigUpdate) (*types.Chat, error) {
	var chat types.Chat
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/%d/llm_config", chatID), update, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			logging.F("request_id", requestID),
			logging.F("method", method),
			logging.F("path", path),
			logging.F("error", err.Error()),
		)
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		logging.F("request_id", requestID),
		logging.F("method", method),
		logging.F("path", path),
		logging.F("status", resp.StatusCode),
		logging.F("duration", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	detail := payload.Detail
	if detail == "" {
		detail = payload.Message
	}
	if detail == "" {
		detail = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}

// APIError is a failure the backend reported with an error payload.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Detail)
}

// AsAPIError unwraps a server-reported failure, or nil for transport
// errors.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

const networkErrorMessage = "network error - please check your connection"

// ErrorMessage maps a client error onto the text shown to the user:
// server detail verbatim for reported failures, a generic connectivity
// hint for anything that never produced a response.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr := AsAPIError(err); apiErr != nil {
		return apiErr.Detail
	}
	return networkErrorMessage
}
