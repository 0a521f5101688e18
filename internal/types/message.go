package types

import "encoding/json"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

type ChatMessage struct {
	UUID              string          `json:"uuid"`
	ParentMessageUUID string          `json:"parent_message_uuid,omitempty"`
	Role              Role            `json:"role"`
	Content           string          `json:"content"`
	ToolName          string          `json:"tool_name,omitempty"`
	ToolCallID        string          `json:"tool_call_id,omitempty"`
	ToolCall          json.RawMessage `json:"tool_call,omitempty"`
	CreatedAt         string          `json:"created_at,omitempty"`
}

// IsRoot reports whether the message starts a chain, i.e. it has no
// parent reference at all.
func (m ChatMessage) IsRoot() bool {
	return m.ParentMessageUUID == ""
}
