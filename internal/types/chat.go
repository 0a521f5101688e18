package types

import (
	"strconv"
	"strings"
)

const chatTitleWords = 3

type Chat struct {
	ID             int           `json:"id"`
	Name           string        `json:"name,omitempty"`
	History        []ChatMessage `json:"history"`
	SystemPromptID *int          `json:"system_prompt_id,omitempty"`
	ActiveToolID   *int          `json:"active_tool_id,omitempty"`
	AutoToolIDs    []int         `json:"auto_tools_ids,omitempty"`
	CreatedAt      string        `json:"created_at,omitempty"`
}

// Title returns the display name: the explicit name when set, otherwise
// the first words of the first user message, otherwise "Chat {id}".
func (c *Chat) Title() string {
	if c == nil {
		return ""
	}
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	for _, message := range c.History {
		if message.Role != RoleUser {
			continue
		}
		words := strings.Fields(message.Content)
		if len(words) == 0 {
			break
		}
		if len(words) > chatTitleWords {
			words = words[:chatTitleWords]
		}
		return strings.Join(words, " ")
	}
	return "Chat " + strconv.Itoa(c.ID)
}

// LastMessage returns the most recently appended message, or false when
// the history is empty.
func (c *Chat) LastMessage() (ChatMessage, bool) {
	if c == nil || len(c.History) == 0 {
		return ChatMessage{}, false
	}
	return c.History[len(c.History)-1], true
}

// Same reports whether two chat snapshots carry identical content. It is
// used to skip redundant refreshes when a catalog reload returns the
// state the client already holds.
func (c *Chat) Same(other *Chat) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.ID != other.ID || c.Name != other.Name {
		return false
	}
	if !intPtrEqual(c.SystemPromptID, other.SystemPromptID) {
		return false
	}
	if !intPtrEqual(c.ActiveToolID, other.ActiveToolID) {
		return false
	}
	if len(c.AutoToolIDs) != len(other.AutoToolIDs) {
		return false
	}
	for i, id := range c.AutoToolIDs {
		if other.AutoToolIDs[i] != id {
			return false
		}
	}
	if len(c.History) != len(other.History) {
		return false
	}
	for i, message := range c.History {
		theirs := other.History[i]
		if message.UUID != theirs.UUID || message.Content != theirs.Content || message.Role != theirs.Role {
			return false
		}
		if message.ToolName != theirs.ToolName || message.ToolCallID != theirs.ToolCallID {
			return false
		}
		if string(message.ToolCall) != string(theirs.ToolCall) {
			return false
		}
	}
	return true
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
