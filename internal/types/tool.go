package types

type Tool struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SchemaName  string `json:"schema_name,omitempty"`
	IsCallable  bool   `json:"is_callable"`
}

// DisplayName returns the name shown in tab decorations: callable tools
// go by their function name, schema-only tools by the schema name.
func (t *Tool) DisplayName() string {
	if t == nil {
		return ""
	}
	if t.IsCallable || t.SchemaName == "" {
		return t.Name
	}
	return t.SchemaName
}

type SystemPrompt struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
}
