package types

type ResponseFormat string

const (
	ResponseFormatText      ResponseFormat = "text"
	ResponseFormatTool      ResponseFormat = "tool"
	ResponseFormatAutoTools ResponseFormat = "auto_tools"
)

const (
	MaxTokensFloor   = 1
	MaxTokensCeiling = 16384
)

type LLMConfig struct {
	MaxTokens      int            `json:"max_tokens"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat ResponseFormat `json:"response_format"`
}

// LLMConfigUpdate carries a partial configuration change; nil fields are
// left untouched by the backend.
type LLMConfigUpdate struct {
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		MaxTokens:      2500,
		Temperature:    0,
		ResponseFormat: ResponseFormatTool,
	}
}
