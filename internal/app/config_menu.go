package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"parley/internal/types"
)

type configMenuField int

const (
	configFieldTool configMenuField = iota
	configFieldPrompt
	configFieldMaxTokens
	configFieldTemperature
	configFieldResponseFormat
	configFieldCount
)

const maxTokensStep = 256
const temperatureStep = 0.1

var responseFormats = []types.ResponseFormat{
	types.ResponseFormatText,
	types.ResponseFormatTool,
	types.ResponseFormatAutoTools,
}

// ConfigMenu edits a chat's tool, system prompt, and LLM parameters as a
// local draft. Nothing reaches the backend until the draft is applied;
// ChangedUpdate reports only the fields that differ from the snapshot
// the menu opened with.
type ConfigMenu struct {
	chatID  int
	tools   []*types.Tool
	prompts []*types.SystemPrompt

	toolIndex   int
	promptIndex int
	config      types.LLMConfig

	baseToolIndex   int
	basePromptIndex int
	baseConfig      types.LLMConfig

	cursor configMenuField
}

func NewConfigMenu(chat *types.Chat, config types.LLMConfig, tools []*types.Tool, prompts []*types.SystemPrompt) *ConfigMenu {
	menu := &ConfigMenu{
		chatID:      chat.ID,
		tools:       tools,
		prompts:     prompts,
		toolIndex:   -1,
		promptIndex: -1,
		config:      config,
	}
	if chat.ActiveToolID != nil {
		for i, tool := range tools {
			if tool.ID == *chat.ActiveToolID {
				menu.toolIndex = i
				break
			}
		}
	}
	if chat.SystemPromptID != nil {
		for i, prompt := range prompts {
			if prompt.ID == *chat.SystemPromptID {
				menu.promptIndex = i
				break
			}
		}
	}
	menu.baseToolIndex = menu.toolIndex
	menu.basePromptIndex = menu.promptIndex
	menu.baseConfig = menu.config
	return menu
}

func (c *ConfigMenu) ChatID() int {
	return c.chatID
}

// HandleKey consumes a key while the menu is open. It reports done when
// the menu should close and apply when the draft should be submitted.
func (c *ConfigMenu) HandleKey(msg tea.KeyMsg) (done, apply bool) {
	switch msg.String() {
	case "esc":
		return true, false
	case "enter":
		return true, true
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
	case "down", "j":
		if c.cursor < configFieldCount-1 {
			c.cursor++
		}
	case "left", "h":
		c.adjust(-1)
	case "right", "l":
		c.adjust(1)
	}
	return false, false
}

func (c *ConfigMenu) adjust(direction int) {
	switch c.cursor {
	case configFieldTool:
		c.toolIndex = cycleIndex(c.toolIndex, len(c.tools), direction)
	case configFieldPrompt:
		c.promptIndex = cycleIndex(c.promptIndex, len(c.prompts), direction)
	case configFieldMaxTokens:
		c.config.MaxTokens = clamp(c.config.MaxTokens+direction*maxTokensStep, types.MaxTokensFloor, types.MaxTokensCeiling)
	case configFieldTemperature:
		temperature := c.config.Temperature + float64(direction)*temperatureStep
		if temperature < 0 {
			temperature = 0
		}
		if temperature > 1 {
			temperature = 1
		}
		c.config.Temperature = temperature
	case configFieldResponseFormat:
		current := 0
		for i, format := range responseFormats {
			if format == c.config.ResponseFormat {
				current = i
				break
			}
		}
		next := ((current+direction)%len(responseFormats) + len(responseFormats)) % len(responseFormats)
		c.config.ResponseFormat = responseFormats[next]
	}
}

// cycleIndex walks a selection list including the "none" slot at -1.
func cycleIndex(index, length, direction int) int {
	if length == 0 {
		return -1
	}
	index += direction
	if index < -1 {
		return length - 1
	}
	if index >= length {
		return -1
	}
	return index
}

// ToolChange returns the newly selected tool id when the draft differs
// from the snapshot the menu opened with.
func (c *ConfigMenu) ToolChange() (int, bool) {
	if c.toolIndex == c.baseToolIndex || c.toolIndex < 0 {
		return 0, false
	}
	return c.tools[c.toolIndex].ID, true
}

func (c *ConfigMenu) PromptChange() (int, bool) {
	if c.promptIndex == c.basePromptIndex || c.promptIndex < 0 {
		return 0, false
	}
	return c.prompts[c.promptIndex].ID, true
}

// ChangedUpdate builds the partial LLM config update, with nil fields
// for anything unchanged.
func (c *ConfigMenu) ChangedUpdate() (types.LLMConfigUpdate, bool) {
	var update types.LLMConfigUpdate
	changed := false
	if c.config.MaxTokens != c.baseConfig.MaxTokens {
		value := c.config.MaxTokens
		update.MaxTokens = &value
		changed = true
	}
	if c.config.Temperature != c.baseConfig.Temperature {
		value := c.config.Temperature
		update.Temperature = &value
		changed = true
	}
	if c.config.ResponseFormat != c.baseConfig.ResponseFormat {
		value := c.config.ResponseFormat
		update.ResponseFormat = &value
		changed = true
	}
	return update, changed
}

func (c *ConfigMenu) View() string {
	rows := []string{menuHeaderStyle.Render(" Chat settings ")}
	for field := configMenuField(0); field < configFieldCount; field++ {
		label, value := c.fieldText(field)
		line := fmt.Sprintf("%-16s %s", label, value)
		if field == c.cursor {
			line = menuSelectedStyle.Render(line)
		} else {
			line = menuItemStyle.Render(line)
		}
		rows = append(rows, line)
	}
	rows = append(rows, helpStyle.Render("←/→ change · ↑/↓ move · enter apply · esc cancel"))
	return strings.Join(rows, "\n")
}

func (c *ConfigMenu) fieldText(field configMenuField) (label, value string) {
	switch field {
	case configFieldTool:
		value = "none"
		if c.toolIndex >= 0 && c.toolIndex < len(c.tools) {
			value = c.tools[c.toolIndex].DisplayName()
		}
		return "Tool", value
	case configFieldPrompt:
		value = "none"
		if c.promptIndex >= 0 && c.promptIndex < len(c.prompts) {
			value = c.prompts[c.promptIndex].Name
		}
		return "System prompt", value
	case configFieldMaxTokens:
		return "Max tokens", fmt.Sprintf("%d", c.config.MaxTokens)
	case configFieldTemperature:
		return "Temperature", fmt.Sprintf("%.1f", c.config.Temperature)
	case configFieldResponseFormat:
		return "Response format", string(c.config.ResponseFormat)
	default:
		return "", ""
	}
}
