package app

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"
)

var (
	rendererMu       sync.Mutex
	renderersByWidth = map[int]*glamour.TermRenderer{}
)

func renderMarkdown(input string, width int) string {
	input = strings.TrimRight(input, "\n")
	if input == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r := getRenderer(width)
	if r == nil {
		return input
	}
	out, err := r.Render(input)
	if err != nil {
		return input
	}
	out = strings.TrimRight(out, "\n")
	out = xansi.Hardwrap(out, width, true)
	return strings.TrimRight(out, "\n")
}

func getRenderer(width int) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if renderer, ok := renderersByWidth[width]; ok && renderer != nil {
		return renderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(buildStyleConfig()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderersByWidth[width] = r
	return r
}

func buildStyleConfig() glamouransi.StyleConfig {
	base := styles.DarkStyleConfig
	// Transcript spacing comes from lipgloss, not Glamour's document
	// prefix/suffix newlines and side margins.
	base.Document.StylePrimitive.BlockPrefix = ""
	base.Document.StylePrimitive.BlockSuffix = ""
	zero := uint(0)
	base.Document.Margin = &zero
	faint := true
	color := "245"
	base.BlockQuote.StylePrimitive.Faint = &faint
	base.BlockQuote.StylePrimitive.Color = &color
	return base
}

// renderJSONPayload renders structured assistant output as an indented
// tree. Schema tools make the assistant reply with raw JSON; prose never
// qualifies.
func renderJSONPayload(content string) (string, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return "", false
	}
	if !json.Valid([]byte(trimmed)) {
		return "", false
	}
	return renderJSONTree([]byte(trimmed), 1), true
}

// renderJSONTree renders a tool-call payload as an indented key tree so
// nested arguments stay readable inside the transcript.
func renderJSONTree(raw []byte, indent int) string {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return strings.TrimSpace(string(raw))
	}
	var b strings.Builder
	writeJSONValue(&b, value, indent)
	return strings.TrimRight(b.String(), "\n")
}

func writeJSONValue(b *strings.Builder, value any, indent int) {
	pad := strings.Repeat("  ", indent)
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			child := v[key]
			if isJSONScalar(child) {
				fmt.Fprintf(b, "%s%s: %s\n", pad, key, formatJSONScalar(child))
				continue
			}
			fmt.Fprintf(b, "%s%s:\n", pad, key)
			writeJSONValue(b, child, indent+1)
		}
	case []any:
		for _, item := range v {
			if isJSONScalar(item) {
				fmt.Fprintf(b, "%s- %s\n", pad, formatJSONScalar(item))
				continue
			}
			fmt.Fprintf(b, "%s-\n", pad)
			writeJSONValue(b, item, indent+1)
		}
	default:
		fmt.Fprintf(b, "%s%s\n", pad, formatJSONScalar(v))
	}
}

func isJSONScalar(value any) bool {
	switch value.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}

func formatJSONScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}
