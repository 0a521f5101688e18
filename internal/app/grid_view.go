package app

import (
	"strings"

	"charm.land/lipgloss/v2"

	"parley/internal/session"
)

// renderGrid tiles every open tab into panes, tab order left to right,
// top to bottom. The active pane carries the highlighted border and is
// the one the input line feeds.
func (m *Model) renderGrid(width, height int) string {
	order := m.controller.TabOrder()
	if len(order) == 0 {
		return helpStyle.Render("no open chats - ctrl+n to start one")
	}
	columns := min(gridColumnsFor(len(order)), clamp(m.gridColumns, 1, 3))
	// The grid caps at 3x3; older tabs past that stay reachable through
	// the tab bar and single view.
	if len(order) > columns*3 {
		order = order[:columns*3]
	}
	rows := (len(order) + columns - 1) / columns
	paneWidth := max(minPaneWidth, width/columns-2)
	paneHeight := max(minPaneHeight, height/rows-2)

	active := m.controller.ActiveTab()
	var rowViews []string
	for start := 0; start < len(order); start += columns {
		end := min(start+columns, len(order))
		panes := make([]string, 0, columns)
		for _, chatID := range order[start:end] {
			tabID := session.TabID(chatID)
			open, ok := m.controller.Store().Session(tabID)
			if !ok {
				continue
			}
			panes = append(panes, m.renderPane(open, tabID == active, paneWidth, paneHeight))
		}
		rowViews = append(rowViews, lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rowViews...)
}

// gridColumnsFor derives the column count from how many panes are open.
func gridColumnsFor(count int) int {
	switch {
	case count <= 1:
		return 1
	case count <= 2:
		return 2
	default:
		return 3
	}
}

func (m *Model) renderPane(open *session.Open, active bool, width, height int) string {
	title := truncatePlain(open.Chat.Title(), width-2)
	transcript := m.renderTranscript(open, width-2)
	lines := strings.Split(transcript, "\n")
	body := height - 1
	if len(lines) > body {
		lines = lines[len(lines)-body:]
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(title),
		strings.Join(lines, "\n"),
	)
	style := paneBorderStyle
	if active {
		style = paneActiveStyle
	}
	return style.Width(width).Height(height).Render(content)
}
