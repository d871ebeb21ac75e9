package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m MainModel) View() string {
	if m.quitting {
		return ""
	}

	outerStyle := baseStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Padding(0, 1)

	title := titleStyle.Render("netowner " + m.version)
	summary := fmt.Sprintf(" %d of %d sockets  sort: %s", len(m.filtered), len(m.snapshot.Records), m.sortLabel())
	header := lipgloss.JoinHorizontal(lipgloss.Top, title, summary)

	if m.state == stateDetail {
		footer := footerStyle.Render("↑/↓ scroll • esc back • q quit")
		return outerStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			m.viewport.View(),
			footer,
		))
	}

	status := "Mode: Navigation (Press / to search)"
	if m.input.Focused() {
		status = "Mode: Searching (Press Esc/Enter to stop)"
	}
	if m.loading {
		status = "Refreshing..."
	}
	if m.statusMsg != "" {
		status = errorStyle.Render(m.statusMsg)
	} else if len(m.snapshot.Warnings) > 0 {
		status = warnStyle.Render(m.snapshot.Warnings[0])
	}

	footer := footerStyle.Render("enter details • / search • s sort • S reverse • r refresh • q quit")
	return outerStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.input.View(),
		m.table.View(),
		status,
		footer,
	))
}

func (m MainModel) sortLabel() string {
	if m.sortDesc {
		return m.sortCol + " ↓"
	}
	return m.sortCol + " ↑"
}
