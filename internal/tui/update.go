package tui

import (
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netowner/netowner/pkg/model"
)

type tickMsg time.Time

func waitTick() tea.Cmd {
	return tea.Tick(10*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tickMsg:
		if m.state == stateList && !m.quitting && !m.input.Focused() && !m.loading {
			m.loading = true
			cmd = m.refresh()
		}
		return m, tea.Batch(cmd, waitTick())

	case snapshotMsg:
		m.loading = false
		m.statusMsg = ""
		m.snapshot = model.Snapshot(msg)
		m.sortRecords()
		m.filterRecords()
		return m, nil

	case errMsg:
		m.loading = false
		m.statusMsg = msg.err.Error()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.state == stateDetail {
			return m.updateDetail(msg)
		}
		if m.input.Focused() {
			switch msg.String() {
			case "esc", "enter":
				m.input.Blur()
				m.table.Focus()
				return m, nil
			case "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			}
			m.input, cmd = m.input.Update(msg)
			m.filterRecords()
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "/":
			m.table.Blur()
			m.input.Focus()
			return m, nil
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.refresh()
		case "s":
			m.cycleSort()
			return m, nil
		case "S":
			m.sortDesc = !m.sortDesc
			m.sortRecords()
			m.filterRecords()
			return m, nil
		case "esc":
			if m.input.Value() != "" {
				m.input.SetValue("")
				m.filterRecords()
			}
			return m, nil
		case "enter":
			if r, ok := m.selected(); ok {
				m.state = stateDetail
				m.viewport.SetContent(renderDetail(r, m.viewport.Width))
				m.viewport.GotoTop()
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m MainModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "backspace":
		m.state = stateList
		return m, nil
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *MainModel) cycleSort() {
	i := slices.Index(sortColumns, m.sortCol)
	m.sortCol = sortColumns[(i+1)%len(sortColumns)]
	m.sortDesc = false
	m.sortRecords()
	m.filterRecords()
}

func (m *MainModel) resize() {
	// title, search, status and footer lines plus borders
	tableHeight := m.height - 9
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)

	cols := columns()
	used := 0
	for _, c := range cols[:len(cols)-1] {
		used += c.Width + 2
	}
	if owner := m.width - 6 - used; owner > 10 {
		cols[len(cols)-1].Width = owner
	}
	m.table.SetColumns(cols)

	m.viewport.Width = max(m.width-6, 10)
	m.viewport.Height = max(m.height-6, 3)
}
