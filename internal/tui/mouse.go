package tui

import tea "github.com/charmbracelet/bubbletea"

// handleMouse scrolls the list or detail pane with the wheel.
func (m *MainModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.state == stateDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.table.MoveUp(1)
	case tea.MouseButtonWheelDown:
		m.table.MoveDown(1)
	}
	return nil
}
