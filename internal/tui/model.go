package tui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netowner/netowner/pkg/model"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#585858")) // Dark Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")). // White
			Background(lipgloss.Color("#7D56F4")). // Purple
			Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5f5fd7")). // Purple/Blue
				Bold(true).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("#585858")).
				Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5f5fd7")).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676")). // Dimmed Gray
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#585858")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#af87ff")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff5f5f")). // Soft red
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffaf5f")) // Orange-amber
)

type modelState int

const (
	stateList modelState = iota
	stateDetail
)

// CollectFunc reads a fresh snapshot.
type CollectFunc func(ctx context.Context) (model.Snapshot, error)

type MainModel struct {
	state    modelState
	table    table.Model
	input    textinput.Model
	viewport viewport.Model
	collect  CollectFunc

	snapshot  model.Snapshot
	filtered  []model.ListenerRecord
	statusMsg string // transient error shown in status line
	loading   bool
	width     int
	height    int
	quitting  bool

	sortCol  string
	sortDesc bool
	version  string
}

var sortColumns = []string{"port", "pid", "state", "owner"}

func columns() []table.Column {
	return []table.Column{
		{Title: "Proto", Width: 5},
		{Title: "Local", Width: 28},
		{Title: "Remote", Width: 28},
		{Title: "State", Width: 12},
		{Title: "PID", Width: 7},
		{Title: "Owner", Width: 40},
	}
}

func InitialModel(version string, collect CollectFunc) MainModel {
	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = tableHeaderStyle
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#ffffaf")). // Light Yellow
		Background(lipgloss.Color("#5f00d7")). // Purple
		Bold(false)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "Search port, address, state, pid, owner..."
	ti.CharLimit = 156
	ti.Width = 50
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.Blur()

	return MainModel{
		state:    stateList,
		table:    t,
		input:    ti,
		viewport: viewport.New(0, 0),
		collect:  collect,
		loading:  true,
		sortCol:  "port",
		version:  version,
	}
}

func Start(version string, collect CollectFunc) error {
	if os.Getenv("COLORTERM") == "" {
		os.Setenv("COLORTERM", "truecolor") //nolint:errcheck
	}

	p := tea.NewProgram(InitialModel(version, collect), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running tui: %w", err)
	}
	return nil
}

func (m MainModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.refresh(),
		waitTick(),
	)
}
