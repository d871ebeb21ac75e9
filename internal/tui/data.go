package tui

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"

	"github.com/netowner/netowner/internal/proc"
	"github.com/netowner/netowner/internal/source"
	"github.com/netowner/netowner/pkg/model"
)

const refreshTimeout = 15 * time.Second

type snapshotMsg model.Snapshot

type errMsg struct{ err error }

func (m MainModel) refresh() tea.Cmd {
	collect := m.collect
	return func() tea.Msg {
		if collect == nil {
			return errMsg{fmt.Errorf("no collector configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		snap, err := collect(ctx)
		if err != nil {
			return errMsg{err}
		}
		return snapshotMsg(snap)
	}
}

func (m *MainModel) sortRecords() {
	slices.SortStableFunc(m.snapshot.Records, func(a, b model.ListenerRecord) int {
		var c int
		switch m.sortCol {
		case "pid":
			c = cmp.Compare(a.ProcessID, b.ProcessID)
		case "state":
			c = cmp.Compare(a.State, b.State)
		case "owner":
			c = cmp.Compare(strings.ToLower(source.Label(a)), strings.ToLower(source.Label(b)))
		default:
			c = cmp.Compare(a.Local.Port(), b.Local.Port())
		}
		if m.sortDesc {
			c = -c
		}
		return c
	})
}

func matches(r model.ListenerRecord, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{
		r.Local.String(),
		r.Remote.String(),
		r.State.String(),
		strconv.Itoa(r.ProcessID),
		r.OwnerModule,
	} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (m *MainModel) filterRecords() {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	m.filtered = make([]model.ListenerRecord, 0, len(m.snapshot.Records))
	for _, r := range m.snapshot.Records {
		if matches(r, query) {
			m.filtered = append(m.filtered, r)
		}
	}

	rows := make([]table.Row, 0, len(m.filtered))
	for _, r := range m.filtered {
		proto := "tcp"
		if r.IPv6() {
			proto = "tcp6"
		}
		rows = append(rows, table.Row{
			proto,
			r.Local.String(),
			r.Remote.String(),
			r.State.String(),
			strconv.Itoa(r.ProcessID),
			source.Label(r),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m MainModel) selected() (model.ListenerRecord, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return model.ListenerRecord{}, false
	}
	return m.filtered[i], true
}

// renderDetail describes one record for the detail pane.
func renderDetail(r model.ListenerRecord, width int) string {
	var sb strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render(label+":"), value)
	}

	owner := r.OwnerModule
	if owner == "" {
		owner = "(unresolved)"
	}
	line("Local", r.Local.String())
	line("Remote", r.Remote.String())
	line("State", r.State.String())
	line("PID", strconv.Itoa(r.ProcessID))
	line("Owner", owner)
	line("Owner kind", string(source.Classify(r)))
	if r.HasCreateTime() {
		line("Created", r.CreateTime.Local().Format(time.RFC1123))
	}

	explanation, workaround := proc.ExplainState(r.State)
	sb.WriteString("\n")
	sb.WriteString(explanation)
	sb.WriteString("\n")
	if workaround != "" {
		sb.WriteString(warnStyle.Render("Hint: " + workaround))
		sb.WriteString("\n")
	}

	if width <= 0 {
		return sb.String()
	}
	return wrap.String(sb.String(), width)
}
