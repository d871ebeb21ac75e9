package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"github.com/netowner/netowner/pkg/model"
)

const defaultOwnerWidth = 60

// TableOptions controls RenderTable.
type TableOptions struct {
	Color      bool
	OwnerWidth int // owner column is truncated to this many cells
	CreateTime bool
}

var tableHeaders = []string{"PROTO", "LOCAL", "REMOTE", "STATE", "PID", "CREATED", "OWNER"}

// RenderTable writes records as aligned columns.
func RenderTable(w io.Writer, records []model.ListenerRecord, opts TableOptions) {
	ownerWidth := opts.OwnerWidth
	if ownerWidth <= 0 {
		ownerWidth = defaultOwnerWidth
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		proto := "tcp"
		if r.IPv6() {
			proto = "tcp6"
		}
		created := "-"
		if r.HasCreateTime() {
			created = r.CreateTime.Local().Format("2006-01-02 15:04:05")
		}
		owner := r.OwnerModule
		if owner == "" {
			owner = "-"
		}
		rows = append(rows, []string{
			proto,
			r.Local.String(),
			r.Remote.String(),
			r.State.String(),
			fmt.Sprint(r.ProcessID),
			created,
			truncate.StringWithTail(owner, uint(ownerWidth), "…"),
		})
	}

	headers := tableHeaders
	if !opts.CreateTime {
		headers = dropColumn(headers, 5)
		for i := range rows {
			rows[i] = dropColumn(rows[i], 5)
		}
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len([]rune(cell)))
		}
	}

	header := formatRow(headers, widths)
	if opts.Color {
		header = colorBoldShort + header + colorResetShort
	}
	fmt.Fprintln(w, header)
	for _, row := range rows {
		fmt.Fprintln(w, formatRow(row, widths))
	}
}

func formatRow(cells []string, widths []int) string {
	var sb strings.Builder
	for i, cell := range cells {
		if i == len(cells)-1 {
			sb.WriteString(cell)
			break
		}
		sb.WriteString(padding.String(cell, uint(widths[i]+2)))
	}
	return sb.String()
}

func dropColumn(row []string, col int) []string {
	out := make([]string, 0, len(row)-1)
	out = append(out, row[:col]...)
	return append(out, row[col+1:]...)
}
