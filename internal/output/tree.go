package output

import (
	"fmt"
	"io"
	"slices"

	"github.com/samber/lo"

	"github.com/netowner/netowner/internal/source"
	"github.com/netowner/netowner/pkg/model"
)

var (
	colorResetTree   = "\033[0m"
	colorMagentaTree = "\033[35m"
	colorGreenTree   = "\033[32m"
	colorBoldTree    = "\033[2m"
)

const treeChildLimit = 10

type ownerKey struct {
	label string
	pid   int
}

// PrintByOwner groups records under their owning process, one branch per
// socket. Owners are listed by pid, sockets keep their input order.
func PrintByOwner(w io.Writer, records []model.ListenerRecord, colorEnabled bool) {
	colorReset := ""
	colorMagenta := ""
	colorGreen := ""
	colorBold := ""
	if colorEnabled {
		colorReset = colorResetTree
		colorMagenta = colorMagentaTree
		colorGreen = colorGreenTree
		colorBold = colorBoldTree
	}

	groups := lo.GroupBy(records, func(r model.ListenerRecord) ownerKey {
		return ownerKey{label: source.Label(r), pid: r.ProcessID}
	})
	keys := lo.Keys(groups)
	slices.SortFunc(keys, func(a, b ownerKey) int {
		if a.pid != b.pid {
			return a.pid - b.pid
		}
		if a.label < b.label {
			return -1
		}
		if a.label > b.label {
			return 1
		}
		return 0
	})

	for _, k := range keys {
		fmt.Fprintf(w, "%s%s%s (%spid %d%s)\n", colorGreen, k.label, colorReset, colorBold, k.pid, colorReset)

		children := groups[k]
		count := len(children)
		for i, r := range children {
			if i >= treeChildLimit {
				fmt.Fprintf(w, "  %s└─ %s... and %d more\n", colorMagenta, colorReset, count-treeChildLimit)
				break
			}
			connector := "├─ "
			if i == count-1 {
				connector = "└─ "
			}
			line := r.Local.String()
			if r.State != model.StateListen {
				line += " ⇄ " + r.Remote.String()
			}
			fmt.Fprintf(w, "  %s%s%s%s %s%s%s\n", colorMagenta, connector, colorReset, line, colorBold, r.State, colorReset)
		}
	}
}
