package output

import (
	"fmt"
	"io"
	"time"

	"github.com/netowner/netowner/internal/proc"
	"github.com/netowner/netowner/internal/source"
	"github.com/netowner/netowner/pkg/model"
)

var (
	colorResetDetail  = "\033[0m"
	colorBlueDetail   = "\033[34m"
	colorYellowDetail = "\033[33m"
)

// RenderDetail prints everything known about one record.
func RenderDetail(w io.Writer, r model.ListenerRecord, colorEnabled bool) {
	label := func(s string) string {
		if colorEnabled {
			return colorBlueDetail + s + colorResetDetail
		}
		return s
	}

	owner := r.OwnerModule
	if owner == "" {
		owner = "(unresolved)"
	}
	fmt.Fprintf(w, "%s  %s\n", label("Local     :"), r.Local)
	fmt.Fprintf(w, "%s  %s\n", label("Remote    :"), r.Remote)
	fmt.Fprintf(w, "%s  %s\n", label("State     :"), r.State)
	fmt.Fprintf(w, "%s  %d\n", label("PID       :"), r.ProcessID)
	fmt.Fprintf(w, "%s  %s (%s)\n", label("Owner     :"), owner, source.Classify(r))
	if r.HasCreateTime() {
		fmt.Fprintf(w, "%s  %s\n", label("Created   :"), r.CreateTime.Local().Format(time.RFC1123))
	}

	explanation, workaround := proc.ExplainState(r.State)
	fmt.Fprintf(w, "%s  %s\n", label("Note      :"), explanation)
	if workaround != "" {
		if colorEnabled {
			workaround = colorYellowDetail + workaround + colorResetDetail
		}
		fmt.Fprintf(w, "%s  %s\n", label("Hint      :"), workaround)
	}
}
