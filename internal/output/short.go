package output

import (
	"fmt"
	"io"

	"github.com/netowner/netowner/internal/source"
	"github.com/netowner/netowner/pkg/model"
)

var (
	colorResetShort   = "\033[0m"
	colorMagentaShort = "\033[35m"
	colorBoldShort    = "\033[2m"
	colorGreenShort   = "\033[32m"
)

// RenderShort prints one line per record:
// "0.0.0.0:135 → svchost.exe (pid 900)" for listeners and
// "10.0.0.4:51000 ⇄ 20.1.2.3:443 → firefox.exe (pid 4100)" otherwise.
func RenderShort(w io.Writer, records []model.ListenerRecord, colorEnabled bool) {
	for _, r := range records {
		endpoint := r.Local.String()
		if r.State != model.StateListen {
			endpoint += " ⇄ " + r.Remote.String()
		}
		if colorEnabled {
			fmt.Fprintf(w, "%s%s%s%s (%spid %d%s)\n",
				endpoint,
				colorMagentaShort+" → "+colorResetShort,
				colorGreenShort, source.Label(r)+colorResetShort,
				colorBoldShort, r.ProcessID, colorResetShort)
			continue
		}
		fmt.Fprintf(w, "%s → %s (pid %d)\n", endpoint, source.Label(r), r.ProcessID)
	}
}
