package target

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/netowner/netowner/pkg/model"
)

// Filter selects records. Zero-valued fields match everything.
type Filter struct {
	Port   int              // local or remote port
	PID    int              // owning process
	Owner  string           // case-insensitive substring of the owner module
	Exact  bool             // Owner must equal the owner's base name
	States []model.TCPState // any of
}

func (f Filter) Empty() bool {
	return f.Port == 0 && f.PID == 0 && f.Owner == "" && len(f.States) == 0
}

func (f Filter) Match(rec model.ListenerRecord) bool {
	if f.Port != 0 && int(rec.Local.Port()) != f.Port && int(rec.Remote.Port()) != f.Port {
		return false
	}
	if f.PID != 0 && rec.ProcessID != f.PID {
		return false
	}
	if len(f.States) > 0 && !lo.Contains(f.States, rec.State) {
		return false
	}
	if f.Owner != "" && !matchOwner(rec.OwnerModule, f.Owner, f.Exact) {
		return false
	}
	return true
}

// Apply returns the records matching f, keeping their order.
func (f Filter) Apply(records []model.ListenerRecord) []model.ListenerRecord {
	if f.Empty() {
		return records
	}
	return lo.Filter(records, func(rec model.ListenerRecord, _ int) bool {
		return f.Match(rec)
	})
}

func matchOwner(owner, query string, exact bool) bool {
	owner = strings.ToLower(owner)
	query = strings.ToLower(query)
	if exact {
		base := owner[strings.LastIndexAny(owner, `\/`)+1:]
		return base == query || strings.TrimSuffix(base, filepath.Ext(base)) == query
	}
	return strings.Contains(owner, query)
}

// Parse reads a target the way it is typed on the command line:
// ":443" or "443" is a port, "pid:1234" a process, anything else an owner
// name.
func Parse(s string) Filter {
	s = strings.TrimSpace(s)
	if s == "" {
		return Filter{}
	}
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "pid:"); ok {
		if pid, err := strconv.Atoi(rest); err == nil {
			return Filter{PID: pid}
		}
	}
	if port, err := strconv.Atoi(strings.TrimPrefix(s, ":")); err == nil && port > 0 && port <= 65535 {
		return Filter{Port: port}
	}
	return Filter{Owner: s}
}
