package source

import (
	"strings"

	"github.com/netowner/netowner/pkg/model"
)

// Classify tells what kind of owner holds a socket.
func Classify(rec model.ListenerRecord) model.OwnerKind {
	owner := strings.TrimSpace(rec.OwnerModule)
	switch {
	case rec.ProcessID == 0 || rec.ProcessID == 4 || strings.EqualFold(owner, "System"):
		return model.OwnerSystem
	case owner == "":
		return model.OwnerUnknown
	case isPath(owner):
		return model.OwnerExecutable
	default:
		return model.OwnerService
	}
}

// Label is a short display name for an owner: the base name of an image
// path, the service name itself, or a placeholder.
func Label(rec model.ListenerRecord) string {
	owner := strings.TrimSpace(rec.OwnerModule)
	switch Classify(rec) {
	case model.OwnerSystem:
		if owner == "" {
			return "System"
		}
		return owner
	case model.OwnerUnknown:
		return "unknown"
	case model.OwnerExecutable:
		return owner[strings.LastIndexAny(owner, `\/`)+1:]
	}
	return owner
}

func isPath(owner string) bool {
	if strings.ContainsAny(owner, `\/`) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(owner), ".exe")
}
