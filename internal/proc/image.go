package proc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/process"
)

const defaultLookupTimeout = 2 * time.Second

// ImageLookup resolves a pid to the path of its executable image.
type ImageLookup struct {
	Timeout time.Duration
}

func NewImageLookup() *ImageLookup {
	return &ImageLookup{Timeout: defaultLookupTimeout}
}

// ImagePath reports failure for pid 0, exited processes and processes the
// caller may not inspect.
func (l *ImageLookup) ImagePath(pid int) (string, error) {
	if pid <= 0 {
		return "", errors.Errorf("invalid pid %d", pid)
	}

	ctx := context.Background()
	if l != nil && l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return "", errors.Wrapf(err, "unable to find PID %d", pid)
	}
	exe, err := p.ExeWithContext(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "read image path of PID %d", pid)
	}
	if exe == "" {
		return "", errors.Errorf("PID %d has no image path", pid)
	}
	return exe, nil
}
