package tcptable

import (
	"errors"
	"fmt"
	"sync"
)

var errLookupFailed = errors.New("lookup failed")

type mockModules struct {
	mu    sync.Mutex
	path  string
	err   error
	panic bool
	calls int
}

func (m *mockModules) QueryOwnerModule(row RawRow) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.panic {
		panic("native query blew up")
	}
	return m.path, m.err
}

type mockImages struct {
	mu        sync.Mutex
	PIDToPath map[int]string
	calls     int
}

func newMockImages() *mockImages {
	return &mockImages{PIDToPath: make(map[int]string)}
}

func (m *mockImages) ImagePath(pid int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if path, ok := m.PIDToPath[pid]; ok {
		return path, nil
	}
	return "", fmt.Errorf("pid %d: %w", pid, errLookupFailed)
}

// bogusRow satisfies RawRow without being one of the four layouts.
type bogusRow struct{}

func (bogusRow) Family() Family { return FamilyIPv4 }
func (bogusRow) OwningPID() int { return 1 }
func (bogusRow) rawRow()        {}

func loopbackV6() [16]byte {
	var b [16]byte
	b[15] = 1
	return b
}

func linkLocalV6() [16]byte {
	return [16]byte{0xfe, 0x80, 15: 0x01}
}
