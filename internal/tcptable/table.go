package tcptable

import (
	"context"
	"errors"
	"runtime"
)

var (
	ErrNotImplemented        = errors.New("not implemented for GOOS=" + runtime.GOOS)
	ErrOwnerLevelUnsupported = errors.New("owner module tables are not available on GOOS=" + runtime.GOOS)
)

// OwnerLevel selects between the PID-owner and module-owner row layouts.
type OwnerLevel int

const (
	OwnerPID OwnerLevel = iota
	OwnerModule
)

func (l OwnerLevel) String() string {
	if l == OwnerModule {
		return "module"
	}
	return "pid"
}

// Scope narrows the table to listening sockets, connections, or both.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeListeners
	ScopeConnections
)

func (s Scope) String() string {
	switch s {
	case ScopeListeners:
		return "listeners"
	case ScopeConnections:
		return "connections"
	}
	return "all"
}

// Enumerator reads the raw TCP table for one address family.
type Enumerator interface {
	Enumerate(ctx context.Context, family Family, level OwnerLevel, scope Scope) ([]RawRow, error)
}

// ModuleQuerier asks the OS which module owns a module-layout row.
type ModuleQuerier interface {
	QueryOwnerModule(row RawRow) (string, error)
}

// ImageLookup returns the image path of a process.
type ImageLookup interface {
	ImagePath(pid int) (string, error)
}

// tableClass maps a level and scope to TCP_TABLE_CLASS.
func tableClass(level OwnerLevel, scope Scope) uint32 {
	const (
		ownerPIDListener    = 3
		ownerModuleListener = 6
	)
	base := uint32(ownerPIDListener)
	if level == OwnerModule {
		base = ownerModuleListener
	}
	switch scope {
	case ScopeListeners:
		return base
	case ScopeConnections:
		return base + 1
	}
	return base + 2
}
