//go:build !windows

package tcptable

import (
	"context"
	"fmt"
	"net/netip"

	gnet "github.com/shirou/gopsutil/v4/net"

	"github.com/netowner/netowner/pkg/model"
)

// portableTable reads the table through gopsutil and re-encodes each
// connection in the PID-owner row layouts, so the same builders apply on
// every platform. Module-owner layouts only exist on Windows.
type portableTable struct {
	connections func(ctx context.Context, kind string) ([]gnet.ConnectionStat, error)
}

type unsupportedModules struct{}

func NativeEnumerator() Enumerator {
	return portableTable{connections: gnet.ConnectionsWithContext}
}

func NativeModuleQuerier() ModuleQuerier { return unsupportedModules{} }

func (unsupportedModules) QueryOwnerModule(RawRow) (string, error) {
	return "", ErrNotImplemented
}

func (t portableTable) Enumerate(ctx context.Context, family Family, level OwnerLevel, scope Scope) ([]RawRow, error) {
	if level == OwnerModule {
		return nil, ErrOwnerLevelUnsupported
	}
	kind := "tcp4"
	if family == FamilyIPv6 {
		kind = "tcp6"
	}
	conns, err := t.connections(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("read %s connections: %w", kind, err)
	}

	rows := make([]RawRow, 0, len(conns))
	for _, c := range conns {
		row, ok := rowFromConnection(family, c)
		if !ok || !inScope(scope, c.Status) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func inScope(scope Scope, status string) bool {
	state, _ := model.ParseTCPState(status)
	switch scope {
	case ScopeListeners:
		return state == model.StateListen
	case ScopeConnections:
		return state != model.StateListen
	}
	return true
}

func rowFromConnection(family Family, c gnet.ConnectionStat) (RawRow, bool) {
	local, ok := parseConnAddr(c.Laddr.IP, family)
	if !ok {
		return nil, false
	}
	remote, ok := parseConnAddr(c.Raddr.IP, family)
	if !ok {
		return nil, false
	}
	state, _ := model.ParseTCPState(c.Status)
	pid := uint32(0)
	if c.Pid > 0 {
		pid = uint32(c.Pid)
	}

	if family == FamilyIPv4 {
		return PidRowV4{
			State:      uint32(state),
			LocalAddr:  rawV4(local),
			LocalPort:  EncodePort(uint16(c.Laddr.Port)),
			RemoteAddr: rawV4(remote),
			RemotePort: EncodePort(uint16(c.Raddr.Port)),
			OwningPid:  pid,
		}, true
	}
	return PidRowV6{
		LocalAddr:  local.As16(),
		LocalPort:  EncodePort(uint16(c.Laddr.Port)),
		RemoteAddr: remote.As16(),
		RemotePort: EncodePort(uint16(c.Raddr.Port)),
		State:      uint32(state),
		OwningPid:  pid,
	}, true
}

// parseConnAddr treats an empty address as unspecified and rejects
// addresses that do not belong to family.
func parseConnAddr(ip string, family Family) (netip.Addr, bool) {
	if ip == "" || ip == "*" {
		if family == FamilyIPv4 {
			return netip.IPv4Unspecified(), true
		}
		return netip.IPv6Unspecified(), true
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return netip.Addr{}, false
	}
	addr = addr.WithZone("")
	if family == FamilyIPv4 {
		addr = addr.Unmap()
		return addr, addr.Is4()
	}
	return addr, true
}
