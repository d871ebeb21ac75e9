//go:build !windows

package tcptable

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netowner/netowner/pkg/model"
)

func fakeConnections(byKind map[string][]gnet.ConnectionStat, err error) func(context.Context, string) ([]gnet.ConnectionStat, error) {
	return func(_ context.Context, kind string) ([]gnet.ConnectionStat, error) {
		if err != nil {
			return nil, err
		}
		return byKind[kind], nil
	}
}

func TestPortableEnumerate(t *testing.T) {
	table := portableTable{connections: fakeConnections(map[string][]gnet.ConnectionStat{
		"tcp4": {
			{Laddr: gnet.Addr{IP: "0.0.0.0", Port: 22}, Raddr: gnet.Addr{}, Status: "LISTEN", Pid: 812},
			{Laddr: gnet.Addr{IP: "10.0.0.5", Port: 22}, Raddr: gnet.Addr{IP: "10.0.0.9", Port: 50122}, Status: "ESTABLISHED", Pid: 1300},
			{Laddr: gnet.Addr{IP: "::1", Port: 9}, Status: "LISTEN"},
		},
		"tcp6": {
			{Laddr: gnet.Addr{IP: "::", Port: 443}, Raddr: gnet.Addr{IP: "::", Port: 0}, Status: "LISTEN", Pid: 77},
			{Laddr: gnet.Addr{IP: "::ffff:127.0.0.1", Port: 8080}, Raddr: gnet.Addr{IP: "::ffff:127.0.0.1", Port: 40000}, Status: "CLOSE_WAIT", Pid: -1},
		},
	}, nil)}
	images := newMockImages()
	images.PIDToPath[812] = "/usr/sbin/sshd"
	b := NewBuilder(NewResolver(NativeModuleQuerier(), images))

	t.Run("ipv4 all", func(t *testing.T) {
		rows, err := table.Enumerate(context.Background(), FamilyIPv4, OwnerPID, ScopeAll)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		listen := b.Build(rows[0])
		assert.Equal(t, netip.MustParseAddrPort("0.0.0.0:22"), listen.Local)
		assert.Equal(t, netip.MustParseAddrPort("0.0.0.0:0"), listen.Remote)
		assert.Equal(t, model.StateListen, listen.State)
		assert.Equal(t, 812, listen.ProcessID)
		assert.Equal(t, "/usr/sbin/sshd", listen.OwnerModule)

		est := b.Build(rows[1])
		assert.Equal(t, netip.MustParseAddrPort("10.0.0.9:50122"), est.Remote)
		assert.Equal(t, model.StateEstablished, est.State)
		assert.Equal(t, "", est.OwnerModule)
	})

	t.Run("ipv6 listeners", func(t *testing.T) {
		rows, err := table.Enumerate(context.Background(), FamilyIPv6, OwnerPID, ScopeListeners)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		rec := b.Build(rows[0])
		assert.Equal(t, netip.MustParseAddrPort("[::]:443"), rec.Local)
		assert.True(t, rec.IPv6())
	})

	t.Run("ipv6 connections keep mapped addresses as v6", func(t *testing.T) {
		rows, err := table.Enumerate(context.Background(), FamilyIPv6, OwnerPID, ScopeConnections)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		rec := b.Build(rows[0])
		assert.True(t, rec.Local.Addr().Is4In6())
		assert.Equal(t, uint16(8080), rec.Local.Port())
		assert.Equal(t, model.StateCloseWait, rec.State)
		assert.Equal(t, 0, rec.ProcessID)
	})
}

func TestPortableEnumerateModuleLevel(t *testing.T) {
	table := portableTable{connections: fakeConnections(nil, nil)}
	_, err := table.Enumerate(context.Background(), FamilyIPv4, OwnerModule, ScopeAll)
	assert.ErrorIs(t, err, ErrOwnerLevelUnsupported)
}

func TestPortableEnumerateError(t *testing.T) {
	boom := errors.New("permission denied")
	table := portableTable{connections: fakeConnections(nil, boom)}
	_, err := table.Enumerate(context.Background(), FamilyIPv6, OwnerPID, ScopeAll)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "tcp6")
}

func TestUnsupportedModules(t *testing.T) {
	_, err := NativeModuleQuerier().QueryOwnerModule(ModuleRowV4{})
	assert.ErrorIs(t, err, ErrNotImplemented)
}
