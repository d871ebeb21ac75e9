package pipeline

import (
	"context"
	"encoding/binary"
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/netowner/netowner/internal/target"
	"github.com/netowner/netowner/internal/tcptable"
	"github.com/netowner/netowner/pkg/model"
)

type fakeTable struct {
	rows        map[tcptable.Family][]tcptable.RawRow
	noModule    bool
	err         error
	gotLevels   []tcptable.OwnerLevel
	gotFamilies []tcptable.Family
}

func (f *fakeTable) Enumerate(_ context.Context, family tcptable.Family, level tcptable.OwnerLevel, _ tcptable.Scope) ([]tcptable.RawRow, error) {
	f.gotLevels = append(f.gotLevels, level)
	f.gotFamilies = append(f.gotFamilies, family)
	if f.err != nil {
		return nil, f.err
	}
	if f.noModule && level == tcptable.OwnerModule {
		return nil, tcptable.ErrOwnerLevelUnsupported
	}
	return f.rows[family], nil
}

type fakeImages map[int]string

func (f fakeImages) ImagePath(pid int) (string, error) {
	if p, ok := f[pid]; ok {
		return p, nil
	}
	return "", errors.New("no such process")
}

func v4Row(local string, pid uint32, state uint32) tcptable.PidRowV4 {
	ap := netip.MustParseAddrPort(local)
	a := ap.Addr().As4()
	return tcptable.PidRowV4{
		State:      state,
		LocalAddr:  binary.LittleEndian.Uint32(a[:]),
		LocalPort:  tcptable.EncodePort(ap.Port()),
		OwningPid:  pid,
		RemotePort: 0,
	}
}

func v6Row(local string, pid uint32) tcptable.PidRowV6 {
	ap := netip.MustParseAddrPort(local)
	return tcptable.PidRowV6{
		LocalAddr: ap.Addr().As16(),
		LocalPort: tcptable.EncodePort(ap.Port()),
		State:     uint32(model.StateListen),
		OwningPid: pid,
	}
}

func sampleTable() *fakeTable {
	return &fakeTable{rows: map[tcptable.Family][]tcptable.RawRow{
		tcptable.FamilyIPv4: {
			v4Row("0.0.0.0:445", 4, 2),
			v4Row("127.0.0.1:135", 900, 2),
			v4Row("0.0.0.0:135", 900, 2),
			v4Row("10.0.0.4:51000", 4100, 5),
		},
		tcptable.FamilyIPv6: {
			v6Row("[::]:135", 900),
		},
	}}
}

func TestCollectSortsAndResolves(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := &Collector{
		Table:   sampleTable(),
		Images:  fakeImages{900: `C:\Windows\System32\svchost.exe`},
		Workers: 3,
		now:     func() time.Time { return fixed },
	}
	snap, err := c.Collect(context.Background(), Request{})
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", snap.ID.String())
	assert.True(t, fixed.Equal(snap.TakenAt))
	assert.Empty(t, snap.Warnings)

	got := make([]string, 0, len(snap.Records))
	for _, r := range snap.Records {
		got = append(got, r.Local.String())
	}
	assert.Equal(t, []string{
		"0.0.0.0:135",
		"127.0.0.1:135",
		"[::]:135",
		"0.0.0.0:445",
		"10.0.0.4:51000",
	}, got)

	assert.Equal(t, `C:\Windows\System32\svchost.exe`, snap.Records[0].OwnerModule)
	assert.Equal(t, "", snap.Records[3].OwnerModule)
	assert.Equal(t, model.StateEstablished, snap.Records[4].State)
}

func TestCollectFamilies(t *testing.T) {
	table := sampleTable()
	c := &Collector{Table: table}
	snap, err := c.Collect(context.Background(), Request{Families: []tcptable.Family{tcptable.FamilyIPv6}})
	require.NoError(t, err)
	assert.Equal(t, []tcptable.Family{tcptable.FamilyIPv6}, table.gotFamilies)
	require.Len(t, snap.Records, 1)
	assert.True(t, snap.Records[0].IPv6())
}

func TestCollectFilter(t *testing.T) {
	c := &Collector{Table: sampleTable()}
	snap, err := c.Collect(context.Background(), Request{
		Filter: target.Filter{States: []model.TCPState{model.StateEstablished}},
	})
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, 4100, snap.Records[0].ProcessID)
}

func TestCollectModuleFallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	table := sampleTable()
	table.noModule = true
	c := &Collector{Table: table, Logger: zap.New(core)}

	snap, err := c.Collect(context.Background(), Request{
		Families: []tcptable.Family{tcptable.FamilyIPv4},
		Level:    tcptable.OwnerModule,
	})
	require.NoError(t, err)
	assert.Len(t, snap.Records, 4)
	assert.Equal(t, []tcptable.OwnerLevel{tcptable.OwnerModule, tcptable.OwnerPID}, table.gotLevels)
	assert.Equal(t, []string{"ipv4: module owner table unavailable, using pid owners"}, snap.Warnings)
	assert.Equal(t, 1, logs.FilterMessage("falling back to pid owner table").Len())
}

func TestCollectEnumerateError(t *testing.T) {
	boom := errors.New("access denied")
	c := &Collector{Table: &fakeTable{err: boom}}
	_, err := c.Collect(context.Background(), Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "enumerate ipv4 table")
}

func TestCollectNoTable(t *testing.T) {
	_, err := (&Collector{}).Collect(context.Background(), Request{})
	assert.Error(t, err)
}

func TestCollectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &Collector{Table: sampleTable(), Workers: 1}
	_, err := c.Collect(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectEmptyTable(t *testing.T) {
	c := &Collector{Table: &fakeTable{}}
	snap, err := c.Collect(context.Background(), Request{})
	require.NoError(t, err)
	assert.Empty(t, snap.Records)
}
