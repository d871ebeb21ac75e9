package tcptable

import (
	"fmt"
	"net/netip"

	"github.com/netowner/netowner/pkg/model"
)

// Builder turns raw rows into ListenerRecords. It holds no mutable state
// and is safe for concurrent use as long as its collaborators are.
type Builder struct {
	owners *Resolver
}

func NewBuilder(owners *Resolver) *Builder {
	if owners == nil {
		owners = NewResolver(nil, nil)
	}
	return &Builder{owners: owners}
}

// Build dispatches on the row layout. Any RawRow other than the four
// value types defined in this package is a caller bug and panics.
func (b *Builder) Build(row RawRow) model.ListenerRecord {
	switch r := row.(type) {
	case PidRowV4:
		return b.FromPidRowV4(r)
	case ModuleRowV4:
		return b.FromModuleRowV4(r)
	case PidRowV6:
		return b.FromPidRowV6(r)
	case ModuleRowV6:
		return b.FromModuleRowV6(r)
	}
	panic(fmt.Sprintf("tcptable: unsupported row type %T", row))
}

func (b *Builder) FromPidRowV4(r PidRowV4) model.ListenerRecord {
	return model.ListenerRecord{
		Local:       netip.AddrPortFrom(addrV4(r.LocalAddr), DecodePort(r.LocalPort)),
		Remote:      netip.AddrPortFrom(addrV4(r.RemoteAddr), DecodePort(r.RemotePort)),
		State:       model.TCPState(r.State),
		ProcessID:   int(r.OwningPid),
		OwnerModule: b.owners.Resolve(r),
	}
}

func (b *Builder) FromModuleRowV4(r ModuleRowV4) model.ListenerRecord {
	return model.ListenerRecord{
		Local:       netip.AddrPortFrom(addrV4(r.LocalAddr), DecodePort(r.LocalPort)),
		Remote:      netip.AddrPortFrom(addrV4(r.RemoteAddr), DecodePort(r.RemotePort)),
		State:       model.TCPState(r.State),
		ProcessID:   int(r.OwningPid),
		CreateTime:  decodeFiletime(r.CreateTimestamp),
		OwnerModule: b.owners.Resolve(r),
	}
}

func (b *Builder) FromPidRowV6(r PidRowV6) model.ListenerRecord {
	return model.ListenerRecord{
		Local:       netip.AddrPortFrom(addrV6(r.LocalAddr, r.LocalScopeID), DecodePort(r.LocalPort)),
		Remote:      netip.AddrPortFrom(addrV6(r.RemoteAddr, r.RemoteScopeID), DecodePort(r.RemotePort)),
		State:       model.TCPState(r.State),
		ProcessID:   int(r.OwningPid),
		OwnerModule: b.owners.Resolve(r),
	}
}

func (b *Builder) FromModuleRowV6(r ModuleRowV6) model.ListenerRecord {
	return model.ListenerRecord{
		Local:       netip.AddrPortFrom(addrV6(r.LocalAddr, r.LocalScopeID), DecodePort(r.LocalPort)),
		Remote:      netip.AddrPortFrom(addrV6(r.RemoteAddr, r.RemoteScopeID), DecodePort(r.RemotePort)),
		State:       model.TCPState(r.State),
		ProcessID:   int(r.OwningPid),
		CreateTime:  decodeFiletime(r.CreateTimestamp),
		OwnerModule: b.owners.Resolve(r),
	}
}
