package tcptable

// Family is the address family of a table, using the Windows AF_* values.
type Family uint32

const (
	FamilyIPv4 Family = 2
	FamilyIPv6 Family = 23
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	}
	return "unknown"
}

// RawRow is one of PidRowV4, ModuleRowV4, PidRowV6 or ModuleRowV6.
type RawRow interface {
	Family() Family
	OwningPID() int
	rawRow()
}

// The row types below mirror MIB_TCPROW_OWNER_PID, MIB_TCPROW_OWNER_MODULE,
// MIB_TCP6ROW_OWNER_PID and MIB_TCP6ROW_OWNER_MODULE field for field, so a
// pointer to one can be handed back to the owner-module query.

type PidRowV4 struct {
	State      uint32
	LocalAddr  uint32
	LocalPort  uint32
	RemoteAddr uint32
	RemotePort uint32
	OwningPid  uint32
}

type ModuleRowV4 struct {
	State            uint32
	LocalAddr        uint32
	LocalPort        uint32
	RemoteAddr       uint32
	RemotePort       uint32
	OwningPid        uint32
	CreateTimestamp  int64
	OwningModuleInfo [16]uint64
}

type PidRowV6 struct {
	LocalAddr     [16]byte
	LocalScopeID  uint32
	LocalPort     uint32
	RemoteAddr    [16]byte
	RemoteScopeID uint32
	RemotePort    uint32
	State         uint32
	OwningPid     uint32
}

type ModuleRowV6 struct {
	LocalAddr        [16]byte
	LocalScopeID     uint32
	LocalPort        uint32
	RemoteAddr       [16]byte
	RemoteScopeID    uint32
	RemotePort       uint32
	State            uint32
	OwningPid        uint32
	CreateTimestamp  int64
	OwningModuleInfo [16]uint64
}

func (PidRowV4) Family() Family    { return FamilyIPv4 }
func (ModuleRowV4) Family() Family { return FamilyIPv4 }
func (PidRowV6) Family() Family    { return FamilyIPv6 }
func (ModuleRowV6) Family() Family { return FamilyIPv6 }

func (r PidRowV4) OwningPID() int    { return int(r.OwningPid) }
func (r ModuleRowV4) OwningPID() int { return int(r.OwningPid) }
func (r PidRowV6) OwningPID() int    { return int(r.OwningPid) }
func (r ModuleRowV6) OwningPID() int { return int(r.OwningPid) }

func (PidRowV4) rawRow()    {}
func (ModuleRowV4) rawRow() {}
func (PidRowV6) rawRow()    {}
func (ModuleRowV6) rawRow() {}

// tableOffset is where the row array starts in a MIB_TCP*TABLE_OWNER_*
// buffer. The module layouts hold a LARGE_INTEGER, which the native ABI
// aligns to 8 on every architecture, including 386 where Go aligns int64 to 4.
func tableOffset(row RawRow) uintptr {
	switch row.(type) {
	case ModuleRowV4, ModuleRowV6:
		return 8
	}
	return 4
}
