//go:build windows

package tcptable

import (
	"context"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// references:
// https://learn.microsoft.com/en-us/windows/win32/api/iphlpapi/nf-iphlpapi-getextendedtcptable
// https://learn.microsoft.com/en-us/windows/win32/api/iphlpapi/nf-iphlpapi-getownermodulefromtcpentry

var (
	modIphlpapi = windows.NewLazySystemDLL("iphlpapi.dll")

	procGetExtendedTCPTable         = modIphlpapi.NewProc("GetExtendedTcpTable")
	procGetOwnerModuleFromTCPEntry  = modIphlpapi.NewProc("GetOwnerModuleFromTcpEntry")
	procGetOwnerModuleFromTCP6Entry = modIphlpapi.NewProc("GetOwnerModuleFromTcp6Entry")
)

const (
	ownerModuleInfoBasic  = 0 // TCPIP_OWNER_MODULE_INFO_BASIC
	ownerModuleBufferSize = 64 * 1024
	maxTableAttempts      = 8
)

// tcpipOwnerModuleBasicInfo is TCPIP_OWNER_MODULE_BASIC_INFO. Both
// pointers point into the buffer handed to the query.
type tcpipOwnerModuleBasicInfo struct {
	moduleName *uint16
	modulePath *uint16
}

var moduleBuffers = sync.Pool{
	New: func() any {
		buf := make([]byte, ownerModuleBufferSize)
		return &buf
	},
}

type nativeTable struct{}

type nativeModules struct{}

// NativeEnumerator reads the table with GetExtendedTcpTable.
func NativeEnumerator() Enumerator { return nativeTable{} }

// NativeModuleQuerier uses GetOwnerModuleFromTcpEntry and its IPv6 twin.
func NativeModuleQuerier() ModuleQuerier { return nativeModules{} }

func (nativeTable) Enumerate(ctx context.Context, family Family, level OwnerLevel, scope Scope) ([]RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := extendedTCPTable(family, tableClass(level, scope))
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to get %s tcp table (%s owner)", family, level)
	}
	switch {
	case family == FamilyIPv4 && level == OwnerPID:
		return toRawRows(tableRows[PidRowV4](buf)), nil
	case family == FamilyIPv4 && level == OwnerModule:
		return toRawRows(tableRows[ModuleRowV4](buf)), nil
	case family == FamilyIPv6 && level == OwnerPID:
		return toRawRows(tableRows[PidRowV6](buf)), nil
	case family == FamilyIPv6 && level == OwnerModule:
		return toRawRows(tableRows[ModuleRowV6](buf)), nil
	}
	return nil, errors.Errorf("unsupported address family %d", family)
}

// #nosec
func extendedTCPTable(family Family, class uint32) ([]byte, error) {
	if err := procGetExtendedTCPTable.Find(); err != nil {
		return nil, errors.WithStack(err)
	}
	var (
		buf  []byte
		size uint32
	)
	for i := 0; i < maxTableAttempts; i++ {
		var table uintptr
		if len(buf) > 0 {
			table = uintptr(unsafe.Pointer(&buf[0]))
		}
		ret, _, _ := procGetExtendedTCPTable.Call(
			table, uintptr(unsafe.Pointer(&size)),
			0, uintptr(family), uintptr(class), 0,
		)
		switch errno := windows.Errno(ret); errno {
		case windows.ERROR_SUCCESS:
			if uint32(len(buf)) < size {
				return buf, nil
			}
			return buf[:size], nil
		case windows.ERROR_INSUFFICIENT_BUFFER:
			buf = make([]byte, size)
		default:
			return nil, errors.WithStack(errno)
		}
	}
	return nil, errors.New("table kept growing, reached maximum attempt times")
}

// tableRows copies the rows of a MIB_TCP*TABLE_OWNER_* buffer out of native
// memory. The row array starts after dwNumEntries, at tableOffset.
func tableRows[T RawRow](buf []byte) []T {
	if len(buf) < 4 {
		return nil
	}
	n := uintptr(*(*uint32)(unsafe.Pointer(&buf[0])))
	if n == 0 {
		return nil
	}
	var zero T
	offset := tableOffset(zero)
	if uintptr(len(buf)) < offset {
		return nil
	}
	size := unsafe.Sizeof(zero)
	if avail := (uintptr(len(buf)) - offset) / size; n > avail {
		n = avail
	}
	out := make([]T, n)
	copy(out, unsafe.Slice((*T)(unsafe.Pointer(&buf[offset])), n))
	return out
}

func toRawRows[T RawRow](rows []T) []RawRow {
	out := make([]RawRow, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// QueryOwnerModule asks for the basic owner-module info of a module row.
// The fixed 64 KiB buffer is never grown: a too-small buffer is reported
// like any other failure and the resolver falls back to the image path.
func (nativeModules) QueryOwnerModule(row RawRow) (string, error) {
	var (
		proc  *windows.LazyProc
		entry unsafe.Pointer
	)
	switch r := row.(type) {
	case ModuleRowV4:
		proc, entry = procGetOwnerModuleFromTCPEntry, unsafe.Pointer(&r)
	case ModuleRowV6:
		proc, entry = procGetOwnerModuleFromTCP6Entry, unsafe.Pointer(&r)
	default:
		return "", errors.Errorf("owner module query needs a module row, got %T", row)
	}
	if err := proc.Find(); err != nil {
		return "", errors.WithStack(err)
	}

	bufp := moduleBuffers.Get().(*[]byte)
	defer moduleBuffers.Put(bufp)
	buf := *bufp

	size := uint32(len(buf))
	ret, _, _ := proc.Call(
		uintptr(entry), ownerModuleInfoBasic,
		uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)),
	)
	if errno := windows.Errno(ret); errno != windows.ERROR_SUCCESS {
		return "", errors.WithMessage(errno, proc.Name)
	}
	info := (*tcpipOwnerModuleBasicInfo)(unsafe.Pointer(&buf[0]))
	return windows.UTF16PtrToString(info.modulePath), nil
}
