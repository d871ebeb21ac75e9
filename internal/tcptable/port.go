package tcptable

import (
	"net/netip"
	"strconv"
	"time"
)

// DecodePort converts a port field as stored in the TCP table (network
// order in the low 16 bits) to host order. The upper 16 bits are ignored.
func DecodePort(raw uint32) uint16 {
	return uint16(((raw & 0xFF) << 8) | ((raw >> 8) & 0xFF))
}

// EncodePort is the inverse of DecodePort.
func EncodePort(port uint16) uint32 {
	return uint32(port&0xFF)<<8 | uint32(port>>8)
}

// addrV4 builds an IPv4 address from a dwLocalAddr/dwRemoteAddr field.
// The field already holds the octets in memory order, so no swap is applied.
func addrV4(raw uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(raw), byte(raw >> 8), byte(raw >> 16), byte(raw >> 24)})
}

// rawV4 is the inverse of addrV4.
func rawV4(addr netip.Addr) uint32 {
	b := addr.As4()
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// addrV6 builds an IPv6 address; a nonzero scope id becomes the zone.
func addrV6(raw [16]byte, scopeID uint32) netip.Addr {
	addr := netip.AddrFrom16(raw)
	if scopeID != 0 {
		addr = addr.WithZone(strconv.FormatUint(uint64(scopeID), 10))
	}
	return addr
}

// 100ns intervals between 1601-01-01 and 1970-01-01.
const filetimeEpochDelta = 116444736000000000

// decodeFiletime converts a liCreateTimestamp value. Zero stays unset.
func decodeFiletime(ft int64) time.Time {
	if ft == 0 {
		return time.Time{}
	}
	d := ft - filetimeEpochDelta
	return time.Unix(d/1e7, (d%1e7)*100).UTC()
}

// encodeFiletime is the inverse of decodeFiletime.
func encodeFiletime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()*1e7 + int64(t.Nanosecond())/100 + filetimeEpochDelta
}
