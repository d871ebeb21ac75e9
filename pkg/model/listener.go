package model

import (
	"encoding/json"
	"net/netip"
	"time"
)

// ListenerRecord is one row of the host TCP table after normalization.
// Ports in Local and Remote are in host byte order.
type ListenerRecord struct {
	Local       netip.AddrPort
	Remote      netip.AddrPort
	State       TCPState
	ProcessID   int
	CreateTime  time.Time // zero when the source row carries no timestamp
	OwnerModule string    // executable path or service name, "" if unresolved
}

// IPv6 reports whether the record came from an IPv6 row.
func (r ListenerRecord) IPv6() bool {
	return r.Local.Addr().Is6()
}

// HasCreateTime reports whether CreateTime was set from the source row.
func (r ListenerRecord) HasCreateTime() bool {
	return !r.CreateTime.IsZero()
}

type listenerJSON struct {
	LocalAddress  string     `json:"localAddress"`
	LocalPort     uint16     `json:"localPort"`
	RemoteAddress string     `json:"remoteAddress"`
	RemotePort    uint16     `json:"remotePort"`
	State         TCPState   `json:"state"`
	ProcessID     int        `json:"pid"`
	CreateTime    *time.Time `json:"createTime"`
	OwnerModule   string     `json:"ownerModule"`
}

// MarshalJSON keeps an unset CreateTime distinct from a real one by
// emitting null, and always emits ownerModule.
func (r ListenerRecord) MarshalJSON() ([]byte, error) {
	out := listenerJSON{
		LocalAddress:  r.Local.Addr().String(),
		LocalPort:     r.Local.Port(),
		RemoteAddress: r.Remote.Addr().String(),
		RemotePort:    r.Remote.Port(),
		State:         r.State,
		ProcessID:     r.ProcessID,
		OwnerModule:   r.OwnerModule,
	}
	if r.HasCreateTime() {
		t := r.CreateTime.UTC()
		out.CreateTime = &t
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (r *ListenerRecord) UnmarshalJSON(data []byte) error {
	var in listenerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	local, err := netip.ParseAddr(in.LocalAddress)
	if err != nil {
		return err
	}
	remote, err := netip.ParseAddr(in.RemoteAddress)
	if err != nil {
		return err
	}
	*r = ListenerRecord{
		Local:       netip.AddrPortFrom(local, in.LocalPort),
		Remote:      netip.AddrPortFrom(remote, in.RemotePort),
		State:       in.State,
		ProcessID:   in.ProcessID,
		OwnerModule: in.OwnerModule,
	}
	if in.CreateTime != nil {
		r.CreateTime = *in.CreateTime
	}
	return nil
}
