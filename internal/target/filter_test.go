package target

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/netowner/netowner/pkg/model"
)

var records = []model.ListenerRecord{
	{
		Local:       netip.MustParseAddrPort("0.0.0.0:135"),
		Remote:      netip.MustParseAddrPort("0.0.0.0:0"),
		State:       model.StateListen,
		ProcessID:   888,
		OwnerModule: "RpcSs",
	},
	{
		Local:       netip.MustParseAddrPort("10.0.0.4:51000"),
		Remote:      netip.MustParseAddrPort("20.1.2.3:443"),
		State:       model.StateEstablished,
		ProcessID:   4100,
		OwnerModule: `C:\Program Files\Mozilla Firefox\firefox.exe`,
	},
	{
		Local:       netip.MustParseAddrPort("[::]:22"),
		Remote:      netip.MustParseAddrPort("[::]:0"),
		State:       model.StateListen,
		ProcessID:   812,
		OwnerModule: "/usr/sbin/sshd",
	},
	{
		Local:     netip.MustParseAddrPort("127.0.0.1:8080"),
		Remote:    netip.MustParseAddrPort("127.0.0.1:40000"),
		State:     model.StateCloseWait,
		ProcessID: 0,
	},
}

func pids(recs []model.ListenerRecord) []int {
	out := make([]int, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ProcessID)
	}
	return out
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"empty keeps all", Filter{}, []int{888, 4100, 812, 0}},
		{"local port", Filter{Port: 22}, []int{812}},
		{"remote port", Filter{Port: 443}, []int{4100}},
		{"pid", Filter{PID: 888}, []int{888}},
		{"states", Filter{States: []model.TCPState{model.StateListen}}, []int{888, 812}},
		{"owner substring", Filter{Owner: "FIREFOX"}, []int{4100}},
		{"owner exact base name", Filter{Owner: "sshd", Exact: true}, []int{812}},
		{"owner exact without extension", Filter{Owner: "firefox", Exact: true}, []int{4100}},
		{"owner exact rejects substring", Filter{Owner: "fire", Exact: true}, []int{}},
		{"combined", Filter{States: []model.TCPState{model.StateListen}, Owner: "rpc"}, []int{888}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pids(tt.filter.Apply(records)))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"", Filter{}},
		{"443", Filter{Port: 443}},
		{":8080", Filter{Port: 8080}},
		{"pid:1234", Filter{PID: 1234}},
		{"PID:7", Filter{PID: 7}},
		{"svchost", Filter{Owner: "svchost"}},
		{"70000", Filter{Owner: "70000"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}
