package tcptable

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestRowLayouts(t *testing.T) {
	tests := []struct {
		name       string
		row        RawRow
		size       uintptr
		tableStart uintptr
	}{
		{"MIB_TCPROW_OWNER_PID", PidRowV4{}, unsafe.Sizeof(PidRowV4{}), 4},
		{"MIB_TCPROW_OWNER_MODULE", ModuleRowV4{}, unsafe.Sizeof(ModuleRowV4{}), 8},
		{"MIB_TCP6ROW_OWNER_PID", PidRowV6{}, unsafe.Sizeof(PidRowV6{}), 4},
		{"MIB_TCP6ROW_OWNER_MODULE", ModuleRowV6{}, unsafe.Sizeof(ModuleRowV6{}), 8},
	}
	want := map[string]uintptr{
		"MIB_TCPROW_OWNER_PID":     24,
		"MIB_TCPROW_OWNER_MODULE":  160,
		"MIB_TCP6ROW_OWNER_PID":    56,
		"MIB_TCP6ROW_OWNER_MODULE": 192,
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want[tt.name], tt.size)
			assert.Equal(t, tt.tableStart, tableOffset(tt.row))
		})
	}
}
