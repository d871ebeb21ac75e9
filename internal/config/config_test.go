package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netowner/netowner/internal/tcptable"
	"github.com/netowner/netowner/pkg/model"
)

func TestDir(t *testing.T) {
	t.Run("explicit env", func(t *testing.T) {
		t.Setenv("NETOWNER_CONFIG_DIR", "/tmp/custom")
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		dir, err := Dir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/custom", dir)
	})
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("NETOWNER_CONFIG_DIR", "")
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		dir, err := Dir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/xdg", "netowner"), dir)
	})
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
families: [ipv6]
owner_level: pid
scope: listeners
workers: 4
format: json
filter:
  port: 443
  states: [LISTENING, established]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Color, "unset keys keep their defaults")

	fams, err := cfg.AddressFamilies()
	require.NoError(t, err)
	assert.Equal(t, []tcptable.Family{tcptable.FamilyIPv6}, fams)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, tcptable.OwnerPID, level)

	scope, err := cfg.TableScope()
	require.NoError(t, err)
	assert.Equal(t, tcptable.ScopeListeners, scope)

	f, err := cfg.RecordFilter()
	require.NoError(t, err)
	assert.Equal(t, 443, f.Port)
	assert.Equal(t, []model.TCPState{model.StateListen, model.StateEstablished}, f.States)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"family", "families: [ipx]\n", ErrUnknownFamily},
		{"owner level", "owner_level: thread\n", ErrUnknownOwnerLevel},
		{"scope", "scope: half-open\n", ErrUnknownScope},
		{"format", "format: xml\n", ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := Load(path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("colour: false\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")
	cfg := Default()
	cfg.Workers = 8
	cfg.Filter.Owner = "svchost"

	require.NoError(t, Save(path, cfg, false))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	err = Save(path, cfg, false)
	assert.ErrorIs(t, err, ErrExists)
	assert.NoError(t, Save(path, cfg, true))
}

func TestDefaultOwnerLevel(t *testing.T) {
	want := tcptable.OwnerPID
	if runtime.GOOS == "windows" {
		want = tcptable.OwnerModule
	}

	level, err := Default().Level()
	require.NoError(t, err)
	assert.Equal(t, want, level)

	level, err = Config{}.Level()
	require.NoError(t, err)
	assert.Equal(t, want, level, "an empty owner_level uses the platform default")

	level, err = Config{OwnerLevel: "module"}.Level()
	require.NoError(t, err)
	assert.Equal(t, tcptable.OwnerModule, level)
}
