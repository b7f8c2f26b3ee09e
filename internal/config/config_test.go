package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
	require.Equal(t, 128.0, cfg.Scene.BoxSize)
	require.Equal(t, "fail_open", cfg.Scene.UndefinedPolicy)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collide.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[scene]
name = "harbor"
box_size = 64
undefined_policy = "fail_closed"
locking = true

[loop]
tick_rate = "20ms"
max_ticks = 500

[database]
enabled = true
conn_max_lifetime = "5m"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "harbor", cfg.Scene.Name)
	require.Equal(t, 64.0, cfg.Scene.BoxSize)
	require.Equal(t, "fail_closed", cfg.Scene.UndefinedPolicy)
	require.True(t, cfg.Scene.Locking)
	require.Equal(t, 20*time.Millisecond, cfg.Loop.TickRate)
	require.Equal(t, uint64(500), cfg.Loop.MaxTicks)
	require.True(t, cfg.Database.Enabled)
	require.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)

	// untouched keys keep their defaults
	require.Equal(t, 96.0, cfg.Scene.PerceptionRange)
	require.Equal(t, "scripts", cfg.Data.ScriptsDir)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zero box size":  "[scene]\nbox_size = 0\n",
		"unknown policy": "[scene]\nundefined_policy = \"maybe\"\n",
		"zero tick":      "[loop]\ntick_rate = \"0s\"\n",
		"broken toml":    "[scene\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, Parse([]byte(src), Defaults()))
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "collide.toml"))
	require.NoError(t, err)
	require.Equal(t, "town", cfg.Scene.Name)
	require.Equal(t, 50*time.Millisecond, cfg.Loop.TickRate)
}
