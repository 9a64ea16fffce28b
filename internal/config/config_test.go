package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/plotbench/internal/signal"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PLOTBENCH_CONFIG", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "plotbench", "exports.db"), cfg.Database.Path)
	require.Equal(t, 300.0, cfg.Panes.DefaultHeight)
	require.Equal(t, 100.0, cfg.Panes.MinHeight)
	require.Equal(t, 0.0, cfg.Sampling.DomainMin)
	require.Equal(t, 7200.0, cfg.Sampling.DomainMax)
	require.Equal(t, 200, cfg.Sampling.Points)
	require.Equal(t, 20.0, cfg.UI.UnitsPerRow)
	require.Empty(t, cfg.Signals)
}

func TestLoadFileAndFlags(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "bench.toml")
	body := `
[panes]
default_height = 400

[sampling]
points = 64

[[signals]]
name = "Fast"
color = "#00ff88"
kind = "sine"
amplitude = 2
period = 60
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	fs := Flags()
	require.NoError(t, fs.Parse([]string{"--config", path, "--export-db", filepath.Join(home, "x.db")}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	require.Equal(t, 400.0, cfg.Panes.DefaultHeight)
	require.Equal(t, 64, cfg.Sampling.Points)
	require.Equal(t, filepath.Join(home, "x.db"), cfg.Database.Path)
	require.Len(t, cfg.Signals, 1)

	gen, err := cfg.Signals[0].Generator()
	require.NoError(t, err)
	require.Equal(t, signal.KindSine, gen.Kind)
	require.Equal(t, 2.0, gen.Amplitude)
	require.Equal(t, 60.0, gen.Period)
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("PLOTBENCH_SAMPLING_POINTS", "50")

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.Sampling.Points)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	home := isolate(t)
	t.Setenv("PLOTBENCH_CONFIG", filepath.Join(home, "nope.toml"))

	_, err := Load(nil)
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad color":      "[[signals]]\nname = \"x\"\ncolor = \"teal\"\nkind = \"sine\"\n",
		"bad kind":       "[[signals]]\nname = \"x\"\ncolor = \"#008080\"\nkind = \"square\"\n",
		"empty domain":   "[sampling]\ndomain_min = 10\ndomain_max = 10\n",
		"height too low": "[panes]\ndefault_height = 50\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			home := isolate(t)
			path := filepath.Join(home, "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			t.Setenv("PLOTBENCH_CONFIG", path)

			_, err := Load(nil)
			require.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	home := isolate(t)
	cfg, err := Load(nil)
	require.NoError(t, err)
	cfg.Panes.DefaultHeight = 360
	cfg.Signals = []SignalConfig{{Name: "Tide", Color: "#3366ff", Kind: "cosine", Amplitude: 1.5, Period: 720}}

	path := filepath.Join(home, "nested", "config.toml")
	require.NoError(t, Save(path, cfg))

	fs := Flags()
	require.NoError(t, fs.Parse([]string{"--config", path}))
	require.Equal(t, path, Path(fs))

	loaded, err := Load(fs)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestPathDefaultsUnderHome(t *testing.T) {
	home := isolate(t)
	require.Equal(t, filepath.Join(home, ".config", "plotbench", "config.toml"), Path(nil))
}
