package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jask/plotbench/internal/signal"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	UI       UIConfig       `mapstructure:"ui"`
	Panes    PaneConfig     `mapstructure:"panes"`
	Sampling SamplingConfig `mapstructure:"sampling"`
	Signals  []SignalConfig `mapstructure:"signals"`
}

// DatabaseConfig holds the sqlite path used for sample exports.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	UnitsPerRow  float64 `mapstructure:"units_per_row"`
	SidebarWidth int     `mapstructure:"sidebar_width"`
	LogPath      string  `mapstructure:"log_path"`
}

type PaneConfig struct {
	DefaultHeight float64 `mapstructure:"default_height"`
	MinHeight     float64 `mapstructure:"min_height"`
}

// SamplingConfig is the x domain, in minutes, every pane samples over.
type SamplingConfig struct {
	DomainMin float64 `mapstructure:"domain_min"`
	DomainMax float64 `mapstructure:"domain_max"`
	Points    int     `mapstructure:"points"`
}

// SignalConfig describes a user signal registered after the built-ins.
type SignalConfig struct {
	Name      string  `mapstructure:"name"`
	Color     string  `mapstructure:"color"`
	Kind      string  `mapstructure:"kind"`
	Amplitude float64 `mapstructure:"amplitude"`
	Period    float64 `mapstructure:"period"`
	Phase     float64 `mapstructure:"phase"`
	Offset    float64 `mapstructure:"offset"`
	Slope     float64 `mapstructure:"slope"`
	Threshold float64 `mapstructure:"threshold"`
	Midpoint  float64 `mapstructure:"midpoint"`
	Rate      float64 `mapstructure:"rate"`
}

// Generator validates the entry and builds its generator.
func (s SignalConfig) Generator() (signal.Generator, error) {
	if strings.TrimSpace(s.Name) == "" {
		return signal.Generator{}, fmt.Errorf("signal: name is required")
	}
	if _, err := colorful.Hex(s.Color); err != nil {
		return signal.Generator{}, fmt.Errorf("signal %q: color %q: %w", s.Name, s.Color, err)
	}
	kind, err := signal.ParseKind(s.Kind)
	if err != nil {
		return signal.Generator{}, fmt.Errorf("signal %q: %w", s.Name, err)
	}
	return signal.Generator{
		Kind:      kind,
		Amplitude: s.Amplitude,
		Period:    s.Period,
		Phase:     s.Phase,
		Offset:    s.Offset,
		Slope:     s.Slope,
		Threshold: s.Threshold,
		Midpoint:  s.Midpoint,
		Rate:      s.Rate,
	}, nil
}

// Flags returns the command line flags Load understands.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("plotbench", pflag.ContinueOnError)
	fs.String("config", "", "path to config file (default: ~/.config/plotbench/config.toml)")
	fs.String("log", "", "write log records to this file")
	fs.String("export-db", "", "sqlite database used for sample exports")
	fs.Bool("write-config", false, "write the effective config back to the config file and exit")
	fs.BoolP("help", "h", false, "show help")
	return fs
}

var flagKeys = map[string]string{
	"log":       "ui.log_path",
	"export-db": "database.path",
}

// Load reads configuration from defaults, the config file, env and flags, in
// increasing priority. Env var overrides use prefix PLOTBENCH_. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "plotbench", "exports.db"))
	v.SetDefault("ui.units_per_row", 20.0)
	v.SetDefault("ui.sidebar_width", 28)
	v.SetDefault("ui.log_path", filepath.Join(os.TempDir(), "plotbench.log"))
	v.SetDefault("panes.default_height", 300.0)
	v.SetDefault("panes.min_height", 100.0)
	v.SetDefault("sampling.domain_min", 0.0)
	v.SetDefault("sampling.domain_max", 7200.0)
	v.SetDefault("sampling.points", 200)

	v.SetConfigType("toml")

	cfgPath := configPath(fs)
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "plotbench"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PLOTBENCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// a missing default config file is fine; an explicit one must exist
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks ranges that would leave the workbench unusable.
func (c Config) Validate() error {
	if c.Panes.MinHeight <= 0 {
		return fmt.Errorf("panes.min_height must be positive, got %v", c.Panes.MinHeight)
	}
	if c.Panes.DefaultHeight < c.Panes.MinHeight {
		return fmt.Errorf("panes.default_height %v is below panes.min_height %v", c.Panes.DefaultHeight, c.Panes.MinHeight)
	}
	if c.Sampling.DomainMax <= c.Sampling.DomainMin {
		return fmt.Errorf("sampling domain [%v, %v] is empty", c.Sampling.DomainMin, c.Sampling.DomainMax)
	}
	if c.Sampling.Points < 2 {
		return fmt.Errorf("sampling.points must be at least 2, got %d", c.Sampling.Points)
	}
	if c.UI.UnitsPerRow <= 0 {
		return fmt.Errorf("ui.units_per_row must be positive, got %v", c.UI.UnitsPerRow)
	}
	for _, s := range c.Signals {
		if _, err := s.Generator(); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the config file Save writes to.
func Path(fs *pflag.FlagSet) string {
	if p := configPath(fs); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "plotbench", "config.toml")
}

// Save writes the provided config to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.units_per_row", cfg.UI.UnitsPerRow)
	v.Set("ui.sidebar_width", cfg.UI.SidebarWidth)
	v.Set("ui.log_path", cfg.UI.LogPath)
	v.Set("panes.default_height", cfg.Panes.DefaultHeight)
	v.Set("panes.min_height", cfg.Panes.MinHeight)
	v.Set("sampling.domain_min", cfg.Sampling.DomainMin)
	v.Set("sampling.domain_max", cfg.Sampling.DomainMax)
	v.Set("sampling.points", cfg.Sampling.Points)
	if len(cfg.Signals) > 0 {
		signals := make([]map[string]any, 0, len(cfg.Signals))
		for _, s := range cfg.Signals {
			signals = append(signals, map[string]any{
				"name":      s.Name,
				"color":     s.Color,
				"kind":      s.Kind,
				"amplitude": s.Amplitude,
				"period":    s.Period,
				"phase":     s.Phase,
				"offset":    s.Offset,
				"slope":     s.Slope,
				"threshold": s.Threshold,
				"midpoint":  s.Midpoint,
				"rate":      s.Rate,
			})
		}
		v.Set("signals", signals)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func configPath(fs *pflag.FlagSet) string {
	if fs != nil {
		if p, err := fs.GetString("config"); err == nil && p != "" {
			return p
		}
	}
	return os.Getenv("PLOTBENCH_CONFIG")
}
