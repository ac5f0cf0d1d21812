package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type Configuration struct {
	Version    string `toml:"-"`
	BuildDate  string `toml:"-"`
	Commit     string `toml:"-"`
	// DebugBound writes each loaded program as text next to its file.
	DebugBound bool `toml:"-"`

	Log         LogConfig         `toml:"log"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Eval        EvalConfig        `toml:"eval"`
	History     HistoryConfig     `toml:"history"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type DiagnosticsConfig struct {
	// Color is auto, always or never.
	Color string `toml:"color"`
}

type EvalConfig struct {
	// Seed for random; 0 seeds from the clock.
	Seed int64 `toml:"seed"`
}

// HistoryConfig selects the evaluation store. Driver is sqlite3, mysql or
// postgres; mysql DSNs always get parseTime=true added.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Driver  string `toml:"driver"`
	DSN     string `toml:"dsn"`
}

// DefaultConfiguration logs nothing, colours terminals only and keeps
// history disabled in a sqlite file under the casc home.
func DefaultConfiguration() Configuration {
	return Configuration{
		Version:     "dev",
		BuildDate:   "unknown",
		Commit:      "unknown",
		Log:         LogConfig{Level: "none"},
		Diagnostics: DiagnosticsConfig{Color: "auto"},
		History: HistoryConfig{
			Driver: "sqlite3",
			DSN:    filepath.Join(Home(), "history.db"),
		},
	}
}

// Home is $CASC_HOME, falling back to ~/.casc.
func Home() string {
	if home := os.Getenv("CASC_HOME"); home != "" {
		return home
	}
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".casc")
	}
	return ".casc"
}

// LoadConfiguration overlays the TOML file at path onto cfg. Keys the
// configuration does not know are an error.
func LoadConfiguration(path string, cfg *Configuration) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrapf(err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}
