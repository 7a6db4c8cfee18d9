// Package config loads logwindow settings from a YAML file with environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/logwindow/internal/logwatch"
)

// Environment variables that override file settings.
const (
	EnvDatadir = "LOGWINDOW_DATADIR"
	EnvRPCURL  = "LOGWINDOW_RPC_URL"
)

// RPC holds the endpoint of the process under test.
type RPC struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Config holds all logwindow settings.
type Config struct {
	Datadir string `yaml:"datadir"`
	Network string `yaml:"network"`
	LogFile string `yaml:"log_file"` // overrides the derived debug.log path
	RPC     RPC    `yaml:"rpc"`
	Store   string `yaml:"store"` // window history database, empty disables recording
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		Network: logwatch.DefaultNetwork,
		RPC: RPC{
			URL: "http://127.0.0.1:18443",
		},
	}
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. A missing file is not an error. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		default:
			decoder := yaml.NewDecoder(bytes.NewReader(data))
			decoder.KnownFields(true)
			if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv(EnvDatadir); v != "" {
		cfg.Datadir = v
	}
	if v := os.Getenv(EnvRPCURL); v != "" {
		cfg.RPC.URL = v
	}
	if cfg.Network == "" {
		cfg.Network = logwatch.DefaultNetwork
	}
	return cfg, nil
}

// Validate checks that the debug log location can be derived.
func (c Config) Validate() error {
	if c.LogFile == "" && c.Datadir == "" {
		return fmt.Errorf("datadir is required when log_file is not set")
	}
	if c.Network != "" && filepath.Base(c.Network) != c.Network {
		return fmt.Errorf("network %q must be a single path element", c.Network)
	}
	return nil
}

// LogPath returns the debug log to watch: LogFile when set, otherwise
// <datadir>/<network>/debug.log.
func (c Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return logwatch.DebugLogPath(c.Datadir, c.Network)
}
