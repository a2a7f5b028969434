// Package config loads device-cli configuration from an optional YAML file
// and environment variables. Flags override config, config overrides
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Screenshot holds the compression budget. The bounded default
// (800x1400, quality 70, 1 MiB) is canonical: the byte ceiling is the
// reason the compressor exists, so configurations without one must opt in
// explicitly by setting maxSizeBytes to 0.
type Screenshot struct {
	MaxWidth     int `yaml:"maxWidth"`
	MaxHeight    int `yaml:"maxHeight"`
	Quality      int `yaml:"quality"`
	MaxSizeBytes int `yaml:"maxSizeBytes"`
}

// Accessibility holds the desktop introspection tuning knobs.
type Accessibility struct {
	CacheTTL       time.Duration `yaml:"cacheTTL"`
	ProbeTimeout   time.Duration `yaml:"probeTimeout"`
	ContainerDepth int           `yaml:"containerDepth"`
}

// Backends holds paths to the backend executables. Empty means "resolve
// from PATH".
type Backends struct {
	ADBPath    string `yaml:"adbPath"`
	XcrunPath  string `yaml:"xcrunPath"`
	IDBPath    string `yaml:"idbPath"`
	CompanionD string `yaml:"companion"`
}

// Config is the full configuration tree.
type Config struct {
	LogLevel      string        `yaml:"logLevel"`
	Screenshot    Screenshot    `yaml:"screenshot"`
	Accessibility Accessibility `yaml:"accessibility"`
	Backends      Backends      `yaml:"backends"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Screenshot: Screenshot{
			MaxWidth:     800,
			MaxHeight:    1400,
			Quality:      70,
			MaxSizeBytes: 1 << 20,
		},
		Accessibility: Accessibility{
			CacheTTL:       3 * time.Second,
			ProbeTimeout:   25 * time.Second,
			ContainerDepth: 1,
		},
	}
}

// Load reads configuration from path (or the default location when path is
// empty), layered on top of Default. A missing file is not an error. A .env
// file in the working directory is loaded first so env overrides can come
// from either place.
func Load(path string) (Config, error) {
	// Best-effort: absence of a .env file is the normal case.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".config", "device-cli", "config.yaml")
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DEVICE_CLI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DEVICE_CLI_ADB_PATH"); v != "" {
		cfg.Backends.ADBPath = v
	}
	if v := os.Getenv("DEVICE_CLI_IDB_PATH"); v != "" {
		cfg.Backends.IDBPath = v
	}
	if v := os.Getenv("DEVICE_CLI_MAX_SCREENSHOT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Screenshot.MaxSizeBytes = n
		}
	}
}
