// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the workspace API token goes to
// the OS keychain.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"lakeshift/cli/internal/xdg"
)

// Cloud identifies the workspace deployment kind. Only AWS deployments
// support instance-profile attachment and therefore the metastore retry pass.
const (
	CloudAWS   = "aws"
	CloudAzure = "azure"
)

// Duration wraps time.Duration so it reads as a human string in TOML
// (e.g. "30s", "15m").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds non-sensitive CLI settings. The value is loaded once and
// never mutated; derived settings come from accessor functions.
type Config struct {
	Host      string `toml:"host"`
	Cloud     string `toml:"cloud"`
	LoggedIn  bool   `toml:"logged_in"`
	ExportDir string `toml:"export_dir"`

	BatchSize          int      `toml:"batch_size"`
	PollInterval       Duration `toml:"poll_interval"`
	CommandTimeout     Duration `toml:"command_timeout"`
	SessionSettleDelay Duration `toml:"session_settle_delay"`
	SessionAttempts    int      `toml:"session_attempts"`

	// ClusterTemplate optionally points at a JSON file overriding the
	// embedded DDL cluster template.
	ClusterTemplate string `toml:"cluster_template"`
}

// Defaults returns the configuration used when no config file exists.
func Defaults() Config {
	return Config{
		Cloud:              CloudAWS,
		ExportDir:          "logs/",
		BatchSize:          100,
		PollInterval:       Duration(1 * time.Second),
		CommandTimeout:     Duration(30 * time.Minute),
		SessionSettleDelay: Duration(5 * time.Second),
		SessionAttempts:    3,
	}
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads configuration; missing file returns defaults. Environment
// variables LAKESHIFT_HOST and LAKESHIFT_EXPORT_DIR override the file, and
// a .env file in the working directory is honored.
func Load() (Config, error) {
	_ = godotenv.Load() // best effort; absence of .env is fine

	p, err := path()
	if err != nil {
		return Config{}, err
	}
	c, err := loadFile(p)
	if err != nil {
		return c, err
	}
	return withEnvOverrides(c), nil
}

func loadFile(p string) (Config, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Config{}, err
	}
	c := Defaults()
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return normalize(c), nil
}

func withEnvOverrides(c Config) Config {
	if v := strings.TrimSpace(os.Getenv("LAKESHIFT_HOST")); v != "" {
		c.Host = v
	}
	if v := strings.TrimSpace(os.Getenv("LAKESHIFT_EXPORT_DIR")); v != "" {
		c.ExportDir = v
	}
	return c
}

// normalize backfills zero-valued tunables so a sparse config file still
// yields a usable configuration.
func normalize(c Config) Config {
	d := Defaults()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = d.CommandTimeout
	}
	if c.SessionSettleDelay < 0 {
		c.SessionSettleDelay = d.SessionSettleDelay
	}
	if c.SessionAttempts <= 0 {
		c.SessionAttempts = d.SessionAttempts
	}
	if c.Cloud == "" {
		c.Cloud = d.Cloud
	}
	if c.ExportDir == "" {
		c.ExportDir = d.ExportDir
	}
	return c
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// IsAWS reports whether the configured deployment is the credential-bearing
// kind that supports instance-level role attachment.
func (c Config) IsAWS() bool { return c.Cloud == CloudAWS }
