package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pelletier/go-toml/v2"
)

// EnvLogDir overrides Config.LogDir when set.
const EnvLogDir = "CALLWATCH_LOG_DIR"

// Configuration errors.
var (
	// ErrMissingLogDir indicates Config.LogDir is empty.
	ErrMissingLogDir = errors.New("config: log dir is required")

	// ErrMissingPrefix indicates Config.Prefix is empty.
	ErrMissingPrefix = errors.New("config: prefix is required")

	// ErrInvalidPrefix indicates Config.Prefix contains path separators.
	ErrInvalidPrefix = errors.New("config: prefix must not contain path separators")
)

// Config controls where invocation logs are written and how the
// date-partitioned files are named.
type Config struct {
	// LogDir is the root directory for all log files. Created on first use.
	LogDir string `toml:"log_dir"`

	// Prefix is the leading component of every log file name.
	Prefix string `toml:"prefix"`

	// Console echoes every persisted line to stdout for live inspection.
	Console bool `toml:"console"`
}

// Default returns the baseline configuration. Console echo is on only when
// stderr is a terminal.
func Default() Config {
	fd := os.Stderr.Fd()
	return Config{
		LogDir:  "logs",
		Prefix:  "facefusion",
		Console: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// Load reads a TOML file on top of the defaults and applies environment
// overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogDir)); v != "" {
		c.LogDir = v
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.LogDir) == "" {
		return ErrMissingLogDir
	}
	if strings.TrimSpace(c.Prefix) == "" {
		return ErrMissingPrefix
	}
	if strings.ContainsAny(c.Prefix, `/\`) {
		return ErrInvalidPrefix
	}
	return nil
}

// GlobalPath returns the shared, date-partitioned log file for the given
// day: <log_dir>/<prefix>_<YYYYMMDD>.log.
func (c Config) GlobalPath(t time.Time) string {
	return filepath.Join(c.LogDir, fmt.Sprintf("%s_%s.log", c.Prefix, t.Format("20060102")))
}

// CallablePath returns the per-callable log file for the given day:
// <log_dir>/<prefix>_<name>_<YYYYMMDD>.log.
func (c Config) CallablePath(name string, t time.Time) string {
	return filepath.Join(c.LogDir, fmt.Sprintf("%s_%s_%s.log", c.Prefix, sanitize(name), t.Format("20060102")))
}

// FormatLabel keeps configuration contents out of argument logs.
func (c Config) FormatLabel() string { return "Config()" }

// sanitize maps method receivers and other symbol punctuation onto
// filename-safe characters.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', '*':
			return -1
		case '/', '\\', ':':
			return '-'
		}
		return r
	}, name)
}
