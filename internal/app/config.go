package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const defaultConfig = `
# matcher engine: lazy, dfa or library
engine = "lazy"
# print matches ordered by offset, then length, then keyword
sort = false
# debug, info, warn or error
log_level = "info"

[daemon]
# keyword set served by "kwscan daemon start" when --set is not given
set = "default"
# host:port for the Prometheus /metrics endpoint; empty disables it
metrics_addr = ""
`

// Config is the project configuration read from .kwscan/config.toml.
type Config struct {
	Engine   string `toml:"engine"`
	Sort     bool   `toml:"sort"`
	LogLevel string `toml:"log_level"`
	Daemon   struct {
		Set         string `toml:"set"`
		MetricsAddr string `toml:"metrics_addr"`
	} `toml:"daemon"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	c := &Config{}
	if _, err := toml.Decode(defaultConfig, c); err != nil {
		panic(err)
	}
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

// LoadConfig reads path over the defaults. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c, nil
	}
	if err := c.LoadFromFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFromFile decodes path into c. Keys absent from the file keep their
// current values.
func (c *Config) LoadFromFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrapf(err, "load config from file:%s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("load config from file:%s: unknown key %q", path, undecoded[0].String())
	}
	return errors.Wrapf(c.Validate(), "config %s", path)
}

// Validate checks field values.
func (c *Config) Validate() error {
	if !ValidEngine(c.Engine) {
		return errors.Errorf("unknown engine %q (want one of %v)", c.Engine, Engines())
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteFile writes c to path, refusing to overwrite an existing file.
func (c *Config) WriteFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrap(err, "write config")
	}
	if err := c.Write(f); err != nil {
		f.Close()
		return errors.Wrap(err, "encode config")
	}
	return f.Close()
}

// ParseLevel maps a level name to an slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// NewLogger returns a text logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
