package config

import (
	"fmt"
	"time"
)

// Duration is a time.Duration written in config files as a Go duration
// string such as "5s" or "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q (use a unit, e.g. \"5s\"): %w", text, err)
	}
	if parsed < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", text)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// fileDurations holds the duration keys of a config file. They are decoded
// separately so Config keeps plain time.Duration fields.
type fileDurations struct {
	ConnMaxLifetime *Duration `toml:"conn_max_lifetime"`
	BusyTimeout     *Duration `toml:"busy_timeout"`
}

func (fd fileDurations) apply(c *Config) {
	if fd.ConnMaxLifetime != nil {
		c.ConnMaxLifetime = fd.ConnMaxLifetime.Duration
	}
	if fd.BusyTimeout != nil {
		c.BusyTimeout = fd.BusyTimeout.Duration
	}
}
