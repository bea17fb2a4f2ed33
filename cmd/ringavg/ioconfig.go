package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lozord/ringavg"
)

const (
	kindFloat   = "float"
	kindDecimal = "decimal"
)

// Config is the TOML configuration of a ringavg run. Unset keys keep the library defaults.
type Config struct {
	Capacity *int `toml:"capacity"`

	// Precision names a preset: decimal32, decimal64 or decimal128.
	Precision string `toml:"precision"`

	// Digits overrides the preset's significant digits when non-zero.
	Digits   uint32 `toml:"digits"`
	Rounding string `toml:"rounding"`

	// Kind is float or decimal. Defaults to float.
	Kind string `toml:"kind"`
}

func ParseFromFile(file string) (*Config, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file at %q: %w", file, err)
	}

	var cfg Config
	if err := toml.Unmarshal(bs, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse Config from TOML file %q: %w", file, err)
	}

	return &cfg, nil
}

// Options turns the config into buffer options.
func (c *Config) Options() ([]ringavg.Option, error) {
	var opts []ringavg.Option
	if c.Capacity != nil {
		opts = append(opts, ringavg.WithCapacity(*c.Capacity))
	}

	p := ringavg.Decimal128
	if c.Precision != "" {
		var err error
		if p, err = ringavg.ParsePrecision(c.Precision); err != nil {
			return nil, err
		}
	}
	if c.Digits != 0 {
		p.Digits = c.Digits
	}
	if c.Rounding != "" {
		r, err := ringavg.ParseRounding(c.Rounding)
		if err != nil {
			return nil, err
		}
		p.Rounding = r
	}
	return append(opts, ringavg.WithPrecision(p)), nil
}

func (c *Config) kind() (string, error) {
	switch c.Kind {
	case "", kindFloat:
		return kindFloat, nil
	case kindDecimal:
		return kindDecimal, nil
	}
	return "", fmt.Errorf("unknown kind %q, want %q or %q: %w", c.Kind, kindFloat, kindDecimal, ringavg.ErrInvalidArgument)
}
