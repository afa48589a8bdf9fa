/*
Package config holds the parameters of a click-driven trajectory generator:
boundary conditions, time allocation limits, the overflow bound on pieces
and the height scale applied to 2D clicks.

Configurations are read from YAML. Fields omitted from a file keep their
default values, so partial files are fine.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/geo/r3"
	"github.com/npillmayer/trajgen"
	"github.com/npillmayer/trajgen/minjerk"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

const maxFileSize = 1 << 20

// Config holds all tunable parameters. Vectors are lists of 3 numbers (x, y, z).
type Config struct {
	ClickHeight     float64   `yaml:"click_height"`
	InitialVel      []float64 `yaml:"initial_vel"`
	InitialAcc      []float64 `yaml:"initial_acc"`
	TerminalVel     []float64 `yaml:"terminal_vel"`
	TerminalAcc     []float64 `yaml:"terminal_acc"`
	AllocationSpeed float64   `yaml:"allocation_speed"`
	AllocationAcc   float64   `yaml:"allocation_acc"`
	MaxPieceNum     int       `yaml:"max_piece_num"`
	TargetTopic     string    `yaml:"target_topic"`
	Solver          string    `yaml:"solver"`
}

// Default returns a configuration with rest-to-rest boundary conditions,
// unit allocation limits and at most 16 pieces.
func Default() Config {
	return Config{
		ClickHeight:     2.0,
		InitialVel:      []float64{0, 0, 0},
		InitialAcc:      []float64{0, 0, 0},
		TerminalVel:     []float64{0, 0, 0},
		TerminalAcc:     []float64{0, 0, 0},
		AllocationSpeed: 1.0,
		AllocationAcc:   1.0,
		MaxPieceNum:     16,
		TargetTopic:     "/goal",
		Solver:          minjerk.Banded.String(),
	}
}

// Load reads a YAML configuration file over the defaults and validates it.
func Load(path string) (Config, error) {
	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if err != nil {
		return Config{}, fmt.Errorf("cannot stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return Config{}, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}
	data, err := os.ReadFile(clean)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field, combined into one error.
func (c Config) Validate() error {
	var errs error
	bad := func(format string, args ...interface{}) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfig}, args...)...))
	}
	if !trajgen.IsFinite(c.ClickHeight) {
		bad("click_height = %g", c.ClickHeight)
	}
	if !trajgen.IsFinite(c.AllocationSpeed) || c.AllocationSpeed <= 0 {
		bad("allocation_speed must be positive, is %g", c.AllocationSpeed)
	}
	if !trajgen.IsFinite(c.AllocationAcc) || c.AllocationAcc <= 0 {
		bad("allocation_acc must be positive, is %g", c.AllocationAcc)
	}
	if c.MaxPieceNum < 1 {
		bad("max_piece_num must be at least 1, is %d", c.MaxPieceNum)
	}
	for _, f := range []struct {
		name string
		v    []float64
	}{
		{"initial_vel", c.InitialVel},
		{"initial_acc", c.InitialAcc},
		{"terminal_vel", c.TerminalVel},
		{"terminal_acc", c.TerminalAcc},
	} {
		if v, err := trajgen.VFromSlice(f.v); err != nil {
			bad("%s: %v", f.name, err)
		} else if !trajgen.VecIsFinite(v) {
			bad("%s = %s is not finite", f.name, trajgen.VecString(v))
		}
	}
	if _, err := minjerk.ParseMethod(c.Solver); err != nil {
		bad("%v", err)
	}
	return errs
}

// Boundaries returns the start and end boundary velocity and acceleration.
// The configuration must be valid.
func (c Config) Boundaries() (startVel, startAcc, endVel, endAcc r3.Vector) {
	return vec(c.InitialVel), vec(c.InitialAcc), vec(c.TerminalVel), vec(c.TerminalAcc)
}

// Method returns the configured solve method, falling back to banded.
func (c Config) Method() minjerk.Method {
	m, _ := minjerk.ParseMethod(c.Solver)
	return m
}

func vec(s []float64) r3.Vector {
	v, _ := trajgen.VFromSlice(s)
	return v
}
