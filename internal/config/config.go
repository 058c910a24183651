// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the logicsim command configuration.
//
// Values come from, in increasing priority: defaults, an optional YAML file,
// and environment variables prefixed with LOGICSIM_ (LOGICSIM_SIM_TICKS
// overrides sim.ticks).
//
package config

import (
	"strings"
	"time"

	"github.com/db47h/logicsim"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding configuration
// keys.
//
const EnvPrefix = "LOGICSIM"

// Config holds the command configuration.
//
type Config struct {
	Sim       SimConfig       `mapstructure:"sim"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Render    RenderConfig    `mapstructure:"render"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
}

// SimConfig controls the simulation.
//
type SimConfig struct {
	Ticks        int           `mapstructure:"ticks"`         // headless run length
	SettlePasses int           `mapstructure:"settle_passes"` // forced settle passes of new circuits
	TickRate     time.Duration `mapstructure:"tick_rate"`     // interactive tick period
}

// LoggingConfig controls logging.
//
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn or error
	Format string `mapstructure:"format"` // json or console
}

// RenderConfig controls PNG snapshots.
//
type RenderConfig struct {
	Scale  float64 `mapstructure:"scale"`
	Margin int     `mapstructure:"margin"`
}

// WorkspaceConfig controls the editing session.
//
type WorkspaceConfig struct {
	MaxCircuits int    `mapstructure:"max_circuits"`
	Theme       string `mapstructure:"theme"`
}

// Load reads the configuration. An empty path skips the configuration file.
//
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sim.ticks", 16)
	v.SetDefault("sim.settle_passes", 1)
	v.SetDefault("sim.tick_rate", "100ms")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("render.scale", 1.0)
	v.SetDefault("render.margin", 20)

	v.SetDefault("workspace.max_circuits", 8)
	v.SetDefault("workspace.theme", logicsim.DefaultTheme)
}

// Validate checks the configuration values.
//
func (c *Config) Validate() error {
	if c.Sim.Ticks < 0 {
		return errors.Errorf("sim.ticks must not be negative: %d", c.Sim.Ticks)
	}
	if c.Sim.SettlePasses < 1 || c.Sim.SettlePasses > logicsim.MaxSettlePasses {
		return errors.Errorf("sim.settle_passes must be between 1 and %d: %d", logicsim.MaxSettlePasses, c.Sim.SettlePasses)
	}
	if c.Sim.TickRate < time.Millisecond {
		return errors.Errorf("sim.tick_rate must be at least 1ms: %v", c.Sim.TickRate)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return errors.Errorf("invalid log format: %s", c.Logging.Format)
	}
	if c.Render.Scale <= 0 {
		return errors.Errorf("render.scale must be positive: %v", c.Render.Scale)
	}
	if c.Render.Margin < 0 {
		return errors.Errorf("render.margin must not be negative: %d", c.Render.Margin)
	}
	if c.Workspace.MaxCircuits < 1 {
		return errors.Errorf("workspace.max_circuits must be at least 1: %d", c.Workspace.MaxCircuits)
	}
	return nil
}
