// Package config provides Viper-based configuration loading for the grapplefps sandbox.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// PhysicsConfig holds solver settings shared by every body in the scene.
type PhysicsConfig struct {
	// FixedStep is the physics tick length in seconds.
	FixedStep float64 `mapstructure:"fixed_step"`
	// Gravity is the vertical acceleration in units per second squared. Negative pulls down.
	Gravity float64 `mapstructure:"gravity"`
	// Iterations is the solver iteration count per step.
	Iterations int `mapstructure:"iterations"`
	// MaxSubSteps bounds how many fixed ticks one frame may run to catch up.
	MaxSubSteps int `mapstructure:"max_sub_steps"`
}

// SandboxConfig holds window and scene settings for the viewer.
type SandboxConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Level  string `mapstructure:"level"`
	Debug  bool   `mapstructure:"debug"`
	// Scale is the number of screen pixels per world unit.
	Scale float64 `mapstructure:"scale"`
}

// PrefabsConfig controls where entity prefabs are read from.
type PrefabsConfig struct {
	// Dir overrides the embedded prefabs when files exist on disk.
	Dir string `mapstructure:"dir"`
	// Watch enables hot reload of prefab files.
	Watch bool `mapstructure:"watch"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Physics PhysicsConfig `mapstructure:"physics"`
	Sandbox SandboxConfig `mapstructure:"sandbox"`
	Prefabs PrefabsConfig `mapstructure:"prefabs"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validatePhysics(c.Physics); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSandbox(c.Sandbox); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validatePhysics(p PhysicsConfig) error {
	var errs []string
	if p.FixedStep <= 0 || p.FixedStep > 0.1 {
		errs = append(errs, fmt.Sprintf("physics.fixed_step must be in (0, 0.1], got %v", p.FixedStep))
	}
	if p.Iterations < 1 {
		errs = append(errs, fmt.Sprintf("physics.iterations must be >= 1, got %d", p.Iterations))
	}
	if p.MaxSubSteps < 1 {
		errs = append(errs, fmt.Sprintf("physics.max_sub_steps must be >= 1, got %d", p.MaxSubSteps))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSandbox(s SandboxConfig) error {
	var errs []string
	if s.Width < 1 || s.Height < 1 {
		errs = append(errs, fmt.Sprintf("sandbox.width and sandbox.height must be >= 1, got %dx%d", s.Width, s.Height))
	}
	if s.Level == "" {
		errs = append(errs, "sandbox.level must not be empty")
	}
	if s.Scale <= 0 {
		errs = append(errs, fmt.Sprintf("sandbox.scale must be > 0, got %v", s.Scale))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Default returns the configuration used when no file is supplied.
//
// Postcondition: The returned Config passes Validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are plain scalars; Unmarshal cannot fail on them.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults plus
// environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with GRAPPLEFPS_ prefix
	v.SetEnvPrefix("GRAPPLEFPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("physics.fixed_step", 1.0/60.0)
	v.SetDefault("physics.gravity", -30.0)
	v.SetDefault("physics.iterations", 20)
	v.SetDefault("physics.max_sub_steps", 5)

	v.SetDefault("sandbox.width", 1280)
	v.SetDefault("sandbox.height", 720)
	v.SetDefault("sandbox.level", "arena.yaml")
	v.SetDefault("sandbox.debug", false)
	v.SetDefault("sandbox.scale", 12.0)

	v.SetDefault("prefabs.dir", "prefabs")
	v.SetDefault("prefabs.watch", true)
}
