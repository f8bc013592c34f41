package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Physics: PhysicsConfig{
			FixedStep:   1.0 / 60.0,
			Gravity:     -30,
			Iterations:  20,
			MaxSubSteps: 5,
		},
		Sandbox: SandboxConfig{
			Width:  1280,
			Height: 720,
			Level:  "arena.yaml",
			Scale:  12,
		},
		Prefabs: PrefabsConfig{
			Dir: "prefabs",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 1.0/60.0, cfg.Physics.FixedStep, 1e-12)
	assert.Equal(t, 20, cfg.Physics.Iterations)
	assert.Equal(t, "arena.yaml", cfg.Sandbox.Level)
	assert.True(t, cfg.Prefabs.Watch)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
physics:
  fixed_step: 0.01
  gravity: -20
sandbox:
  level: tower.yaml
  debug: true
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.InDelta(t, 0.01, cfg.Physics.FixedStep, 1e-12)
	assert.InDelta(t, -20, cfg.Physics.Gravity, 1e-12)
	assert.Equal(t, 20, cfg.Physics.Iterations)
	assert.Equal(t, "tower.yaml", cfg.Sandbox.Level)
	assert.True(t, cfg.Sandbox.Debug)
	assert.Equal(t, 1280, cfg.Sandbox.Width)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
physics:
  fixed_step: 0
logging:
  format: xml
`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "physics.fixed_step")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidatePhysics(t *testing.T) {
	cfg := validConfig()
	cfg.Physics.Iterations = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Physics.MaxSubSteps = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateSandbox(t *testing.T) {
	cfg := validConfig()
	cfg.Sandbox.Level = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Sandbox.Scale = 0
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyFixedStepRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		step := rapid.Float64Range(-1, 1).Draw(t, "step")
		cfg := validConfig()
		cfg.Physics.FixedStep = step
		err := cfg.Validate()
		if step > 0 && step <= 0.1 {
			if err != nil {
				t.Fatalf("step %v should be valid: %v", step, err)
			}
		} else if err == nil {
			t.Fatalf("step %v should be rejected", step)
		}
	})
}
