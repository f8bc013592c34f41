// Package script hosts tengo rules that feed controller overrides.
package script

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/grapplefps/motor"
	"github.com/milk9111/grapplefps/prefabs"
	"go.uber.org/zap"
)

// DefaultWallRunScript is the embedded rule loaded when a prefab names none.
const DefaultWallRunScript = "wallrun.tengo"

const wallRunOutput = "wallrunning"

var ErrNoOutput = errors.New("script: wallrunning not defined")

// WallRunInputs are the facts the rule may look at.
type WallRunInputs struct {
	Grounded    bool
	WallContact bool
	Speed       float64
	InputX      float64
	InputY      float64
}

// WallRun evaluates a tengo rule and publishes the result as a motor.WallRun
// override. The same *motor.WallRun is updated in place every evaluation.
type WallRun struct {
	name     string
	compiled *tengo.Compiled
	state    motor.WallRun
	logger   *zap.Logger
}

type Option func(*WallRun)

func WithLogger(l *zap.Logger) Option {
	return func(w *WallRun) {
		if l != nil {
			w.logger = l
		}
	}
}

func compile(src []byte) (*tengo.Compiled, error) {
	s := tengo.NewScript(src)
	_ = s.Add("grounded", false)
	_ = s.Add("wall_contact", false)
	_ = s.Add("speed", 0.0)
	_ = s.Add("input_x", 0.0)
	_ = s.Add("input_y", 0.0)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return s.Compile()
}

// NewWallRun compiles src.
func NewWallRun(name string, src []byte, opts ...Option) (*WallRun, error) {
	compiled, err := compile(src)
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	w := &WallRun{name: name, compiled: compiled, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// LoadWallRun compiles a rule from the prefab scripts directory.
func LoadWallRun(name string, opts ...Option) (*WallRun, error) {
	if name == "" {
		name = DefaultWallRunScript
	}
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return NewWallRun(name, src, opts...)
}

func (w *WallRun) Name() string {
	return w.name
}

// Override is the value to hand to motor.SetWallRun.
func (w *WallRun) Override() *motor.WallRun {
	return &w.state
}

// Evaluate runs the rule. On error the override is cleared so a broken rule
// never leaves the player stuck on a wall.
func (w *WallRun) Evaluate(in WallRunInputs) (bool, error) {
	active, err := w.run(in)
	if err != nil {
		w.state.Active = false
		return false, err
	}
	if active != w.state.Active {
		w.logger.Debug("wall run changed", zap.String("script", w.name), zap.Bool("active", active))
	}
	w.state.Active = active
	return active, nil
}

func (w *WallRun) run(in WallRunInputs) (bool, error) {
	c := w.compiled
	if err := c.Set("grounded", in.Grounded); err != nil {
		return false, err
	}
	if err := c.Set("wall_contact", in.WallContact); err != nil {
		return false, err
	}
	if err := c.Set("speed", in.Speed); err != nil {
		return false, err
	}
	if err := c.Set("input_x", in.InputX); err != nil {
		return false, err
	}
	if err := c.Set("input_y", in.InputY); err != nil {
		return false, err
	}
	if err := c.Run(); err != nil {
		return false, fmt.Errorf("script: run %s: %w", w.name, err)
	}
	if !c.IsDefined(wallRunOutput) {
		return false, fmt.Errorf("%s: %w", w.name, ErrNoOutput)
	}
	return c.Get(wallRunOutput).Bool(), nil
}

// Reload swaps in new source. The old rule stays if src does not compile.
func (w *WallRun) Reload(src []byte) error {
	compiled, err := compile(src)
	if err != nil {
		return fmt.Errorf("script: compile %s: %w", w.name, err)
	}
	w.compiled = compiled
	w.logger.Info("script reloaded", zap.String("script", w.name))
	return nil
}
