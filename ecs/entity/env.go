package entity

import (
	"go.uber.org/zap"

	"github.com/milk9111/grapplefps/physics/chipmunk"
)

// Env carries the runtime services builders wire into components.
type Env struct {
	Space  *chipmunk.Space
	Logger *zap.Logger
}

func (env *Env) logger() *zap.Logger {
	if env == nil || env.Logger == nil {
		return zap.NewNop()
	}
	return env.Logger
}
