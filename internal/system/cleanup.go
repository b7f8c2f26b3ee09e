package system

import (
	"time"

	coresys "github.com/l1jgo/collide/internal/core/system"
	"github.com/l1jgo/collide/internal/world"
	"go.uber.org/zap"
)

// CleanupSystem flushes the deferred destroy queue at tick end, which
// takes destroyed colliders out of the scene.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	world     *world.State
	log       *zap.Logger
	destroyed int
}

func NewCleanupSystem(ws *world.State, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: ws, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if n := s.world.Flush(); n > 0 {
		s.destroyed += n
		s.log.Debug("entities destroyed", zap.Int("count", n))
	}
}

// Destroyed returns the total number of entities destroyed so far.
func (s *CleanupSystem) Destroyed() int { return s.destroyed }
