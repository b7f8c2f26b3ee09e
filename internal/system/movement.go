package system

import (
	"time"

	"github.com/l1jgo/collide/internal/core/ecs"
	coresys "github.com/l1jgo/collide/internal/core/system"
	"github.com/l1jgo/collide/internal/world"
)

// MovementSystem commits each actor's intent through the scene. A move
// that would create a new overlap is dropped for this tick; the actor
// simply stays put.
// Phase 2 (Update).
type MovementSystem struct {
	world    *world.State
	accepted int
	rejected int
}

func NewMovementSystem(ws *world.State) *MovementSystem {
	return &MovementSystem{world: ws}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(_ time.Duration) {
	ecs.Each2(s.world.Entities(), s.world.Steerings(), func(_ ecs.EntityID, e *world.Entity, st *world.Steering) {
		if !st.HasIntent {
			return
		}
		st.HasIntent = false
		st.LastOK = e.TryMove(st.Intent)
		if st.LastOK {
			st.Moves++
			s.accepted++
		} else {
			st.Blocked++
			s.rejected++
		}
	})
}

// Stats returns accepted and rejected move totals.
func (s *MovementSystem) Stats() (accepted, rejected int) {
	return s.accepted, s.rejected
}
