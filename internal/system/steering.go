package system

import (
	"time"

	"github.com/l1jgo/collide/internal/core/ecs"
	coresys "github.com/l1jgo/collide/internal/core/system"
	"github.com/l1jgo/collide/internal/scripting"
	"github.com/l1jgo/collide/internal/world"
)

// SteeringSystem asks each actor's Lua steering function for this tick's
// movement intent.
// Phase 0 (Input).
type SteeringSystem struct {
	world      *world.State
	lua        *scripting.Engine
	perception float64
	maxStep    float64
	tick       uint64
}

func NewSteeringSystem(ws *world.State, lua *scripting.Engine, perception, maxStep float64) *SteeringSystem {
	return &SteeringSystem{world: ws, lua: lua, perception: perception, maxStep: maxStep}
}

func (s *SteeringSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *SteeringSystem) Update(_ time.Duration) {
	s.tick++
	ecs.Each2(s.world.Entities(), s.world.Steerings(), func(id ecs.EntityID, e *world.Entity, st *world.Steering) {
		if e.Shape() == nil || st.Script == "" {
			st.HasIntent = false
			return
		}
		dir := s.lua.Steer(st.Script, scripting.SteerContext{
			EntityID: uint64(id),
			Name:     e.Name,
			Pos:      e.Position(),
			Tick:     s.tick,
			Blocked:  st.Moves+st.Blocked > 0 && !st.LastOK,
			Moves:    st.Moves,
			Nearby:   len(s.world.Nearby(e, s.perception)),
			MaxStep:  s.maxStep,
		})
		st.Intent = dir
		st.HasIntent = dir.X != 0 || dir.Y != 0 || dir.Layer != 0
	})
}
