package world

import (
	"github.com/l1jgo/collide/internal/collision"
	"github.com/l1jgo/collide/internal/core/ecs"
	"github.com/l1jgo/collide/internal/core/event"
	"go.uber.org/zap"
)

// Steering is the movement intent component of an actor. The steering
// system fills Intent, the movement system consumes it.
type Steering struct {
	Script    string
	Intent    collision.Vec
	HasIntent bool
	Moves     int // accepted moves
	Blocked   int // rejected moves
	LastOK    bool
}

// State is the scene-scoped entity container.
// Accessed only from the game loop goroutine, no locks.
type State struct {
	ecs      *ecs.World
	scene    *collision.Scene
	bus      *event.Bus
	entities *ecs.Store[Entity]
	steering *ecs.Store[Steering]
	log      *zap.Logger
}

func NewState(scene *collision.Scene, bus *event.Bus, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	s := &State{
		ecs:      ecs.NewWorld(),
		scene:    scene,
		bus:      bus,
		entities: ecs.NewStore[Entity](),
		steering: ecs.NewStore[Steering](),
		log:      log,
	}
	reg := s.ecs.Registry()
	reg.Register(s.entities)
	reg.Register(s.steering)
	reg.OnDestroy(s.releaseCollider)
	return s
}

func (s *State) Scene() *collision.Scene         { return s.scene }
func (s *State) Bus() *event.Bus                 { return s.bus }
func (s *State) Entities() *ecs.Store[Entity]    { return s.entities }
func (s *State) Steerings() *ecs.Store[Steering] { return s.steering }
func (s *State) Count() int                      { return s.entities.Len() }

// Spawn creates an entity owning shape and places it in the scene. The
// second result is false when it was placed overlapping another collider.
func (s *State) Spawn(name string, kind EntityKind, shape collision.Shape) (*Entity, bool) {
	id := s.ecs.CreateEntity()
	if shape != nil {
		shape.SetOwner(id)
	}
	e := &Entity{ID: id, Name: name, Kind: kind, shape: shape, scene: s.scene}
	s.entities.Set(id, e)
	free := e.Place()
	if !free {
		s.log.Info("entity spawned overlapping",
			zap.String("name", name),
			zap.Uint64("id", uint64(id)),
			zap.Stringer("kind", kind))
	}
	return e, free
}

// Attach gives an actor a steering component driven by script.
func (s *State) Attach(id ecs.EntityID, script string) *Steering {
	st := &Steering{Script: script}
	s.steering.Set(id, st)
	return st
}

func (s *State) Get(id ecs.EntityID) (*Entity, bool) {
	if !s.ecs.Alive(id) {
		return nil, false
	}
	return s.entities.Get(id)
}

// Destroy queues the entity for removal at the end of the tick.
func (s *State) Destroy(id ecs.EntityID) {
	s.ecs.MarkForDestruction(id)
}

// Flush destroys queued entities, deregistering their colliders.
func (s *State) Flush() int {
	return s.ecs.FlushDestroyQueue()
}

func (s *State) releaseCollider(id ecs.EntityID) {
	e, ok := s.entities.Get(id)
	if !ok {
		return
	}
	s.scene.Deregister(e.shape)
	if s.bus != nil {
		event.Emit(s.bus, event.EntityDestroyed{EntityID: id, Name: e.Name})
	}
}
