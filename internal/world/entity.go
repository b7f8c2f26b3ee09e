package world

import (
	"github.com/l1jgo/collide/internal/collision"
	"github.com/l1jgo/collide/internal/core/ecs"
)

// EntityKind separates static scenery from things that move.
type EntityKind uint8

const (
	KindObstacle EntityKind = iota + 1
	KindActor
)

func (k EntityKind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindActor:
		return "actor"
	}
	return "unknown"
}

// Entity is a scene participant. It exclusively owns its collider; the
// scene only keeps references for indexing. A nil collider never blocks
// and is never blocked.
// Accessed only from the game loop goroutine.
type Entity struct {
	ID    ecs.EntityID
	Name  string
	Kind  EntityKind
	shape collision.Shape
	scene *collision.Scene
}

func (e *Entity) Shape() collision.Shape { return e.shape }

// Position returns the collider center, or the zero Vec without a collider.
func (e *Entity) Position() collision.Vec {
	if e.shape == nil {
		return collision.Vec{}
	}
	return e.shape.Center()
}

// Place registers the collider in the scene. It returns false when the
// entity was placed overlapping something; the overlap is then treated as
// pre-existing and does not block later moves away from it.
func (e *Entity) Place() bool {
	return e.scene.Register(e.shape)
}

// TryMove moves the entity by dir unless that would create a new overlap.
func (e *Entity) TryMove(dir collision.Vec) bool {
	return e.scene.TryMove(e.shape, dir)
}

// CanMove validates dir and updates scene bookkeeping without moving the
// entity. A true result MUST be followed by ForceMove(dir).
func (e *Entity) CanMove(dir collision.Vec) bool {
	return e.scene.CanMove(e.shape, dir)
}

// ForceMove translates the collider with no validation.
func (e *Entity) ForceMove(dir collision.Vec) {
	e.scene.ForceMove(e.shape, dir)
}

// Teleport jumps to an absolute position and re-syncs the scene index. It
// reports false when the destination overlaps something.
func (e *Entity) Teleport(to collision.Vec) bool {
	if e.shape == nil {
		return true
	}
	c := e.shape.Center()
	e.ForceMove(collision.Vec{X: to.X - c.X, Y: to.Y - c.Y, Layer: to.Layer - c.Layer})
	return e.scene.Register(e.shape)
}
