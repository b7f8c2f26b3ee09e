package event

import (
	"github.com/l1jgo/collide/internal/collision"
	"github.com/l1jgo/collide/internal/core/ecs"
)

// CollisionStarted is emitted when two entities start overlapping at
// registration time.
type CollisionStarted struct {
	A ecs.EntityID
	B ecs.EntityID
}

// CollisionEnded is emitted when an accepted move, a re-registration or a
// destruction separates two entities.
type CollisionEnded struct {
	A ecs.EntityID
	B ecs.EntityID
}

// MoveRejected is emitted when a move would newly overlap Blocker.
type MoveRejected struct {
	Mover     ecs.EntityID
	Blocker   ecs.EntityID
	Direction collision.Vec
}

// EntityDestroyed is emitted after an entity's collider left the scene.
type EntityDestroyed struct {
	EntityID ecs.EntityID
	Name     string
}
