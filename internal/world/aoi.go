package world

import "github.com/l1jgo/collide/internal/collision"

// Area of interest queries. They read the scene index through a probe
// circle and never mutate it.

// Nearby returns entities whose colliders overlap a circle of the given
// radius centered on e, excluding e itself. Entities without a collider
// see nothing.
func (s *State) Nearby(e *Entity, radius float64) []*Entity {
	if e == nil || e.shape == nil {
		return nil
	}
	return s.Around(e.shape.Center(), radius, e)
}

// Around returns entities overlapping a circle at center, skipping exclude.
func (s *State) Around(center collision.Vec, radius float64, exclude *Entity) []*Entity {
	probe := collision.NewCircle(center, radius)
	hits := s.scene.QueryArea(probe)
	result := make([]*Entity, 0, len(hits))
	for _, sh := range hits {
		if exclude != nil && sh == exclude.shape {
			continue
		}
		if other, ok := s.Get(sh.Owner()); ok {
			result = append(result, other)
		}
	}
	return result
}
