package world

import (
	"github.com/l1jgo/collide/internal/collision"
	"github.com/l1jgo/collide/internal/core/event"
)

// BusListener forwards scene bookkeeping changes to the event bus, keyed
// by the owning entity of each shape.
type BusListener struct {
	bus *event.Bus
}

func NewBusListener(bus *event.Bus) *BusListener {
	return &BusListener{bus: bus}
}

func (l *BusListener) CollisionStarted(a, b collision.Shape) {
	event.Emit(l.bus, event.CollisionStarted{A: a.Owner(), B: b.Owner()})
}

func (l *BusListener) CollisionEnded(a, b collision.Shape) {
	event.Emit(l.bus, event.CollisionEnded{A: a.Owner(), B: b.Owner()})
}

func (l *BusListener) MoveRejected(s, blocker collision.Shape, dir collision.Vec) {
	event.Emit(l.bus, event.MoveRejected{Mover: s.Owner(), Blocker: blocker.Owner(), Direction: dir})
}
