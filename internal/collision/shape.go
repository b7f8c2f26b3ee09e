package collision

import (
	"fmt"

	"github.com/l1jgo/collide/internal/core/ecs"
)

// Kind tags the concrete shape variant used for relation dispatch.
type Kind uint16

const (
	KindCircle Kind = iota + 1
	KindRect
	KindGroup

	// KindUser is the first value available to shapes defined outside this
	// package. Their pairs are judged through a JudgeRegistry.
	KindUser Kind = 64
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindRect:
		return "rect"
	case KindGroup:
		return "group"
	}
	return fmt.Sprintf("kind(%d)", uint16(k))
}

// Shape is a collider owned by exactly one entity. The bounding box is
// always derived from center and size, never stored.
type Shape interface {
	Kind() Kind
	Center() Vec
	Size() Size
	MinX() float64
	MaxX() float64
	MinY() float64
	MaxY() float64
	// Contains reports whether p lies within the shape on the same layer.
	Contains(p Vec) bool
	// Boxes returns the grid cells spanned at DefaultBoxSize.
	Boxes() []CellKey
	// Copy returns an independent shape with the same geometry and owner.
	Copy() Shape
	Translate(d Vec)
	Owner() ecs.EntityID
	SetOwner(id ecs.EntityID)
}

// body carries the fields shared by every primitive.
type body struct {
	center Vec
	size   Size
	owner  ecs.EntityID
}

func (b *body) Center() Vec              { return b.center }
func (b *body) Size() Size               { return b.size }
func (b *body) MinX() float64            { return b.center.X - b.size.W/2 }
func (b *body) MaxX() float64            { return b.center.X + b.size.W/2 }
func (b *body) MinY() float64            { return b.center.Y - b.size.H/2 }
func (b *body) MaxY() float64            { return b.center.Y + b.size.H/2 }
func (b *body) Translate(d Vec)          { b.center = b.center.Add(d) }
func (b *body) Owner() ecs.EntityID      { return b.owner }
func (b *body) SetOwner(id ecs.EntityID) { b.owner = id }
func (b *body) layer() int32             { return b.center.Layer }
func (b *body) boxContains(p Vec) bool {
	return p.X >= b.MinX() && p.X <= b.MaxX() && p.Y >= b.MinY() && p.Y <= b.MaxY()
}

// Circle is a disc whose diameter is Size().W.
type Circle struct{ body }

// NewCircle builds a circle centered at c with the given radius.
func NewCircle(c Vec, radius float64) *Circle {
	s := clampSize(Size{W: radius * 2, H: radius * 2})
	return &Circle{body{center: c, size: s}}
}

func (c *Circle) Kind() Kind       { return KindCircle }
func (c *Circle) Radius() float64  { return c.size.W / 2 }
func (c *Circle) Boxes() []CellKey { return CellsOf(c, DefaultBoxSize) }

func (c *Circle) Contains(p Vec) bool {
	if p.Layer != c.center.Layer {
		return false
	}
	dx, dy := p.X-c.center.X, p.Y-c.center.Y
	r := c.Radius()
	return dx*dx+dy*dy <= r*r
}

func (c *Circle) Copy() Shape {
	cp := *c
	return &cp
}

// Rect is an axis-aligned rectangle.
type Rect struct{ body }

// NewRect builds a rectangle centered at c.
func NewRect(c Vec, size Size) *Rect {
	return &Rect{body{center: c, size: clampSize(size)}}
}

func (r *Rect) Kind() Kind       { return KindRect }
func (r *Rect) Boxes() []CellKey { return CellsOf(r, DefaultBoxSize) }

func (r *Rect) Contains(p Vec) bool {
	return p.Layer == r.center.Layer && r.boxContains(p)
}

func (r *Rect) Copy() Shape {
	cp := *r
	return &cp
}

// corners returns the four rectangle corners on its layer.
func (r *Rect) corners() [4]Vec {
	l := r.center.Layer
	return [4]Vec{
		{X: r.MinX(), Y: r.MinY(), Layer: l},
		{X: r.MaxX(), Y: r.MinY(), Layer: l},
		{X: r.MinX(), Y: r.MaxY(), Layer: l},
		{X: r.MaxX(), Y: r.MaxY(), Layer: l},
	}
}
