package collision

import (
	"math"

	"github.com/l1jgo/collide/internal/core/ecs"
)

// Group is a composite collider. Children are owned by value: Copy
// duplicates every child, Translate moves them all. Relations against a
// group are always rough.
type Group struct {
	center   Vec
	children []Shape
	owner    ecs.EntityID
}

// NewGroup builds a group anchored at c. Children keep their own world
// positions; c only serves as the group's reference point.
func NewGroup(c Vec, children ...Shape) *Group {
	g := &Group{center: c, children: make([]Shape, 0, len(children))}
	for _, ch := range children {
		if ch != nil {
			g.children = append(g.children, ch.Copy())
		}
	}
	return g
}

func (g *Group) Kind() Kind          { return KindGroup }
func (g *Group) Center() Vec         { return g.center }
func (g *Group) Owner() ecs.EntityID { return g.owner }
func (g *Group) Boxes() []CellKey    { return CellsOf(g, DefaultBoxSize) }
func (g *Group) Len() int            { return len(g.children) }
func (g *Group) Child(i int) Shape   { return g.children[i] }
func (g *Group) SetOwner(id ecs.EntityID) {
	g.owner = id
	for _, ch := range g.children {
		ch.SetOwner(id)
	}
}

func (g *Group) Size() Size {
	return Size{W: g.MaxX() - g.MinX(), H: g.MaxY() - g.MinY()}
}

// bounds aggregates children extents. An empty group collapses to its center.
func (g *Group) bounds() (minX, maxX, minY, maxY float64) {
	if len(g.children) == 0 {
		return g.center.X, g.center.X, g.center.Y, g.center.Y
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, ch := range g.children {
		minX = math.Min(minX, ch.MinX())
		maxX = math.Max(maxX, ch.MaxX())
		minY = math.Min(minY, ch.MinY())
		maxY = math.Max(maxY, ch.MaxY())
	}
	return minX, maxX, minY, maxY
}

func (g *Group) MinX() float64 {
	v, _, _, _ := g.bounds()
	return v
}

func (g *Group) MaxX() float64 {
	_, v, _, _ := g.bounds()
	return v
}

func (g *Group) MinY() float64 {
	_, _, v, _ := g.bounds()
	return v
}

func (g *Group) MaxY() float64 {
	_, _, _, v := g.bounds()
	return v
}

func (g *Group) Contains(p Vec) bool {
	for _, ch := range g.children {
		if ch.Contains(p) {
			return true
		}
	}
	return false
}

func (g *Group) Translate(d Vec) {
	g.center = g.center.Add(d)
	for _, ch := range g.children {
		ch.Translate(d)
	}
}

func (g *Group) Copy() Shape {
	cp := &Group{center: g.center, owner: g.owner, children: make([]Shape, len(g.children))}
	for i, ch := range g.children {
		cp.children[i] = ch.Copy()
	}
	return cp
}
