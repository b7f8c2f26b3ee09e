package collision

// Built-in narrow-phase handlers. Every handler checks the layer first:
// shapes on different layers never interact.

func circleCircle(_ *Resolver, a, b Shape, rough bool) Relation {
	ca, ok1 := a.(*Circle)
	cb, ok2 := b.(*Circle)
	if !ok1 || !ok2 {
		return Undefined
	}
	if ca.layer() != cb.layer() {
		return NoCollide
	}
	dx := ca.center.X - cb.center.X
	dy := ca.center.Y - cb.center.Y
	sum := ca.Radius() + cb.Radius()
	if dx*dx+dy*dy > sum*sum {
		return NoCollide
	}
	if rough {
		return Collide
	}
	if ca.center == cb.center && ca.size == cb.size {
		return Equal
	}
	return containment(ca, cb)
}

func rectRect(_ *Resolver, a, b Shape, rough bool) Relation {
	ra, ok1 := a.(*Rect)
	rb, ok2 := b.(*Rect)
	if !ok1 || !ok2 {
		return Undefined
	}
	if ra.layer() != rb.layer() {
		return NoCollide
	}
	if ra.MaxX() < rb.MinX() || rb.MaxX() < ra.MinX() ||
		ra.MaxY() < rb.MinY() || rb.MaxY() < ra.MinY() {
		return NoCollide
	}
	if rough {
		return Collide
	}
	if sameBox(ra, rb) {
		return Equal
	}
	return containment(ra, rb)
}

// rectCircle clamps the circle center into the rectangle; the pair is
// apart when that closest point is outside the circle.
func rectCircle(_ *Resolver, a, b Shape, rough bool) Relation {
	r, ok1 := a.(*Rect)
	c, ok2 := b.(*Circle)
	if !ok1 || !ok2 {
		return Undefined
	}
	if r.layer() != c.layer() {
		return NoCollide
	}
	closest := Vec{
		X:     clamp(c.center.X, r.MinX(), r.MaxX()),
		Y:     clamp(c.center.Y, r.MinY(), r.MaxY()),
		Layer: c.center.Layer,
	}
	if !c.Contains(closest) {
		return NoCollide
	}
	if rough {
		return Collide
	}
	if boxInside(c, r) {
		return Outer
	}
	for _, p := range r.corners() {
		if !c.Contains(p) {
			return Collide
		}
	}
	return Inner
}

// groupAny is always rough: the first colliding child decides. When no
// child collides but some child pair has no judge, the group pair is
// Undefined so the scene's policy applies to it.
func groupAny(res *Resolver, a, b Shape, _ bool) Relation {
	g, ok := a.(*Group)
	if !ok {
		return Undefined
	}
	undefined := false
	for _, ch := range g.children {
		switch res.Relation(ch, b, true) {
		case Collide:
			return Collide
		case Undefined:
			undefined = true
		}
	}
	if undefined {
		return Undefined
	}
	return NoCollide
}

// containment compares bounding boxes of two overlapping shapes.
func containment(a, b Shape) Relation {
	switch {
	case boxInside(a, b):
		return Inner
	case boxInside(b, a):
		return Outer
	}
	return Collide
}
