package collision

// Relation is the geometric relation of one shape to another.
type Relation uint8

const (
	Undefined Relation = iota // no judge for this kind pair
	NoCollide
	Collide
	Equal
	Inner // first shape lies inside the second
	Outer // first shape contains the second
)

var relationNames = [...]string{
	Undefined: "undefined",
	NoCollide: "no_collide",
	Collide:   "collide",
	Equal:     "equal",
	Inner:     "inner",
	Outer:     "outer",
}

func (r Relation) String() string {
	if int(r) < len(relationNames) {
		return relationNames[r]
	}
	return "unknown"
}

// Invert returns the relation seen from the other shape's side.
func (r Relation) Invert() Relation {
	switch r {
	case Inner:
		return Outer
	case Outer:
		return Inner
	}
	return r
}

// Overlaps reports whether r describes shapes that share area.
func (r Relation) Overlaps() bool {
	switch r {
	case Collide, Equal, Inner, Outer:
		return true
	}
	return false
}

// rough collapses a fine-grained result into {Undefined, NoCollide, Collide}.
func (r Relation) rough() Relation {
	if r.Overlaps() {
		return Collide
	}
	return r
}
