package collision

// Judge computes the relation of a to b for a kind pair that has no
// built-in handler. When rough is true it should answer only NoCollide or
// Collide; finer results are collapsed by the resolver anyway.
type Judge func(a, b Shape, rough bool) Relation

type kindPair struct {
	a Kind
	b Kind
}

// JudgeRegistry is the fallback table of pairwise judges, keyed by the
// unordered kind pair. A judge registered as (A, B) also answers (B, A)
// with its result inverted. Built once at startup and handed to a Resolver.
type JudgeRegistry struct {
	judges map[kindPair]Judge
}

func NewJudgeRegistry() *JudgeRegistry {
	return &JudgeRegistry{judges: make(map[kindPair]Judge, 8)}
}

// Register installs j for (a, b), replacing any judge stored for that
// exact order.
func (r *JudgeRegistry) Register(a, b Kind, j Judge) {
	r.judges[kindPair{a, b}] = j
}

// Has reports whether a judge exists for the pair in either order.
func (r *JudgeRegistry) Has(a, b Kind) bool {
	_, _, ok := r.lookup(a, b)
	return ok
}

func (r *JudgeRegistry) Len() int { return len(r.judges) }

func (r *JudgeRegistry) lookup(a, b Kind) (j Judge, swapped bool, ok bool) {
	if j, ok = r.judges[kindPair{a, b}]; ok {
		return j, false, true
	}
	if j, ok = r.judges[kindPair{b, a}]; ok {
		return j, true, true
	}
	return nil, false, false
}

// pairFunc is a built-in handler for one ordered kind pair.
type pairFunc func(r *Resolver, a, b Shape, rough bool) Relation

var builtinPairs = map[kindPair]pairFunc{
	{KindCircle, KindCircle}: circleCircle,
	{KindRect, KindRect}:     rectRect,
	{KindRect, KindCircle}:   rectCircle,
}

// Resolver classifies shape pairs. Lookup order: the built-in handler for
// (a, b), the built-in handler for (b, a) inverted, then the registry.
type Resolver struct {
	judges *JudgeRegistry
}

// NewResolver returns a resolver backed by judges. A nil registry means
// only the built-in pairs are known.
func NewResolver(judges *JudgeRegistry) *Resolver {
	if judges == nil {
		judges = NewJudgeRegistry()
	}
	return &Resolver{judges: judges}
}

// Judges exposes the fallback registry for startup-time registration.
func (r *Resolver) Judges() *JudgeRegistry { return r.judges }

func (r *Resolver) builtin(a, b Kind) pairFunc {
	// a group answers against anything by walking its children
	if a == KindGroup {
		return groupAny
	}
	return builtinPairs[kindPair{a, b}]
}

// Relation returns how a relates to b. Undefined means no handler exists
// for the kind pair. With rough set the result is one of Undefined,
// NoCollide or Collide.
func (r *Resolver) Relation(a, b Shape, rough bool) Relation {
	if a == nil || b == nil {
		return Undefined
	}
	ka, kb := a.Kind(), b.Kind()

	if fn := r.builtin(ka, kb); fn != nil {
		if rel := fn(r, a, b, rough); rel != Undefined {
			return finish(rel, rough)
		}
	}
	if fn := r.builtin(kb, ka); fn != nil {
		if rel := fn(r, b, a, rough); rel != Undefined {
			return finish(rel.Invert(), rough)
		}
	}
	if j, swapped, ok := r.judges.lookup(ka, kb); ok {
		if swapped {
			return finish(j(b, a, rough).Invert(), rough)
		}
		return finish(j(a, b, rough), rough)
	}
	return Undefined
}

func finish(rel Relation, rough bool) Relation {
	if rough {
		return rel.rough()
	}
	return rel
}
