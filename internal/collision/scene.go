package collision

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UndefinedPolicy decides how a movement check treats a pair with no judge.
type UndefinedPolicy uint8

const (
	// PolicyFailOpen lets shapes with no judge pass through each other.
	PolicyFailOpen UndefinedPolicy = iota
	// PolicyFailClosed blocks moves on an Undefined relation as if it collided.
	PolicyFailClosed
)

func (p UndefinedPolicy) String() string {
	if p == PolicyFailClosed {
		return "fail_closed"
	}
	return "fail_open"
}

// ParsePolicy maps a config string to a policy. Unknown values fall back
// to PolicyFailOpen.
func ParsePolicy(s string) UndefinedPolicy {
	if s == "fail_closed" {
		return PolicyFailClosed
	}
	return PolicyFailOpen
}

// Listener receives collision bookkeeping changes. Callbacks run inside
// the scene call that caused them and must not call back into the scene.
type Listener interface {
	CollisionStarted(a, b Shape)
	CollisionEnded(a, b Shape)
	MoveRejected(s, blocker Shape, dir Vec)
}

type nopListener struct{}

func (nopListener) CollisionStarted(_, _ Shape)    {}
func (nopListener) CollisionEnded(_, _ Shape)      {}
func (nopListener) MoveRejected(_, _ Shape, _ Vec) {}

type shapeSet map[Shape]struct{}

// entry is the index record for one registered shape.
type entry struct {
	handle uint64    // registration order, stable ordering for queries
	cells  []CellKey // cells the shape currently sits in
}

// Scene owns the broad-phase grid and the per-shape collision sets.
// All mutation goes through Register, CanMove and Deregister so that the
// grid always matches each shape's cells.
//
// A Scene is meant to be driven by the game loop goroutine only. WithLocking
// serialises every call behind one mutex for hosts that move entities from
// several goroutines.
type Scene struct {
	id       uuid.UUID
	boxSize  float64
	policy   UndefinedPolicy
	resolver *Resolver
	listener Listener
	log      *zap.Logger

	locking bool
	mu      sync.Mutex

	cells      map[CellKey]shapeSet
	touching   map[Shape]shapeSet
	entries    map[Shape]*entry
	nextHandle uint64
}

type Option func(*Scene)

func WithBoxSize(size float64) Option {
	return func(s *Scene) {
		if size > 0 {
			s.boxSize = size
		}
	}
}

func WithPolicy(p UndefinedPolicy) Option { return func(s *Scene) { s.policy = p } }
func WithResolver(r *Resolver) Option     { return func(s *Scene) { s.resolver = r } }
func WithLogger(log *zap.Logger) Option   { return func(s *Scene) { s.log = log } }
func WithListener(l Listener) Option      { return func(s *Scene) { s.listener = l } }
func WithLocking() Option                 { return func(s *Scene) { s.locking = true } }

func NewScene(opts ...Option) *Scene {
	s := &Scene{
		id:       uuid.New(),
		boxSize:  DefaultBoxSize,
		listener: nopListener{},
		log:      zap.NewNop(),
		cells:    make(map[CellKey]shapeSet, 256),
		touching: make(map[Shape]shapeSet, 64),
		entries:  make(map[Shape]*entry, 64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = NewResolver(nil)
	}
	if s.listener == nil {
		s.listener = nopListener{}
	}
	s.log = s.log.With(zap.String("scene", s.id.String()))
	return s
}

func (s *Scene) ID() uuid.UUID           { return s.id }
func (s *Scene) BoxSize() float64        { return s.boxSize }
func (s *Scene) Policy() UndefinedPolicy { return s.policy }
func (s *Scene) Resolver() *Resolver     { return s.resolver }

func (s *Scene) lock() func() {
	if !s.locking {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// blocks reports whether a rough relation prevents overlap.
func (s *Scene) blocks(rel Relation) bool {
	if rel == Undefined {
		return s.policy == PolicyFailClosed
	}
	return rel.Overlaps()
}

func (s *Scene) cellsOf(sh Shape) []CellKey { return CellsOf(sh, s.boxSize) }

// Register inserts sh into every cell its bounding box spans and records
// each neighbor it already overlaps as a pre-existing collision. It returns
// false when such an overlap exists; the shape is inserted either way.
// Registering an already registered shape re-syncs its cells without
// duplicating membership.
func (s *Scene) Register(sh Shape) bool {
	if sh == nil {
		return true
	}
	defer s.lock()()

	e, ok := s.entries[sh]
	if !ok {
		s.nextHandle++
		e = &entry{handle: s.nextHandle}
		s.entries[sh] = e
	}

	// a re-registered shape may have been teleported; stale pairs are dropped below
	stale := make(shapeSet, len(s.touching[sh]))
	for other := range s.touching[sh] {
		stale[other] = struct{}{}
	}

	free := true
	seen := make(shapeSet)
	cells := s.cellsOf(sh)
	for _, c := range cells {
		set := s.cells[c]
		if set == nil {
			set = make(shapeSet)
			s.cells[c] = set
		}
		for other := range set {
			if other == sh {
				continue
			}
			if _, dup := seen[other]; dup {
				continue
			}
			seen[other] = struct{}{}
			if !s.blocks(s.resolver.Relation(sh, other, true)) {
				continue
			}
			free = false
			delete(stale, other)
			if s.touch(sh, other) {
				s.listener.CollisionStarted(sh, other)
			}
		}
		set[sh] = struct{}{}
	}
	s.moveCells(sh, e, cells)
	for other := range stale {
		s.untouch(sh, other)
		s.listener.CollisionEnded(sh, other)
	}

	if !free {
		s.log.Debug("registered with overlap",
			zap.Stringer("kind", sh.Kind()),
			zap.Uint64("owner", uint64(sh.Owner())),
			zap.Int("neighbors", len(s.touching[sh])))
	}
	return free
}

// touch records a and b as overlapping in both directions. It reports
// whether the pair was new.
func (s *Scene) touch(a, b Shape) bool {
	_, known := s.touching[a][b]
	for _, p := range [2][2]Shape{{a, b}, {b, a}} {
		set := s.touching[p[0]]
		if set == nil {
			set = make(shapeSet)
			s.touching[p[0]] = set
		}
		set[p[1]] = struct{}{}
	}
	return !known
}

// untouch forgets the pair in both directions.
func (s *Scene) untouch(a, b Shape) {
	for _, p := range [2][2]Shape{{a, b}, {b, a}} {
		if set := s.touching[p[0]]; set != nil {
			delete(set, p[1])
			if len(set) == 0 {
				delete(s.touching, p[0])
			}
		}
	}
}

// CanMove validates moving sh by dir. A move is refused when it would
// create an overlap with a shape sh is not already overlapping, when sh is
// not registered, or when dir is NaN or infinite; on refusal nothing
// changes. On success the grid and collision sets are updated for
// the new position, but sh itself is NOT moved: the caller must follow up
// with ForceMove, or grid and position disagree. Prefer TryMove.
func (s *Scene) CanMove(sh Shape, dir Vec) bool {
	if sh == nil {
		return true
	}
	defer s.lock()()
	return s.canMove(sh, dir)
}

func (s *Scene) canMove(sh Shape, dir Vec) bool {
	e, ok := s.entries[sh]
	if !ok {
		s.log.Debug("move of unregistered shape refused",
			zap.Uint64("owner", uint64(sh.Owner())))
		return false
	}
	if !finite(dir) {
		s.log.Debug("non-finite move refused",
			zap.Uint64("owner", uint64(sh.Owner())),
			zap.Float64("dx", dir.X),
			zap.Float64("dy", dir.Y))
		return false
	}

	tmp := sh.Copy()
	tmp.Translate(dir)

	remaining := make(shapeSet, len(s.touching[sh]))
	for other := range s.touching[sh] {
		remaining[other] = struct{}{}
	}
	kept := make(shapeSet, len(remaining))
	seen := make(shapeSet)

	newCells := s.cellsOf(tmp)
	for _, c := range newCells {
		for other := range s.cells[c] {
			if other == sh {
				continue
			}
			if _, dup := seen[other]; dup {
				continue
			}
			seen[other] = struct{}{}
			if !s.blocks(s.resolver.Relation(tmp, other, true)) {
				continue
			}
			if _, ok := remaining[other]; !ok {
				s.log.Debug("move rejected",
					zap.Uint64("owner", uint64(sh.Owner())),
					zap.Uint64("blocker", uint64(other.Owner())),
					zap.Float64("dx", dir.X),
					zap.Float64("dy", dir.Y))
				s.listener.MoveRejected(sh, other, dir)
				return false
			}
			delete(remaining, other)
			kept[other] = struct{}{}
		}
	}

	// commit collision sets
	if len(kept) > 0 {
		s.touching[sh] = kept
	} else {
		delete(s.touching, sh)
	}
	for other := range remaining {
		s.untouch(sh, other)
		s.listener.CollisionEnded(sh, other)
	}

	// commit grid
	s.moveCells(sh, e, newCells)
	return true
}

// moveCells inserts sh into cells it newly spans and drops it from cells
// it no longer spans, deleting cells that become empty.
func (s *Scene) moveCells(sh Shape, e *entry, next []CellKey) {
	vacated := make(map[CellKey]struct{}, len(e.cells))
	for _, c := range e.cells {
		vacated[c] = struct{}{}
	}
	for _, c := range next {
		if _, ok := vacated[c]; ok {
			delete(vacated, c)
			continue
		}
		set := s.cells[c]
		if set == nil {
			set = make(shapeSet)
			s.cells[c] = set
		}
		set[sh] = struct{}{}
	}
	for c := range vacated {
		s.removeFromCell(sh, c)
	}
	e.cells = next
}

func (s *Scene) removeFromCell(sh Shape, c CellKey) {
	set := s.cells[c]
	if set == nil {
		return
	}
	delete(set, sh)
	if len(set) == 0 {
		delete(s.cells, c)
	}
}

// ForceMove translates sh without validation or bookkeeping. Used for the
// commit half of TryMove and for teleports; a teleported shape should be
// passed to Register again to re-sync its cells.
func (s *Scene) ForceMove(sh Shape, dir Vec) {
	if sh == nil {
		return
	}
	sh.Translate(dir)
}

// TryMove validates and commits a move in one step.
func (s *Scene) TryMove(sh Shape, dir Vec) bool {
	if sh == nil {
		return true
	}
	defer s.lock()()
	if !s.canMove(sh, dir) {
		return false
	}
	sh.Translate(dir)
	return true
}

// Deregister removes sh from the grid and from every collision set. It
// reports whether sh was registered.
func (s *Scene) Deregister(sh Shape) bool {
	if sh == nil {
		return false
	}
	defer s.lock()()

	e, ok := s.entries[sh]
	if !ok {
		return false
	}
	for _, c := range e.cells {
		s.removeFromCell(sh, c)
	}
	for other := range s.touching[sh] {
		s.untouch(sh, other)
		s.listener.CollisionEnded(sh, other)
	}
	delete(s.entries, sh)
	return true
}

// Registered reports whether sh is in the grid.
func (s *Scene) Registered(sh Shape) bool {
	defer s.lock()()
	_, ok := s.entries[sh]
	return ok
}

// Len returns the number of registered shapes.
func (s *Scene) Len() int {
	defer s.lock()()
	return len(s.entries)
}

// CellCount returns the number of non-empty grid cells.
func (s *Scene) CellCount() int {
	defer s.lock()()
	return len(s.cells)
}

// Cells returns the grid cells sh is currently indexed under.
func (s *Scene) Cells(sh Shape) []CellKey {
	defer s.lock()()
	e, ok := s.entries[sh]
	if !ok {
		return nil
	}
	out := make([]CellKey, len(e.cells))
	copy(out, e.cells)
	return out
}

// Occupants returns the shapes indexed under cell c in registration order.
func (s *Scene) Occupants(c CellKey) []Shape {
	defer s.lock()()
	return s.sorted(s.cells[c])
}

// CollisionSet returns the neighbors sh currently overlaps, in
// registration order.
func (s *Scene) CollisionSet(sh Shape) []Shape {
	defer s.lock()()
	return s.sorted(s.touching[sh])
}

// QueryArea returns registered shapes overlapping probe (rough test),
// excluding probe itself. probe does not need to be registered.
func (s *Scene) QueryArea(probe Shape) []Shape {
	if probe == nil {
		return nil
	}
	defer s.lock()()
	hits := make(shapeSet)
	for _, c := range s.cellsOf(probe) {
		for other := range s.cells[c] {
			if other == probe {
				continue
			}
			if _, dup := hits[other]; dup {
				continue
			}
			if s.resolver.Relation(probe, other, true) == Collide {
				hits[other] = struct{}{}
			}
		}
	}
	return s.sorted(hits)
}

func (s *Scene) sorted(set shapeSet) []Shape {
	if len(set) == 0 {
		return nil
	}
	out := make([]Shape, 0, len(set))
	for sh := range set {
		out = append(out, sh)
	}
	sort.Slice(out, func(i, j int) bool {
		return s.handleOf(out[i]) < s.handleOf(out[j])
	})
	return out
}

func (s *Scene) handleOf(sh Shape) uint64 {
	if e, ok := s.entries[sh]; ok {
		return e.handle
	}
	return 0
}
