package collision

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint digests the grid, the collision sets and the geometry of
// every registered shape. Two equal fingerprints mean no observable
// bookkeeping or position changed in between.
func (s *Scene) Fingerprint() uint64 {
	defer s.lock()()

	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}

	shapes := make([]Shape, 0, len(s.entries))
	for sh := range s.entries {
		shapes = append(shapes, sh)
	}
	sort.Slice(shapes, func(i, j int) bool {
		return s.entries[shapes[i]].handle < s.entries[shapes[j]].handle
	})
	for _, sh := range shapes {
		put(s.entries[sh].handle)
		c := sh.Center()
		put(math.Float64bits(c.X))
		put(math.Float64bits(c.Y))
		put(uint64(uint32(c.Layer)))
		put(math.Float64bits(sh.MinX()))
		put(math.Float64bits(sh.MaxX()))
		put(math.Float64bits(sh.MinY()))
		put(math.Float64bits(sh.MaxY()))
		put(uint64(len(s.touching[sh])))
		for _, n := range s.sorted(s.touching[sh]) {
			put(s.handleOf(n))
		}
	}

	keys := make([]CellKey, 0, len(s.cells))
	for k := range s.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		return keys[i].Y < keys[j].Y
	})
	for _, k := range keys {
		put(uint64(uint32(k.X))<<32 | uint64(uint32(k.Y)))
		put(uint64(len(s.cells[k])))
		for _, sh := range s.sorted(s.cells[k]) {
			put(s.handleOf(sh))
		}
	}
	return d.Sum64()
}
