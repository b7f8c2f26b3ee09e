package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type tag struct{ name string }
type weight struct{ kg int }

func TestEntityPool(t *testing.T) {
	p := NewEntityPool()

	first := p.Create()
	require.False(t, first.IsZero())
	require.Equal(t, uint32(0), first.Index())

	second := p.Create()
	require.Equal(t, 2, p.Live())

	t.Run("destroy invalidates and recycles", func(t *testing.T) {
		require.True(t, p.Destroy(second))
		require.False(t, p.Alive(second))
		require.False(t, p.Destroy(second))

		reused := p.Create()
		require.Equal(t, second.Index(), reused.Index())
		require.Equal(t, second.Generation()+1, reused.Generation())
		require.True(t, p.Alive(reused))
		require.False(t, p.Alive(second))
	})

	t.Run("unknown index is dead", func(t *testing.T) {
		require.False(t, p.Alive(NewEntityID(999, 0)))
	})
}

func TestStore(t *testing.T) {
	s := NewStore[tag]()
	ids := []EntityID{NewEntityID(5, 0), NewEntityID(1, 0), NewEntityID(3, 0)}
	for _, id := range ids {
		s.Set(id, &tag{name: "x"})
	}

	require.Equal(t, 3, s.Len())
	require.True(t, s.Has(ids[0]))
	require.Equal(t, []EntityID{ids[1], ids[2], ids[0]}, s.IDs())

	var visited []EntityID
	s.Each(func(id EntityID, _ *tag) { visited = append(visited, id) })
	require.Equal(t, s.IDs(), visited)

	s.Remove(ids[1])
	_, ok := s.Get(ids[1])
	require.False(t, ok)
}

func TestEach2(t *testing.T) {
	tags := NewStore[tag]()
	weights := NewStore[weight]()
	for i := uint32(1); i <= 6; i++ {
		tags.Set(NewEntityID(i, 0), &tag{})
	}
	weights.Set(NewEntityID(4, 0), &weight{kg: 4})
	weights.Set(NewEntityID(2, 0), &weight{kg: 2})
	weights.Set(NewEntityID(9, 0), &weight{kg: 9})

	var got []int
	Each2(tags, weights, func(_ EntityID, _ *tag, w *weight) { got = append(got, w.kg) })
	require.Equal(t, []int{2, 4}, got)
}

func TestWorldDestroyQueue(t *testing.T) {
	w := NewWorld()
	tags := NewStore[tag]()
	w.Registry().Register(tags)

	var seen []string
	w.Registry().OnDestroy(func(id EntityID) {
		tg, ok := tags.Get(id)
		require.True(t, ok, "components are readable inside the hook")
		seen = append(seen, tg.name)
	})

	a := w.CreateEntity()
	b := w.CreateEntity()
	tags.Set(a, &tag{name: "a"})
	tags.Set(b, &tag{name: "b"})

	w.MarkForDestruction(a)
	w.MarkForDestruction(a)
	require.Equal(t, 1, w.Pending())
	require.True(t, w.Alive(a), "destruction is deferred")

	require.Equal(t, 1, w.FlushDestroyQueue())
	require.Equal(t, []string{"a"}, seen)
	require.False(t, w.Alive(a))
	require.False(t, tags.Has(a))
	require.True(t, tags.Has(b))

	w.MarkForDestruction(a)
	require.Equal(t, 0, w.Pending())
	require.Equal(t, 1, w.Pool().Live())
}
