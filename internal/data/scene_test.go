package data

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/l1jgo/collide/internal/collision"
)

func TestShapeSpecBuild(t *testing.T) {
	t.Run("circle", func(t *testing.T) {
		sh, err := ShapeSpec{Kind: "circle", X: 1, Y: 2, Layer: 3, Radius: 4}.Build()
		require.NoError(t, err)
		require.Equal(t, collision.KindCircle, sh.Kind())
		require.Equal(t, collision.Vec{X: 1, Y: 2, Layer: 3}, sh.Center())
		require.Equal(t, collision.Size{W: 8, H: 8}, sh.Size())
	})

	t.Run("rect", func(t *testing.T) {
		sh, err := ShapeSpec{Kind: "rect", W: 10, H: 6}.Build()
		require.NoError(t, err)
		require.Equal(t, collision.KindRect, sh.Kind())
		require.Equal(t, -5.0, sh.MinX())
	})

	t.Run("group", func(t *testing.T) {
		sh, err := ShapeSpec{Kind: "group", Children: []ShapeSpec{
			{Kind: "rect", X: 0, W: 10, H: 10},
			{Kind: "circle", X: 100, Radius: 5},
		}}.Build()
		require.NoError(t, err)
		g := sh.(*collision.Group)
		require.Equal(t, 2, g.Len())
		require.Equal(t, 105.0, g.MaxX())
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := ShapeSpec{Kind: "hexagon"}.Build()
		require.ErrorIs(t, err, ErrUnknownShape)
	})

	t.Run("unknown child kind", func(t *testing.T) {
		_, err := ShapeSpec{Kind: "group", Children: []ShapeSpec{{Kind: "blob"}}}.Build()
		require.ErrorIs(t, err, ErrUnknownShape)
	})
}

func TestParseScene(t *testing.T) {
	layout, err := ParseScene([]byte(`
name: yard
obstacles:
  - name: post
    shape: { kind: circle, x: 10, y: 10, radius: 2 }
actors:
  - name: dog
    script: steer_wander
    shape: { kind: rect, x: 0, y: 0, w: 4, h: 4 }
`))
	require.NoError(t, err)
	require.Equal(t, "yard", layout.Name)
	require.Equal(t, 2, layout.Count())
	require.Equal(t, "steer_wander", layout.Actors[0].Script)

	_, err = ParseScene([]byte("obstacles:\n  - name: x\n    shape: { kind: cone }\n"))
	require.ErrorIs(t, err, ErrUnknownShape)

	_, err = ParseScene([]byte("obstacles: [unterminated"))
	require.Error(t, err)
}

func TestLoadSampleScene(t *testing.T) {
	layout, err := LoadScene(filepath.Join("..", "..", "data", "yaml", "scene.yaml"))
	require.NoError(t, err)
	require.Equal(t, "town", layout.Name)
	require.Len(t, layout.Obstacles, 7)
	require.Len(t, layout.Actors, 3)

	_, err = LoadScene("does/not/exist.yaml")
	require.Error(t, err)
}
