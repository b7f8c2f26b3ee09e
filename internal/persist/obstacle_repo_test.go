package persist

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/collide/internal/config"
	"github.com/l1jgo/collide/internal/data"
)

func TestAssemble(t *testing.T) {
	rows := []ObstacleRow{
		{ID: 1, Name: "wall", Kind: "rect", X: 0, Y: -300, W: 640, H: 20},
		{ID: 2, Name: "stalls", Kind: "group", X: 160, Y: 160},
		{ID: 3, ParentID: 2, Kind: "rect", X: 130, Y: 160, W: 40, H: 30},
		{ID: 4, ParentID: 2, Kind: "rect", X: 200, Y: 160, W: 40, H: 30},
		{ID: 5, Name: "fountain", Kind: "circle", Radius: 40},
	}

	got, err := Assemble(rows)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []string{"wall", "stalls", "fountain"}, []string{got[0].Name, got[1].Name, got[2].Name})

	stalls := got[1].Shape
	require.Equal(t, "group", stalls.Kind)
	require.Len(t, stalls.Children, 2)
	require.Equal(t, data.ShapeSpec{Kind: "rect", X: 200, Y: 160, W: 40, H: 30}, stalls.Children[1])
}

func TestAssembleNestedGroups(t *testing.T) {
	rows := []ObstacleRow{
		{ID: 10, Name: "camp", Kind: "group"},
		{ID: 11, ParentID: 10, Kind: "group"},
		{ID: 12, ParentID: 11, Kind: "circle", X: 5, Radius: 1},
	}
	got, err := Assemble(rows)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 5.0, got[0].Shape.Children[0].Children[0].X)
}

func TestAssembleRejects(t *testing.T) {
	t.Run("unknown parent", func(t *testing.T) {
		_, err := Assemble([]ObstacleRow{
			{ID: 1, Name: "a", Kind: "group"},
			{ID: 5, ParentID: 3, Kind: "rect", W: 1, H: 1},
		})
		require.Error(t, err)
	})

	t.Run("child before parent", func(t *testing.T) {
		_, err := Assemble([]ObstacleRow{
			{ID: 1, ParentID: 2, Kind: "rect"},
			{ID: 2, Name: "g", Kind: "group"},
		})
		require.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Assemble([]ObstacleRow{{ID: 1, Name: "x", Kind: "blob"}})
		require.ErrorIs(t, err, data.ErrUnknownShape)
	})
}

func TestAssembleEmpty(t *testing.T) {
	got, err := Assemble(nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestApplyPoolLimits(t *testing.T) {
	poolCfg, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/collide")
	require.NoError(t, err)

	applyPoolLimits(poolCfg, config.DatabaseConfig{MaxOpenConns: 2, MaxIdleConns: 9, ConnMaxLifetime: time.Minute})
	require.Equal(t, int32(2), poolCfg.MaxConns)
	require.Equal(t, int32(2), poolCfg.MinConns)
	require.Equal(t, time.Minute, poolCfg.MaxConnLifetime)

	before := poolCfg.MaxConns
	applyPoolLimits(poolCfg, config.DatabaseConfig{})
	require.Equal(t, before, poolCfg.MaxConns)
}
