package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/l1jgo/collide/internal/data"
)

// ErrNoScene is returned when a scene has no stored obstacles.
var ErrNoScene = errors.New("scene has no obstacles")

// ObstacleRow is one row of scene_obstacles. Group members point at their
// group through ParentID; top-level rows have ParentID 0.
type ObstacleRow struct {
	ID       int64
	ParentID int64
	Name     string
	Kind     string
	X, Y     float64
	Layer    int32
	Radius   float64
	W, H     float64
}

// ObstacleRepo stores static scene colliders. Only layout lives here;
// collision state is never persisted.
type ObstacleRepo struct {
	db *DB
}

func NewObstacleRepo(db *DB) *ObstacleRepo {
	return &ObstacleRepo{db: db}
}

// LoadScene returns the obstacles of scene with groups reassembled.
func (r *ObstacleRepo) LoadScene(ctx context.Context, scene string) ([]data.ObstacleSpec, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, COALESCE(parent_id, 0), name, kind, x, y, layer, radius, w, h
		 FROM scene_obstacles WHERE scene = $1 ORDER BY id`, scene)
	if err != nil {
		return nil, fmt.Errorf("query obstacles: %w", err)
	}
	defer rows.Close()

	var list []ObstacleRow
	for rows.Next() {
		var o ObstacleRow
		if err := rows.Scan(&o.ID, &o.ParentID, &o.Name, &o.Kind,
			&o.X, &o.Y, &o.Layer, &o.Radius, &o.W, &o.H); err != nil {
			return nil, fmt.Errorf("scan obstacle: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read obstacles: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoScene, scene)
	}
	return Assemble(list)
}

// ReplaceScene deletes the stored obstacles of scene and writes obs in one
// transaction.
func (r *ObstacleRepo) ReplaceScene(ctx context.Context, scene string, obs []data.ObstacleSpec) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("obstacles begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM scene_obstacles WHERE scene = $1`, scene); err != nil {
		return fmt.Errorf("clear scene %s: %w", scene, err)
	}
	for _, o := range obs {
		if err := insertShape(ctx, tx, scene, o.Name, 0, o.Shape); err != nil {
			return fmt.Errorf("insert %s: %w", o.Name, err)
		}
	}
	return tx.Commit(ctx)
}

func insertShape(ctx context.Context, tx pgx.Tx, scene, name string, parent int64, s data.ShapeSpec) error {
	var parentArg any
	if parent != 0 {
		parentArg = parent
	}
	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO scene_obstacles (scene, name, parent_id, kind, x, y, layer, radius, w, h)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		scene, name, parentArg, s.Kind, s.X, s.Y, s.Layer, s.Radius, s.W, s.H,
	).Scan(&id); err != nil {
		return err
	}
	for _, ch := range s.Children {
		if err := insertShape(ctx, tx, scene, name, id, ch); err != nil {
			return err
		}
	}
	return nil
}

// Assemble rebuilds obstacle specs from flat rows ordered by ID. Rows
// whose parent is unknown are rejected.
func Assemble(rows []ObstacleRow) ([]data.ObstacleSpec, error) {
	specs := make(map[int64]*data.ShapeSpec, len(rows))
	var roots []int64
	names := make(map[int64]string, len(rows))
	children := make(map[int64][]int64)

	for _, o := range rows {
		specs[o.ID] = &data.ShapeSpec{
			Kind: o.Kind, X: o.X, Y: o.Y, Layer: o.Layer,
			Radius: o.Radius, W: o.W, H: o.H,
		}
		if o.ParentID != 0 && o.ParentID >= o.ID {
			return nil, fmt.Errorf("obstacle %d: parent %d must precede it", o.ID, o.ParentID)
		}
		if o.ParentID == 0 {
			roots = append(roots, o.ID)
			names[o.ID] = o.Name
			continue
		}
		children[o.ParentID] = append(children[o.ParentID], o.ID)
	}
	for parent := range children {
		if _, ok := specs[parent]; !ok {
			return nil, fmt.Errorf("obstacle parent %d not found", parent)
		}
	}

	var build func(id int64) data.ShapeSpec
	build = func(id int64) data.ShapeSpec {
		s := *specs[id]
		for _, ch := range children[id] {
			s.Children = append(s.Children, build(ch))
		}
		return s
	}

	out := make([]data.ObstacleSpec, 0, len(roots))
	for _, id := range roots {
		spec := build(id)
		if _, err := spec.Build(); err != nil {
			return nil, fmt.Errorf("obstacle %d (%s): %w", id, names[id], err)
		}
		out = append(out, data.ObstacleSpec{Name: names[id], Shape: spec})
	}
	return out, nil
}
