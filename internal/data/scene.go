package data

import (
	"errors"
	"fmt"
	"os"

	"github.com/l1jgo/collide/internal/collision"
	"gopkg.in/yaml.v3"
)

// ErrUnknownShape is returned for a shape kind the loader cannot build.
var ErrUnknownShape = errors.New("unknown shape kind")

// ShapeSpec describes one collider in a layout file. Circles use Radius,
// rectangles W/H, groups Children (child positions are absolute).
type ShapeSpec struct {
	Kind     string      `yaml:"kind"` // "circle", "rect" or "group"
	X        float64     `yaml:"x"`
	Y        float64     `yaml:"y"`
	Layer    int32       `yaml:"layer"`
	Radius   float64     `yaml:"radius"`
	W        float64     `yaml:"w"`
	H        float64     `yaml:"h"`
	Children []ShapeSpec `yaml:"children"`
}

// Build turns the description into a collider.
func (s ShapeSpec) Build() (collision.Shape, error) {
	c := collision.Vec{X: s.X, Y: s.Y, Layer: s.Layer}
	switch s.Kind {
	case "circle":
		return collision.NewCircle(c, s.Radius), nil
	case "rect":
		return collision.NewRect(c, collision.Size{W: s.W, H: s.H}), nil
	case "group":
		children := make([]collision.Shape, 0, len(s.Children))
		for i, ch := range s.Children {
			sh, err := ch.Build()
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			children = append(children, sh)
		}
		return collision.NewGroup(c, children...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, s.Kind)
}

// ObstacleSpec is a static collider that never moves.
type ObstacleSpec struct {
	Name  string    `yaml:"name"`
	Shape ShapeSpec `yaml:"shape"`
}

// ActorSpec is a moving entity steered by a Lua function.
type ActorSpec struct {
	Name   string    `yaml:"name"`
	Script string    `yaml:"script"` // Lua steering function name
	Shape  ShapeSpec `yaml:"shape"`
}

// SceneLayout is the content of one scene layout file.
type SceneLayout struct {
	Name      string         `yaml:"name"`
	Obstacles []ObstacleSpec `yaml:"obstacles"`
	Actors    []ActorSpec    `yaml:"actors"`
}

// Count returns the number of entities described by the layout.
func (l *SceneLayout) Count() int { return len(l.Obstacles) + len(l.Actors) }

// LoadScene reads a scene layout from a YAML file.
func LoadScene(path string) (*SceneLayout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	layout, err := ParseScene(raw)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return layout, nil
}

// ParseScene decodes and checks a layout. Every shape must build.
func ParseScene(raw []byte) (*SceneLayout, error) {
	var layout SceneLayout
	if err := yaml.Unmarshal(raw, &layout); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	for i, o := range layout.Obstacles {
		if _, err := o.Shape.Build(); err != nil {
			return nil, fmt.Errorf("obstacle %d (%s): %w", i, o.Name, err)
		}
	}
	for i, a := range layout.Actors {
		if _, err := a.Shape.Build(); err != nil {
			return nil, fmt.Errorf("actor %d (%s): %w", i, a.Name, err)
		}
	}
	return &layout, nil
}
