package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/l1jgo/collide/internal/collision"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM that turns actor state into movement
// intents. Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads scripts from scriptsDir/core
// and then scriptsDir/steer. Missing directories are skipped.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	for _, sub := range []string{"core", "steer"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e := &Engine{vm: vm, log: log}
	vm.SetGlobal("log_debug", vm.NewFunction(e.luaLogDebug))
	return e
}

func (e *Engine) luaLogDebug(L *lua.LState) int {
	e.log.Debug("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString executes a chunk of Lua source, typically function
// definitions. name is used in error messages only.
func (e *Engine) LoadString(name, src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

// Has reports whether a global Lua function is defined.
func (e *Engine) Has(fn string) bool {
	_, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	return ok
}

// SteerContext is the actor snapshot handed to a steering function.
type SteerContext struct {
	EntityID uint64
	Name     string
	Pos      collision.Vec
	Tick     uint64
	Blocked  bool // previous move was rejected
	Moves    int  // accepted moves so far
	Nearby   int  // entities within perception range
	MaxStep  float64
}

// Steer calls the Lua function fn(ctx) and returns the direction it asks
// for, clamped to ctx.MaxStep. Scripts return a table {dx=, dy=, dlayer=}.
// Any script error yields a zero direction.
func (e *Engine) Steer(fn string, ctx SteerContext) collision.Vec {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		e.log.Error("lua steering function not found", zap.String("name", fn))
		return collision.Vec{}
	}

	t := e.vm.NewTable()
	t.RawSetString("id", lua.LNumber(ctx.EntityID))
	t.RawSetString("name", lua.LString(ctx.Name))
	t.RawSetString("x", lua.LNumber(ctx.Pos.X))
	t.RawSetString("y", lua.LNumber(ctx.Pos.Y))
	t.RawSetString("layer", lua.LNumber(ctx.Pos.Layer))
	t.RawSetString("tick", lua.LNumber(ctx.Tick))
	t.RawSetString("blocked", lua.LBool(ctx.Blocked))
	t.RawSetString("moves", lua.LNumber(ctx.Moves))
	t.RawSetString("nearby", lua.LNumber(ctx.Nearby))
	t.RawSetString("max_step", lua.LNumber(ctx.MaxStep))

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua steering error", zap.String("func", fn), zap.Error(err))
		return collision.Vec{}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return collision.Vec{}
	}
	dir := collision.Vec{
		X:     lFloat(rt, "dx"),
		Y:     lFloat(rt, "dy"),
		Layer: int32(lFloat(rt, "dlayer")),
	}
	return clampStep(dir, ctx.MaxStep)
}

// clampStep shortens dir to at most limit world units. limit <= 0 disables it.
func clampStep(dir collision.Vec, limit float64) collision.Vec {
	if math.IsNaN(dir.X) || math.IsNaN(dir.Y) {
		return collision.Vec{}
	}
	if limit <= 0 {
		return dir
	}
	l := math.Hypot(dir.X, dir.Y)
	if l <= limit {
		return dir
	}
	dir.X *= limit / l
	dir.Y *= limit / l
	return dir
}

// lFloat reads a number field from a Lua table.
func lFloat(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
