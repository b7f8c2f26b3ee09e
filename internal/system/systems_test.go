package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/collide/internal/collision"
	"github.com/l1jgo/collide/internal/core/event"
	coresys "github.com/l1jgo/collide/internal/core/system"
	"github.com/l1jgo/collide/internal/scripting"
	"github.com/l1jgo/collide/internal/world"
)

type harness struct {
	ws      *world.State
	bus     *event.Bus
	runner  *coresys.Runner
	move    *MovementSystem
	cleanup *CleanupSystem
	events  *EventDispatchSystem
}

func newHarness(t *testing.T, script string) *harness {
	t.Helper()
	bus := event.NewBus()
	scene := collision.NewScene(collision.WithListener(world.NewBusListener(bus)))
	ws := world.NewState(scene, bus, nil)

	lua, err := scripting.NewEngine(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(lua.Close)
	require.NoError(t, lua.LoadString("test", script))

	h := &harness{
		ws:      ws,
		bus:     bus,
		runner:  coresys.NewRunner(),
		move:    NewMovementSystem(ws),
		cleanup: NewCleanupSystem(ws, zap.NewNop()),
		events:  NewEventDispatchSystem(bus),
	}
	h.runner.Register(h.cleanup)
	h.runner.Register(h.move)
	h.runner.Register(h.events)
	h.runner.Register(NewSteeringSystem(ws, lua, 50, 4))
	return h
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.runner.Tick(50 * time.Millisecond)
	}
}

const walkEast = `function walk_east(ctx) return { dx = 10, dy = 0 } end`

func TestActorStopsAtWall(t *testing.T) {
	h := newHarness(t, walkEast)
	wall, _ := h.ws.Spawn("wall", world.KindObstacle, collision.NewRect(collision.Vec{X: 30}, collision.Size{W: 10, H: 50}))
	actor, _ := h.ws.Spawn("walker", world.KindActor, collision.NewCircle(collision.Vec{}, 5))
	st := h.ws.Attach(actor.ID, "walk_east")

	var rejections []event.MoveRejected
	event.Subscribe(h.bus, func(ev event.MoveRejected) { rejections = append(rejections, ev) })

	h.tick(6)
	accepted, rejected := h.move.Stats()
	require.Equal(t, 4, accepted)
	require.Equal(t, 2, rejected)
	require.Equal(t, collision.Vec{X: 16}, actor.Position())
	require.Equal(t, 4, st.Moves)
	require.Equal(t, 2, st.Blocked)
	require.False(t, st.LastOK)

	// the second rejection is still in the back buffer
	require.Len(t, rejections, 1)
	require.Equal(t, wall.ID, rejections[0].Blocker)

	t.Run("destroyed wall frees the path", func(t *testing.T) {
		h.ws.Destroy(wall.ID)
		h.tick(1)
		require.Equal(t, 1, h.cleanup.Destroyed())
		require.False(t, h.ws.Scene().Registered(wall.Shape()))

		h.tick(1)
		require.Equal(t, collision.Vec{X: 20}, actor.Position())
		require.True(t, st.LastOK)
	})
}

func TestActorsWithoutIntentStayPut(t *testing.T) {
	h := newHarness(t, `function idle(ctx) return { dx = 0, dy = 0 } end`)
	a, _ := h.ws.Spawn("idler", world.KindActor, collision.NewCircle(collision.Vec{X: 7}, 3))
	h.ws.Attach(a.ID, "idle")
	b, _ := h.ws.Spawn("unscripted", world.KindActor, collision.NewCircle(collision.Vec{X: 200}, 3))
	h.ws.Attach(b.ID, "")

	h.tick(3)
	accepted, rejected := h.move.Stats()
	require.Zero(t, accepted)
	require.Zero(t, rejected)
	require.Equal(t, collision.Vec{X: 7}, a.Position())
	require.Equal(t, collision.Vec{X: 200}, b.Position())
}

func TestEventsDeliveredNextTick(t *testing.T) {
	h := newHarness(t, walkEast)
	var started int
	event.Subscribe(h.bus, func(event.CollisionStarted) { started++ })

	h.ws.Spawn("a", world.KindObstacle, collision.NewCircle(collision.Vec{}, 10))
	h.ws.Spawn("b", world.KindObstacle, collision.NewCircle(collision.Vec{X: 5}, 10))
	require.Zero(t, started)

	h.tick(1)
	require.Equal(t, 1, started)
	require.Equal(t, 1, h.events.Delivered())
}
