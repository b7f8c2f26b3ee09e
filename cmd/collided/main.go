package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/collide/internal/collision"
	"github.com/l1jgo/collide/internal/config"
	"github.com/l1jgo/collide/internal/core/ecs"
	"github.com/l1jgo/collide/internal/core/event"
	coresys "github.com/l1jgo/collide/internal/core/system"
	"github.com/l1jgo/collide/internal/data"
	"github.com/l1jgo/collide/internal/persist"
	"github.com/l1jgo/collide/internal/scripting"
	"github.com/l1jgo/collide/internal/system"
	"github.com/l1jgo/collide/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(sceneName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             collided  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m     scene collision & movement host       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mscene:\033[0m %s\n\n", sceneName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main host logic ───────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/collide.toml"
	if p := os.Getenv("COLLIDE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Scene.Name)

	// 3. Load layout: YAML file and stored obstacles side by side
	printSection("data")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		layout    *data.SceneLayout
		dbObjects []data.ObstacleSpec
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := data.LoadScene(cfg.Data.SceneFile)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
		layout = l
		return nil
	})
	if cfg.Database.Enabled {
		g.Go(func() error {
			obs, err := loadStoredObstacles(gctx, cfg, log)
			if err != nil {
				return err
			}
			dbObjects = obs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	printStat("layout obstacles", len(layout.Obstacles))
	printStat("layout actors", len(layout.Actors))
	if cfg.Database.Enabled {
		printStat("stored obstacles", len(dbObjects))
	}

	// 4. Scene, event bus and entity state
	bus := event.NewBus()
	opts := []collision.Option{
		collision.WithBoxSize(cfg.Scene.BoxSize),
		collision.WithPolicy(collision.ParsePolicy(cfg.Scene.UndefinedPolicy)),
		collision.WithLogger(log.Named("scene")),
		collision.WithListener(world.NewBusListener(bus)),
	}
	if cfg.Scene.Locking {
		opts = append(opts, collision.WithLocking())
	}
	scene := collision.NewScene(opts...)
	ws := world.NewState(scene, bus, log.Named("world"))
	subscribeLogging(bus, ws, log)

	overlaps := 0
	spawnObstacle := func(o data.ObstacleSpec) error {
		sh, err := o.Shape.Build()
		if err != nil {
			return fmt.Errorf("obstacle %s: %w", o.Name, err)
		}
		if _, free := ws.Spawn(o.Name, world.KindObstacle, sh); !free {
			overlaps++
		}
		return nil
	}
	for _, o := range layout.Obstacles {
		if err := spawnObstacle(o); err != nil {
			return err
		}
	}
	for _, o := range dbObjects {
		if err := spawnObstacle(o); err != nil {
			return err
		}
	}

	// 5. Lua steering
	luaEngine, err := scripting.NewEngine(cfg.Data.ScriptsDir, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()

	for _, a := range layout.Actors {
		sh, err := a.Shape.Build()
		if err != nil {
			return fmt.Errorf("actor %s: %w", a.Name, err)
		}
		if a.Script != "" && !luaEngine.Has(a.Script) {
			return fmt.Errorf("actor %s: steering function %q not defined", a.Name, a.Script)
		}
		e, free := ws.Spawn(a.Name, world.KindActor, sh)
		if !free {
			overlaps++
		}
		ws.Attach(e.ID, a.Script)
	}
	printStat("entities", ws.Count())
	printStat("grid cells", scene.CellCount())
	printStat("spawn overlaps", overlaps)
	printOK("lua steering loaded")
	fmt.Println()

	// 6. Systems
	runner := coresys.NewRunner()
	moveSys := system.NewMovementSystem(ws)
	runner.Register(system.NewSteeringSystem(ws, luaEngine, cfg.Scene.PerceptionRange, cfg.Scene.MaxStep))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(moveSys)
	runner.Register(system.NewCleanupSystem(ws, log.Named("cleanup")))

	// 7. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("scene %s (box %.0f, %s)", scene.ID(), scene.BoxSize(), scene.Policy()))
	printReady(fmt.Sprintf("game loop started (tick: %s)", cfg.Loop.TickRate))
	fmt.Println()

	const statsInterval = 200
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Loop.TickRate)
			if runner.Ticks()%statsInterval == 0 {
				accepted, rejected := moveSys.Stats()
				log.Info("movement stats",
					zap.Uint64("tick", runner.Ticks()),
					zap.Int("accepted", accepted),
					zap.Int("rejected", rejected),
					zap.Uint64("fingerprint", scene.Fingerprint()))
			}
			if cfg.Loop.MaxTicks > 0 && runner.Ticks() >= cfg.Loop.MaxTicks {
				logFinal(log, runner, moveSys, scene)
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			logFinal(log, runner, moveSys, scene)
			return nil
		}
	}
}

func loadStoredObstacles(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]data.ObstacleSpec, error) {
	db, err := persist.NewDB(ctx, cfg.Database, log.Named("db"))
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if _, err := persist.RunMigrations(ctx, db.Pool, log.Named("db")); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	obs, err := persist.NewObstacleRepo(db).LoadScene(ctx, cfg.Scene.Name)
	if errors.Is(err, persist.ErrNoScene) {
		log.Info("no stored obstacles", zap.String("scene", cfg.Scene.Name))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load obstacles: %w", err)
	}
	return obs, nil
}

// subscribeLogging turns scene events into log lines.
func subscribeLogging(bus *event.Bus, ws *world.State, log *zap.Logger) {
	name := func(id ecs.EntityID) string {
		if e, ok := ws.Get(id); ok {
			return e.Name
		}
		return "?"
	}
	event.Subscribe(bus, func(ev event.CollisionStarted) {
		log.Info("collision started",
			zap.String("a", name(ev.A)), zap.String("b", name(ev.B)))
	})
	event.Subscribe(bus, func(ev event.CollisionEnded) {
		log.Debug("collision ended",
			zap.String("a", name(ev.A)), zap.String("b", name(ev.B)))
	})
	event.Subscribe(bus, func(ev event.MoveRejected) {
		log.Debug("move rejected",
			zap.String("mover", name(ev.Mover)),
			zap.String("blocker", name(ev.Blocker)),
			zap.Float64("dx", ev.Direction.X),
			zap.Float64("dy", ev.Direction.Y))
	})
	event.Subscribe(bus, func(ev event.EntityDestroyed) {
		log.Info("entity destroyed", zap.String("name", ev.Name))
	})
}

func logFinal(log *zap.Logger, runner *coresys.Runner, moveSys *system.MovementSystem, scene *collision.Scene) {
	accepted, rejected := moveSys.Stats()
	log.Info("host stopped",
		zap.Uint64("ticks", runner.Ticks()),
		zap.Int("accepted", accepted),
		zap.Int("rejected", rejected),
		zap.Int("shapes", scene.Len()),
		zap.Int("cells", scene.CellCount()))
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
