// sceneseed copies the obstacles of a YAML scene layout into the
// scene_obstacles table, replacing whatever was stored for that scene.
//
// Usage:
//
//	go run ./cmd/sceneseed [-config path] [-layout path] [-scene name]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/l1jgo/collide/internal/config"
	"github.com/l1jgo/collide/internal/data"
	"github.com/l1jgo/collide/internal/persist"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "config/collide.toml", "host config file")
	layoutPath := flag.String("layout", "", "scene layout YAML (default: data.scene_file from config)")
	sceneName := flag.String("scene", "", "scene name to store under (default: layout name)")
	flag.Parse()

	if err := seed(*cfgPath, *layoutPath, *sceneName); err != nil {
		fmt.Fprintf(os.Stderr, "sceneseed: %v\n", err)
		os.Exit(1)
	}
}

func seed(cfgPath, layoutPath, sceneName string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if layoutPath == "" {
		layoutPath = cfg.Data.SceneFile
	}
	layout, err := data.LoadScene(layoutPath)
	if err != nil {
		return err
	}
	if sceneName == "" {
		sceneName = layout.Name
	}
	if sceneName == "" {
		return fmt.Errorf("layout %s has no name, pass -scene", layoutPath)
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := persist.RunMigrations(ctx, db.Pool, log); err != nil {
		return err
	}
	if err := persist.NewObstacleRepo(db).ReplaceScene(ctx, sceneName, layout.Obstacles); err != nil {
		return err
	}
	fmt.Printf("seeded %d obstacles into scene %q\n", len(layout.Obstacles), sceneName)
	return nil
}
