package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gymflow-be/internal/config"
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/logger"
	"gymflow-be/internal/repository/unitofwork"
	"gymflow-be/pkg/ai/recents"
	"gymflow-be/pkg/database"

	"github.com/fatih/color"
)

// recents_audit reports (user, tool) keys holding more recent entries than the
// store capacity. With -fix it trims each of them back to capacity.
func main() {
	fix := flag.Bool("fix", false, "trim over-capacity keys")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("❌ DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, "silent")
	if err != nil {
		color.Red("❌ Failed to connect to database: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store := recents.NewStore(unitofwork.NewRepositoryFactory(db), nil, logger.NewNopLogger())
	keys, err := store.OverCapacity(ctx)
	if err != nil {
		color.Red("❌ Audit failed: %v", err)
		os.Exit(1)
	}

	if len(keys) == 0 {
		color.Green("✅ Every key holds at most %d entries", recents.Capacity)
		return
	}

	color.Yellow("⚠️  %d key(s) over capacity (%d):", len(keys), recents.Capacity)
	for _, k := range keys {
		fmt.Printf("  user=%s tool=%s count=%d\n", k.UserId, k.Tool, k.Count)
	}

	if !*fix {
		color.Cyan("Run again with -fix to trim them.")
		return
	}

	failed := 0
	for _, k := range keys {
		removed, err := store.Settle(ctx, k.UserId, entity.AiTool(k.Tool))
		if err != nil {
			failed++
			color.Red("  ❌ user=%s tool=%s: %v", k.UserId, k.Tool, err)
			continue
		}
		color.Green("  ✅ user=%s tool=%s removed=%d", k.UserId, k.Tool, removed)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
