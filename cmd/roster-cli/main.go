package main

import (
	"context"
	"log"
	"os"

	"github.com/noah-isme/student-roster/internal/bootstrap"
	"github.com/noah-isme/student-roster/internal/cli"
	"github.com/noah-isme/student-roster/internal/service"
	"github.com/noah-isme/student-roster/pkg/config"
	"github.com/noah-isme/student-roster/pkg/logger"
	"github.com/noah-isme/student-roster/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// Keep structured logs out of the interactive screen unless asked for.
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
	cfg.Log.Format = "console"

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	rt, err := bootstrap.New(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to wire roster", "error", err)
	}
	defer rt.Close()

	var exports cli.TranscriptSaver
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.Dir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export directory", "error", err)
		}
		exports = service.NewExportService(store, logr)
	}

	app := cli.NewApp(rt.Session, exports, os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		logr.Sugar().Errorw("roster viewer stopped", "error", err)
	}
}
