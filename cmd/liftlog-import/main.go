package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/importer"
	"github.com/claude/liftlog/internal/logging"
	"github.com/claude/liftlog/internal/metrics"
	"github.com/claude/liftlog/internal/repository"
	"github.com/claude/liftlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults and LIFTLOG_* env when empty)")
	path := flag.String("path", "", "path to a liftlog JSON export (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the store")
	settings := flag.Bool("settings", false, "also restore the settings from the export")
	flag.Parse()

	if *path == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import [-config config.yaml] -path liftlog-export.json [-dry-run] [-settings]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log, logCloser := logging.New(cfg.Log)
	defer logCloser.Close()

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode: no data will be written to the store")
	}

	store, err := storage.Open(ctx, storage.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		DSN:    cfg.Database.DSN(),
	})
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("store opened", "driver", cfg.Storage.Driver)

	// Run import
	repo := repository.New(store, metrics.NewManager("liftlog", "import"), log)
	imp := importer.New(repo, log, *dryRun, *settings)
	stats, err := imp.ImportFile(ctx, *path)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"sessions_read", stats.SessionsRead,
		"sessions_restored", stats.SessionsRestored,
		"sessions_replaced", stats.SessionsReplaced,
		"sessions_skipped", stats.SessionsSkipped,
		"settings_restored", stats.SettingsRestored,
	)
	if len(stats.SkippedIDs) > 0 {
		log.Info("skipped sessions (failed validation)", "ids", stats.SkippedIDs)
	}
}
