package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/export"
	"github.com/claude/liftlog/internal/logging"
	"github.com/claude/liftlog/internal/metrics"
	"github.com/claude/liftlog/internal/repository"
	"github.com/claude/liftlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults and LIFTLOG_* env when empty)")
	outPath := flag.String("out", "", "output file; the extension (.json or .xlsx) picks the format unless -format is set")
	format := flag.String("format", "", "json or xlsx")
	flag.Parse()

	if *outPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-export [-config config.yaml] -out liftlog-export.json [-format json|xlsx]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *format == "" {
		*format = strings.TrimPrefix(strings.ToLower(filepath.Ext(*outPath)), ".")
	}
	if *format != "json" && *format != "xlsx" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (want json or xlsx)\n", *format)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log, logCloser := logging.New(cfg.Log)
	defer logCloser.Close()

	ctx := context.Background()
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

	repo := repository.New(store, metrics.NewManager("liftlog", "export"), log)
	doc := export.Snapshot(ctx, repo, time.Now())

	if err := writeFile(*outPath, *format, doc); err != nil {
		log.Error("export failed", "path", *outPath, "error", err)
		os.Exit(1)
	}
	log.Info("export complete", "path", *outPath, "format", *format, "sessions", len(doc.Sessions))
}

func writeFile(path, format string, doc export.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if format == "xlsx" {
		err = export.WriteXLSX(f, doc)
	} else {
		err = export.WriteJSON(f, doc)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
