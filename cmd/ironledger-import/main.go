package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/meltforce/ironledger/internal/config"
	"github.com/meltforce/ironledger/internal/importer"
	"github.com/meltforce/ironledger/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	csvPath := flag.String("file", "", "path to CSV export (required)")
	userID := flag.Int("user", 1, "user ID to import history for")
	stateDir := flag.String("state-dir", defaultStateDir(), "directory for the import state database")
	dryRun := flag.Bool("dry-run", false, "parse and report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *csvPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: ironledger-import -config config.yaml -file export.csv [-user 1] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Error("cannot open export file", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	workouts, err := importer.Parse(f)
	if err != nil {
		log.Error("parse failed", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	log.Info("export parsed", "workouts", len(workouts))

	if *dryRun {
		sets := 0
		for _, w := range workouts {
			for _, e := range w.Exercises {
				sets += len(e.Sets)
			}
		}
		log.Info("DRY RUN — nothing written", "workouts", len(workouts), "sets", sets)
		return
	}

	info, err := f.Stat()
	if err != nil {
		log.Error("stat failed", "error", err)
		os.Exit(1)
	}
	hash, err := importer.HashFile(*csvPath)
	if err != nil {
		log.Error("hashing export failed", "error", err)
		os.Exit(1)
	}

	state, err := importer.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("opening state db failed", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	done, err := state.IsImported(*csvPath, info.Size(), hash)
	if err != nil {
		log.Error("state lookup failed", "error", err)
		os.Exit(1)
	}
	if done {
		log.Info("file already imported, nothing to do", "path", *csvPath)
		return
	}

	// Load config and connect
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	dsn := cfg.Database.DSN()

	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	imp := importer.New(db, *userID, log)
	start := time.Now()
	res, importErr := imp.Import(ctx, workouts)
	imp.LogRun(ctx, *csvPath, res, importErr, time.Since(start))
	if importErr != nil {
		log.Error("import failed", "error", importErr)
		os.Exit(1)
	}

	if err := state.MarkImported(*csvPath, info.Size(), hash); err != nil {
		log.Warn("recording import state failed", "error", err)
	}

	log.Info("import complete",
		"workouts", res.Workouts,
		"sets", res.Sets,
		"custom_exercises_created", res.Created,
	)
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ironledger"
	}
	return home + "/.ironledger"
}
