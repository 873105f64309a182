// Command admindash-seed loads <dir>/<collection>.json fixtures into the
// configured data backend. Documents are replaced or created by id, so
// running it twice is harmless. dir defaults to DATA_DIR.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"admindash/internal/backend"
	"admindash/internal/cli"
	"admindash/internal/config"
	"admindash/internal/log"
	"admindash/internal/store"
	"admindash/internal/store/memory"
)

func main() {
	cfg, logger := cli.Bootstrap()

	if cfg.DataBackend == config.BackendMemory {
		logger.Error("The memory backend is seeded at startup; set DATA_BACKEND to sqlite or firestore")
		os.Exit(1)
	}
	dir := cfg.DataDir
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ctx := context.Background()
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.Logger).Create(ctx, bc)
	if err != nil {
		logger.Error("Failed to open data backend", log.FieldError, err)
		os.Exit(1)
	}

	total, err := seed(ctx, res.Store, dir, logger)
	if cerr := res.Cleanup(); cerr != nil {
		logger.Warn("Backend cleanup error", log.FieldError, cerr)
	}
	if err != nil {
		logger.Error("Seeding failed", log.FieldError, err, "dir", dir)
		os.Exit(1)
	}
	logger.Info("Seeding complete", log.FieldCount, total, "dir", dir, "backend", cfg.DataBackend)
}

func seed(ctx context.Context, w store.Writer, dir string, logger *log.Logger) (int, error) {
	total := 0
	for _, c := range store.AllCollections {
		docs, err := memory.ReadSeedFile(filepath.Join(dir, c+".json"))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return total, err
		}
		for _, d := range docs {
			if err := w.Replace(ctx, c, d.ID, d.Fields); err != nil {
				return total, err
			}
		}
		total += len(docs)
		logger.Info("Collection seeded", log.FieldCollection, c, log.FieldCount, len(docs))
	}
	return total, nil
}
