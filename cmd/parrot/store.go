package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/parrot/pkg/corpus"
)

// openStore opens the corpus database named by dataSource, creating its
// directory and schema when needed.
func openStore(dataSource string, logger *slog.Logger) (*sql.DB, *corpus.Store, error) {
	path, _, _ := strings.Cut(dataSource, "?")
	if dir := filepath.Dir(path); dir != "." && !strings.HasPrefix(path, ":memory:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := openDB(dataSource)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare corpus store: %w", err)
	}
	store.SetLogger(logger)
	return db, store, nil
}
