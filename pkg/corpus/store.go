package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// ErrNotFound is returned when a named corpus does not exist.
var ErrNotFound = errors.New("corpus: not found")

// Info describes a stored corpus without its content.
type Info struct {
	Name    string    `json:"name"`
	Size    int       `json:"size"`
	AddedAt time.Time `json:"added_at"`
}

// SetupSchema initializes the corpus table in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaCorpora = `
CREATE TABLE IF NOT EXISTS corpora (
    corpus_id INTEGER PRIMARY KEY,
    corpus_name TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    byte_size INTEGER NOT NULL,
    added_at INTEGER NOT NULL
);
`
	if _, err := db.Exec(schemaCorpora); err != nil {
		return fmt.Errorf("could not create corpus schema: %w", err)
	}
	return nil
}

// Store keeps named raw texts in a SQLite database. Only the source text is
// stored; models are always rebuilt from it.
type Store struct {
	db         *sql.DB
	stmtPut    *sql.Stmt
	stmtGet    *sql.Stmt
	stmtList   *sql.Stmt
	stmtRemove *sql.Stmt
	logger     *slog.Logger
	now        func() time.Time
}

// NewStore creates a Store over db, whose schema must already be set up with
// SetupSchema. It pre-compiles all SQL statements.
func NewStore(db *sql.DB) (*Store, error) {
	stmtPut, err := db.Prepare(`INSERT INTO corpora (corpus_name, content, byte_size, added_at) VALUES (?, ?, ?, ?)
ON CONFLICT(corpus_name) DO UPDATE SET content = excluded.content, byte_size = excluded.byte_size, added_at = excluded.added_at;`)
	if err != nil {
		return nil, err
	}

	stmtGet, err := db.Prepare(`SELECT content FROM corpora WHERE corpus_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtList, err := db.Prepare(`SELECT corpus_name, byte_size, added_at FROM corpora ORDER BY corpus_name;`)
	if err != nil {
		return nil, err
	}

	stmtRemove, err := db.Prepare(`DELETE FROM corpora WHERE corpus_name = ?;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:         db,
		stmtPut:    stmtPut,
		stmtGet:    stmtGet,
		stmtList:   stmtList,
		stmtRemove: stmtRemove,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}, nil
}

// Close releases the prepared statements. The database itself is left open.
func (s *Store) Close() {
	_ = s.stmtPut.Close()
	_ = s.stmtGet.Close()
	_ = s.stmtList.Close()
	_ = s.stmtRemove.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Put stores the full content of r under name, replacing any corpus already
// stored under that name.
func (s *Store) Put(ctx context.Context, name string, r io.Reader) error {
	if name == "" {
		return errors.New("corpus: name is required")
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("could not read corpus '%s': %w", name, err)
	}
	if _, err = s.stmtPut.ExecContext(ctx, name, string(content), len(content), s.now().Unix()); err != nil {
		return fmt.Errorf("could not store corpus '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "Corpus stored",
		slog.String("corpus_name", name),
		slog.Int("bytes", len(content)),
	)
	return nil
}

// Open returns a reader over the content stored under name.
func (s *Store) Open(ctx context.Context, name string) (io.Reader, error) {
	var content string
	err := s.stmtGet.QueryRowContext(ctx, name).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: '%s'", ErrNotFound, name)
		}
		return nil, fmt.Errorf("could not load corpus '%s': %w", name, err)
	}
	return strings.NewReader(content), nil
}

// List returns every stored corpus, ordered by name.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.stmtList.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	infos := make([]Info, 0)
	for rows.Next() {
		var info Info
		var addedAt int64
		if err = rows.Scan(&info.Name, &info.Size, &addedAt); err != nil {
			return nil, err
		}
		info.AddedAt = time.Unix(addedAt, 0).UTC()
		infos = append(infos, info)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Remove deletes the corpus stored under name.
func (s *Store) Remove(ctx context.Context, name string) error {
	res, err := s.stmtRemove.ExecContext(ctx, name)
	if err != nil {
		return fmt.Errorf("could not remove corpus '%s': %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: '%s'", ErrNotFound, name)
	}

	s.logger.InfoContext(ctx, "Corpus removed", slog.String("corpus_name", name))
	return nil
}
