package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/luminastudio/lumina/internal/model"
)

// ErrUnavailable is returned when the underlying database cannot be read
// or written.
var ErrUnavailable = errors.New("gallery store unavailable")

// Gallery is the persistence interface the orchestration layer depends on.
type Gallery interface {
	Insert(ctx context.Context, a model.Artifact) (model.Artifact, error)
	ListAll(ctx context.Context) ([]model.Artifact, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Subscribe(fn func()) int
	Unsubscribe(token int)
}

// Store provides durable artifact persistence on SQLite.
type Store struct {
	db       *sql.DB
	notifier *notifier
}

var _ Gallery = (*Store)(nil)

// New creates a new Store and initialises the schema.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db, notifier: newNotifier()}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// currentSchemaVersion is bumped whenever the schema changes.
// Add a new migration function in the migrations slice below.
const currentSchemaVersion = 1

func (s *Store) migrate() error {
	// Ensure the schema_version table exists.
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		// Fresh database: initialize to version 0.
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
		version = 0
	} else if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	// migrations is an ordered list of migration functions.
	// Index 0 = migration from v0 to v1, etc.
	migrations := []func() error{
		s.migrateV1, // v0 → v1: initial schema
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](); err != nil {
			return fmt.Errorf("migration v%d→v%d: %w", i, i+1, err)
		}
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			return fmt.Errorf("update schema version to %d: %w", i+1, err)
		}
	}

	return nil
}

// migrateV1 creates the initial schema (v0 → v1).
// seq orders same-timestamp inserts so ListAll stays stable.
func (s *Store) migrateV1() error {
	schema := `
	CREATE TABLE IF NOT EXISTS artifacts (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		id           TEXT NOT NULL UNIQUE,
		kind         TEXT NOT NULL,
		prompt       TEXT NOT NULL,
		model        TEXT NOT NULL,
		aspect_ratio TEXT NOT NULL DEFAULT '',
		mime_type    TEXT NOT NULL DEFAULT '',
		data         BLOB,
		text         TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_artifacts_created ON artifacts(created_at DESC, seq DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Subscribe registers a callback invoked after every successful mutation.
// The notification carries no payload; call ListAll to refresh.
func (s *Store) Subscribe(fn func()) int {
	return s.notifier.subscribe(fn)
}

// Unsubscribe removes a previously registered callback.
func (s *Store) Unsubscribe(token int) {
	s.notifier.unsubscribe(token)
}

// Insert persists an artifact, assigning its ID and CreatedAt, and returns
// the stored record. A change notification fires on success.
func (s *Store) Insert(ctx context.Context, a model.Artifact) (model.Artifact, error) {
	a.ID = uuid.New().String()
	a.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts (id, kind, prompt, model, aspect_ratio, mime_type, data, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Kind, a.Prompt, a.Model, a.AspectRatio, a.MIMEType, a.Data, a.Text, a.CreatedAt,
	)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("%w: insert: %v", ErrUnavailable, err)
	}

	s.notifier.notify()
	return a, nil
}

// ListAll returns every artifact, newest first. Artifacts inserted within
// the same second keep insertion order (later insert listed first).
func (s *Store) ListAll(ctx context.Context) ([]model.Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, prompt, model, aspect_ratio, mime_type, data, text, created_at
		FROM artifacts ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var artifacts []model.Artifact
	for rows.Next() {
		var a model.Artifact
		if err := rows.Scan(&a.ID, &a.Kind, &a.Prompt, &a.Model, &a.AspectRatio, &a.MIMEType, &a.Data, &a.Text, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrUnavailable, err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrUnavailable, err)
	}
	return artifacts, nil
}

// Delete removes one artifact. Deleting an absent id is a no-op, not an
// error; a change notification fires only when a row was removed.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM artifacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete: %v", ErrUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.notifier.notify()
	}
	return nil
}

// Clear removes all artifacts and fires one change notification.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM artifacts`); err != nil {
		return fmt.Errorf("%w: clear: %v", ErrUnavailable, err)
	}
	s.notifier.notify()
	return nil
}

// Count returns the number of stored artifacts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artifacts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count: %v", ErrUnavailable, err)
	}
	return n, nil
}
