package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogauto/internal/domain"
	"blogauto/internal/repository"

	_ "modernc.org/sqlite" // SQLite driver
)

var _ repository.DraftRepository = (*Repository)(nil)

// Repository implements repository.DraftRepository using SQLite
type Repository struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and migrates the schema.
// Use ":memory:" for a throwaway database.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS drafts (
		surface_id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		cursor_offset INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_drafts_updated ON drafts(updated_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// SaveDraft inserts or replaces a draft
func (r *Repository) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	if draft.SurfaceID == "" {
		return errors.New("draft surface id is required")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drafts (surface_id, content, cursor_offset, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(surface_id) DO UPDATE SET
			content = excluded.content,
			cursor_offset = excluded.cursor_offset,
			updated_at = excluded.updated_at
	`, draft.SurfaceID, draft.Content, draft.CursorOffset, timeToMillis(draft.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", draft.SurfaceID, err)
	}
	return nil
}

// GetDraft loads the draft of a surface
func (r *Repository) GetDraft(ctx context.Context, surfaceID string) (*domain.Draft, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT surface_id, content, cursor_offset, updated_at
		FROM drafts WHERE surface_id = ?
	`, surfaceID)

	draft, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft %s: %w", surfaceID, err)
	}
	return draft, nil
}

// ListDrafts returns every draft, most recently updated first
func (r *Repository) ListDrafts(ctx context.Context) ([]domain.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT surface_id, content, cursor_offset, updated_at
		FROM drafts ORDER BY updated_at DESC, surface_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query drafts: %w", err)
	}
	defer rows.Close()

	var drafts []domain.Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, *draft)
	}
	return drafts, rows.Err()
}

// DeleteDraft removes the draft of a surface. Deleting a missing draft is not an error.
func (r *Repository) DeleteDraft(ctx context.Context, surfaceID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE surface_id = ?`, surfaceID); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", surfaceID, err)
	}
	return nil
}

// Close closes the database
func (r *Repository) Close() error {
	return r.db.Close()
}
