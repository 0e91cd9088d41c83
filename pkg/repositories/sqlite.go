package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cbodonnell/coinflip/pkg/repositories/migrations"
	"github.com/cbodonnell/coinflip/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = &SQLiteRepository{}

// NewSQLiteRepository opens the database at path and applies the journal
// migrations. Use ":memory:" for a throwaway database.
func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	err = runMigrations(ctx, migrations.SQLite, "sqlite", func(ctx context.Context, q string) error {
		_, err := db.ExecContext(ctx, q)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveFlip(ctx context.Context, entry models.JournalEntry) error {
	q := `
	INSERT INTO flips (session_id, sequence, outcome, time, created_at)
	VALUES (?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, entry.SessionID, entry.Sequence, entry.Outcome, entry.Time, entry.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert flip: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) SaveReset(ctx context.Context, entry models.JournalEntry) error {
	q := `
	INSERT INTO resets (session_id, created_at)
	VALUES (?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, entry.SessionID, entry.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert reset: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) ListFlips(ctx context.Context, sessionID string, limit int) ([]models.Flip, error) {
	q := `
	SELECT id, session_id, sequence, outcome, time, created_at FROM flips
	WHERE session_id = ?
	ORDER BY id DESC
	LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, sessionID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query flips: %v", err)
	}
	defer rows.Close()

	flips := []models.Flip{}
	for rows.Next() {
		var f models.Flip
		var createdAt int64
		if err := rows.Scan(&f.ID, &f.SessionID, &f.Sequence, &f.Outcome, &f.Time, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan flip: %v", err)
		}
		f.CreatedAt = time.UnixMilli(createdAt)
		flips = append(flips, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flips: %v", err)
	}

	return flips, nil
}

func (r *SQLiteRepository) LatestFlip(ctx context.Context, sessionID string) (models.Flip, error) {
	q := `
	SELECT id, session_id, sequence, outcome, time, created_at FROM flips
	WHERE session_id = ?
	ORDER BY id DESC
	LIMIT 1;
	`
	var f models.Flip
	var createdAt int64
	err := r.db.QueryRowContext(ctx, q, sessionID).Scan(&f.ID, &f.SessionID, &f.Sequence, &f.Outcome, &f.Time, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Flip{}, &ErrNotFound{}
	}
	if err != nil {
		return models.Flip{}, fmt.Errorf("failed to query latest flip: %v", err)
	}
	f.CreatedAt = time.UnixMilli(createdAt)

	return f, nil
}

func (r *SQLiteRepository) CountResets(ctx context.Context, sessionID string) (int, error) {
	q := `
	SELECT COUNT(*) FROM resets WHERE session_id = ?;
	`
	var count int
	if err := r.db.QueryRowContext(ctx, q, sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count resets: %v", err)
	}

	return count, nil
}
