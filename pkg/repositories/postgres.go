package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cbodonnell/coinflip/pkg/log"
	"github.com/cbodonnell/coinflip/pkg/repositories/migrations"
	"github.com/cbodonnell/coinflip/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	// pgx.Conn is not safe for concurrent use
	lock sync.Mutex
	conn *pgx.Conn
}

var _ Repository = &PostgresRepository{}

// NewPostgresRepository connects to the database and applies the journal
// migrations. The caller is responsible for calling Close.
func NewPostgresRepository(ctx context.Context, connStr string) (*PostgresRepository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to query database: %v", err)
	}
	log.Info("Connected to %s as %s", database, username)

	err = runMigrations(ctx, migrations.Postgres, "postgres", func(ctx context.Context, q string) error {
		_, err := conn.Exec(ctx, q)
		return err
	})
	if err != nil {
		conn.Close(ctx)
		return nil, err
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveFlip(ctx context.Context, entry models.JournalEntry) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	INSERT INTO flips (session_id, sequence, outcome, time, created_at)
	VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.conn.Exec(ctx, q, entry.SessionID, int32(entry.Sequence), entry.Outcome, entry.Time, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert flip: %v", err)
	}

	return nil
}

func (r *PostgresRepository) SaveReset(ctx context.Context, entry models.JournalEntry) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	INSERT INTO resets (session_id, created_at)
	VALUES ($1, $2);
	`
	_, err := r.conn.Exec(ctx, q, entry.SessionID, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reset: %v", err)
	}

	return nil
}

func (r *PostgresRepository) ListFlips(ctx context.Context, sessionID string, limit int) ([]models.Flip, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	SELECT id, session_id, sequence, outcome, time, created_at FROM flips
	WHERE session_id = $1
	ORDER BY id DESC
	LIMIT $2;
	`
	rows, err := r.conn.Query(ctx, q, sessionID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query flips: %v", err)
	}
	defer rows.Close()

	flips := []models.Flip{}
	for rows.Next() {
		var f models.Flip
		var sequence int32
		if err := rows.Scan(&f.ID, &f.SessionID, &sequence, &f.Outcome, &f.Time, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan flip: %v", err)
		}
		f.Sequence = uint(sequence)
		flips = append(flips, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flips: %v", err)
	}

	return flips, nil
}

func (r *PostgresRepository) LatestFlip(ctx context.Context, sessionID string) (models.Flip, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	q := `
	SELECT id, session_id, sequence, outcome, time, created_at FROM flips
	WHERE session_id = $1
	ORDER BY id DESC
	LIMIT 1;
	`
	var f models.Flip
	var sequence int32
	err := r.conn.QueryRow(ctx, q, sessionID).Scan(&f.ID, &f.SessionID, &sequence, &f.Outcome, &f.Time, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Flip{}, &ErrNotFound{}
	}
	if err != nil {
		return models.Flip{}, fmt.Errorf("failed to query latest flip: %v", err)
	}
	f.Sequence = uint(sequence)

	return f, nil
}

func (r *PostgresRepository) CountResets(ctx context.Context, sessionID string) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var count int
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM resets WHERE session_id = $1", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count resets: %v", err)
	}

	return count, nil
}
