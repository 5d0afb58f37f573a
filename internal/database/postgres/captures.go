package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-capture/internal/database"
)

// CaptureRepository provides PostgreSQL-backed capture history
type CaptureRepository struct {
	pool *Pool
}

// NewCaptureRepository creates a new PostgreSQL capture repository
func NewCaptureRepository(pool *Pool) *CaptureRepository {
	return &CaptureRepository{pool: pool}
}

// StartSession records the beginning of a capture session
func (r *CaptureRepository) StartSession(ctx context.Context, sessionID, personKey, personName string) error {
	query := `
		INSERT INTO capture_sessions (id, person_key, person_name, started_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, sessionID, personKey, personName)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	return nil
}

// RecordCapture stores one accepted photo
func (r *CaptureRepository) RecordCapture(ctx context.Context, sessionID, personKey, filename string, offsetRatio float64) error {
	query := `
		INSERT INTO captures (session_id, person_key, filename, offset_ratio, captured_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	_, err := r.pool.Exec(ctx, query, sessionID, personKey, filename, offsetRatio)
	if err != nil {
		return fmt.Errorf("record capture: %w", err)
	}
	return nil
}

// CountByPerson returns the number of captures recorded for a person
func (r *CaptureRepository) CountByPerson(ctx context.Context, personKey string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM captures WHERE person_key = $1", personKey).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count captures: %w", err)
	}
	return count, nil
}

// ListByPerson returns the most recent captures for a person, newest first
func (r *CaptureRepository) ListByPerson(ctx context.Context, personKey string, limit int) ([]database.CaptureRecord, error) {
	query := `
		SELECT id, session_id, person_key, filename, offset_ratio, captured_at
		FROM captures
		WHERE person_key = $1
		ORDER BY captured_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, personKey, limit)
	if err != nil {
		return nil, fmt.Errorf("list captures: %w", err)
	}
	defer rows.Close()

	var records []database.CaptureRecord
	for rows.Next() {
		var rec database.CaptureRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.PersonKey, &rec.Filename, &rec.OffsetRatio, &rec.CapturedAt); err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate captures: %w", err)
	}
	return records, nil
}

// RecentSessions returns the most recently started sessions
func (r *CaptureRepository) RecentSessions(ctx context.Context, limit int) ([]database.SessionRecord, error) {
	query := `
		SELECT id, person_key, person_name, started_at
		FROM capture_sessions
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []database.SessionRecord
	for rows.Next() {
		var rec database.SessionRecord
		if err := rows.Scan(&rec.ID, &rec.PersonKey, &rec.Name, &rec.StartedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

// Stats aggregates capture counts per person across all sessions
func (r *CaptureRepository) Stats(ctx context.Context) ([]database.PersonStats, error) {
	query := `
		SELECT person_key,
		       COUNT(*) AS captures,
		       COUNT(DISTINCT session_id) AS sessions,
		       MAX(captured_at) AS last_seen
		FROM captures
		GROUP BY person_key
		ORDER BY last_seen DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []database.PersonStats
	for rows.Next() {
		var s database.PersonStats
		if err := rows.Scan(&s.PersonKey, &s.Captures, &s.Sessions, &s.LastSeen); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}
	return stats, nil
}
