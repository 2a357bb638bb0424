package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ResultRecord is one backend call in the history.
type ResultRecord struct {
	ID        int64
	RequestID string
	Endpoint  string
	Status    int
	OK        bool
	Summary   string
	Result    string // JSON, empty on failure
	Error     string
	Duration  time.Duration
	CreatedAt time.Time
}

// ResultRepository stores backend results.
type ResultRepository struct {
	db *sql.DB
}

// Record inserts rec and returns its id. A zero CreatedAt is set to now.
func (r *ResultRepository) Record(ctx context.Context, rec ResultRecord) (int64, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO api_results (request_id, endpoint, status, ok, summary, result, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RequestID, rec.Endpoint, rec.Status, rec.OK, rec.Summary,
		nullString(rec.Result), nullString(rec.Error),
		rec.Duration.Milliseconds(), rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit records, newest first.
func (r *ResultRepository) Recent(ctx context.Context, limit int) ([]ResultRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, endpoint, status, ok, summary, result, error, duration_ms, created_at
		 FROM api_results ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ResultRecord
	for rows.Next() {
		var (
			rec        ResultRecord
			result     sql.NullString
			errText    sql.NullString
			durationMs int64
			createdMs  int64
		)
		if err := rows.Scan(&rec.ID, &rec.RequestID, &rec.Endpoint, &rec.Status, &rec.OK,
			&rec.Summary, &result, &errText, &durationMs, &createdMs); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		rec.Result = result.String
		rec.Error = errText.String
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.CreatedAt = time.UnixMilli(createdMs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Prune keeps the newest keep records and returns how many were removed.
func (r *ResultRepository) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM api_results WHERE id NOT IN (
			SELECT id FROM api_results ORDER BY created_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune results: %w", err)
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
