package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dkeye/Pulse/internal/domain"
)

const callColumns = `id, caller_id, receiver_id, type, status, duration, started_at, ended_at`

func (s *Store) InsertCall(ctx context.Context, rec *domain.CallRecord) error {
	var ended sql.NullInt64
	if rec.EndedAt != nil {
		ended = sql.NullInt64{Int64: millis(*rec.EndedAt), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO calls (`+callColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CallerID, rec.ReceiverID, rec.Type, rec.Status, rec.Duration, millis(rec.StartedAt), ended)
	if err != nil {
		return fmt.Errorf("insert call: %w", err)
	}
	return nil
}

// ListCalls returns calls uid placed or received, newest first.
func (s *Store) ListCalls(ctx context.Context, uid domain.UserID) ([]domain.CallRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+callColumns+` FROM calls
		WHERE caller_id = ? OR receiver_id = ? ORDER BY started_at DESC`, uid, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []domain.CallRecord{}
	for rows.Next() {
		var (
			rec     domain.CallRecord
			started int64
			ended   sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.CallerID, &rec.ReceiverID, &rec.Type, &rec.Status, &rec.Duration, &started, &ended); err != nil {
			return nil, err
		}
		rec.StartedAt = fromMillis(started)
		if ended.Valid {
			t := fromMillis(ended.Int64)
			rec.EndedAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
