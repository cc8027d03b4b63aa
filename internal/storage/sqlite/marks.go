package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/peggytheclaw/tripledger/internal/models"
	"github.com/peggytheclaw/tripledger/internal/storage"
)

// PutSettledMark records that a computed transfer was paid. Upserts so
// re-marking the same transfer is a no-op rather than an error.
func (s *SQLiteStore) PutSettledMark(ctx context.Context, mark *models.SettledMark) error {
	if mark.CreatedAt == 0 {
		mark.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settled_marks (trip_id, from_id, to_id, amount_cents, marked_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (trip_id, from_id, to_id, amount_cents) DO NOTHING`,
		mark.TripID, mark.FromID, mark.ToID, mark.AmountCents, mark.MarkedBy, mark.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settled mark: %w", err)
	}
	return nil
}

// DeleteSettledMark removes a mark, un-settling the transfer.
func (s *SQLiteStore) DeleteSettledMark(ctx context.Context, tripID, fromID, toID string, amountCents int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM settled_marks WHERE trip_id = ? AND from_id = ? AND to_id = ? AND amount_cents = ?",
		tripID, fromID, toID, amountCents,
	)
	if err != nil {
		return fmt.Errorf("failed to delete settled mark: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("settled mark %s->%s: %w", fromID, toID, storage.ErrNotFound)
	}
	return nil
}

// ListSettledMarks retrieves all marks for a trip.
func (s *SQLiteStore) ListSettledMarks(ctx context.Context, tripID string) ([]models.SettledMark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT trip_id, from_id, to_id, amount_cents, marked_by, created_at
		 FROM settled_marks WHERE trip_id = ? ORDER BY created_at`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settled marks: %w", err)
	}
	defer rows.Close()

	var marks []models.SettledMark
	for rows.Next() {
		var mark models.SettledMark
		if err := rows.Scan(&mark.TripID, &mark.FromID, &mark.ToID,
			&mark.AmountCents, &mark.MarkedBy, &mark.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settled mark: %w", err)
		}
		marks = append(marks, mark)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settled marks: %w", err)
	}
	return marks, nil
}
