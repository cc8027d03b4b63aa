package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/peggytheclaw/tripledger/internal/models"
	"github.com/peggytheclaw/tripledger/internal/storage"
)

// newShareToken returns a random URL-safe token for public trip views.
func newShareToken() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// CreateTrip persists a new trip and its initial participants.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}
	if trip.ShareToken == "" {
		token, err := newShareToken()
		if err != nil {
			return err
		}
		trip.ShareToken = token
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trips (id, name, owner_id, share_token, created_at) VALUES (?, ?, ?, ?, ?)",
		trip.ID, trip.Name, trip.OwnerID, trip.ShareToken, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	for i := range trip.Participants {
		p := &trip.Participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.TripID = trip.ID
		_, err = tx.ExecContext(ctx,
			"INSERT INTO participants (id, trip_id, name) VALUES (?, ?, ?)",
			p.ID, p.TripID, p.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID, including its participant roster.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return s.getTripWhere(ctx, "id = ?", tripID)
}

// GetTripByShareToken retrieves a trip by its public share token.
func (s *SQLiteStore) GetTripByShareToken(ctx context.Context, token string) (*models.Trip, error) {
	if token == "" {
		return nil, fmt.Errorf("trip with empty share token: %w", storage.ErrNotFound)
	}
	return s.getTripWhere(ctx, "share_token = ?", token)
}

func (s *SQLiteStore) getTripWhere(ctx context.Context, where string, arg any) (*models.Trip, error) {
	trip := &models.Trip{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, owner_id, share_token, created_at FROM trips WHERE "+where,
		arg,
	).Scan(&trip.ID, &trip.Name, &trip.OwnerID, &trip.ShareToken, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trip %v: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	participants, err := s.listParticipants(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	trip.Participants = participants
	return trip, nil
}

func (s *SQLiteStore) listParticipants(ctx context.Context, tripID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, trip_id, name FROM participants WHERE trip_id = ? ORDER BY rowid",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.TripID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// ListTripsByOwner retrieves all trips owned by a user, newest first.
func (s *SQLiteStore) ListTripsByOwner(ctx context.Context, ownerID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, owner_id, share_token, created_at FROM trips WHERE owner_id = ? ORDER BY created_at DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip := &models.Trip{}
		if err := rows.Scan(&trip.ID, &trip.Name, &trip.OwnerID, &trip.ShareToken, &trip.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	for _, trip := range trips {
		participants, err := s.listParticipants(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		trip.Participants = participants
	}
	return trips, nil
}

// UpdateTrip updates a trip's name.
func (s *SQLiteStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE trips SET name = ? WHERE id = ?",
		trip.Name, trip.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("trip %s: %w", trip.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteTrip removes a trip; participants, expenses, splits and marks
// cascade.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, tripID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	return nil
}

// AddParticipant adds a person to a trip's roster.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (id, trip_id, name) VALUES (?, ?, ?)",
		participant.ID, participant.TripID, participant.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// RemoveParticipant removes a person from a trip's roster.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, tripID, participantID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM participants WHERE trip_id = ? AND id = ?",
		tripID, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	return nil
}
