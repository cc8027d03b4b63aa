package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/peggytheclaw/tripledger/internal/models"
	"github.com/peggytheclaw/tripledger/internal/storage"
)

// TripService manages trips and their participant rosters.
//
// Authorization model: participants are roster entries created by the
// trip owner, not linked accounts, so all authenticated operations are
// owner-only. Read-only access for everyone else goes through the
// public share token.
type TripService struct {
	store storage.Store
}

// NewTripService creates a new TripService with the given storage
// backend.
func NewTripService(store storage.Store) *TripService {
	return &TripService{store: store}
}

// ownedTrip loads a trip and verifies the caller owns it.
func ownedTrip(ctx context.Context, store storage.Store, tripID, userID string) (*models.Trip, error) {
	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("trip %s: %w", tripID, ErrNotFound)
		}
		return nil, err
	}
	if trip.OwnerID != userID {
		return nil, fmt.Errorf("trip %s: %w", tripID, ErrForbidden)
	}
	return trip, nil
}

// CreateTrip creates a trip owned by userID with an initial roster.
func (s *TripService) CreateTrip(ctx context.Context, userID, name string, participantNames []string) (*models.Trip, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: trip name is required", ErrInvalidInput)
	}

	trip := &models.Trip{Name: name, OwnerID: userID}
	for _, pname := range participantNames {
		if pname == "" {
			return nil, fmt.Errorf("%w: participant name cannot be empty", ErrInvalidInput)
		}
		trip.Participants = append(trip.Participants, models.Participant{Name: pname})
	}

	if err := s.store.CreateTrip(ctx, trip); err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, err
	}
	slog.Info("Trip created", "trip_id", trip.ID, "owner_id", userID)
	return trip, nil
}

// GetTrip retrieves a trip the caller owns.
func (s *TripService) GetTrip(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	return ownedTrip(ctx, s.store, tripID, userID)
}

// GetTripByShareToken retrieves a trip through its public share token.
// No authentication required.
func (s *TripService) GetTripByShareToken(ctx context.Context, token string) (*models.Trip, error) {
	trip, err := s.store.GetTripByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("share token: %w", ErrNotFound)
		}
		return nil, err
	}
	return trip, nil
}

// ListTrips retrieves all trips owned by the caller.
func (s *TripService) ListTrips(ctx context.Context, userID string) ([]*models.Trip, error) {
	return s.store.ListTripsByOwner(ctx, userID)
}

// RenameTrip updates a trip's name.
func (s *TripService) RenameTrip(ctx context.Context, userID, tripID, name string) (*models.Trip, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: trip name is required", ErrInvalidInput)
	}
	trip, err := ownedTrip(ctx, s.store, tripID, userID)
	if err != nil {
		return nil, err
	}

	trip.Name = name
	if err := s.store.UpdateTrip(ctx, trip); err != nil {
		slog.Error("RenameTrip failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	return trip, nil
}

// DeleteTrip removes a trip and all its data.
func (s *TripService) DeleteTrip(ctx context.Context, userID, tripID string) error {
	if _, err := ownedTrip(ctx, s.store, tripID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteTrip(ctx, tripID); err != nil {
		slog.Error("DeleteTrip failed", "trip_id", tripID, "error", err)
		return err
	}
	slog.Info("Trip deleted", "trip_id", tripID)
	return nil
}

// AddParticipant adds a person to the trip roster.
func (s *TripService) AddParticipant(ctx context.Context, userID, tripID, name string) (*models.Participant, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: participant name is required", ErrInvalidInput)
	}
	if _, err := ownedTrip(ctx, s.store, tripID, userID); err != nil {
		return nil, err
	}

	participant := &models.Participant{TripID: tripID, Name: name}
	if err := s.store.AddParticipant(ctx, participant); err != nil {
		slog.Error("AddParticipant failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	slog.Info("Participant added", "trip_id", tripID, "participant_id", participant.ID)
	return participant, nil
}

// RemoveParticipant removes a person from the trip roster. Existing
// expenses referencing the participant keep their splits; the
// calculator stops attributing those amounts once the id is off the
// roster.
func (s *TripService) RemoveParticipant(ctx context.Context, userID, tripID, participantID string) error {
	if _, err := ownedTrip(ctx, s.store, tripID, userID); err != nil {
		return err
	}
	if err := s.store.RemoveParticipant(ctx, tripID, participantID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("participant %s: %w", participantID, ErrNotFound)
		}
		slog.Error("RemoveParticipant failed", "trip_id", tripID, "error", err)
		return err
	}
	return nil
}
