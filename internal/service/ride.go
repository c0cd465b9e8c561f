package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/repository"
)

var (
	ErrRideNotFound     = repository.ErrRideNotFound
	ErrNoSeatsAvailable = repository.ErrNoSeatsAvailable
	ErrAlreadyJoined    = repository.ErrAlreadyJoined
	ErrNotAMember       = repository.ErrNotAMember
	ErrNotRideCreator   = errors.New("only the ride creator may delete the ride")
)

// RideService books and releases seats on carpool rides. It holds no locks of
// its own: all mutual exclusion is delegated to the store's conditional
// updates, and each operation opens exactly one transaction.
type RideService struct {
	store repository.RideStore
}

func NewRideService(store repository.RideStore) *RideService {
	return &RideService{
		store: store,
	}
}

func (s *RideService) CreateRide(ctx context.Context, ride domain.Ride) (domain.Ride, error) {
	ride.Capacity = ride.SeatsAvailable

	created, err := s.store.Create(ctx, ride)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("s.store.Create -> %w", err)
	}

	return created, nil
}

func (s *RideService) GetRide(ctx context.Context, rideID uint) (domain.Ride, error) {
	ride, err := s.store.FindByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, ErrRideNotFound) {
			return domain.Ride{}, ErrRideNotFound
		}

		return domain.Ride{}, fmt.Errorf("s.store.FindByID -> %w", err)
	}

	passengers, err := s.store.FindPassengerIDs(ctx, rideID)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("s.store.FindPassengerIDs -> %w", err)
	}
	ride.Passengers = passengers

	return ride, nil
}

func (s *RideService) ListRides(ctx context.Context, filter domain.RideFilter) ([]domain.Ride, error) {
	rides, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.store.Find -> %w", err)
	}

	return rides, nil
}

// JoinRide claims one seat for the student. The seat decrement runs first and
// the membership insert second; both commit or roll back together. A
// duplicate join therefore reports AlreadyJoined while seats remain (the
// rollback returns the seat), and NoSeatsAvailable once the ride is full.
func (s *RideService) JoinRide(ctx context.Context, rideID, studentID uint) error {
	return s.store.WithTx(ctx, func(tx repository.RideStore) error {
		claimed, err := tx.DecrementSeats(ctx, rideID)
		if err != nil {
			return fmt.Errorf("tx.DecrementSeats -> %w", err)
		}
		if !claimed {
			// Zero rows matched: the ride is either full or missing.
			if _, err := tx.FindByID(ctx, rideID); err != nil {
				if errors.Is(err, ErrRideNotFound) {
					return ErrRideNotFound
				}

				return fmt.Errorf("tx.FindByID -> %w", err)
			}

			return ErrNoSeatsAvailable
		}

		if err := tx.InsertMembership(ctx, rideID, studentID); err != nil {
			if errors.Is(err, ErrAlreadyJoined) {
				return ErrAlreadyJoined
			}

			return fmt.Errorf("tx.InsertMembership -> %w", err)
		}

		return nil
	})
}

// LeaveRide gives the seat back. The increment is only issued after the
// membership row was deleted in the same transaction, so the counter can
// never exceed the ride's original capacity.
func (s *RideService) LeaveRide(ctx context.Context, rideID, studentID uint) error {
	return s.store.WithTx(ctx, func(tx repository.RideStore) error {
		if err := tx.DeleteMembership(ctx, rideID, studentID); err != nil {
			if errors.Is(err, ErrNotAMember) {
				return ErrNotAMember
			}

			return fmt.Errorf("tx.DeleteMembership -> %w", err)
		}

		if err := tx.IncrementSeats(ctx, rideID); err != nil {
			return fmt.Errorf("tx.IncrementSeats -> %w", err)
		}

		return nil
	})
}

func (s *RideService) DeleteRide(ctx context.Context, rideID, requesterID uint) error {
	return s.store.WithTx(ctx, func(tx repository.RideStore) error {
		ride, err := tx.FindByID(ctx, rideID)
		if err != nil {
			if errors.Is(err, ErrRideNotFound) {
				return ErrRideNotFound
			}

			return fmt.Errorf("tx.FindByID -> %w", err)
		}

		if ride.CreatedBy != requesterID {
			return ErrNotRideCreator
		}

		if err := tx.Delete(ctx, rideID); err != nil {
			return fmt.Errorf("tx.Delete -> %w", err)
		}

		return nil
	})
}
