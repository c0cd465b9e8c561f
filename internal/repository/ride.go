package repository

import (
	"context"
	"fmt"

	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/repository/dao"
)

var (
	ErrRideNotFound     = dao.ErrRideNotFound
	ErrNoSeatsAvailable = dao.ErrNoSeatsAvailable
	ErrAlreadyJoined    = dao.ErrAlreadyJoined
	ErrNotAMember       = dao.ErrNotAMember
)

// RideStore is the allocation contract the seat booking service runs on.
// WithTx scopes a transaction: every write made through the store handed to
// fn commits or rolls back as one unit. DecrementSeats and InsertMembership
// are the two primitives whose atomicity carries the no-overbooking
// guarantee; both the Postgres store and the in-memory test store honor it.
type RideStore interface {
	WithTx(ctx context.Context, fn func(tx RideStore) error) error
	Create(ctx context.Context, ride domain.Ride) (domain.Ride, error)
	FindByID(ctx context.Context, id uint) (domain.Ride, error)
	Find(ctx context.Context, filter domain.RideFilter) ([]domain.Ride, error)
	FindPassengerIDs(ctx context.Context, rideID uint) ([]uint, error)
	DecrementSeats(ctx context.Context, rideID uint) (bool, error)
	IncrementSeats(ctx context.Context, rideID uint) error
	InsertMembership(ctx context.Context, rideID, studentID uint) error
	DeleteMembership(ctx context.Context, rideID, studentID uint) error
	Delete(ctx context.Context, rideID uint) error
}

type RideRepository struct {
	dao *dao.RideDAO
}

func NewRideRepository(dao *dao.RideDAO) *RideRepository {
	return &RideRepository{
		dao: dao,
	}
}

func (r *RideRepository) WithTx(ctx context.Context, fn func(tx RideStore) error) error {
	return r.dao.WithTx(ctx, func(txDAO *dao.RideDAO) error {
		return fn(&RideRepository{dao: txDAO})
	})
}

func (r *RideRepository) Create(ctx context.Context, ride domain.Ride) (domain.Ride, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(ride))
	if err != nil {
		return domain.Ride{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RideRepository) FindByID(ctx context.Context, id uint) (domain.Ride, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if err == dao.ErrRideNotFound {
			return domain.Ride{}, ErrRideNotFound
		}

		return domain.Ride{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RideRepository) Find(ctx context.Context, filter domain.RideFilter) ([]domain.Ride, error) {
	found, err := r.dao.Find(ctx, filter.FromLoc, filter.ToLoc, filter.Service)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	rides := make([]domain.Ride, len(found))
	for i, ride := range found {
		rides[i] = r.daoToDomain(ride)
	}

	return rides, nil
}

func (r *RideRepository) FindPassengerIDs(ctx context.Context, rideID uint) ([]uint, error) {
	ids, err := r.dao.FindPassengerIDs(ctx, rideID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPassengerIDs -> %w", err)
	}

	return ids, nil
}

func (r *RideRepository) DecrementSeats(ctx context.Context, rideID uint) (bool, error) {
	ok, err := r.dao.DecrementSeats(ctx, rideID)
	if err != nil {
		return false, fmt.Errorf("r.dao.DecrementSeats -> %w", err)
	}

	return ok, nil
}

func (r *RideRepository) IncrementSeats(ctx context.Context, rideID uint) error {
	if err := r.dao.IncrementSeats(ctx, rideID); err != nil {
		if err == dao.ErrRideNotFound {
			return ErrRideNotFound
		}

		return fmt.Errorf("r.dao.IncrementSeats -> %w", err)
	}

	return nil
}

func (r *RideRepository) InsertMembership(ctx context.Context, rideID, studentID uint) error {
	if err := r.dao.InsertMembership(ctx, rideID, studentID); err != nil {
		if err == dao.ErrAlreadyJoined {
			return ErrAlreadyJoined
		}

		return fmt.Errorf("r.dao.InsertMembership -> %w", err)
	}

	return nil
}

func (r *RideRepository) DeleteMembership(ctx context.Context, rideID, studentID uint) error {
	if err := r.dao.DeleteMembership(ctx, rideID, studentID); err != nil {
		if err == dao.ErrNotAMember {
			return ErrNotAMember
		}

		return fmt.Errorf("r.dao.DeleteMembership -> %w", err)
	}

	return nil
}

func (r *RideRepository) Delete(ctx context.Context, rideID uint) error {
	if err := r.dao.Delete(ctx, rideID); err != nil {
		if err == dao.ErrRideNotFound {
			return ErrRideNotFound
		}

		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *RideRepository) domainToDao(ride domain.Ride) dao.Ride {
	return dao.Ride{
		ID:             ride.ID,
		FromLoc:        ride.FromLoc,
		ToLoc:          ride.ToLoc,
		Price:          ride.Price,
		SeatsAvailable: ride.SeatsAvailable,
		Capacity:       ride.Capacity,
		ArrivalTime:    ride.ArrivalTime,
		Service:        ride.Service,
		CreatedBy:      ride.CreatedBy,
		CreatedAt:      ride.CreatedAt,
		UpdatedAt:      ride.UpdatedAt,
	}
}

func (r *RideRepository) daoToDomain(ride dao.Ride) domain.Ride {
	return domain.Ride{
		ID:             ride.ID,
		FromLoc:        ride.FromLoc,
		ToLoc:          ride.ToLoc,
		Price:          ride.Price,
		SeatsAvailable: ride.SeatsAvailable,
		Capacity:       ride.Capacity,
		ArrivalTime:    ride.ArrivalTime,
		Service:        ride.Service,
		CreatedBy:      ride.CreatedBy,
		CreatedAt:      ride.CreatedAt,
		UpdatedAt:      ride.UpdatedAt,
	}
}
