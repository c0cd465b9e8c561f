// Package memory holds in-memory implementations of the repository store
// contracts. They back the service tests and local development: transactions
// are serialized under one mutex and roll back by restoring a snapshot, which
// gives the same atomicity the Postgres stores get from the database.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/repository"
)

var errNestedTx = errors.New("nested transactions are not supported")

type membership struct {
	rideID    uint
	studentID uint
}

type rideState struct {
	nextID      uint
	rides       map[uint]domain.Ride
	memberships []membership
}

func (s *rideState) clone() rideState {
	cp := rideState{
		nextID:      s.nextID,
		rides:       make(map[uint]domain.Ride, len(s.rides)),
		memberships: append([]membership(nil), s.memberships...),
	}
	for id, ride := range s.rides {
		cp.rides[id] = ride
	}

	return cp
}

// RideStore is an in-memory repository.RideStore. Safe for concurrent use.
type RideStore struct {
	mu    sync.Mutex
	state rideState
}

func NewRideStore() *RideStore {
	return &RideStore{
		state: rideState{
			nextID: 1,
			rides:  make(map[uint]domain.Ride),
		},
	}
}

func (s *RideStore) WithTx(ctx context.Context, fn func(tx repository.RideStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&rideTx{state: &s.state}); err != nil {
		s.state = snapshot

		return err
	}

	return nil
}

func (s *RideStore) Create(ctx context.Context, ride domain.Ride) (domain.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.create(ride)
}

func (s *RideStore) FindByID(ctx context.Context, id uint) (domain.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.findByID(id)
}

func (s *RideStore) Find(ctx context.Context, filter domain.RideFilter) ([]domain.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.find(filter)
}

func (s *RideStore) FindPassengerIDs(ctx context.Context, rideID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.passengerIDs(rideID), nil
}

func (s *RideStore) DecrementSeats(ctx context.Context, rideID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.decrementSeats(rideID), nil
}

func (s *RideStore) IncrementSeats(ctx context.Context, rideID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.incrementSeats(rideID)
}

func (s *RideStore) InsertMembership(ctx context.Context, rideID, studentID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.insertMembership(rideID, studentID)
}

func (s *RideStore) DeleteMembership(ctx context.Context, rideID, studentID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.deleteMembership(rideID, studentID)
}

func (s *RideStore) Delete(ctx context.Context, rideID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.delete(rideID)
}

// rideTx is the store view handed to WithTx callbacks; the parent holds the
// mutex for the whole transaction.
type rideTx struct {
	state *rideState
}

func (t *rideTx) WithTx(ctx context.Context, fn func(tx repository.RideStore) error) error {
	return errNestedTx
}

func (t *rideTx) Create(ctx context.Context, ride domain.Ride) (domain.Ride, error) {
	return t.state.create(ride)
}

func (t *rideTx) FindByID(ctx context.Context, id uint) (domain.Ride, error) {
	return t.state.findByID(id)
}

func (t *rideTx) Find(ctx context.Context, filter domain.RideFilter) ([]domain.Ride, error) {
	return t.state.find(filter)
}

func (t *rideTx) FindPassengerIDs(ctx context.Context, rideID uint) ([]uint, error) {
	return t.state.passengerIDs(rideID), nil
}

func (t *rideTx) DecrementSeats(ctx context.Context, rideID uint) (bool, error) {
	return t.state.decrementSeats(rideID), nil
}

func (t *rideTx) IncrementSeats(ctx context.Context, rideID uint) error {
	return t.state.incrementSeats(rideID)
}

func (t *rideTx) InsertMembership(ctx context.Context, rideID, studentID uint) error {
	return t.state.insertMembership(rideID, studentID)
}

func (t *rideTx) DeleteMembership(ctx context.Context, rideID, studentID uint) error {
	return t.state.deleteMembership(rideID, studentID)
}

func (t *rideTx) Delete(ctx context.Context, rideID uint) error {
	return t.state.delete(rideID)
}

func (s *rideState) create(ride domain.Ride) (domain.Ride, error) {
	ride.ID = s.nextID
	s.nextID++
	s.rides[ride.ID] = ride

	return ride, nil
}

func (s *rideState) findByID(id uint) (domain.Ride, error) {
	ride, ok := s.rides[id]
	if !ok {
		return domain.Ride{}, repository.ErrRideNotFound
	}

	return ride, nil
}

func (s *rideState) find(filter domain.RideFilter) ([]domain.Ride, error) {
	out := make([]domain.Ride, 0)
	for _, ride := range s.rides {
		if filter.FromLoc != "" && ride.FromLoc != filter.FromLoc {
			continue
		}
		if filter.ToLoc != "" && ride.ToLoc != filter.ToLoc {
			continue
		}
		if filter.Service != "" && ride.Service != filter.Service {
			continue
		}
		out = append(out, ride)
	}

	return out, nil
}

func (s *rideState) passengerIDs(rideID uint) []uint {
	ids := make([]uint, 0)
	for _, m := range s.memberships {
		if m.rideID == rideID {
			ids = append(ids, m.studentID)
		}
	}

	return ids
}

func (s *rideState) decrementSeats(rideID uint) bool {
	ride, ok := s.rides[rideID]
	if !ok || ride.SeatsAvailable <= 0 {
		return false
	}
	ride.SeatsAvailable--
	s.rides[rideID] = ride

	return true
}

func (s *rideState) incrementSeats(rideID uint) error {
	ride, ok := s.rides[rideID]
	if !ok {
		return repository.ErrRideNotFound
	}
	ride.SeatsAvailable++
	s.rides[rideID] = ride

	return nil
}

func (s *rideState) insertMembership(rideID, studentID uint) error {
	for _, m := range s.memberships {
		if m.rideID == rideID && m.studentID == studentID {
			return repository.ErrAlreadyJoined
		}
	}
	s.memberships = append(s.memberships, membership{rideID: rideID, studentID: studentID})

	return nil
}

func (s *rideState) deleteMembership(rideID, studentID uint) error {
	for i, m := range s.memberships {
		if m.rideID == rideID && m.studentID == studentID {
			s.memberships = append(s.memberships[:i], s.memberships[i+1:]...)

			return nil
		}
	}

	return repository.ErrNotAMember
}

func (s *rideState) delete(rideID uint) error {
	if _, ok := s.rides[rideID]; !ok {
		return repository.ErrRideNotFound
	}
	delete(s.rides, rideID)

	kept := s.memberships[:0]
	for _, m := range s.memberships {
		if m.rideID != rideID {
			kept = append(kept, m)
		}
	}
	s.memberships = kept

	return nil
}
