package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/repository/memory"
	"github.com/uniclubs/campus-api/internal/service"
)

func newRideService(t *testing.T) (*service.RideService, *memory.RideStore) {
	t.Helper()
	store := memory.NewRideStore()

	return service.NewRideService(store), store
}

func createRide(t *testing.T, svc *service.RideService, seats int, createdBy uint) domain.Ride {
	t.Helper()
	ride, err := svc.CreateRide(context.Background(), domain.Ride{
		FromLoc:        "North Campus",
		ToLoc:          "City Center",
		Price:          4.50,
		SeatsAvailable: seats,
		Service:        "evening",
		CreatedBy:      createdBy,
	})
	require.NoError(t, err)

	return ride
}

func TestCreateRide_RecordsCapacity(t *testing.T) {
	svc, _ := newRideService(t)

	ride := createRide(t, svc, 3, 1)

	assert.Equal(t, 3, ride.SeatsAvailable)
	assert.Equal(t, 3, ride.Capacity)
}

func TestJoinRide_ConcurrentClaims(t *testing.T) {
	const (
		capacity = 2
		students = 8
	)

	svc, _ := newRideService(t)
	ride := createRide(t, svc, capacity, 1)

	ctx := context.Background()
	errs := make([]error, students)

	var wg sync.WaitGroup
	for i := 0; i < students; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.JoinRide(ctx, ride.ID, uint(100+i))
		}(i)
	}
	wg.Wait()

	var joined, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			joined++
		case assert.ErrorIs(t, err, service.ErrNoSeatsAvailable):
			rejected++
		}
	}

	assert.Equal(t, capacity, joined)
	assert.Equal(t, students-capacity, rejected)

	got, err := svc.GetRide(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SeatsAvailable)
	assert.Len(t, got.Passengers, capacity)
}

func TestJoinRide_ThreeStudentsTwoSeats(t *testing.T) {
	svc, _ := newRideService(t)
	ride := createRide(t, svc, 2, 1)

	ctx := context.Background()
	results := make(map[uint]error, 3)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, studentID := range []uint{11, 12, 13} {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			err := svc.JoinRide(ctx, ride.ID, id)
			mu.Lock()
			results[id] = err
			mu.Unlock()
		}(studentID)
	}
	wg.Wait()

	var winners []uint
	for id, err := range results {
		if err == nil {
			winners = append(winners, id)
		} else {
			assert.ErrorIs(t, err, service.ErrNoSeatsAvailable)
		}
	}
	require.Len(t, winners, 2)

	got, err := svc.GetRide(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SeatsAvailable)
	assert.ElementsMatch(t, winners, got.Passengers)
}

func TestJoinRide_RideNotFound(t *testing.T) {
	svc, _ := newRideService(t)

	err := svc.JoinRide(context.Background(), 999, 42)

	assert.ErrorIs(t, err, service.ErrRideNotFound)
}

func TestJoinRide_DuplicateLeavesSeatsUnchanged(t *testing.T) {
	svc, _ := newRideService(t)
	ride := createRide(t, svc, 3, 1)
	ctx := context.Background()

	require.NoError(t, svc.JoinRide(ctx, ride.ID, 42))

	err := svc.JoinRide(ctx, ride.ID, 42)
	assert.ErrorIs(t, err, service.ErrAlreadyJoined)

	// The rolled-back duplicate must not burn a seat.
	got, err := svc.GetRide(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SeatsAvailable)
	assert.Equal(t, []uint{42}, got.Passengers)
}

func TestJoinRide_DuplicateOnFullRideReportsNoSeats(t *testing.T) {
	// With the seat decrement running before the membership insert, a
	// duplicate join against a full ride sees the seat predicate fail first.
	svc, _ := newRideService(t)
	ride := createRide(t, svc, 1, 1)
	ctx := context.Background()

	require.NoError(t, svc.JoinRide(ctx, ride.ID, 42))

	err := svc.JoinRide(ctx, ride.ID, 42)
	assert.ErrorIs(t, err, service.ErrNoSeatsAvailable)
}

func TestJoinThenLeave_RoundTrip(t *testing.T) {
	svc, _ := newRideService(t)
	ride := createRide(t, svc, 2, 1)
	ctx := context.Background()

	require.NoError(t, svc.JoinRide(ctx, ride.ID, 42))
	require.NoError(t, svc.LeaveRide(ctx, ride.ID, 42))

	got, err := svc.GetRide(ctx, ride.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SeatsAvailable)
	assert.Empty(t, got.Passengers)
}

func TestLeaveRide_NotAMember(t *testing.T) {
	svc, _ := newRideService(t)
	ride := createRide(t, svc, 2, 1)

	err := svc.LeaveRide(context.Background(), ride.ID, 42)

	assert.ErrorIs(t, err, service.ErrNotAMember)
}

func TestDeleteRide_OnlyCreator(t *testing.T) {
	svc, _ := newRideService(t)
	ride := createRide(t, svc, 2, 1)
	ctx := context.Background()

	err := svc.DeleteRide(ctx, ride.ID, 2)
	assert.ErrorIs(t, err, service.ErrNotRideCreator)

	require.NoError(t, svc.DeleteRide(ctx, ride.ID, 1))

	_, err = svc.GetRide(ctx, ride.ID)
	assert.ErrorIs(t, err, service.ErrRideNotFound)
}

func TestDeleteRide_NotFound(t *testing.T) {
	svc, _ := newRideService(t)

	err := svc.DeleteRide(context.Background(), 999, 1)

	assert.ErrorIs(t, err, service.ErrRideNotFound)
}

func TestListRides_Filters(t *testing.T) {
	svc, _ := newRideService(t)
	ctx := context.Background()

	createRide(t, svc, 2, 1)
	other, err := svc.CreateRide(ctx, domain.Ride{
		FromLoc:        "South Gate",
		ToLoc:          "Airport",
		SeatsAvailable: 1,
		Service:        "morning",
		CreatedBy:      2,
	})
	require.NoError(t, err)

	rides, err := svc.ListRides(ctx, domain.RideFilter{FromLoc: "South Gate"})
	require.NoError(t, err)
	require.Len(t, rides, 1)
	assert.Equal(t, other.ID, rides[0].ID)

	all, err := svc.ListRides(ctx, domain.RideFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestJoinRide_ManyRidersManySeats(t *testing.T) {
	// Larger sweep: every combination ends with seats_available equal to
	// capacity minus the number of memberships.
	for _, tc := range []struct{ seats, students int }{
		{1, 10},
		{5, 20},
		{10, 10},
	} {
		t.Run(fmt.Sprintf("%d seats %d students", tc.seats, tc.students), func(t *testing.T) {
			svc, _ := newRideService(t)
			ride := createRide(t, svc, tc.seats, 1)
			ctx := context.Background()

			errs := make([]error, tc.students)
			var wg sync.WaitGroup
			for i := 0; i < tc.students; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = svc.JoinRide(ctx, ride.ID, uint(1000+i))
				}(i)
			}
			wg.Wait()

			joined := 0
			for _, err := range errs {
				if err == nil {
					joined++
				}
			}

			want := tc.seats
			if tc.students < tc.seats {
				want = tc.students
			}
			assert.Equal(t, want, joined)

			got, err := svc.GetRide(ctx, ride.ID)
			require.NoError(t, err)
			assert.Equal(t, got.Capacity-joined, got.SeatsAvailable)
			assert.Len(t, got.Passengers, joined)
		})
	}
}
