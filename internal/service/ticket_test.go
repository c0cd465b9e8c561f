package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/repository/memory"
	"github.com/uniclubs/campus-api/internal/service"
)

const (
	teamID      = uint(7)
	eventID     = uint(1)
	studentID   = uint(42)
	organizerID = uint(9)
)

func newTicketService(t *testing.T) (*service.TicketService, *memory.TicketStore) {
	t.Helper()
	store := memory.NewTicketStore()
	store.SeedEvent(domain.Event{
		ID:        eventID,
		Title:     "Spring Gala",
		BasePrice: 100,
		TeamID:    teamID,
	})
	store.SeedOrganizer(teamID, organizerID)

	return service.NewTicketService(store, store), store
}

func seedBadge(store *memory.TicketStore, tier string, credits int) {
	store.SeedBadge(domain.DiscountBadge{
		StudentID:    studentID,
		TeamID:       teamID,
		Tier:         tier,
		UsageCredits: credits,
	})
}

func TestRegisterForEvent_AppliesDiscountAndConsumesCredit(t *testing.T) {
	svc, store := newTicketService(t)
	seedBadge(store, "old star", 1)

	ticket, err := svc.RegisterForEvent(context.Background(), eventID, studentID)
	require.NoError(t, err)

	assert.Equal(t, 80, ticket.Price)
	assert.NotEmpty(t, ticket.QRCode)
	assert.False(t, ticket.DateIssued.IsZero())

	badge, err := store.FindBadge(context.Background(), studentID, teamID)
	require.NoError(t, err)
	assert.Equal(t, 0, badge.UsageCredits)
}

func TestRegisterForEvent_ExhaustedBadgePaysFullPrice(t *testing.T) {
	svc, store := newTicketService(t)
	seedBadge(store, "top fan", 0)

	ticket, err := svc.RegisterForEvent(context.Background(), eventID, studentID)
	require.NoError(t, err)

	assert.Equal(t, 100, ticket.Price)
}

func TestRegisterForEvent_NoBadgePaysFullPrice(t *testing.T) {
	svc, _ := newTicketService(t)

	ticket, err := svc.RegisterForEvent(context.Background(), eventID, studentID)
	require.NoError(t, err)

	assert.Equal(t, 100, ticket.Price)
}

func TestRegisterForEvent_UnknownTierKeepsCredit(t *testing.T) {
	svc, store := newTicketService(t)
	seedBadge(store, "shooting star", 3)

	ticket, err := svc.RegisterForEvent(context.Background(), eventID, studentID)
	require.NoError(t, err)

	assert.Equal(t, 100, ticket.Price)

	// A multiplier of 1.0 grants nothing, so nothing is spent.
	badge, err := store.FindBadge(context.Background(), studentID, teamID)
	require.NoError(t, err)
	assert.Equal(t, 3, badge.UsageCredits)
}

func TestRegisterForEvent_ExpiredBadgePaysFullPrice(t *testing.T) {
	svc, store := newTicketService(t)
	store.SeedBadge(domain.DiscountBadge{
		StudentID:    studentID,
		TeamID:       teamID,
		Tier:         "old star",
		UsageCredits: 2,
		Expiry:       time.Now().Add(-time.Hour),
	})

	ticket, err := svc.RegisterForEvent(context.Background(), eventID, studentID)
	require.NoError(t, err)

	assert.Equal(t, 100, ticket.Price)

	badge, err := store.FindBadge(context.Background(), studentID, teamID)
	require.NoError(t, err)
	assert.Equal(t, 2, badge.UsageCredits)
}

func TestRegisterForEvent_Duplicate(t *testing.T) {
	svc, store := newTicketService(t)
	seedBadge(store, "old star", 2)
	ctx := context.Background()

	_, err := svc.RegisterForEvent(ctx, eventID, studentID)
	require.NoError(t, err)

	_, err = svc.RegisterForEvent(ctx, eventID, studentID)
	assert.ErrorIs(t, err, service.ErrAlreadyRegistered)

	// The rejected attempt must not spend a second credit.
	badge, err := store.FindBadge(ctx, studentID, teamID)
	require.NoError(t, err)
	assert.Equal(t, 1, badge.UsageCredits)

	tickets, err := svc.ListTickets(ctx, studentID)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestRegisterForEvent_EventNotFound(t *testing.T) {
	svc, _ := newTicketService(t)

	_, err := svc.RegisterForEvent(context.Background(), 999, studentID)

	assert.ErrorIs(t, err, service.ErrEventNotFound)
}

func TestRegisterForEvent_ConcurrentLastCredit(t *testing.T) {
	// One credit, two events of the same team, registered concurrently:
	// exactly one ticket gets the discount and the counter never goes
	// negative.
	svc, store := newTicketService(t)
	store.SeedEvent(domain.Event{
		ID:        2,
		Title:     "Closing Night",
		BasePrice: 100,
		TeamID:    teamID,
	})
	seedBadge(store, "old star", 1)

	ctx := context.Background()
	tickets := make([]domain.Ticket, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i, id := range []uint{eventID, 2} {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			tickets[i], errs[i] = svc.RegisterForEvent(ctx, id, studentID)
		}(i, id)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.ElementsMatch(t, []int{80, 100}, []int{tickets[0].Price, tickets[1].Price})

	badge, err := store.FindBadge(ctx, studentID, teamID)
	require.NoError(t, err)
	assert.Equal(t, 0, badge.UsageCredits)
}

func TestCheckIn_MarksScannedIdempotently(t *testing.T) {
	svc, _ := newTicketService(t)
	ctx := context.Background()

	_, err := svc.RegisterForEvent(ctx, eventID, studentID)
	require.NoError(t, err)

	ticket, err := svc.CheckIn(ctx, eventID, studentID, organizerID)
	require.NoError(t, err)
	assert.True(t, ticket.Scanned)

	// Gate crews retry; a second scan succeeds without changing anything.
	ticket, err = svc.CheckIn(ctx, eventID, studentID, organizerID)
	require.NoError(t, err)
	assert.True(t, ticket.Scanned)
}

func TestCheckIn_RejectsForeignOrganizer(t *testing.T) {
	svc, _ := newTicketService(t)
	ctx := context.Background()

	_, err := svc.RegisterForEvent(ctx, eventID, studentID)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, eventID, studentID, 666)
	assert.ErrorIs(t, err, service.ErrBadOrganizer)
}

func TestCheckIn_TicketNotFound(t *testing.T) {
	svc, _ := newTicketService(t)

	_, err := svc.CheckIn(context.Background(), eventID, studentID, organizerID)

	assert.ErrorIs(t, err, service.ErrTicketNotFound)
}

func TestRateEvent(t *testing.T) {
	svc, _ := newTicketService(t)
	ctx := context.Background()

	_, err := svc.RegisterForEvent(ctx, eventID, studentID)
	require.NoError(t, err)

	ticket, err := svc.RateEvent(ctx, eventID, studentID, 4, "great music")
	require.NoError(t, err)
	require.NotNil(t, ticket.Rating)
	assert.Equal(t, 4, *ticket.Rating)
	require.NotNil(t, ticket.Feedback)
	assert.Equal(t, "great music", *ticket.Feedback)
}

func TestRateEvent_OutOfRange(t *testing.T) {
	svc, _ := newTicketService(t)
	ctx := context.Background()

	_, err := svc.RegisterForEvent(ctx, eventID, studentID)
	require.NoError(t, err)

	_, err = svc.RateEvent(ctx, eventID, studentID, 6, "")
	assert.ErrorIs(t, err, service.ErrInvalidRating)

	_, err = svc.RateEvent(ctx, eventID, studentID, -1, "")
	assert.ErrorIs(t, err, service.ErrInvalidRating)

	ticket, err := svc.ListTickets(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, ticket, 1)
	assert.Nil(t, ticket[0].Rating)
}

func TestRateEvent_NotRegistered(t *testing.T) {
	svc, _ := newTicketService(t)

	_, err := svc.RateEvent(context.Background(), eventID, studentID, 5, "")

	assert.ErrorIs(t, err, service.ErrTicketNotFound)
}

func TestIssueCertificate_RequiresCheckIn(t *testing.T) {
	svc, _ := newTicketService(t)
	ctx := context.Background()

	_, err := svc.RegisterForEvent(ctx, eventID, studentID)
	require.NoError(t, err)

	_, err = svc.IssueCertificate(ctx, eventID, studentID, organizerID, "https://certs.example/42.pdf")
	assert.ErrorIs(t, err, service.ErrNotCheckedIn)

	_, err = svc.CheckIn(ctx, eventID, studentID, organizerID)
	require.NoError(t, err)

	ticket, err := svc.IssueCertificate(ctx, eventID, studentID, organizerID, "https://certs.example/42.pdf")
	require.NoError(t, err)
	require.NotNil(t, ticket.CertificateURL)
	assert.Equal(t, "https://certs.example/42.pdf", *ticket.CertificateURL)
}

func TestIssueCertificate_RejectsForeignOrganizer(t *testing.T) {
	svc, _ := newTicketService(t)
	ctx := context.Background()

	_, err := svc.RegisterForEvent(ctx, eventID, studentID)
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, eventID, studentID, organizerID)
	require.NoError(t, err)

	_, err = svc.IssueCertificate(ctx, eventID, studentID, 666, "https://certs.example/42.pdf")
	assert.ErrorIs(t, err, service.ErrBadOrganizer)
}

func TestListBadges(t *testing.T) {
	svc, store := newTicketService(t)
	seedBadge(store, "rising star", 2)
	store.SeedBadge(domain.DiscountBadge{StudentID: 77, TeamID: teamID, Tier: "top fan", UsageCredits: 1})

	badges, err := svc.ListBadges(context.Background(), studentID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "rising star", badges[0].Tier)
}
