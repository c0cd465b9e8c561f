package memory

import (
	"context"
	"sync"

	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/repository"
)

type pair struct {
	a uint
	b uint
}

type ticketState struct {
	events     map[uint]domain.Event
	tickets    map[pair]domain.Ticket // (eventID, studentID)
	badges     map[pair]domain.DiscountBadge
	organizers map[pair]bool // (teamID, userID)
}

func (s *ticketState) clone() ticketState {
	cp := ticketState{
		events:     make(map[uint]domain.Event, len(s.events)),
		tickets:    make(map[pair]domain.Ticket, len(s.tickets)),
		badges:     make(map[pair]domain.DiscountBadge, len(s.badges)),
		organizers: make(map[pair]bool, len(s.organizers)),
	}
	for k, v := range s.events {
		cp.events[k] = v
	}
	for k, v := range s.tickets {
		cp.tickets[k] = v
	}
	for k, v := range s.badges {
		cp.badges[k] = v
	}
	for k, v := range s.organizers {
		cp.organizers[k] = v
	}

	return cp
}

// TicketStore is an in-memory repository.TicketStore. It also answers the
// organizer lookup, so one store seeds a whole registration test scenario.
// Safe for concurrent use.
type TicketStore struct {
	mu    sync.Mutex
	state ticketState
}

func NewTicketStore() *TicketStore {
	return &TicketStore{
		state: ticketState{
			events:     make(map[uint]domain.Event),
			tickets:    make(map[pair]domain.Ticket),
			badges:     make(map[pair]domain.DiscountBadge),
			organizers: make(map[pair]bool),
		},
	}
}

func (s *TicketStore) SeedEvent(event domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.events[event.ID] = event
}

func (s *TicketStore) SeedBadge(badge domain.DiscountBadge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.badges[pair{badge.StudentID, badge.TeamID}] = badge
}

func (s *TicketStore) SeedOrganizer(teamID, userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.organizers[pair{teamID, userID}] = true
}

func (s *TicketStore) WithTx(ctx context.Context, fn func(tx repository.TicketStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&ticketTx{state: &s.state}); err != nil {
		s.state = snapshot

		return err
	}

	return nil
}

func (s *TicketStore) FindTicket(ctx context.Context, eventID, studentID uint) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.findTicket(eventID, studentID)
}

func (s *TicketStore) InsertTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.insertTicket(ticket)
}

func (s *TicketStore) FindEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.findEvent(eventID)
}

func (s *TicketStore) FindBadge(ctx context.Context, studentID, teamID uint) (domain.DiscountBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.findBadge(studentID, teamID)
}

func (s *TicketStore) ConsumeBadgeCredit(ctx context.Context, studentID, teamID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.consumeBadgeCredit(studentID, teamID), nil
}

func (s *TicketStore) MarkScanned(ctx context.Context, eventID, studentID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.markScanned(eventID, studentID)
}

func (s *TicketStore) UpdateRating(ctx context.Context, eventID, studentID uint, rating int, feedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.updateRating(eventID, studentID, rating, feedback)
}

func (s *TicketStore) SetCertificate(ctx context.Context, eventID, studentID uint, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.setCertificate(eventID, studentID, url)
}

func (s *TicketStore) FindByStudent(ctx context.Context, studentID uint) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.findByStudent(studentID), nil
}

func (s *TicketStore) FindBadgesByStudent(ctx context.Context, studentID uint) ([]domain.DiscountBadge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.findBadgesByStudent(studentID), nil
}

func (s *TicketStore) IsTeamOrganizer(ctx context.Context, teamID, userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.organizers[pair{teamID, userID}], nil
}

type ticketTx struct {
	state *ticketState
}

func (t *ticketTx) WithTx(ctx context.Context, fn func(tx repository.TicketStore) error) error {
	return errNestedTx
}

func (t *ticketTx) FindTicket(ctx context.Context, eventID, studentID uint) (domain.Ticket, error) {
	return t.state.findTicket(eventID, studentID)
}

func (t *ticketTx) InsertTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	return t.state.insertTicket(ticket)
}

func (t *ticketTx) FindEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	return t.state.findEvent(eventID)
}

func (t *ticketTx) FindBadge(ctx context.Context, studentID, teamID uint) (domain.DiscountBadge, error) {
	return t.state.findBadge(studentID, teamID)
}

func (t *ticketTx) ConsumeBadgeCredit(ctx context.Context, studentID, teamID uint) (bool, error) {
	return t.state.consumeBadgeCredit(studentID, teamID), nil
}

func (t *ticketTx) MarkScanned(ctx context.Context, eventID, studentID uint) error {
	return t.state.markScanned(eventID, studentID)
}

func (t *ticketTx) UpdateRating(ctx context.Context, eventID, studentID uint, rating int, feedback string) error {
	return t.state.updateRating(eventID, studentID, rating, feedback)
}

func (t *ticketTx) SetCertificate(ctx context.Context, eventID, studentID uint, url string) error {
	return t.state.setCertificate(eventID, studentID, url)
}

func (t *ticketTx) FindByStudent(ctx context.Context, studentID uint) ([]domain.Ticket, error) {
	return t.state.findByStudent(studentID), nil
}

func (t *ticketTx) FindBadgesByStudent(ctx context.Context, studentID uint) ([]domain.DiscountBadge, error) {
	return t.state.findBadgesByStudent(studentID), nil
}

func (s *ticketState) findTicket(eventID, studentID uint) (domain.Ticket, error) {
	ticket, ok := s.tickets[pair{eventID, studentID}]
	if !ok {
		return domain.Ticket{}, repository.ErrTicketNotFound
	}

	return ticket, nil
}

func (s *ticketState) insertTicket(ticket domain.Ticket) (domain.Ticket, error) {
	key := pair{ticket.EventID, ticket.StudentID}
	if _, ok := s.tickets[key]; ok {
		return domain.Ticket{}, repository.ErrAlreadyRegistered
	}
	s.tickets[key] = ticket

	return ticket, nil
}

func (s *ticketState) findEvent(eventID uint) (domain.Event, error) {
	event, ok := s.events[eventID]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (s *ticketState) findBadge(studentID, teamID uint) (domain.DiscountBadge, error) {
	badge, ok := s.badges[pair{studentID, teamID}]
	if !ok {
		return domain.DiscountBadge{}, repository.ErrBadgeNotFound
	}

	return badge, nil
}

func (s *ticketState) consumeBadgeCredit(studentID, teamID uint) bool {
	key := pair{studentID, teamID}
	badge, ok := s.badges[key]
	if !ok || badge.UsageCredits <= 0 {
		return false
	}
	badge.UsageCredits--
	s.badges[key] = badge

	return true
}

func (s *ticketState) markScanned(eventID, studentID uint) error {
	key := pair{eventID, studentID}
	ticket, ok := s.tickets[key]
	if !ok {
		return repository.ErrTicketNotFound
	}
	ticket.Scanned = true
	s.tickets[key] = ticket

	return nil
}

func (s *ticketState) updateRating(eventID, studentID uint, rating int, feedback string) error {
	key := pair{eventID, studentID}
	ticket, ok := s.tickets[key]
	if !ok {
		return repository.ErrTicketNotFound
	}
	ticket.Rating = &rating
	ticket.Feedback = &feedback
	s.tickets[key] = ticket

	return nil
}

func (s *ticketState) setCertificate(eventID, studentID uint, url string) error {
	key := pair{eventID, studentID}
	ticket, ok := s.tickets[key]
	if !ok {
		return repository.ErrTicketNotFound
	}
	if !ticket.Scanned {
		return repository.ErrNotCheckedIn
	}
	ticket.CertificateURL = &url
	s.tickets[key] = ticket

	return nil
}

func (s *ticketState) findByStudent(studentID uint) []domain.Ticket {
	out := make([]domain.Ticket, 0)
	for _, ticket := range s.tickets {
		if ticket.StudentID == studentID {
			out = append(out, ticket)
		}
	}

	return out
}

func (s *ticketState) findBadgesByStudent(studentID uint) []domain.DiscountBadge {
	out := make([]domain.DiscountBadge, 0)
	for _, badge := range s.badges {
		if badge.StudentID == studentID {
			out = append(out, badge)
		}
	}

	return out
}
