package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/pricing"
	"github.com/uniclubs/campus-api/internal/repository"
)

var (
	ErrEventNotFound     = repository.ErrEventNotFound
	ErrAlreadyRegistered = repository.ErrAlreadyRegistered
	ErrTicketNotFound    = repository.ErrTicketNotFound
	ErrNotCheckedIn      = repository.ErrNotCheckedIn
	ErrBadOrganizer      = errors.New("organizer does not belong to the event's team")
	ErrInvalidRating     = errors.New("rating must be between 0 and 5")
)

// OrganizerDirectory answers whether a user may act as an organizer for a
// team. Role issuance itself lives outside this service.
type OrganizerDirectory interface {
	IsTeamOrganizer(ctx context.Context, teamID, userID uint) (bool, error)
}

// TicketService issues event tickets with badge-based discounts. Pricing is
// computed by the pure pricing package; this service decides when a usage
// credit is actually spent and makes that atomic with the ticket insert.
type TicketService struct {
	store     repository.TicketStore
	directory OrganizerDirectory
	now       func() time.Time
}

func NewTicketService(store repository.TicketStore, directory OrganizerDirectory) *TicketService {
	return &TicketService{
		store:     store,
		directory: directory,
		now:       time.Now,
	}
}

// RegisterForEvent creates the student's ticket. Discount eligibility is
// re-validated atomically with consumption: the credit decrement carries its
// own usage_credits > 0 predicate, and losing that race degrades to full
// price instead of failing the registration. A racing duplicate insert
// surfaces as AlreadyRegistered and rolls back any consumed credit.
func (s *TicketService) RegisterForEvent(ctx context.Context, eventID, studentID uint) (domain.Ticket, error) {
	var ticket domain.Ticket

	err := s.store.WithTx(ctx, func(tx repository.TicketStore) error {
		if _, err := tx.FindTicket(ctx, eventID, studentID); err == nil {
			return ErrAlreadyRegistered
		} else if !errors.Is(err, ErrTicketNotFound) {
			return fmt.Errorf("tx.FindTicket -> %w", err)
		}

		event, err := tx.FindEvent(ctx, eventID)
		if err != nil {
			if errors.Is(err, ErrEventNotFound) {
				return ErrEventNotFound
			}

			return fmt.Errorf("tx.FindEvent -> %w", err)
		}

		badge, err := s.loadUsableBadge(ctx, tx, studentID, event.TeamID)
		if err != nil {
			return err
		}

		finalPrice := pricing.ComputePrice(event.BasePrice, badge)
		if pricing.DiscountApplies(badge) {
			consumed, err := tx.ConsumeBadgeCredit(ctx, studentID, event.TeamID)
			if err != nil {
				return fmt.Errorf("tx.ConsumeBadgeCredit -> %w", err)
			}
			if !consumed {
				// A concurrent registration spent the last credit.
				finalPrice = pricing.ComputePrice(event.BasePrice, nil)
			}
		}

		created, err := tx.InsertTicket(ctx, domain.Ticket{
			EventID:    eventID,
			StudentID:  studentID,
			Price:      finalPrice,
			DateIssued: s.now(),
			QRCode:     uuid.NewString(),
		})
		if err != nil {
			if errors.Is(err, ErrAlreadyRegistered) {
				return ErrAlreadyRegistered
			}

			return fmt.Errorf("tx.InsertTicket -> %w", err)
		}

		ticket = created

		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}

	return ticket, nil
}

func (s *TicketService) loadUsableBadge(ctx context.Context, tx repository.TicketStore, studentID, teamID uint) (*domain.DiscountBadge, error) {
	badge, err := tx.FindBadge(ctx, studentID, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrBadgeNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("tx.FindBadge -> %w", err)
	}

	if !badge.Usable(s.now()) {
		return nil, nil
	}

	return &badge, nil
}

// CheckIn marks the ticket as scanned. Only an organizer of the event's
// owning team may scan; re-scanning an already-scanned ticket is a no-op
// success so gate crews can retry freely.
func (s *TicketService) CheckIn(ctx context.Context, eventID, studentID, organizerID uint) (domain.Ticket, error) {
	event, err := s.store.FindEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Ticket{}, ErrEventNotFound
		}

		return domain.Ticket{}, fmt.Errorf("s.store.FindEvent -> %w", err)
	}

	isOrganizer, err := s.directory.IsTeamOrganizer(ctx, event.TeamID, organizerID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.directory.IsTeamOrganizer -> %w", err)
	}
	if !isOrganizer {
		return domain.Ticket{}, ErrBadOrganizer
	}

	if err := s.store.MarkScanned(ctx, eventID, studentID); err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return domain.Ticket{}, ErrTicketNotFound
		}

		return domain.Ticket{}, fmt.Errorf("s.store.MarkScanned -> %w", err)
	}

	return s.store.FindTicket(ctx, eventID, studentID)
}

func (s *TicketService) RateEvent(ctx context.Context, eventID, studentID uint, rating int, feedback string) (domain.Ticket, error) {
	if rating < 0 || rating > 5 {
		return domain.Ticket{}, ErrInvalidRating
	}

	if err := s.store.UpdateRating(ctx, eventID, studentID, rating, feedback); err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return domain.Ticket{}, ErrTicketNotFound
		}

		return domain.Ticket{}, fmt.Errorf("s.store.UpdateRating -> %w", err)
	}

	return s.store.FindTicket(ctx, eventID, studentID)
}

// IssueCertificate records an attendance certificate. Rejected unless the
// ticket was scanned, and only by an organizer of the owning team.
func (s *TicketService) IssueCertificate(ctx context.Context, eventID, studentID, organizerID uint, url string) (domain.Ticket, error) {
	event, err := s.store.FindEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Ticket{}, ErrEventNotFound
		}

		return domain.Ticket{}, fmt.Errorf("s.store.FindEvent -> %w", err)
	}

	isOrganizer, err := s.directory.IsTeamOrganizer(ctx, event.TeamID, organizerID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.directory.IsTeamOrganizer -> %w", err)
	}
	if !isOrganizer {
		return domain.Ticket{}, ErrBadOrganizer
	}

	if err := s.store.SetCertificate(ctx, eventID, studentID, url); err != nil {
		switch {
		case errors.Is(err, ErrTicketNotFound):
			return domain.Ticket{}, ErrTicketNotFound
		case errors.Is(err, ErrNotCheckedIn):
			return domain.Ticket{}, ErrNotCheckedIn
		default:
			return domain.Ticket{}, fmt.Errorf("s.store.SetCertificate -> %w", err)
		}
	}

	return s.store.FindTicket(ctx, eventID, studentID)
}

func (s *TicketService) ListTickets(ctx context.Context, studentID uint) ([]domain.Ticket, error) {
	tickets, err := s.store.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("s.store.FindByStudent -> %w", err)
	}

	return tickets, nil
}

func (s *TicketService) ListBadges(ctx context.Context, studentID uint) ([]domain.DiscountBadge, error) {
	badges, err := s.store.FindBadgesByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("s.store.FindBadgesByStudent -> %w", err)
	}

	return badges, nil
}
