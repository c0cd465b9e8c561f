package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/repository/dao"
)

var (
	ErrTicketNotFound    = dao.ErrTicketNotFound
	ErrAlreadyRegistered = dao.ErrAlreadyRegistered
	ErrBadgeNotFound     = dao.ErrBadgeNotFound
	ErrNotCheckedIn      = dao.ErrNotCheckedIn
	ErrEventNotFound     = dao.ErrEventNotFound
)

// TicketStore is the allocation contract for event registration. The
// registration transaction reads the event, consumes at most one badge credit
// via ConsumeBadgeCredit (an atomic conditional decrement) and inserts the
// ticket; WithTx makes the three an indivisible unit.
type TicketStore interface {
	WithTx(ctx context.Context, fn func(tx TicketStore) error) error
	FindTicket(ctx context.Context, eventID, studentID uint) (domain.Ticket, error)
	InsertTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	FindEvent(ctx context.Context, eventID uint) (domain.Event, error)
	FindBadge(ctx context.Context, studentID, teamID uint) (domain.DiscountBadge, error)
	ConsumeBadgeCredit(ctx context.Context, studentID, teamID uint) (bool, error)
	MarkScanned(ctx context.Context, eventID, studentID uint) error
	UpdateRating(ctx context.Context, eventID, studentID uint, rating int, feedback string) error
	SetCertificate(ctx context.Context, eventID, studentID uint, url string) error
	FindByStudent(ctx context.Context, studentID uint) ([]domain.Ticket, error)
	FindBadgesByStudent(ctx context.Context, studentID uint) ([]domain.DiscountBadge, error)
}

type TicketRepository struct {
	dao *dao.TicketDAO
}

func NewTicketRepository(dao *dao.TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: dao,
	}
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(tx TicketStore) error) error {
	return r.dao.WithTx(ctx, func(txDAO *dao.TicketDAO) error {
		return fn(&TicketRepository{dao: txDAO})
	})
}

func (r *TicketRepository) FindTicket(ctx context.Context, eventID, studentID uint) (domain.Ticket, error) {
	found, err := r.dao.FindTicket(ctx, eventID, studentID)
	if err != nil {
		if errors.Is(err, dao.ErrTicketNotFound) {
			return domain.Ticket{}, ErrTicketNotFound
		}

		return domain.Ticket{}, fmt.Errorf("r.dao.FindTicket -> %w", err)
	}

	return r.ticketDaoToDomain(found), nil
}

func (r *TicketRepository) InsertTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	created, err := r.dao.InsertTicket(ctx, r.ticketDomainToDao(ticket))
	if err != nil {
		if errors.Is(err, dao.ErrAlreadyRegistered) {
			return domain.Ticket{}, ErrAlreadyRegistered
		}

		return domain.Ticket{}, fmt.Errorf("r.dao.InsertTicket -> %w", err)
	}

	return r.ticketDaoToDomain(created), nil
}

func (r *TicketRepository) FindEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	found, err := r.dao.FindEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, dao.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("r.dao.FindEvent -> %w", err)
	}

	return eventDaoToDomain(found), nil
}

func (r *TicketRepository) FindBadge(ctx context.Context, studentID, teamID uint) (domain.DiscountBadge, error) {
	found, err := r.dao.FindBadge(ctx, studentID, teamID)
	if err != nil {
		if errors.Is(err, dao.ErrBadgeNotFound) {
			return domain.DiscountBadge{}, ErrBadgeNotFound
		}

		return domain.DiscountBadge{}, fmt.Errorf("r.dao.FindBadge -> %w", err)
	}

	return r.badgeDaoToDomain(found), nil
}

func (r *TicketRepository) ConsumeBadgeCredit(ctx context.Context, studentID, teamID uint) (bool, error) {
	ok, err := r.dao.ConsumeBadgeCredit(ctx, studentID, teamID)
	if err != nil {
		return false, fmt.Errorf("r.dao.ConsumeBadgeCredit -> %w", err)
	}

	return ok, nil
}

func (r *TicketRepository) MarkScanned(ctx context.Context, eventID, studentID uint) error {
	if err := r.dao.MarkScanned(ctx, eventID, studentID); err != nil {
		if errors.Is(err, dao.ErrTicketNotFound) {
			return ErrTicketNotFound
		}

		return fmt.Errorf("r.dao.MarkScanned -> %w", err)
	}

	return nil
}

func (r *TicketRepository) UpdateRating(ctx context.Context, eventID, studentID uint, rating int, feedback string) error {
	if err := r.dao.UpdateRating(ctx, eventID, studentID, rating, feedback); err != nil {
		if errors.Is(err, dao.ErrTicketNotFound) {
			return ErrTicketNotFound
		}

		return fmt.Errorf("r.dao.UpdateRating -> %w", err)
	}

	return nil
}

func (r *TicketRepository) SetCertificate(ctx context.Context, eventID, studentID uint, url string) error {
	if err := r.dao.SetCertificate(ctx, eventID, studentID, url); err != nil {
		if errors.Is(err, dao.ErrTicketNotFound) {
			return ErrTicketNotFound
		}
		if errors.Is(err, dao.ErrNotCheckedIn) {
			return ErrNotCheckedIn
		}

		return fmt.Errorf("r.dao.SetCertificate -> %w", err)
	}

	return nil
}

func (r *TicketRepository) FindByStudent(ctx context.Context, studentID uint) ([]domain.Ticket, error) {
	found, err := r.dao.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStudent -> %w", err)
	}

	tickets := make([]domain.Ticket, len(found))
	for i, ticket := range found {
		tickets[i] = r.ticketDaoToDomain(ticket)
	}

	return tickets, nil
}

func (r *TicketRepository) FindBadgesByStudent(ctx context.Context, studentID uint) ([]domain.DiscountBadge, error) {
	found, err := r.dao.FindBadgesByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBadgesByStudent -> %w", err)
	}

	badges := make([]domain.DiscountBadge, len(found))
	for i, badge := range found {
		badges[i] = r.badgeDaoToDomain(badge)
	}

	return badges, nil
}

func (r *TicketRepository) ticketDomainToDao(t domain.Ticket) dao.Ticket {
	return dao.Ticket{
		EventID:        t.EventID,
		StudentID:      t.StudentID,
		Price:          t.Price,
		DateIssued:     t.DateIssued,
		Scanned:        t.Scanned,
		Rating:         t.Rating,
		Feedback:       t.Feedback,
		CertificateURL: t.CertificateURL,
		QRCode:         t.QRCode,
	}
}

func (r *TicketRepository) ticketDaoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		EventID:        t.EventID,
		StudentID:      t.StudentID,
		Price:          t.Price,
		DateIssued:     t.DateIssued,
		Scanned:        t.Scanned,
		Rating:         t.Rating,
		Feedback:       t.Feedback,
		CertificateURL: t.CertificateURL,
		QRCode:         t.QRCode,
	}
}

func (r *TicketRepository) badgeDaoToDomain(b dao.DiscountBadge) domain.DiscountBadge {
	return domain.DiscountBadge{
		StudentID:    b.StudentID,
		TeamID:       b.TeamID,
		Tier:         b.Tier,
		UsageCredits: b.UsageCredits,
		Points:       b.Points,
		Expiry:       b.Expiry,
	}
}
