package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrAlreadyRegistered = errors.New("student already registered for this event")
	ErrBadgeNotFound     = errors.New("discount badge not found")
	ErrNotCheckedIn      = errors.New("ticket has not been scanned")
)

type Ticket struct {
	EventID        uint      `gorm:"primaryKey;autoIncrement:false"`
	StudentID      uint      `gorm:"primaryKey;autoIncrement:false"`
	Price          int       `gorm:"not null"`
	DateIssued     time.Time `gorm:"not null"`
	Scanned        bool      `gorm:"not null;default:false"`
	Rating         *int      `gorm:"check:rating >= 0 AND rating <= 5"`
	Feedback       *string
	CertificateURL *string
	QRCode         string `gorm:"not null"`
}

func (Ticket) TableName() string {
	return "tickets_and_feedback"
}

type DiscountBadge struct {
	StudentID    uint   `gorm:"primaryKey;autoIncrement:false"`
	TeamID       uint   `gorm:"primaryKey;autoIncrement:false"`
	Tier         string `gorm:"not null"`
	UsageCredits int    `gorm:"not null;check:usage_credits >= 0"`
	Points       int    `gorm:"not null;default:0"`
	Expiry       time.Time
}

func (DiscountBadge) TableName() string {
	return "badges"
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

// WithTx runs fn inside one database transaction, handing it a TicketDAO
// bound to that transaction. Nested calls are not supported.
func (d *TicketDAO) WithTx(ctx context.Context, fn func(tx *TicketDAO) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TicketDAO{db: tx})
	})
}

func (d *TicketDAO) FindTicket(ctx context.Context, eventID, studentID uint) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		First(&ticket)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *TicketDAO) InsertTicket(ctx context.Context, ticket Ticket) (Ticket, error) {
	result := d.db.WithContext(ctx).Create(&ticket)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.ConstraintName, "tickets_and_feedback") {
			return Ticket{}, ErrAlreadyRegistered
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

// FindEvent reads the event row needed for pricing within the registration
// transaction. Broader event queries live on EventDAO.
func (d *TicketDAO) FindEvent(ctx context.Context, eventID uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, eventID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *TicketDAO) FindBadge(ctx context.Context, studentID, teamID uint) (DiscountBadge, error) {
	var badge DiscountBadge

	result := d.db.WithContext(ctx).
		Where("student_id = ? AND team_id = ?", studentID, teamID).
		First(&badge)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return DiscountBadge{}, ErrBadgeNotFound
		}

		return DiscountBadge{}, result.Error
	}

	return badge, nil
}

// ConsumeBadgeCredit spends one usage credit if any remain. Predicate and
// decrement are one UPDATE, so a concurrent registration racing for the last
// credit loses cleanly (returns false) instead of double-spending it.
func (d *TicketDAO) ConsumeBadgeCredit(ctx context.Context, studentID, teamID uint) (bool, error) {
	result := d.db.WithContext(ctx).
		Model(&DiscountBadge{}).
		Where("student_id = ? AND team_id = ? AND usage_credits > 0", studentID, teamID).
		UpdateColumn("usage_credits", gorm.Expr("usage_credits - 1"))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// MarkScanned sets the scanned flag. Scanning an already-scanned ticket still
// matches the row, which is what makes check-in idempotent.
func (d *TicketDAO) MarkScanned(ctx context.Context, eventID, studentID uint) error {
	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		UpdateColumn("scanned", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}

	return nil
}

func (d *TicketDAO) UpdateRating(ctx context.Context, eventID, studentID uint, rating int, feedback string) error {
	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Updates(map[string]interface{}{"rating": rating, "feedback": feedback})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}

	return nil
}

// SetCertificate records the certificate URL, gated on the ticket having been
// scanned; issuing a certificate for a no-show is rejected.
func (d *TicketDAO) SetCertificate(ctx context.Context, eventID, studentID uint, url string) error {
	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("event_id = ? AND student_id = ? AND scanned = ?", eventID, studentID, true).
		UpdateColumn("certificate_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindTicket(ctx, eventID, studentID); err != nil {
			return err
		}

		return ErrNotCheckedIn
	}

	return nil
}

func (d *TicketDAO) FindByStudent(ctx context.Context, studentID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date_issued DESC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *TicketDAO) FindBadgesByStudent(ctx context.Context, studentID uint) ([]DiscountBadge, error) {
	var badges []DiscountBadge

	result := d.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&badges)
	if result.Error != nil {
		return nil, result.Error
	}

	return badges, nil
}
