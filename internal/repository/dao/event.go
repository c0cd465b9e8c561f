package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	ID               uint    `gorm:"primaryKey"`
	Title            string  `gorm:"not null"`
	Description      string
	BasePrice        float64 `gorm:"not null"`
	TeamID           uint    `gorm:"not null;index"`
	AcceptanceStatus string  `gorm:"not null;default:'pending'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Team struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

// TeamOrganizer links an organizer account to the team whose events it may
// check in. Role issuance itself lives outside this service.
type TeamOrganizer struct {
	TeamID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID uint `gorm:"primaryKey;autoIncrement:false"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) IsTeamOrganizer(ctx context.Context, teamID, userID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&TeamOrganizer{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}
