package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/repository/dao"
)

// EventStore serves event browsing plus the organizer lookup that gates
// ticket check-in. Event creation and team membership management belong to
// other parts of the platform.
type EventStore interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	IsTeamOrganizer(ctx context.Context, teamID, userID uint) (bool, error)
}

type EventRepository struct {
	dao *dao.EventDAO
}

func NewEventRepository(dao *dao.EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventDaoToDomain(found), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, len(found))
	for i, event := range found {
		events[i] = eventDaoToDomain(event)
	}

	return events, nil
}

func (r *EventRepository) IsTeamOrganizer(ctx context.Context, teamID, userID uint) (bool, error) {
	ok, err := r.dao.IsTeamOrganizer(ctx, teamID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsTeamOrganizer -> %w", err)
	}

	return ok, nil
}

func eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		BasePrice:        e.BasePrice,
		TeamID:           e.TeamID,
		AcceptanceStatus: e.AcceptanceStatus,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
