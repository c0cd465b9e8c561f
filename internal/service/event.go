package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/repository"
)

type EventService struct {
	store repository.EventStore
}

func NewEventService(store repository.EventStore) *EventService {
	return &EventService{
		store: store,
	}
}

func (s *EventService) GetEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	event, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.store.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.store.FindAll -> %w", err)
	}

	return events, nil
}
