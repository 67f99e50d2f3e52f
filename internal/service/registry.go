package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/event-attendance-api/internal/broadcast"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/repository"
)

var (
	ErrEventNotFound = repository.ErrEventNotFound
	ErrNoActiveEvent = repository.ErrNoActiveEvent
	ErrEventRetired  = repository.ErrEventRetired
)

type EventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindActive(ctx context.Context) (domain.Event, error)
	Activate(ctx context.Context, id uint) (domain.Event, error)
}

// RegistryService is the only way the rest of the engine learns which event
// is active, and the only writer of the active flag.
type RegistryService struct {
	repo      EventRepository
	publisher broadcast.Publisher
	now       func() time.Time
}

func NewRegistryService(repo EventRepository, publisher broadcast.Publisher) *RegistryService {
	return &RegistryService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *RegistryService) GetActive(ctx context.Context) (domain.Event, error) {
	event, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveEvent) {
			return domain.Event{}, ErrNoActiveEvent
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	return event, nil
}

func (s *RegistryService) Get(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

// Activate makes id the single active event, deactivating every other one
// in the same transaction.
func (s *RegistryService) Activate(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.Activate(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return domain.Event{}, ErrEventNotFound
		case errors.Is(err, repository.ErrEventRetired):
			return domain.Event{}, ErrEventRetired
		}

		return domain.Event{}, fmt.Errorf("s.repo.Activate -> %w", err)
	}

	zap.L().Info("event activated", zap.Uint("event_id", event.ID), zap.String("name", event.Name))
	publish(ctx, s.publisher, broadcast.ActivationNotice(event, s.now()))

	return event, nil
}
