package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/repository/dao"
)

var (
	ErrEventNotFound = dao.ErrEventNotFound
	ErrNoActiveEvent = dao.ErrNoActiveEvent
	ErrEventRetired  = dao.ErrEventRetired
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindByName(ctx context.Context, name string) (dao.Event, error)
	FindActive(ctx context.Context) (dao.Event, error)
	Activate(ctx context.Context, id uint) (dao.Event, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, dao.Event{
		Name:          event.Name,
		AllowFeedback: event.AllowFeedback,
		AllowVoting:   event.AllowVoting,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// FindByName returns the oldest event called name.
func (r *EventRepository) FindByName(ctx context.Context, name string) (domain.Event, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) FindActive(ctx context.Context) (domain.Event, error) {
	found, err := r.dao.FindActive(ctx)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) Activate(ctx context.Context, id uint) (domain.Event, error) {
	activated, err := r.dao.Activate(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Activate -> %w", err)
	}

	return r.daoToDomain(activated), nil
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:            e.ID,
		Name:          e.Name,
		Active:        e.Active,
		AllowFeedback: e.AllowFeedback,
		AllowVoting:   e.AllowVoting,
		RetiredAt:     e.RetiredAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
