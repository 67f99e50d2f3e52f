package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/repository/dao"
)

var ErrStallNotFound = dao.ErrStallNotFound

type StallDAO interface {
	Insert(ctx context.Context, stall dao.Stall) (dao.Stall, error)
	FindByID(ctx context.Context, id uint) (dao.Stall, error)
	FindByEventAndName(ctx context.Context, eventID uint, name string) (dao.Stall, error)
	UpdateToken(ctx context.Context, id uint, token string, issuedAt time.Time) error
}

type StallRepository struct {
	dao StallDAO
}

func NewStallRepository(dao StallDAO) *StallRepository {
	return &StallRepository{
		dao: dao,
	}
}

func (r *StallRepository) Create(ctx context.Context, stall domain.Stall) (domain.Stall, error) {
	created, err := r.dao.Insert(ctx, dao.Stall{
		Name:        stall.Name,
		Description: stall.Description,
		EventID:     stall.EventID,
	})
	if err != nil {
		return domain.Stall{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *StallRepository) FindByID(ctx context.Context, id uint) (domain.Stall, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Stall{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *StallRepository) FindByEventAndName(ctx context.Context, eventID uint, name string) (domain.Stall, error) {
	found, err := r.dao.FindByEventAndName(ctx, eventID, name)
	if err != nil {
		return domain.Stall{}, fmt.Errorf("r.dao.FindByEventAndName -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *StallRepository) UpdateToken(ctx context.Context, id uint, token string, issuedAt time.Time) error {
	if err := r.dao.UpdateToken(ctx, id, token, issuedAt); err != nil {
		return fmt.Errorf("r.dao.UpdateToken -> %w", err)
	}

	return nil
}

func (r *StallRepository) daoToDomain(s dao.Stall) domain.Stall {
	return domain.Stall{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		EventID:       s.EventID,
		Token:         s.Token,
		TokenIssuedAt: s.TokenIssuedAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
