package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/repository/dao"
)

var (
	ErrUserEmailExists   = dao.ErrUserEmailExists
	ErrUserNotFound      = dao.ErrUserNotFound
	ErrVolunteerNotFound = dao.ErrVolunteerNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	InsertVolunteer(ctx context.Context, volunteer dao.Volunteer) (dao.Volunteer, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindVolunteerByID(ctx context.Context, id uint) (dao.Volunteer, error)
	FindVolunteerByEmail(ctx context.Context, email string) (dao.Volunteer, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Email:    user.Email,
		Password: user.Password,
		Name:     user.Name,
		Role:     string(user.Role),
		Active:   user.Active,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) CreateVolunteer(ctx context.Context, volunteer domain.Volunteer) (domain.Volunteer, error) {
	created, err := r.dao.InsertVolunteer(ctx, dao.Volunteer{
		Email:    volunteer.Email,
		Password: volunteer.Password,
		Name:     volunteer.Name,
		Active:   volunteer.Active,
	})
	if err != nil {
		return domain.Volunteer{}, fmt.Errorf("r.dao.InsertVolunteer -> %w", err)
	}

	return r.volunteerDaoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindVolunteerByID(ctx context.Context, id uint) (domain.Volunteer, error) {
	found, err := r.dao.FindVolunteerByID(ctx, id)
	if err != nil {
		return domain.Volunteer{}, fmt.Errorf("r.dao.FindVolunteerByID -> %w", err)
	}

	return r.volunteerDaoToDomain(found), nil
}

func (r *UserRepository) FindVolunteerByEmail(ctx context.Context, email string) (domain.Volunteer, error) {
	found, err := r.dao.FindVolunteerByEmail(ctx, email)
	if err != nil {
		return domain.Volunteer{}, fmt.Errorf("r.dao.FindVolunteerByEmail -> %w", err)
	}

	return r.volunteerDaoToDomain(found), nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		Role:      domain.Role(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *UserRepository) volunteerDaoToDomain(v dao.Volunteer) domain.Volunteer {
	return domain.Volunteer{
		ID:        v.ID,
		Email:     v.Email,
		Password:  v.Password,
		Name:      v.Name,
		Active:    v.Active,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
