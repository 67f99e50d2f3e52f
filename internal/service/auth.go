package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/repository"
)

var (
	ErrUserEmailExists  = repository.ErrUserEmailExists
	ErrUserNotFound     = repository.ErrUserNotFound
	ErrWrongPassword    = errors.New("wrong password")
	ErrAccountDisabled  = errors.New("account is disabled")
	ErrInvalidActorKind = errors.New("invalid account kind")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	CreateVolunteer(ctx context.Context, volunteer domain.Volunteer) (domain.Volunteer, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindVolunteerByEmail(ctx context.Context, email string) (domain.Volunteer, error)
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Register stores a user account with a hashed password. It backs the seed
// command; the portal's own signup flow lives elsewhere.
func (s *AuthService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hash

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) RegisterVolunteer(ctx context.Context, volunteer domain.Volunteer) (domain.Volunteer, error) {
	hash, err := hashPassword(volunteer.Password)
	if err != nil {
		return domain.Volunteer{}, err
	}
	volunteer.Password = hash

	created, err := s.repo.CreateVolunteer(ctx, volunteer)
	if err != nil {
		return domain.Volunteer{}, fmt.Errorf("s.repo.CreateVolunteer -> %w", err)
	}

	return created, nil
}

// Login checks the password against the table named by kind and returns the
// matching actor.
func (s *AuthService) Login(ctx context.Context, email, password string, kind domain.ActorKind) (domain.Actor, error) {
	switch kind {
	case domain.ActorVolunteer:
		volunteer, err := s.repo.FindVolunteerByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrVolunteerNotFound) {
				return domain.Actor{}, ErrUserNotFound
			}

			return domain.Actor{}, fmt.Errorf("s.repo.FindVolunteerByEmail -> %w", err)
		}

		if err = checkPassword(volunteer.Password, password, volunteer.Active); err != nil {
			return domain.Actor{}, err
		}

		return domain.Actor{ID: volunteer.ID, Kind: kind, Name: volunteer.Name}, nil

	case domain.ActorUser:
		user, err := s.repo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domain.Actor{}, ErrUserNotFound
			}

			return domain.Actor{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
		}

		if err = checkPassword(user.Password, password, user.Active); err != nil {
			return domain.Actor{}, err
		}

		return domain.Actor{ID: user.ID, Kind: kind, Name: user.Name, Role: user.Role}, nil
	}

	return domain.Actor{}, ErrInvalidActorKind
}

func checkPassword(hash, password string, active bool) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	if !active {
		return ErrAccountDisabled
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
