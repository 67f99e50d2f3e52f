package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietanh2810/event-attendance-api/internal/config"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/repository"
)

var (
	ErrStallNotFound         = repository.ErrStallNotFound
	ErrStallNotInActiveEvent = errors.New("stall does not belong to the active event")
	ErrStudentNotFound       = errors.New("student not found")
)

type ActiveEventReader interface {
	GetActive(ctx context.Context) (domain.Event, error)
}

type TokenMinter interface {
	Mint(subjectID uint, kind domain.SubjectKind, eventID uint, purpose domain.Purpose, ttl time.Duration) (string, domain.Claims, error)
}

type IssuanceStallRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Stall, error)
	UpdateToken(ctx context.Context, id uint, token string, issuedAt time.Time) error
}

type IssuanceUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type IssuanceService struct {
	conf     *config.TokenConfig
	registry ActiveEventReader
	minter   TokenMinter
	stalls   IssuanceStallRepository
	users    IssuanceUserRepository
}

func NewIssuanceService(
	conf *config.TokenConfig,
	registry ActiveEventReader,
	minter TokenMinter,
	stalls IssuanceStallRepository,
	users IssuanceUserRepository,
) *IssuanceService {
	return &IssuanceService{
		conf:     conf,
		registry: registry,
		minter:   minter,
		stalls:   stalls,
		users:    users,
	}
}

// RegenerateStallToken mints a new stall QR token under the active event and
// stores it on the stall. The previous token is abandoned, not revoked.
func (s *IssuanceService) RegenerateStallToken(ctx context.Context, stallID uint) (domain.IssuedToken, error) {
	event, err := s.registry.GetActive(ctx)
	if err != nil {
		return domain.IssuedToken{}, fmt.Errorf("s.registry.GetActive -> %w", err)
	}

	stall, err := s.stalls.FindByID(ctx, stallID)
	if err != nil {
		if errors.Is(err, repository.ErrStallNotFound) {
			return domain.IssuedToken{}, ErrStallNotFound
		}

		return domain.IssuedToken{}, fmt.Errorf("s.stalls.FindByID -> %w", err)
	}

	if stall.EventID != event.ID {
		return domain.IssuedToken{}, ErrStallNotInActiveEvent
	}

	token, claims, err := s.minter.Mint(stall.ID, domain.SubjectStall, event.ID, domain.PurposeStallCheckin, s.conf.StallTTL)
	if err != nil {
		return domain.IssuedToken{}, fmt.Errorf("s.minter.Mint -> %w", err)
	}

	if err = s.stalls.UpdateToken(ctx, stall.ID, token, claims.IssuedAt); err != nil {
		return domain.IssuedToken{}, fmt.Errorf("s.stalls.UpdateToken -> %w", err)
	}

	return issued(token, claims), nil
}

// IssueStudentToken mints a short-lived verification token. Nothing is stored.
func (s *IssuanceService) IssueStudentToken(ctx context.Context, studentID uint) (domain.IssuedToken, error) {
	event, err := s.registry.GetActive(ctx)
	if err != nil {
		return domain.IssuedToken{}, fmt.Errorf("s.registry.GetActive -> %w", err)
	}

	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.IssuedToken{}, ErrStudentNotFound
		}

		return domain.IssuedToken{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	if !student.IsStudent() || !student.Active {
		return domain.IssuedToken{}, ErrStudentNotFound
	}

	token, claims, err := s.minter.Mint(student.ID, domain.SubjectStudent, event.ID, domain.PurposeStudentVerification, s.conf.StudentTTL)
	if err != nil {
		return domain.IssuedToken{}, fmt.Errorf("s.minter.Mint -> %w", err)
	}

	return issued(token, claims), nil
}

func issued(token string, claims domain.Claims) domain.IssuedToken {
	return domain.IssuedToken{
		Token:     token,
		SubjectID: claims.SubjectID,
		Kind:      claims.SubjectKind,
		EventID:   claims.EventID,
		ExpiresAt: claims.ExpiresAt,
	}
}
