package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/repository"
)

const (
	minRating = 1
	maxRating = 5
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type ScopeResolver interface {
	ResolveScope(ctx context.Context, raw string) (domain.SubjectScope, error)
}

type Gate interface {
	CanSubmitFeedback(ctx context.Context, eventID, studentID, stallID uint) (domain.Verdict, error)
	CanVote(ctx context.Context, eventID, studentID uint) (domain.Verdict, error)
}

type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, f domain.Feedback) (domain.Feedback, error)
	CreateVote(ctx context.Context, v domain.Vote) (domain.Vote, error)
}

type FeedbackService struct {
	scopes   ScopeResolver
	registry ActiveEventReader
	stalls   SubjectStallRepository
	gate     Gate
	repo     FeedbackRepository
}

func NewFeedbackService(
	scopes ScopeResolver,
	registry ActiveEventReader,
	stalls SubjectStallRepository,
	gate Gate,
	repo FeedbackRepository,
) *FeedbackService {
	return &FeedbackService{
		scopes:   scopes,
		registry: registry,
		stalls:   stalls,
		gate:     gate,
		repo:     repo,
	}
}

// SubmitFeedback records a rating for the stall whose QR code the student
// scanned. Denials come back as *domain.EligibilityError, token problems as
// *domain.ScanRejection.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, studentID uint, stallToken string, rating int, comment string) (domain.Feedback, error) {
	if rating < minRating || rating > maxRating {
		return domain.Feedback{}, ErrInvalidRating
	}

	scope, err := s.scopes.ResolveScope(ctx, stallToken)
	if err != nil {
		return domain.Feedback{}, err
	}
	if scope.SubjectKind != domain.SubjectStall {
		return domain.Feedback{}, domain.Reject(domain.ReasonBadSignature)
	}

	verdict, err := s.gate.CanSubmitFeedback(ctx, scope.EventID, studentID, scope.SubjectID)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("s.gate.CanSubmitFeedback -> %w", err)
	}
	if err = verdict.Err(); err != nil {
		return domain.Feedback{}, err
	}

	created, err := s.repo.CreateFeedback(ctx, domain.Feedback{
		EventID:   scope.EventID,
		StudentID: studentID,
		StallID:   scope.SubjectID,
		Rating:    rating,
		Comment:   comment,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadySubmitted) {
			return domain.Feedback{}, domain.Deny(domain.DenyAlreadySubmitted).Err()
		}

		return domain.Feedback{}, fmt.Errorf("s.repo.CreateFeedback -> %w", err)
	}

	return created, nil
}

// CastVote records the student's single vote for a stall of the active event.
func (s *FeedbackService) CastVote(ctx context.Context, studentID, stallID uint) (domain.Vote, error) {
	event, err := s.registry.GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrNoActiveEvent) {
			return domain.Vote{}, domain.Deny(domain.DenyEventNotActive).Err()
		}

		return domain.Vote{}, fmt.Errorf("s.registry.GetActive -> %w", err)
	}

	stall, err := s.stalls.FindByID(ctx, stallID)
	switch {
	case errors.Is(err, repository.ErrStallNotFound):
		return domain.Vote{}, ErrStallNotFound
	case err != nil:
		return domain.Vote{}, fmt.Errorf("s.stalls.FindByID -> %w", err)
	case stall.EventID != event.ID:
		return domain.Vote{}, domain.Deny(domain.DenyStallNotInEvent).Err()
	}

	verdict, err := s.gate.CanVote(ctx, event.ID, studentID)
	if err != nil {
		return domain.Vote{}, fmt.Errorf("s.gate.CanVote -> %w", err)
	}
	if err = verdict.Err(); err != nil {
		return domain.Vote{}, err
	}

	created, err := s.repo.CreateVote(ctx, domain.Vote{
		EventID:   event.ID,
		StudentID: studentID,
		StallID:   stall.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadySubmitted) {
			return domain.Vote{}, domain.Deny(domain.DenyAlreadySubmitted).Err()
		}

		return domain.Vote{}, fmt.Errorf("s.repo.CreateVote -> %w", err)
	}

	return created, nil
}
