package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/repository"
)

type EventReader interface {
	Get(ctx context.Context, id uint) (domain.Event, error)
}

type AttendanceChecker interface {
	HasCheckedIn(ctx context.Context, eventID, studentID uint) (bool, error)
}

type SubmissionRepository interface {
	FeedbackExists(ctx context.Context, eventID, studentID, stallID uint) (bool, error)
	VoteExists(ctx context.Context, eventID, studentID uint) (bool, error)
}

// EligibilityService answers whether a student may give feedback or vote.
// Denials are verdicts, not errors; errors mean the store failed.
type EligibilityService struct {
	events      EventReader
	stalls      SubjectStallRepository
	attendance  AttendanceChecker
	submissions SubmissionRepository
}

func NewEligibilityService(events EventReader, stalls SubjectStallRepository, attendance AttendanceChecker, submissions SubmissionRepository) *EligibilityService {
	return &EligibilityService{
		events:      events,
		stalls:      stalls,
		attendance:  attendance,
		submissions: submissions,
	}
}

func (s *EligibilityService) CanSubmitFeedback(ctx context.Context, eventID, studentID, stallID uint) (domain.Verdict, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("s.events.Get -> %w", err)
	}

	if !event.Active {
		return domain.Deny(domain.DenyEventNotActive), nil
	}
	if !event.AllowFeedback {
		return domain.Deny(domain.DenyEventFeedbackDisabled), nil
	}

	stall, err := s.stalls.FindByID(ctx, stallID)
	switch {
	case errors.Is(err, repository.ErrStallNotFound):
		return domain.Deny(domain.DenyStallNotInEvent), nil
	case err != nil:
		return domain.Verdict{}, fmt.Errorf("s.stalls.FindByID -> %w", err)
	case stall.EventID != event.ID:
		return domain.Deny(domain.DenyStallNotInEvent), nil
	}

	verdict, err := s.checkedIn(ctx, event.ID, studentID)
	if err != nil || !verdict.Allowed {
		return verdict, err
	}

	exists, err := s.submissions.FeedbackExists(ctx, event.ID, studentID, stallID)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("s.submissions.FeedbackExists -> %w", err)
	}
	if exists {
		return domain.Deny(domain.DenyAlreadySubmitted), nil
	}

	return domain.Allow(), nil
}

func (s *EligibilityService) CanVote(ctx context.Context, eventID, studentID uint) (domain.Verdict, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("s.events.Get -> %w", err)
	}

	if !event.Active {
		return domain.Deny(domain.DenyEventNotActive), nil
	}
	if !event.AllowVoting {
		return domain.Deny(domain.DenyEventVotingDisabled), nil
	}

	verdict, err := s.checkedIn(ctx, event.ID, studentID)
	if err != nil || !verdict.Allowed {
		return verdict, err
	}

	exists, err := s.submissions.VoteExists(ctx, event.ID, studentID)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("s.submissions.VoteExists -> %w", err)
	}
	if exists {
		return domain.Deny(domain.DenyAlreadySubmitted), nil
	}

	return domain.Allow(), nil
}

func (s *EligibilityService) checkedIn(ctx context.Context, eventID, studentID uint) (domain.Verdict, error) {
	ok, err := s.attendance.HasCheckedIn(ctx, eventID, studentID)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("s.attendance.HasCheckedIn -> %w", err)
	}
	if !ok {
		return domain.Deny(domain.DenyNotCheckedIn), nil
	}

	return domain.Allow(), nil
}
