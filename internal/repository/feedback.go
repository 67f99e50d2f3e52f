package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/repository/dao"
)

var ErrAlreadySubmitted = dao.ErrAlreadySubmitted

type FeedbackDAO interface {
	InsertFeedback(ctx context.Context, feedback dao.Feedback) (dao.Feedback, error)
	FeedbackExists(ctx context.Context, eventID, studentID, stallID uint) (bool, error)
	InsertVote(ctx context.Context, vote dao.Vote) (dao.Vote, error)
	VoteExists(ctx context.Context, eventID, studentID uint) (bool, error)
}

type FeedbackRepository struct {
	dao FeedbackDAO
}

func NewFeedbackRepository(dao FeedbackDAO) *FeedbackRepository {
	return &FeedbackRepository{
		dao: dao,
	}
}

func (r *FeedbackRepository) CreateFeedback(ctx context.Context, f domain.Feedback) (domain.Feedback, error) {
	created, err := r.dao.InsertFeedback(ctx, dao.Feedback{
		EventID:   f.EventID,
		StudentID: f.StudentID,
		StallID:   f.StallID,
		Rating:    f.Rating,
		Comment:   f.Comment,
	})
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("r.dao.InsertFeedback -> %w", err)
	}

	return domain.Feedback{
		ID:        created.ID,
		EventID:   created.EventID,
		StudentID: created.StudentID,
		StallID:   created.StallID,
		Rating:    created.Rating,
		Comment:   created.Comment,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (r *FeedbackRepository) FeedbackExists(ctx context.Context, eventID, studentID, stallID uint) (bool, error) {
	exists, err := r.dao.FeedbackExists(ctx, eventID, studentID, stallID)
	if err != nil {
		return false, fmt.Errorf("r.dao.FeedbackExists -> %w", err)
	}

	return exists, nil
}

func (r *FeedbackRepository) CreateVote(ctx context.Context, v domain.Vote) (domain.Vote, error) {
	created, err := r.dao.InsertVote(ctx, dao.Vote{
		EventID:   v.EventID,
		StudentID: v.StudentID,
		StallID:   v.StallID,
	})
	if err != nil {
		return domain.Vote{}, fmt.Errorf("r.dao.InsertVote -> %w", err)
	}

	return domain.Vote{
		ID:        created.ID,
		EventID:   created.EventID,
		StudentID: created.StudentID,
		StallID:   created.StallID,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (r *FeedbackRepository) VoteExists(ctx context.Context, eventID, studentID uint) (bool, error) {
	exists, err := r.dao.VoteExists(ctx, eventID, studentID)
	if err != nil {
		return false, fmt.Errorf("r.dao.VoteExists -> %w", err)
	}

	return exists, nil
}
