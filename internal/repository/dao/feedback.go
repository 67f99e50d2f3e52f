package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrAlreadySubmitted = errors.New("already submitted")

type Feedback struct {
	ID        uint   `gorm:"primaryKey"`
	EventID   uint   `gorm:"not null;uniqueIndex:ux_feedback_student_stall_event,priority:3"`
	Event     Event  `gorm:"foreignKey:EventID;constraint:OnDelete:RESTRICT"`
	StudentID uint   `gorm:"not null;uniqueIndex:ux_feedback_student_stall_event,priority:1"`
	Student   User   `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT"`
	StallID   uint   `gorm:"not null;uniqueIndex:ux_feedback_student_stall_event,priority:2"`
	Stall     Stall  `gorm:"foreignKey:StallID;constraint:OnDelete:RESTRICT"`
	Rating    int    `gorm:"not null;check:chk_feedback_rating,rating BETWEEN 1 AND 5"`
	Comment   string `gorm:"type:text"`
	CreatedAt time.Time
}

func (Feedback) TableName() string {
	return "feedback"
}

type Vote struct {
	ID        uint  `gorm:"primaryKey"`
	EventID   uint  `gorm:"not null;uniqueIndex:ux_votes_student_event,priority:2"`
	Event     Event `gorm:"foreignKey:EventID;constraint:OnDelete:RESTRICT"`
	StudentID uint  `gorm:"not null;uniqueIndex:ux_votes_student_event,priority:1"`
	Student   User  `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT"`
	StallID   uint  `gorm:"not null;index"`
	Stall     Stall `gorm:"foreignKey:StallID;constraint:OnDelete:RESTRICT"`
	CreatedAt time.Time
}

type FeedbackDAO struct {
	db *gorm.DB
}

func NewFeedbackDAO(db *gorm.DB) *FeedbackDAO {
	return &FeedbackDAO{
		db: db,
	}
}

func (d *FeedbackDAO) InsertFeedback(ctx context.Context, feedback Feedback) (Feedback, error) {
	result := d.db.WithContext(ctx).Omit("Event", "Student", "Stall").Create(&feedback)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "ux_feedback_student_stall_event") {
			return Feedback{}, ErrAlreadySubmitted
		}
		return Feedback{}, result.Error
	}
	return feedback, nil
}

func (d *FeedbackDAO) FeedbackExists(ctx context.Context, eventID, studentID, stallID uint) (bool, error) {
	var count int64
	result := d.db.WithContext(ctx).Model(&Feedback{}).
		Where("event_id = ? AND student_id = ? AND stall_id = ?", eventID, studentID, stallID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

func (d *FeedbackDAO) InsertVote(ctx context.Context, vote Vote) (Vote, error) {
	result := d.db.WithContext(ctx).Omit("Event", "Student", "Stall").Create(&vote)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "ux_votes_student_event") {
			return Vote{}, ErrAlreadySubmitted
		}
		return Vote{}, result.Error
	}
	return vote, nil
}

func (d *FeedbackDAO) VoteExists(ctx context.Context, eventID, studentID uint) (bool, error) {
	var count int64
	result := d.db.WithContext(ctx).Model(&Vote{}).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}
