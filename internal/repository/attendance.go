package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/repository/dao"
)

type AttendanceDAO interface {
	Insert(ctx context.Context, record dao.AttendanceRecord) (dao.AttendanceRecord, error)
	FindLatest(ctx context.Context, eventID, studentID uint) (dao.AttendanceRecord, error)
	FindHistory(ctx context.Context, eventID, studentID uint) ([]dao.AttendanceRecord, error)
	CountByStatus(ctx context.Context, eventID, studentID uint, status string) (int64, error)
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

func (r *AttendanceRepository) Append(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(record))
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

// FindLatest returns nil when the student has no record for the event.
func (r *AttendanceRepository) FindLatest(ctx context.Context, eventID, studentID uint) (*domain.AttendanceRecord, error) {
	found, err := r.dao.FindLatest(ctx, eventID, studentID)
	if err != nil {
		if errors.Is(err, dao.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("r.dao.FindLatest -> %w", err)
	}

	record := r.daoToDomain(found)
	return &record, nil
}

func (r *AttendanceRepository) FindHistory(ctx context.Context, eventID, studentID uint) ([]domain.AttendanceRecord, error) {
	found, err := r.dao.FindHistory(ctx, eventID, studentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindHistory -> %w", err)
	}

	records := make([]domain.AttendanceRecord, len(found))
	for i, rec := range found {
		records[i] = r.daoToDomain(rec)
	}

	return records, nil
}

func (r *AttendanceRepository) HasCheckIn(ctx context.Context, eventID, studentID uint) (bool, error) {
	count, err := r.dao.CountByStatus(ctx, eventID, studentID, string(domain.CheckedIn))
	if err != nil {
		return false, fmt.Errorf("r.dao.CountByStatus -> %w", err)
	}

	return count > 0, nil
}

func (r *AttendanceRepository) domainToDao(a domain.AttendanceRecord) dao.AttendanceRecord {
	return dao.AttendanceRecord{
		ID:            a.ID,
		EventID:       a.EventID,
		StudentID:     a.StudentID,
		Status:        string(a.Status),
		CheckInAt:     a.CheckInAt,
		CheckOutAt:    a.CheckOutAt,
		ScannedAt:     a.ScannedAt,
		ScannedByID:   a.ScannedByID,
		ScannedByKind: string(a.ScannedByKind),
	}
}

func (r *AttendanceRepository) daoToDomain(a dao.AttendanceRecord) domain.AttendanceRecord {
	return domain.AttendanceRecord{
		ID:            a.ID,
		EventID:       a.EventID,
		StudentID:     a.StudentID,
		Status:        domain.AttendanceStatus(a.Status),
		CheckInAt:     a.CheckInAt,
		CheckOutAt:    a.CheckOutAt,
		ScannedAt:     a.ScannedAt,
		ScannedByID:   a.ScannedByID,
		ScannedByKind: domain.ActorKind(a.ScannedByKind),
	}
}
