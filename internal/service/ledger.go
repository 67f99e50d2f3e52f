package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/event-attendance-api/internal/broadcast"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/lock"
)

var ErrNotStudentSubject = errors.New("only student scans are recorded in the ledger")

type LedgerRepository interface {
	Append(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error)
	FindLatest(ctx context.Context, eventID, studentID uint) (*domain.AttendanceRecord, error)
	FindHistory(ctx context.Context, eventID, studentID uint) ([]domain.AttendanceRecord, error)
	HasCheckIn(ctx context.Context, eventID, studentID uint) (bool, error)
}

// LedgerService appends attendance records. The read-latest-then-insert
// toggle runs under a lock keyed by (event, student).
type LedgerService struct {
	repo      LedgerRepository
	locker    lock.Locker
	publisher broadcast.Publisher
	now       func() time.Time
}

func NewLedgerService(repo LedgerRepository, locker lock.Locker, publisher broadcast.Publisher) *LedgerService {
	return &LedgerService{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *LedgerService) RecordScan(ctx context.Context, scan domain.AuthorizedScan) (domain.AttendanceRecord, error) {
	if scan.SubjectKind != domain.SubjectStudent {
		return domain.AttendanceRecord{}, ErrNotStudentSubject
	}
	if scan.ActorID == 0 || !scan.ActorKind.Valid() {
		return domain.AttendanceRecord{}, domain.Reject(domain.ReasonUnknownActor)
	}

	var record domain.AttendanceRecord
	err := s.locker.WithLock(ctx, ledgerKey(scan.EventID, scan.SubjectID), func(ctx context.Context) error {
		latest, err := s.repo.FindLatest(ctx, scan.EventID, scan.SubjectID)
		if err != nil {
			return fmt.Errorf("s.repo.FindLatest -> %w", err)
		}

		record, err = s.repo.Append(ctx, domain.NextRecord(latest, scan, s.now().UTC()))
		if err != nil {
			return fmt.Errorf("s.repo.Append -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("s.locker.WithLock -> %w", err)
	}

	zap.L().Info("attendance recorded",
		zap.Uint("event_id", record.EventID),
		zap.Uint("student_id", record.StudentID),
		zap.String("status", string(record.Status)),
		zap.Uint("actor_id", record.ScannedByID),
		zap.String("actor_kind", string(record.ScannedByKind)),
	)
	publish(ctx, s.publisher, broadcast.AttendanceNotice(record))

	return record, nil
}

func (s *LedgerService) CurrentStatus(ctx context.Context, eventID, studentID uint) (domain.Presence, error) {
	latest, err := s.repo.FindLatest(ctx, eventID, studentID)
	if err != nil {
		return "", fmt.Errorf("s.repo.FindLatest -> %w", err)
	}

	return domain.PresenceOf(latest), nil
}

// History returns the records of a student for an event, oldest first.
func (s *LedgerService) History(ctx context.Context, eventID, studentID uint) ([]domain.AttendanceRecord, error) {
	history, err := s.repo.FindHistory(ctx, eventID, studentID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindHistory -> %w", err)
	}

	return history, nil
}

func (s *LedgerService) HasCheckedIn(ctx context.Context, eventID, studentID uint) (bool, error) {
	ok, err := s.repo.HasCheckIn(ctx, eventID, studentID)
	if err != nil {
		return false, fmt.Errorf("s.repo.HasCheckIn -> %w", err)
	}

	return ok, nil
}

func ledgerKey(eventID, studentID uint) string {
	return fmt.Sprintf("attendance:%d:%d", eventID, studentID)
}
