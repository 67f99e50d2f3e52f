package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
)

type ScanAuthorizer interface {
	Authorize(ctx context.Context, raw string, actorID uint, actorKind domain.ActorKind) (domain.AuthorizedScan, error)
}

type ScanRecorder interface {
	RecordScan(ctx context.Context, scan domain.AuthorizedScan) (domain.AttendanceRecord, error)
}

type ScanService struct {
	authority ScanAuthorizer
	ledger    ScanRecorder
}

func NewScanService(authority ScanAuthorizer, ledger ScanRecorder) *ScanService {
	return &ScanService{
		authority: authority,
		ledger:    ledger,
	}
}

// Submit authorizes a scan and, for students, appends the next ledger record.
// Stall scans only verify the QR code.
func (s *ScanService) Submit(ctx context.Context, raw string, actorID uint, actorKind domain.ActorKind) (domain.ScanResult, error) {
	scan, err := s.authority.Authorize(ctx, raw, actorID, actorKind)
	if err != nil {
		var rejection *domain.ScanRejection
		if errors.As(err, &rejection) {
			zap.L().Info("scan rejected",
				zap.String("reason", string(rejection.Reason)),
				zap.Uint("claimed_event_id", rejection.ClaimedEventID),
				zap.Uint("active_event_id", rejection.ActiveEventID),
				zap.Uint("actor_id", actorID),
				zap.String("actor_kind", string(actorKind)),
			)

			return domain.ScanResult{}, rejection
		}

		return domain.ScanResult{}, fmt.Errorf("s.authority.Authorize -> %w", err)
	}

	result := domain.ScanResult{
		Status:      domain.ScanStallVerified,
		SubjectID:   scan.SubjectID,
		SubjectKind: scan.SubjectKind,
		EventID:     scan.EventID,
	}
	if scan.SubjectKind != domain.SubjectStudent {
		return result, nil
	}

	record, err := s.ledger.RecordScan(ctx, scan)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("s.ledger.RecordScan -> %w", err)
	}

	result.Status = record.Status.ScanStatus()
	result.Record = &record

	return result, nil
}
