// Package broadcast fans ledger and registry notices out to downstream
// collaborators. Publishing is best effort: a notice is sent after the write
// it describes has committed, and a failed publish never undoes that write.
package broadcast

import (
	"context"
	"errors"
	"time"

	"github.com/vietanh2810/event-attendance-api/internal/domain"
)

type NoticeType string

const (
	NoticeAttendanceRecorded NoticeType = "attendance.recorded"
	NoticeEventActivated     NoticeType = "event.activated"
)

type Notice struct {
	Type      NoticeType              `json:"type"`
	EventID   uint                    `json:"event_id"`
	StudentID uint                    `json:"student_id,omitempty"`
	RecordID  uint                    `json:"record_id,omitempty"`
	Status    domain.AttendanceStatus `json:"status,omitempty"`
	ActorID   uint                    `json:"actor_id,omitempty"`
	ActorKind domain.ActorKind        `json:"actor_kind,omitempty"`
	At        time.Time               `json:"at"`
}

func AttendanceNotice(r domain.AttendanceRecord) Notice {
	return Notice{
		Type:      NoticeAttendanceRecorded,
		EventID:   r.EventID,
		StudentID: r.StudentID,
		RecordID:  r.ID,
		Status:    r.Status,
		ActorID:   r.ScannedByID,
		ActorKind: r.ScannedByKind,
		At:        r.ScannedAt,
	}
}

func ActivationNotice(e domain.Event, at time.Time) Notice {
	return Notice{
		Type:    NoticeEventActivated,
		EventID: e.ID,
		At:      at,
	}
}

type Publisher interface {
	Publish(ctx context.Context, n Notice) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Notice) error {
	return nil
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, n Notice) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
