package domain

import "time"

type AttendanceStatus string

const (
	CheckedIn  AttendanceStatus = "checked-in"
	CheckedOut AttendanceStatus = "checked-out"
)

type Presence string

const (
	Present Presence = "present"
	Absent  Presence = "absent"
)

// AttendanceRecord is one row of the append-only ledger. ScannedAt orders
// the records of an (event, student) pair; the last one decides presence.
type AttendanceRecord struct {
	ID            uint             `json:"id"`
	EventID       uint             `json:"event_id"`
	StudentID     uint             `json:"student_id"`
	Status        AttendanceStatus `json:"status"`
	CheckInAt     time.Time        `json:"check_in_at"`
	CheckOutAt    *time.Time       `json:"check_out_at,omitempty"`
	ScannedAt     time.Time        `json:"scanned_at"`
	ScannedByID   uint             `json:"scanned_by_id"`
	ScannedByKind ActorKind        `json:"scanned_by_kind"`
}

// NextRecord computes the record a scan appends after latest (nil when the
// student has no record for the event yet).
func NextRecord(latest *AttendanceRecord, scan AuthorizedScan, at time.Time) AttendanceRecord {
	// Keep the ledger ordered even if clocks disagree between replicas.
	if latest != nil && !at.After(latest.ScannedAt) {
		at = latest.ScannedAt.Add(time.Microsecond)
	}

	next := AttendanceRecord{
		EventID:       scan.EventID,
		StudentID:     scan.SubjectID,
		Status:        CheckedIn,
		CheckInAt:     at,
		ScannedAt:     at,
		ScannedByID:   scan.ActorID,
		ScannedByKind: scan.ActorKind,
	}

	if latest != nil && latest.Status == CheckedIn {
		checkOut := at
		next.Status = CheckedOut
		next.CheckInAt = latest.CheckInAt
		next.CheckOutAt = &checkOut
	}

	return next
}

func PresenceOf(latest *AttendanceRecord) Presence {
	if latest != nil && latest.Status == CheckedIn {
		return Present
	}
	return Absent
}

// EverCheckedIn reports whether history holds at least one check-in.
func EverCheckedIn(history []AttendanceRecord) bool {
	for _, r := range history {
		if r.Status == CheckedIn {
			return true
		}
	}
	return false
}

func (s AttendanceStatus) ScanStatus() ScanStatus {
	if s == CheckedOut {
		return ScanCheckedOut
	}
	return ScanCheckedIn
}
