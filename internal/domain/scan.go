package domain

import "fmt"

type RejectReason string

const (
	ReasonBadSignature    RejectReason = "BadSignature"
	ReasonExpired         RejectReason = "Expired"
	ReasonUnknownSubject  RejectReason = "UnknownSubject"
	ReasonNoActiveEvent   RejectReason = "NoActiveEvent"
	ReasonStaleEventScope RejectReason = "StaleEventScope"
	ReasonUnknownActor    RejectReason = "UnknownActor"
)

// ScanRejection is returned as an error by the scan pipeline. For
// StaleEventScope it carries the event the token was minted under and the
// event that is active now.
type ScanRejection struct {
	Reason         RejectReason
	ClaimedEventID uint
	ActiveEventID  uint
}

func (r *ScanRejection) Error() string {
	if r.Reason == ReasonStaleEventScope {
		return fmt.Sprintf("scan rejected: %s (claimed event %d, active event %d)", r.Reason, r.ClaimedEventID, r.ActiveEventID)
	}
	return fmt.Sprintf("scan rejected: %s", r.Reason)
}

func Reject(reason RejectReason) *ScanRejection {
	return &ScanRejection{Reason: reason}
}

func RejectStaleScope(claimed, active uint) *ScanRejection {
	return &ScanRejection{
		Reason:         ReasonStaleEventScope,
		ClaimedEventID: claimed,
		ActiveEventID:  active,
	}
}

// SubjectScope is a token whose subject exists and whose event is the active one.
type SubjectScope struct {
	SubjectID   uint
	SubjectKind SubjectKind
	EventID     uint
}

type AuthorizedScan struct {
	SubjectID   uint
	SubjectKind SubjectKind
	EventID     uint
	ActorID     uint
	ActorKind   ActorKind
}

type ScanStatus string

const (
	ScanCheckedIn     ScanStatus = "checked-in"
	ScanCheckedOut    ScanStatus = "checked-out"
	ScanStallVerified ScanStatus = "stall-verified"
)

type ScanResult struct {
	Status      ScanStatus        `json:"status"`
	SubjectID   uint              `json:"subject_id"`
	SubjectKind SubjectKind       `json:"subject_kind"`
	EventID     uint              `json:"event_id"`
	Record      *AttendanceRecord `json:"record,omitempty"`
}
