package domain

import "time"

type SubjectKind string

const (
	SubjectStall   SubjectKind = "stall"
	SubjectStudent SubjectKind = "student"
)

func (k SubjectKind) Valid() bool {
	return k == SubjectStall || k == SubjectStudent
}

// Purpose returns the only purpose a token for this kind of subject may carry.
func (k SubjectKind) Purpose() Purpose {
	switch k {
	case SubjectStall:
		return PurposeStallCheckin
	case SubjectStudent:
		return PurposeStudentVerification
	}
	return ""
}

type Purpose string

const (
	PurposeStallCheckin        Purpose = "stall-checkin"
	PurposeStudentVerification Purpose = "student-verification"
)

// Claims is the decoded content of a verification token.
type Claims struct {
	TokenID     string      `json:"token_id"`
	SubjectID   uint        `json:"subject_id"`
	SubjectKind SubjectKind `json:"subject_kind"`
	EventID     uint        `json:"event_id"`
	Purpose     Purpose     `json:"purpose"`
	IssuedAt    time.Time   `json:"issued_at"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

type IssuedToken struct {
	Token     string      `json:"token"`
	SubjectID uint        `json:"subject_id"`
	Kind      SubjectKind `json:"subject_kind"`
	EventID   uint        `json:"event_id"`
	ExpiresAt time.Time   `json:"expires_at"`
}
