package domain

type DenialReason string

const (
	DenyEventFeedbackDisabled DenialReason = "EventFeedbackDisabled"
	DenyEventVotingDisabled   DenialReason = "EventVotingDisabled"
	DenyNotCheckedIn          DenialReason = "NotCheckedIn"
	DenyAlreadySubmitted      DenialReason = "AlreadySubmitted"
	DenyEventNotActive        DenialReason = "EventNotActive"
	DenyStallNotInEvent       DenialReason = "StallNotInEvent"
)

type Verdict struct {
	Allowed bool         `json:"allowed"`
	Reason  DenialReason `json:"reason,omitempty"`
}

func Allow() Verdict {
	return Verdict{Allowed: true}
}

func Deny(reason DenialReason) Verdict {
	return Verdict{Reason: reason}
}

// Err turns a denial into an *EligibilityError, nil when allowed.
func (v Verdict) Err() error {
	if v.Allowed {
		return nil
	}
	return &EligibilityError{Reason: v.Reason}
}

type EligibilityError struct {
	Reason DenialReason
}

func (e *EligibilityError) Error() string {
	return "not eligible: " + string(e.Reason)
}
