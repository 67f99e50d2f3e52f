package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// ScanRequest carries the raw QR payload. The scanning actor is the caller's
// session, never a field of the body.
type ScanRequest struct {
	Token string `json:"token"`
}

func (req *ScanRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Token, validation.Required, validation.Length(1, 2048)),
	)
}
