package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type FeedbackRequest struct {
	StallToken string `json:"stall_token"`
	Rating     int    `json:"rating" example:"5"`
	Comment    string `json:"comment"`
}

func (req *FeedbackRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.StallToken, validation.Required),
		validation.Field(&req.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Comment, validation.Length(0, 1000)),
	)
}

type VoteRequest struct {
	StallID uint `json:"stall_id"`
}

func (req *VoteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.StallID, validation.Required),
	)
}
