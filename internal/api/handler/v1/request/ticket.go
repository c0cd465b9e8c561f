package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type RegisterTicketRequest struct {
	EventID uint `json:"eventId"`
}

func (req *RegisterTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, validation.Min(uint(1))),
	)
}

type VerifyQRRequest struct {
	EventID   uint `json:"eventId"`
	StudentID uint `json:"studentId"`
}

func (req *VerifyQRRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.StudentID, validation.Required, validation.Min(uint(1))),
	)
}

type RateEventRequest struct {
	EventID  uint   `json:"eventId"`
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

func (req *RateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Rating, validation.Min(0), validation.Max(5)),
		validation.Field(&req.Feedback, validation.Length(0, 500)),
	)
}

type IssueCertificateRequest struct {
	EventID        uint   `json:"eventId"`
	StudentID      uint   `json:"studentId"`
	CertificateURL string `json:"certificateUrl"`
}

func (req *IssueCertificateRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.StudentID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.CertificateURL, validation.Required, is.URL),
	)
}
