package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateRideRequest struct {
	FromLoc        string  `json:"fromLoc"`
	ToLoc          string  `json:"toLoc"`
	Price          float64 `json:"price"`
	SeatsAvailable int     `json:"seatsAvailable"`
	ArrivalTime    string  `json:"arrivalTime"`
	Service        string  `json:"service"`
}

func (req *CreateRideRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FromLoc, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.ToLoc, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Price, validation.Min(0.0)),
		validation.Field(&req.SeatsAvailable, validation.Required, validation.Min(1)),
		validation.Field(&req.Service, validation.Required, validation.Length(1, 50)),
	)
}
