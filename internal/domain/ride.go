package domain

import "time"

// Ride is a carpool offer with a finite number of passenger seats.
// SeatsAvailable always equals Capacity minus the number of memberships.
type Ride struct {
	ID             uint      `json:"id"`
	FromLoc        string    `json:"fromLoc"`
	ToLoc          string    `json:"toLoc"`
	Price          float64   `json:"price"`
	SeatsAvailable int       `json:"seatsAvailable"`
	Capacity       int       `json:"capacity"`
	ArrivalTime    time.Time `json:"arrivalTime"`
	Service        string    `json:"service"`
	CreatedBy      uint      `json:"createdBy"`
	Passengers     []uint    `json:"passengers,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RideFilter narrows ride listings; zero-value fields are ignored.
type RideFilter struct {
	FromLoc string
	ToLoc   string
	Service string
}
