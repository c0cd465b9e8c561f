package domain

import "time"

type Event struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	BasePrice        float64   `json:"basePrice"`
	TeamID           uint      `json:"teamId"`
	AcceptanceStatus string    `json:"acceptanceStatus"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type Team struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
