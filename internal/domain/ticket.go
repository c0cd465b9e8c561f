package domain

import "time"

// Ticket records a student's registration for an event. The row doubles as
// the attendance record once Scanned is set.
type Ticket struct {
	EventID        uint      `json:"eventId"`
	StudentID      uint      `json:"studentId"`
	Price          int       `json:"price"`
	DateIssued     time.Time `json:"dateIssued"`
	Scanned        bool      `json:"scanned"`
	Rating         *int      `json:"rating"`
	Feedback       *string   `json:"feedback"`
	CertificateURL *string   `json:"certificateUrl"`
	QRCode         string    `json:"qrCode"`
}

// DiscountBadge is a per-(student, team) discount entitlement with a
// consumable number of usage credits.
type DiscountBadge struct {
	StudentID    uint      `json:"studentId"`
	TeamID       uint      `json:"teamId"`
	Tier         string    `json:"tier"`
	UsageCredits int       `json:"usageCredits"`
	Points       int       `json:"points"`
	Expiry       time.Time `json:"expiry"`
}

// Usable reports whether the badge can still fund a discount at time now.
// A zero Expiry means the badge never expires.
func (b *DiscountBadge) Usable(now time.Time) bool {
	if b == nil || b.UsageCredits <= 0 {
		return false
	}
	if !b.Expiry.IsZero() && b.Expiry.Before(now) {
		return false
	}

	return true
}
