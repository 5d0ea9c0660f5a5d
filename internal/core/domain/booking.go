package domain

import (
	"fmt"
	"strings"
	"time"
)

const msPerDay = 24 * 60 * 60 * 1000

// Booking reserves a car for a date range.
type Booking struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"userId" bson:"userId"`
	CarID      string    `json:"carId" bson:"carId"`
	StartDate  time.Time `json:"startDate" bson:"startDate"`
	EndDate    time.Time `json:"endDate" bson:"endDate"`
	TotalPrice float64   `json:"totalPrice" bson:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// OwnedBy reports whether the identity may cancel or change the booking.
func (b *Booking) OwnedBy(id Identity) bool {
	return b.UserID == id.ID || id.IsStaff()
}

// RentalDays returns the length of [start, end) in days. The millisecond
// difference is divided by the length of a day, so fractions are kept.
func RentalDays(start, end time.Time) float64 {
	return float64(end.Sub(start).Milliseconds()) / msPerDay
}

// Quote computes the day count and total price for a rental. Ranges of zero
// or negative length are rejected.
func Quote(start, end time.Time, pricePerDay float64) (days, total float64, err error) {
	days = RentalDays(start, end)
	if days <= 0 {
		return 0, 0, fmt.Errorf("%w: endDate must be after startDate", ErrInvalidInput)
	}
	return days, days * pricePerDay, nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps and plain calendar dates (UTC midnight).
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s is not a valid date", ErrInvalidInput, field)
}
