package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// ParcelRating is a customer's score for a delivered parcel. It references
// the parcel by tracking ID only.
type ParcelRating struct {
	ID         int64
	UserEmail  string
	TrackingID string
	Rating     int
	Remarks    string
	CreatedAt  time.Time
}

// IsLow reports ratings of two stars or fewer.
func (r ParcelRating) IsLow() bool { return r.Rating <= 2 }

// IsHigh reports ratings of four stars or more.
func (r ParcelRating) IsHigh() bool { return r.Rating >= 4 }

// RatingStats summarizes the rating table.
type RatingStats struct {
	Total   int64
	ByScore map[int]int64
	Low     int64
	High    int64
	Average float64
}
