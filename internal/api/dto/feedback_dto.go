package dto

import (
	"time"

	"github.com/spec-kit/parcel-service/internal/domain"
)

// FeedbackRequest is a parcel rating submission.
type FeedbackRequest struct {
	UserEmail  string `json:"userEmail"`
	TrackingID string `json:"trackingId"`
	Rating     int    `json:"rating"`
	Remarks    string `json:"remarks"`
}

// FeedbackResponse is a stored rating.
type FeedbackResponse struct {
	ID         int64     `json:"id"`
	UserEmail  string    `json:"userEmail"`
	TrackingID string    `json:"trackingId"`
	Rating     int       `json:"rating"`
	Remarks    string    `json:"remarks"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FeedbackSubmittedResponse is returned by POST /feedback/submit.
type FeedbackSubmittedResponse struct {
	Message    string    `json:"message"`
	FeedbackID int64     `json:"feedbackId"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// FeedbackStatsResponse keeps the per-score keys existing dashboards read.
type FeedbackStatsResponse struct {
	TotalFeedback   int64   `json:"totalFeedback"`
	Rating1Count    int64   `json:"rating1Count"`
	Rating2Count    int64   `json:"rating2Count"`
	Rating3Count    int64   `json:"rating3Count"`
	Rating4Count    int64   `json:"rating4Count"`
	Rating5Count    int64   `json:"rating5Count"`
	LowRatingCount  int64   `json:"lowRatingCount"`
	HighRatingCount int64   `json:"highRatingCount"`
	AverageRating   float64 `json:"averageRating"`
}

// NewFeedbackList maps ratings.
func NewFeedbackList(ratings []domain.ParcelRating) []FeedbackResponse {
	items := make([]FeedbackResponse, 0, len(ratings))
	for _, r := range ratings {
		items = append(items, FeedbackResponse{
			ID:         r.ID,
			UserEmail:  r.UserEmail,
			TrackingID: r.TrackingID,
			Rating:     r.Rating,
			Remarks:    r.Remarks,
			CreatedAt:  r.CreatedAt,
		})
	}
	return items
}

// NewFeedbackStats maps aggregate rating stats.
func NewFeedbackStats(s domain.RatingStats) FeedbackStatsResponse {
	return FeedbackStatsResponse{
		TotalFeedback:   s.Total,
		Rating1Count:    s.ByScore[1],
		Rating2Count:    s.ByScore[2],
		Rating3Count:    s.ByScore[3],
		Rating4Count:    s.ByScore[4],
		Rating5Count:    s.ByScore[5],
		LowRatingCount:  s.Low,
		HighRatingCount: s.High,
		AverageRating:   s.Average,
	}
}
