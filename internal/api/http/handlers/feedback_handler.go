package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parcel-service/internal/api/dto"
	"github.com/spec-kit/parcel-service/internal/service"
)

// FeedbackHandler exposes parcel rating endpoints.
type FeedbackHandler struct {
	ratings *service.RatingService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(ratings *service.RatingService) *FeedbackHandler {
	return &FeedbackHandler{ratings: ratings}
}

// Submit handles POST /api/feedback/submit.
func (h *FeedbackHandler) Submit(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	rating, err := h.ratings.Submit(c.UserContext(), service.RatingInput{
		UserEmail:  req.UserEmail,
		TrackingID: req.TrackingID,
		Rating:     req.Rating,
		Remarks:    req.Remarks,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FeedbackSubmittedResponse{
		Message:    "Feedback submitted successfully!",
		FeedbackID: rating.ID,
		Status:     "success",
		Timestamp:  rating.CreatedAt,
	})
}

// CanSubmit handles GET /api/feedback/can-give-feedback/:trackingId/:userEmail.
func (h *FeedbackHandler) CanSubmit(c *fiber.Ctx) error {
	eligibility, err := h.ratings.CanSubmit(c.UserContext(), c.Params("trackingId"), c.Params("userEmail"))
	if err != nil {
		return err
	}
	return c.JSON(eligibility)
}

// ByParcel handles GET /api/feedback/parcel/:trackingId.
func (h *FeedbackHandler) ByParcel(c *fiber.Ctx) error {
	ratings, err := h.ratings.ListByTrackingID(c.UserContext(), c.Params("trackingId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFeedbackList(ratings))
}

// ByUser handles GET /api/feedback/user/:userEmail.
func (h *FeedbackHandler) ByUser(c *fiber.Ctx) error {
	ratings, err := h.ratings.ListByUser(c.UserContext(), c.Params("userEmail"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFeedbackList(ratings))
}

// Stats handles GET /api/feedback/stats.
func (h *FeedbackHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.ratings.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFeedbackStats(stats))
}

// Recent handles GET /api/feedback/recent.
func (h *FeedbackHandler) Recent(c *fiber.Ctx) error {
	ratings, err := h.ratings.Recent(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFeedbackList(ratings))
}

// Delete handles DELETE /api/feedback/delete/:id.
func (h *FeedbackHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.ratings.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Feedback deleted successfully!")
}
