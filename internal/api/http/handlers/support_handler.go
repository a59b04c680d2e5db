package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parcel-service/internal/api/dto"
	"github.com/spec-kit/parcel-service/internal/service"
)

// SupportHandler exposes support ticket and contact form endpoints.
type SupportHandler struct {
	support *service.SupportService
	contact *service.ContactService
}

// NewSupportHandler constructs handler.
func NewSupportHandler(support *service.SupportService, contact *service.ContactService) *SupportHandler {
	return &SupportHandler{support: support, contact: contact}
}

// Submit handles POST /api/support/submit.
func (h *SupportHandler) Submit(c *fiber.Ctx) error {
	var req dto.SupportRequestPayload
	if err := parseBody(c, &req); err != nil {
		return err
	}
	request, err := h.support.Submit(c.UserContext(), service.SupportInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Subject:    req.Subject,
		Message:    req.Message,
		IssueType:  req.IssueType,
		Priority:   req.Priority,
		TrackingID: req.TrackingID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.SupportSubmittedResponse{
		Message: "Support request submitted successfully. You will receive a confirmation email shortly.",
		ID:      request.ID,
	})
}

// ByUser handles GET /api/support/user/:email.
func (h *SupportHandler) ByUser(c *fiber.Ctx) error {
	requests, err := h.support.ListByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSupportList(requests))
}

// All handles GET /api/support/admin/all.
func (h *SupportHandler) All(c *fiber.Ctx) error {
	requests, err := h.support.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSupportList(requests))
}

// UpdateStatus handles PUT /api/support/admin/:id/status.
func (h *SupportHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SupportStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.support.UpdateStatus(c.UserContext(), id, req.Status, req.AdminResponse); err != nil {
		return err
	}
	return message(c, "Support request status updated successfully")
}

// Contact handles POST /api/contact/submit.
func (h *SupportHandler) Contact(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	err := h.contact.Submit(c.UserContext(), service.ContactInput{
		Name:     req.Name,
		Email:    req.Email,
		Subject:  req.Subject,
		Message:  req.Message,
		Type:     req.FeedbackType,
		Priority: req.Priority,
	})
	if err != nil {
		return err
	}
	return message(c, "Feedback sent successfully! We will get back to you soon.")
}
