package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parcel-service/internal/api/dto"
	"github.com/spec-kit/parcel-service/internal/service"
)

// ParcelsHandler exposes the parcel lifecycle endpoints.
type ParcelsHandler struct {
	parcels *service.ParcelService
}

// NewParcelsHandler constructs handler.
func NewParcelsHandler(parcels *service.ParcelService) *ParcelsHandler {
	return &ParcelsHandler{parcels: parcels}
}

// Add handles POST /api/parcels/add.
func (h *ParcelsHandler) Add(c *fiber.Ctx) error {
	var req dto.ParcelRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	parcel, err := h.parcels.Register(c.UserContext(), parcelInput(req))
	if err != nil {
		return err
	}
	return c.JSON(dto.ParcelCreatedResponse{
		Message:    "Parcel added successfully!",
		TrackingID: parcel.TrackingID,
		Parcel:     dto.NewParcelResponse(parcel),
	})
}

// All handles GET /api/parcels/all.
func (h *ParcelsHandler) All(c *fiber.Ctx) error {
	parcels, err := h.parcels.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewParcelList(parcels))
}

// Track handles GET /api/parcels/track/:trackingId.
func (h *ParcelsHandler) Track(c *fiber.Ctx) error {
	parcel, err := h.parcels.Track(c.UserContext(), c.Params("trackingId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewParcelResponse(parcel))
}

// History handles GET /api/parcels/track/:trackingId/history.
func (h *ParcelsHandler) History(c *fiber.Ctx) error {
	changes, err := h.parcels.History(c.UserContext(), c.Params("trackingId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStatusChangeList(changes))
}

// Update handles PUT /api/parcels/update/:id.
func (h *ParcelsHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ParcelRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	details := service.ParcelDetails{ParcelInput: parcelInput(req), Status: req.Status}
	if err := h.parcels.UpdateDetails(c.UserContext(), id, details); err != nil {
		return err
	}
	return message(c, "Parcel updated successfully!")
}

// UpdateStatus handles PUT /api/parcels/status/:id.
func (h *ParcelsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	update := service.StatusUpdate{Status: req.Status, Location: req.CurrentLocation, Notes: req.Notes}
	if err := h.parcels.UpdateStatus(c.UserContext(), id, update); err != nil {
		return err
	}
	return message(c, "Parcel status updated successfully!")
}

// Delete handles DELETE /api/parcels/delete/:id.
func (h *ParcelsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.parcels.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Parcel deleted successfully!")
}

// ByUser handles GET /api/parcels/user/:email.
func (h *ParcelsHandler) ByUser(c *fiber.Ctx) error {
	parcels, err := h.parcels.ListByUser(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewParcelList(parcels))
}

// ByStatus handles GET /api/parcels/status/:status.
func (h *ParcelsHandler) ByStatus(c *fiber.Ctx) error {
	parcels, err := h.parcels.ListByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewParcelList(parcels))
}

// Stats handles GET /api/parcels/stats.
func (h *ParcelsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.parcels.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// Recent handles GET /api/parcels/recent.
func (h *ParcelsHandler) Recent(c *fiber.Ctx) error {
	parcels, err := h.parcels.Recent(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewParcelList(parcels))
}

// Search handles GET /api/parcels/search?q=.
func (h *ParcelsHandler) Search(c *fiber.Ctx) error {
	parcels, err := h.parcels.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewParcelList(parcels))
}

func parcelInput(req dto.ParcelRequest) service.ParcelInput {
	return service.ParcelInput{
		Sender:                req.Sender(),
		Recipient:             req.Recipient(),
		Description:           req.Description,
		Weight:                req.Weight,
		Dimensions:            req.Dimensions,
		Category:              req.Category,
		Value:                 req.Value,
		CurrentLocation:       req.CurrentLocation,
		Notes:                 req.Notes,
		Priority:              req.Priority,
		ServiceType:           req.ServiceType,
		PackageSize:           req.PackageSize,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		DeliveryAttempts:      req.DeliveryAttempts,
		IsFragile:             req.IsFragile,
		RequiresSignature:     req.RequiresSignature,
		DeliveryInstructions:  req.DeliveryInstructions,
	}
}
