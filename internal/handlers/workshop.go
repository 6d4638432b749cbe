package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/clayworks/internal/middleware"
	"github.com/example/clayworks/internal/models"
	"github.com/example/clayworks/internal/services"
	"github.com/example/clayworks/internal/utils"
)

// WorkshopHandler manages workshop and registration endpoints.
type WorkshopHandler struct {
	db        *gorm.DB
	workshops *services.WorkshopService
}

// NewWorkshopHandler constructs WorkshopHandler.
func NewWorkshopHandler(db *gorm.DB, workshops *services.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{db: db, workshops: workshops}
}

// ListWorkshops returns paginated workshops, soonest first.
func (h *WorkshopHandler) ListWorkshops(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Workshop{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var workshops []models.Workshop
	if err := query.Order("date asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&workshops).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    workshops,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetWorkshop returns a single workshop by ID.
func (h *WorkshopHandler) GetWorkshop(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var workshop models.Workshop
	if err := h.db.First(&workshop, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "workshop not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": workshop})
}

// CreateWorkshop persists a new workshop (admin).
func (h *WorkshopHandler) CreateWorkshop(c *fiber.Ctx) error {
	var workshop models.Workshop
	if err := c.BodyParser(&workshop); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if workshop.Title == "" || workshop.Seats < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}
	if workshop.TotalSeats == 0 {
		workshop.TotalSeats = workshop.Seats
	}

	if err := h.db.Create(&workshop).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": workshop})
}

// UpdateWorkshop edits a workshop (admin). Rejected once anyone is booked.
func (h *WorkshopHandler) UpdateWorkshop(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.workshops.GuardMutable(id); err != nil {
		return serviceError(err)
	}

	var workshop models.Workshop
	if err := h.db.First(&workshop, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "workshop not found")
		}
		return err
	}

	if err := c.BodyParser(&workshop); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	workshop.ID = id

	if err := h.db.Save(&workshop).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": workshop})
}

// DeleteWorkshop removes a workshop (admin). Rejected once anyone is booked.
func (h *WorkshopHandler) DeleteWorkshop(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.workshops.GuardMutable(id); err != nil {
		return serviceError(err)
	}

	if err := h.db.Delete(&models.Workshop{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type registerWorkshopRequest struct {
	WorkshopID string `json:"workshop_id"`
	Seats      int    `json:"seats"`

	PaymentOrderRef  string `json:"payment_order_ref"`
	PaymentID        string `json:"payment_id"`
	PaymentSignature string `json:"payment_signature"`
}

// Register books seats on a workshop for the authenticated user.
func (h *WorkshopHandler) Register(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req registerWorkshopRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	workshopID, err := uuid.Parse(req.WorkshopID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid workshop id")
	}

	if req.Seats == 0 {
		req.Seats = 1
	}

	registration, err := h.workshops.Register(services.RegisterInput{
		UserID:           userID,
		WorkshopID:       workshopID,
		Seats:            req.Seats,
		PaymentOrderRef:  req.PaymentOrderRef,
		PaymentID:        req.PaymentID,
		PaymentSignature: req.PaymentSignature,
	})
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": registration})
}

type cancelWorkshopRequest struct {
	WorkshopID string `json:"workshop_id"`
}

// CancelRegistration releases the authenticated user's seats.
func (h *WorkshopHandler) CancelRegistration(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req cancelWorkshopRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	workshopID, err := uuid.Parse(req.WorkshopID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid workshop id")
	}

	if err := h.workshops.Cancel(userID, workshopID); err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListMyRegistrations returns the authenticated user's bookings.
func (h *WorkshopHandler) ListMyRegistrations(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var registrations []models.Registration
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&registrations).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": registrations})
}

// ListAllRegistrations returns every booking (admin).
func (h *WorkshopHandler) ListAllRegistrations(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Registration{})

	if workshopID := c.Query("workshop_id"); workshopID != "" {
		query = query.Where("workshop_id = ?", workshopID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var registrations []models.Registration
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&registrations).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    registrations,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
