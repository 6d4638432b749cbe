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

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db     *gorm.DB
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, orders *services.OrderService) *OrderHandler {
	return &OrderHandler{db: db, orders: orders}
}

type buyRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`

	Type   string  `json:"type"`
	Amount float64 `json:"amount"`

	PaymentOrderRef  string `json:"payment_order_ref"`
	PaymentID        string `json:"payment_id"`
	PaymentSignature string `json:"payment_signature"`

	ProductName     string   `json:"product_name"`
	Description     string   `json:"description"`
	Material        string   `json:"material"`
	ReferenceImages []string `json:"reference_images"`

	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingZip     string `json:"shipping_zip"`
	Phone           string `json:"phone"`
}

// Buy places a standard or custom order behind an OTP check.
func (h *OrderHandler) Buy(c *fiber.Ctx) error {
	var req buyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Otp == "" || req.Type == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}
	if req.Amount < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amount must not be negative")
	}

	order, err := h.orders.Place(services.PlaceOrderInput{
		Email:            req.Email,
		Otp:              req.Otp,
		Type:             req.Type,
		Amount:           req.Amount,
		PaymentOrderRef:  req.PaymentOrderRef,
		PaymentID:        req.PaymentID,
		PaymentSignature: req.PaymentSignature,
		ProductName:      req.ProductName,
		Description:      req.Description,
		Material:         req.Material,
		ReferenceImages:  req.ReferenceImages,
		ShippingAddress:  req.ShippingAddress,
		ShippingCity:     req.ShippingCity,
		ShippingZip:      req.ShippingZip,
		Phone:            req.Phone,
	})
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "order placed",
		"data": fiber.Map{
			"id":              order.ID,
			"status":          order.Status,
			"tracking_status": order.TrackingStatus,
			"placed_at":       order.PlacedAt,
			"amount":          order.Amount,
		},
	})
}

type cancelOrderRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

// Cancel cancels an order. Customers must supply a cancellation OTP; the
// actor is taken from the auth token, never from the request body.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req cancelOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	actor := models.RoleCustomer
	if role, ok := middleware.GetCurrentUserRole(c); ok && role == models.RoleAdmin {
		actor = models.RoleAdmin
	}

	if actor == models.RoleCustomer {
		if req.Email == "" || req.Otp == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email and otp are required")
		}
		// The OTP proves control of the mailbox; the order must belong
		// to that same address.
		var order models.Order
		if err := h.db.First(&order, "id = ? AND customer_email = ?", id, req.Email).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
	}

	order, err := h.orders.Cancel(id, actor, req.Email, req.Otp)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":           order.ID,
			"status":       order.Status,
			"cancelled_by": order.CancelledBy,
		},
	})
}

type trackingRequest struct {
	TrackingStatus string `json:"tracking_status"`
}

// UpdateTracking advances an order to the next delivery stage (admin only).
func (h *OrderHandler) UpdateTracking(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req trackingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.AdvanceTracking(id, req.TrackingStatus)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":              order.ID,
			"tracking_status": order.TrackingStatus,
		},
	})
}

// ListMyOrders returns orders for the authenticated user.
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Where("user_id = ?", userID).Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order for the authenticated user.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	query := h.db.Where("id = ?", id)
	if role, _ := middleware.GetCurrentUserRole(c); role != models.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ListAllOrders returns every order with filtering and pagination (admin).
func (h *OrderHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if orderType := c.Query("type"); orderType != "" {
		query = query.Where("type = ?", orderType)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where(
			"customer_email ILIKE ? OR customer_name ILIKE ?",
			"%"+search+"%", "%"+search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
