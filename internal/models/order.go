package models

import (
	"time"

	"github.com/google/uuid"
)

// Order types.
const (
	OrderTypeStandard = "STANDARD"
	OrderTypeCustom   = "CUSTOM"
)

// Lifecycle statuses. CANCELLED is terminal.
const (
	OrderStatusPlaced    = "PLACED"
	OrderStatusCancelled = "CANCELLED"
)

type Order struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User     *User     `json:"user,omitempty"`
	PlacedAt time.Time `json:"placed_at"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `gorm:"index" json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingZip     string `json:"shipping_zip"`

	Type           string  `json:"type"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	TrackingStatus string  `json:"tracking_status"`
	CancelledBy    string  `json:"cancelled_by,omitempty"`

	// Set only when a gateway transaction was verified.
	PaymentID *string `json:"payment_id,omitempty"`

	// Custom-order payload, empty for STANDARD orders.
	ProductName     string   `json:"product_name"`
	Description     string   `json:"description"`
	Material        string   `json:"material"`
	ReferenceImages []string `gorm:"serializer:json" json:"reference_images,omitempty"`
}
