package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/clayworks/internal/config"
)

// PaymentHandler exposes the public gateway configuration.
type PaymentHandler struct {
	cfg *config.Config
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{cfg: cfg}
}

// GatewayConfig returns the public key id the storefront needs to open the
// gateway checkout widget. The secret never leaves the server.
func (h *PaymentHandler) GatewayConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"key_id": h.cfg.PaymentKeyID,
		},
	})
}
