package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/clayworks/internal/services"
)

// serviceError maps service sentinel errors onto HTTP statuses. Anything
// unrecognized bubbles up to the app error handler as a 500.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrWorkshopNotFound),
		errors.Is(err, services.ErrRegistrationNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidOtp),
		errors.Is(err, services.ErrPaymentVerificationFailed),
		errors.Is(err, services.ErrAlreadyCancelled),
		errors.Is(err, services.ErrAlreadyDelivered),
		errors.Is(err, services.ErrInvalidSequence),
		errors.Is(err, services.ErrInvalidOrderType),
		errors.Is(err, services.ErrDuplicateRegistration),
		errors.Is(err, services.ErrInsufficientSeats),
		errors.Is(err, services.ErrWorkshopHasBookings),
		errors.Is(err, services.ErrInvalidSeatCount):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
