package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/clayworks/internal/models"
)

// TrackingStages is the fixed delivery progression. Transitions are strictly
// single-step forward; the stage index is the only thing compared.
var TrackingStages = []string{
	"Processing",
	"Shipped",
	"Reached at final station",
	"Out for delivery",
	"Delivered",
}

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrAlreadyCancelled = errors.New("order already cancelled")
	ErrAlreadyDelivered = errors.New("order already delivered")
	ErrInvalidSequence  = errors.New("invalid tracking sequence")
	ErrInvalidOrderType = errors.New("invalid order type")
)

func stageIndex(stage string) (int, bool) {
	for i, s := range TrackingStages {
		if s == stage {
			return i, true
		}
	}
	return 0, false
}

// OrderService owns the order lifecycle: OTP-gated placement, forward-only
// tracking advancement and one-way cancellation.
type OrderService struct {
	db       *gorm.DB
	otp      *OtpService
	payments *PaymentVerifier
	mailer   *Mailer
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *gorm.DB, otp *OtpService, payments *PaymentVerifier, mailer *Mailer) *OrderService {
	return &OrderService{db: db, otp: otp, payments: payments, mailer: mailer}
}

// PlaceOrderInput carries everything needed for an OTP-gated checkout.
type PlaceOrderInput struct {
	Email string
	Otp   string

	Type   string
	Amount float64

	// Gateway fields, required for STANDARD orders with a positive amount.
	PaymentOrderRef  string
	PaymentID        string
	PaymentSignature string

	// Custom-order payload.
	ProductName     string
	Description     string
	Material        string
	ReferenceImages []string

	ShippingAddress string
	ShippingCity    string
	ShippingZip     string
	Phone           string
}

// Place verifies the OTP and, for paid standard orders, the payment
// signature, then persists the order with tracking at the first stage. The
// OTP consumption and the order insert commit together; a payment failure
// rolls both back so the code stays usable for a corrected retry.
// Confirmation email is dispatched after commit and never affects the result.
func (s *OrderService) Place(in PlaceOrderInput) (*models.Order, error) {
	if in.Type != models.OrderTypeStandard && in.Type != models.OrderTypeCustom {
		return nil, ErrInvalidOrderType
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.otp.Consume(tx, in.Email, in.Otp, OtpPurposeOrder)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:          user.ID,
			PlacedAt:        time.Now(),
			CustomerName:    user.Name,
			CustomerEmail:   user.Email,
			CustomerPhone:   in.Phone,
			ShippingAddress: in.ShippingAddress,
			ShippingCity:    in.ShippingCity,
			ShippingZip:     in.ShippingZip,
			Type:            in.Type,
			Amount:          in.Amount,
			Status:          models.OrderStatusPlaced,
			TrackingStatus:  TrackingStages[0],
			ProductName:     in.ProductName,
		}

		if order.CustomerPhone == "" {
			order.CustomerPhone = user.Phone
		}
		if order.ShippingAddress == "" {
			order.ShippingAddress = user.Address
			order.ShippingCity = user.City
			order.ShippingZip = user.Zip
		}

		if in.Type == models.OrderTypeCustom {
			order.Description = in.Description
			order.Material = in.Material
			order.ReferenceImages = in.ReferenceImages
		}

		// Custom orders are quote-pending and free transactions carry no
		// gateway payment, so only paid standard orders are verified.
		if in.Type == models.OrderTypeStandard && in.Amount > 0 {
			if err := s.payments.Verify(in.PaymentOrderRef, in.PaymentID, in.PaymentSignature); err != nil {
				return err
			}
			paymentID := in.PaymentID
			order.PaymentID = &paymentID
		}

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	subject, body := OrderConfirmationEmail(order.CustomerName, order.ProductName, order.Amount)
	s.mailer.SendAsync(order.CustomerEmail, subject, body)
	s.mailer.NotifyAdmin("New order placed", body)

	return &order, nil
}

// AdvanceTracking moves an order to the requested stage, which must be
// exactly the next one in TrackingStages. Cancelled orders are frozen.
func (s *OrderService) AdvanceTracking(orderID uuid.UUID, requested string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.Status == models.OrderStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	current, ok := stageIndex(order.TrackingStatus)
	if !ok {
		return nil, ErrInvalidSequence
	}
	if current == len(TrackingStages)-1 {
		return nil, ErrAlreadyDelivered
	}

	next, ok := stageIndex(requested)
	if !ok || next != current+1 {
		return nil, ErrInvalidSequence
	}

	if err := s.db.Model(&order).Update("tracking_status", requested).Error; err != nil {
		return nil, err
	}
	order.TrackingStatus = requested
	return &order, nil
}

// Cancel moves an order to its terminal CANCELLED status. Customers must
// present a valid cancellation OTP; admins are already behind their own
// authentication and skip the second factor. Repeated cancellations are
// rejected, not silently accepted.
func (s *OrderService) Cancel(orderID uuid.UUID, actor, email, otp string) (*models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.Status == models.OrderStatusCancelled {
			return ErrAlreadyCancelled
		}
		if order.TrackingStatus == TrackingStages[len(TrackingStages)-1] {
			return ErrAlreadyDelivered
		}

		if actor != models.RoleAdmin {
			if _, err := s.otp.Consume(tx, email, otp, OtpPurposeCancel); err != nil {
				return err
			}
		}

		return tx.Model(&order).Updates(map[string]interface{}{
			"status":       models.OrderStatusCancelled,
			"cancelled_by": actor,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCancelled
	order.CancelledBy = actor

	subject, body := OrderCancellationEmail(order.CustomerName, order.ID.String(), actor == models.RoleAdmin)
	s.mailer.SendAsync(order.CustomerEmail, subject, body)

	return &order, nil
}
