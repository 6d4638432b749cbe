package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/clayworks/internal/models"
)

func newOrderService(t *testing.T) (*gorm.DB, *OtpService, *PaymentVerifier, *OrderService) {
	t.Helper()
	db := newTestDB(t)
	mailer := newTestMailer()
	otp := NewOtpService(db, mailer)
	payments := NewPaymentVerifier("test-secret")
	orders := NewOrderService(db, otp, payments, mailer)
	return db, otp, payments, orders
}

func placeStandardOrder(t *testing.T, db *gorm.DB, otp *OtpService, payments *PaymentVerifier, orders *OrderService, email string) *models.Order {
	t.Helper()

	code := issueOtp(t, db, otp, email, OtpPurposeOrder)
	order, err := orders.Place(PlaceOrderInput{
		Email:            email,
		Otp:              code,
		Type:             models.OrderTypeStandard,
		Amount:           500,
		ProductName:      "Speckled stoneware mug",
		PaymentOrderRef:  "order_abc",
		PaymentID:        "pay_xyz",
		PaymentSignature: payments.Sign("order_abc", "pay_xyz"),
	})
	require.NoError(t, err)
	return order
}

func TestPlaceStandardOrder(t *testing.T) {
	db, otp, payments, orders := newOrderService(t)
	createTestUser(t, db, "alice@example.com")

	order := placeStandardOrder(t, db, otp, payments, orders, "alice@example.com")

	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, "Processing", order.TrackingStatus)
	require.NotNil(t, order.PaymentID)
	assert.Equal(t, "pay_xyz", *order.PaymentID)

	// Shipping falls back to the user's profile when not supplied.
	assert.Equal(t, "12 Kiln Lane", order.ShippingAddress)

	// The checkout code is consumed; a second order with the same code
	// is rejected.
	_, err := orders.Place(PlaceOrderInput{
		Email:            "alice@example.com",
		Otp:              "482913",
		Type:             models.OrderTypeStandard,
		Amount:           500,
		PaymentOrderRef:  "order_abc",
		PaymentID:        "pay_xyz",
		PaymentSignature: payments.Sign("order_abc", "pay_xyz"),
	})
	assert.ErrorIs(t, err, ErrInvalidOtp)
}

func TestPlaceCustomOrderSkipsPaymentCheck(t *testing.T) {
	db, otp, _, orders := newOrderService(t)
	createTestUser(t, db, "alice@example.com")

	code := issueOtp(t, db, otp, "alice@example.com", OtpPurposeOrder)
	order, err := orders.Place(PlaceOrderInput{
		Email:           "alice@example.com",
		Otp:             code,
		Type:            models.OrderTypeCustom,
		Amount:          0,
		Description:     "Dinner set for eight, matte white glaze",
		Material:        "porcelain",
		ReferenceImages: []string{"https://example.com/ref1.jpg"},
	})
	require.NoError(t, err)

	assert.Nil(t, order.PaymentID)
	assert.Equal(t, "porcelain", order.Material)
	assert.Equal(t, []string{"https://example.com/ref1.jpg"}, order.ReferenceImages)
}

func TestPlaceOrderRejectsBadSignature(t *testing.T) {
	db, otp, _, orders := newOrderService(t)
	createTestUser(t, db, "alice@example.com")

	code := issueOtp(t, db, otp, "alice@example.com", OtpPurposeOrder)
	_, err := orders.Place(PlaceOrderInput{
		Email:            "alice@example.com",
		Otp:              code,
		Type:             models.OrderTypeStandard,
		Amount:           500,
		PaymentOrderRef:  "order_abc",
		PaymentID:        "pay_xyz",
		PaymentSignature: "forged",
	})
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)

	// Nothing was persisted and the rollback kept the code usable.
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = otp.Consume(db, "alice@example.com", code, OtpPurposeOrder)
	assert.NoError(t, err)
}

func TestPlaceOrderRejectsUnknownType(t *testing.T) {
	_, _, _, orders := newOrderService(t)

	_, err := orders.Place(PlaceOrderInput{Email: "alice@example.com", Otp: "123456", Type: "SUBSCRIPTION"})
	assert.ErrorIs(t, err, ErrInvalidOrderType)
}

func TestAdvanceTrackingStrictOrder(t *testing.T) {
	db, otp, payments, orders := newOrderService(t)
	createTestUser(t, db, "alice@example.com")
	order := placeStandardOrder(t, db, otp, payments, orders, "alice@example.com")

	// Skipping a stage is rejected.
	_, err := orders.AdvanceTracking(order.ID, "Out for delivery")
	assert.ErrorIs(t, err, ErrInvalidSequence)

	// Staying in place is rejected.
	_, err = orders.AdvanceTracking(order.ID, "Processing")
	assert.ErrorIs(t, err, ErrInvalidSequence)

	// Walking the whole progression succeeds stage by stage.
	for _, stage := range TrackingStages[1:] {
		updated, err := orders.AdvanceTracking(order.ID, stage)
		require.NoError(t, err)
		assert.Equal(t, stage, updated.TrackingStatus)
	}

	// Going backward from Delivered is rejected, as is any further move.
	_, err = orders.AdvanceTracking(order.ID, "Out for delivery")
	assert.ErrorIs(t, err, ErrAlreadyDelivered)
	_, err = orders.AdvanceTracking(order.ID, "Delivered")
	assert.ErrorIs(t, err, ErrAlreadyDelivered)
}

func TestAdvanceTrackingUnknownOrder(t *testing.T) {
	db, otp, payments, orders := newOrderService(t)
	createTestUser(t, db, "alice@example.com")
	_ = placeStandardOrder(t, db, otp, payments, orders, "alice@example.com")

	_, err := orders.AdvanceTracking(uuid.New(), "Shipped")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelByCustomerRequiresOtp(t *testing.T) {
	db, otp, payments, orders := newOrderService(t)
	createTestUser(t, db, "alice@example.com")
	order := placeStandardOrder(t, db, otp, payments, orders, "alice@example.com")

	// Missing OTP aborts the cancellation.
	_, err := orders.Cancel(order.ID, models.RoleCustomer, "alice@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidOtp)

	code := issueOtp(t, db, otp, "alice@example.com", OtpPurposeCancel)
	cancelled, err := orders.Cancel(order.ID, models.RoleCustomer, "alice@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, models.RoleCustomer, cancelled.CancelledBy)
}

func TestCancelByAdminBypassesOtp(t *testing.T) {
	db, otp, payments, orders := newOrderService(t)
	createTestUser(t, db, "alice@example.com")
	order := placeStandardOrder(t, db, otp, payments, orders, "alice@example.com")

	cancelled, err := orders.Cancel(order.ID, models.RoleAdmin, "", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, cancelled.CancelledBy)
}

func TestCancelTwiceIsRejected(t *testing.T) {
	db, otp, payments, orders := newOrderService(t)
	createTestUser(t, db, "alice@example.com")
	order := placeStandardOrder(t, db, otp, payments, orders, "alice@example.com")

	_, err := orders.Cancel(order.ID, models.RoleAdmin, "", "")
	require.NoError(t, err)

	// Rejected for any actor, with or without a fresh OTP.
	_, err = orders.Cancel(order.ID, models.RoleAdmin, "", "")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	code := issueOtp(t, db, otp, "alice@example.com", OtpPurposeCancel)
	_, err = orders.Cancel(order.ID, models.RoleCustomer, "alice@example.com", code)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelledOrderTrackingIsFrozen(t *testing.T) {
	db, otp, payments, orders := newOrderService(t)
	createTestUser(t, db, "alice@example.com")
	order := placeStandardOrder(t, db, otp, payments, orders, "alice@example.com")

	_, err := orders.Cancel(order.ID, models.RoleAdmin, "", "")
	require.NoError(t, err)

	_, err = orders.AdvanceTracking(order.ID, "Shipped")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelAfterDeliveryIsRejected(t *testing.T) {
	db, otp, payments, orders := newOrderService(t)
	createTestUser(t, db, "alice@example.com")
	order := placeStandardOrder(t, db, otp, payments, orders, "alice@example.com")

	for _, stage := range TrackingStages[1:] {
		_, err := orders.AdvanceTracking(order.ID, stage)
		require.NoError(t, err)
	}

	_, err := orders.Cancel(order.ID, models.RoleAdmin, "", "")
	assert.ErrorIs(t, err, ErrAlreadyDelivered)
}
