package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/clayworks/internal/models"
)

func newWorkshopService(t *testing.T) (*gorm.DB, *PaymentVerifier, *WorkshopService) {
	t.Helper()
	db := newTestDB(t)
	payments := NewPaymentVerifier("test-secret")
	workshops := NewWorkshopService(db, payments, newTestMailer())
	return db, payments, workshops
}

func createTestWorkshop(t *testing.T, db *gorm.DB, seats int, price float64) *models.Workshop {
	t.Helper()

	workshop := models.Workshop{
		Title:      "Hand-throwing Basics",
		Date:       time.Now().Add(14 * 24 * time.Hour),
		Category:   models.WorkshopCategoryGroup,
		Price:      price,
		Seats:      seats,
		TotalSeats: seats,
	}
	require.NoError(t, db.Create(&workshop).Error)
	return &workshop
}

func workshopSeats(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var workshop models.Workshop
	require.NoError(t, db.First(&workshop, "id = ?", id).Error)
	return workshop.Seats
}

func TestRegisterDecrementsSeats(t *testing.T) {
	db, _, workshops := newWorkshopService(t)
	user := createTestUser(t, db, "alice@example.com")
	workshop := createTestWorkshop(t, db, 8, 0)

	registration, err := workshops.Register(RegisterInput{
		UserID:     user.ID,
		WorkshopID: workshop.ID,
		Seats:      3,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RegistrationFree, registration.PaymentStatus)
	assert.Equal(t, "Hand-throwing Basics", registration.WorkshopTitle)
	assert.Equal(t, 3, registration.SeatsBooked)
	assert.Equal(t, 5, workshopSeats(t, db, workshop.ID))
}

func TestRegisterDuplicateIsRejected(t *testing.T) {
	db, _, workshops := newWorkshopService(t)
	user := createTestUser(t, db, "alice@example.com")
	workshop := createTestWorkshop(t, db, 8, 0)

	_, err := workshops.Register(RegisterInput{UserID: user.ID, WorkshopID: workshop.ID, Seats: 1})
	require.NoError(t, err)

	_, err = workshops.Register(RegisterInput{UserID: user.ID, WorkshopID: workshop.ID, Seats: 1})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	// Seats were decremented exactly once.
	assert.Equal(t, 7, workshopSeats(t, db, workshop.ID))
}

func TestRegisterLastSeatScenario(t *testing.T) {
	db, _, workshops := newWorkshopService(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	workshop := createTestWorkshop(t, db, 1, 0)

	_, err := workshops.Register(RegisterInput{UserID: alice.ID, WorkshopID: workshop.ID, Seats: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, workshopSeats(t, db, workshop.ID))

	_, err = workshops.Register(RegisterInput{UserID: bob.ID, WorkshopID: workshop.ID, Seats: 1})
	assert.ErrorIs(t, err, ErrInsufficientSeats)

	require.NoError(t, workshops.Cancel(alice.ID, workshop.ID))
	assert.Equal(t, 1, workshopSeats(t, db, workshop.ID))

	_, err = workshops.Register(RegisterInput{UserID: bob.ID, WorkshopID: workshop.ID, Seats: 1})
	assert.NoError(t, err)
}

func TestCancelRestoresExactSeats(t *testing.T) {
	db, _, workshops := newWorkshopService(t)
	user := createTestUser(t, db, "alice@example.com")
	workshop := createTestWorkshop(t, db, 10, 0)

	before := workshopSeats(t, db, workshop.ID)
	_, err := workshops.Register(RegisterInput{UserID: user.ID, WorkshopID: workshop.ID, Seats: 4})
	require.NoError(t, err)
	require.NoError(t, workshops.Cancel(user.ID, workshop.ID))

	assert.Equal(t, before, workshopSeats(t, db, workshop.ID))

	var count int64
	require.NoError(t, db.Model(&models.Registration{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCancelWithoutRegistration(t *testing.T) {
	db, _, workshops := newWorkshopService(t)
	user := createTestUser(t, db, "alice@example.com")
	workshop := createTestWorkshop(t, db, 10, 0)

	assert.ErrorIs(t, workshops.Cancel(user.ID, workshop.ID), ErrRegistrationNotFound)
}

func TestRegisterPaidWorkshopRequiresProof(t *testing.T) {
	db, payments, workshops := newWorkshopService(t)
	user := createTestUser(t, db, "alice@example.com")
	workshop := createTestWorkshop(t, db, 6, 120)

	_, err := workshops.Register(RegisterInput{
		UserID:           user.ID,
		WorkshopID:       workshop.ID,
		Seats:            1,
		PaymentOrderRef:  "ws_order_1",
		PaymentID:        "pay_1",
		PaymentSignature: "forged",
	})
	assert.ErrorIs(t, err, ErrPaymentVerificationFailed)
	assert.Equal(t, 6, workshopSeats(t, db, workshop.ID))

	registration, err := workshops.Register(RegisterInput{
		UserID:           user.ID,
		WorkshopID:       workshop.ID,
		Seats:            1,
		PaymentOrderRef:  "ws_order_1",
		PaymentID:        "pay_1",
		PaymentSignature: payments.Sign("ws_order_1", "pay_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPaid, registration.PaymentStatus)
}

func TestRegisterUnknownWorkshopOrUser(t *testing.T) {
	db, _, workshops := newWorkshopService(t)
	user := createTestUser(t, db, "alice@example.com")
	workshop := createTestWorkshop(t, db, 6, 0)

	_, err := workshops.Register(RegisterInput{UserID: user.ID, WorkshopID: uuid.New(), Seats: 1})
	assert.ErrorIs(t, err, ErrWorkshopNotFound)

	_, err = workshops.Register(RegisterInput{UserID: uuid.New(), WorkshopID: workshop.ID, Seats: 1})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegisterRejectsNonPositiveSeats(t *testing.T) {
	db, _, workshops := newWorkshopService(t)
	user := createTestUser(t, db, "alice@example.com")
	workshop := createTestWorkshop(t, db, 6, 0)

	_, err := workshops.Register(RegisterInput{UserID: user.ID, WorkshopID: workshop.ID, Seats: 0})
	assert.ErrorIs(t, err, ErrInvalidSeatCount)
	_, err = workshops.Register(RegisterInput{UserID: user.ID, WorkshopID: workshop.ID, Seats: -2})
	assert.ErrorIs(t, err, ErrInvalidSeatCount)
}

func TestGuardMutableBlocksBookedWorkshops(t *testing.T) {
	db, _, workshops := newWorkshopService(t)
	user := createTestUser(t, db, "alice@example.com")
	workshop := createTestWorkshop(t, db, 6, 0)

	assert.NoError(t, workshops.GuardMutable(workshop.ID))

	_, err := workshops.Register(RegisterInput{UserID: user.ID, WorkshopID: workshop.ID, Seats: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, workshops.GuardMutable(workshop.ID), ErrWorkshopHasBookings)

	// Once the booking is cancelled the workshop is editable again.
	require.NoError(t, workshops.Cancel(user.ID, workshop.ID))
	assert.NoError(t, workshops.GuardMutable(workshop.ID))
}
