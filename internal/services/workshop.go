package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/clayworks/internal/models"
)

var (
	ErrWorkshopNotFound      = errors.New("workshop not found")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("already registered for this workshop")
	ErrInsufficientSeats     = errors.New("not enough seats available")
	ErrWorkshopHasBookings   = errors.New("workshop has active registrations")
	ErrInvalidSeatCount      = errors.New("invalid seat count")
)

// WorkshopService manages seat capacity. Registration and cancellation pair a
// registration write with a seat-counter update inside one transaction, and
// the decrement is conditional so concurrent registrations cannot overbook.
type WorkshopService struct {
	db       *gorm.DB
	payments *PaymentVerifier
	mailer   *Mailer
}

// NewWorkshopService constructs a WorkshopService.
func NewWorkshopService(db *gorm.DB, payments *PaymentVerifier, mailer *Mailer) *WorkshopService {
	return &WorkshopService{db: db, payments: payments, mailer: mailer}
}

// RegisterInput carries a seat-booking request.
type RegisterInput struct {
	UserID     uuid.UUID
	WorkshopID uuid.UUID
	Seats      int

	// Payment proof, required when the workshop has a positive price.
	PaymentOrderRef  string
	PaymentID        string
	PaymentSignature string
}

// Register books seats for a user. Fails with ErrDuplicateRegistration when
// the (user, workshop) pair already exists and ErrInsufficientSeats when the
// conditional decrement matches no row.
func (s *WorkshopService) Register(in RegisterInput) (*models.Registration, error) {
	if in.Seats <= 0 {
		return nil, ErrInvalidSeatCount
	}

	var registration models.Registration
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var workshop models.Workshop
		if err := tx.First(&workshop, "id = ?", in.WorkshopID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkshopNotFound
			}
			return err
		}

		var existing models.Registration
		err := tx.Where("user_id = ? AND workshop_id = ?", in.UserID, in.WorkshopID).
			First(&existing).Error
		if err == nil {
			return ErrDuplicateRegistration
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		registration = models.Registration{
			UserID:        user.ID,
			WorkshopID:    workshop.ID,
			WorkshopTitle: workshop.Title,
			UserName:      user.Name,
			UserEmail:     user.Email,
			UserPhone:     user.Phone,
			SeatsBooked:   in.Seats,
			PaymentStatus: models.RegistrationFree,
		}

		if workshop.Price > 0 {
			if err := s.payments.Verify(in.PaymentOrderRef, in.PaymentID, in.PaymentSignature); err != nil {
				return err
			}
			paymentID := in.PaymentID
			registration.PaymentID = &paymentID
			registration.PaymentStatus = models.RegistrationPaid
		}

		// Conditional decrement: the second of two concurrent callers
		// matches no row and fails instead of driving seats negative.
		res := tx.Model(&models.Workshop{}).
			Where("id = ? AND seats >= ?", workshop.ID, in.Seats).
			UpdateColumn("seats", gorm.Expr("seats - ?", in.Seats))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientSeats
		}

		return tx.Create(&registration).Error
	})
	if err != nil {
		return nil, err
	}

	subject, body := WorkshopRegistrationEmail(registration.UserName, registration.WorkshopTitle, registration.SeatsBooked)
	s.mailer.SendAsync(registration.UserEmail, subject, body)

	return &registration, nil
}

// Cancel deletes the registration and restores exactly the seats it booked.
func (s *WorkshopService) Cancel(userID, workshopID uuid.UUID) error {
	var registration models.Registration
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND workshop_id = ?", userID, workshopID).
			First(&registration).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}

		if err := tx.Delete(&registration).Error; err != nil {
			return err
		}

		return tx.Model(&models.Workshop{}).
			Where("id = ?", workshopID).
			UpdateColumn("seats", gorm.Expr("seats + ?", registration.SeatsBooked)).Error
	})
	if err != nil {
		return err
	}

	subject, body := WorkshopCancellationEmail(registration.UserName, registration.WorkshopTitle)
	s.mailer.SendAsync(registration.UserEmail, subject, body)

	return nil
}

// GuardMutable rejects admin edits or deletion of a workshop that has active
// registrations, which would invalidate the seat-count bookkeeping.
func (s *WorkshopService) GuardMutable(workshopID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.Registration{}).
		Where("workshop_id = ?", workshopID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrWorkshopHasBookings
	}
	return nil
}
