package models

import (
	"time"

	"github.com/google/uuid"
)

// Workshop categories.
const (
	WorkshopCategoryGroup    = "GROUP"
	WorkshopCategoryOneOnOne = "ONE_ON_ONE"
)

// Registration payment statuses.
const (
	RegistrationPaid = "PAID"
	RegistrationFree = "FREE"
)

// Workshop is a schedulable studio event with limited seats.
type Workshop struct {
	BaseModel
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Seats       int       `json:"seats"`
	TotalSeats  int       `json:"total_seats"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
}

// Registration joins a user to a workshop. The (user, workshop) pair is
// unique; the title and contact fields are snapshots taken at booking time.
type Registration struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_registration_user_workshop" json:"user_id"`
	WorkshopID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_registration_user_workshop" json:"workshop_id"`

	WorkshopTitle string `json:"workshop_title"`
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	UserPhone     string `json:"user_phone"`

	SeatsBooked   int     `json:"seats_booked"`
	PaymentStatus string  `json:"payment_status"`
	PaymentID     *string `json:"payment_id,omitempty"`
}
