package models

import (
	"time"
)

// Roles assignable to a user account.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a storefront account.
type User struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	IsVerified   bool   `json:"is_verified"`
	Role         string `gorm:"default:customer" json:"role"`

	// Single active OTP slot: overwritten on every request, cleared on use.
	OtpCode      *string    `json:"-"`
	OtpPurpose   string     `json:"-"`
	OtpExpiresAt *time.Time `json:"-"`

	// Shipping profile.
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`

	Orders        []Order        `json:"orders,omitempty"`
	Registrations []Registration `json:"registrations,omitempty"`
}
