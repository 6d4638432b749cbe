package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/example/clayworks/internal/models"
)

// OTP purposes. Codes are scoped to the action they were requested for so an
// outstanding checkout code cannot be replayed to cancel an order.
const (
	OtpPurposeVerify = "verify"
	OtpPurposeOrder  = "order"
	OtpPurposeCancel = "cancel"
	OtpPurposeReset  = "reset"
)

const otpTTL = 10 * time.Minute

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidOtp   = errors.New("invalid or expired code")
)

var otpActionLabels = map[string]string{
	OtpPurposeVerify: "account verification",
	OtpPurposeOrder:  "placing your order",
	OtpPurposeCancel: "cancelling your order",
	OtpPurposeReset:  "resetting your password",
}

// OtpService issues and consumes one-time codes stored on the user record.
// A user has a single active slot: requesting a new code overwrites any
// outstanding one regardless of purpose.
type OtpService struct {
	db     *gorm.DB
	mailer *Mailer
}

// NewOtpService constructs an OtpService.
func NewOtpService(db *gorm.DB, mailer *Mailer) *OtpService {
	return &OtpService{db: db, mailer: mailer}
}

// Request generates a fresh 6-digit code for the given purpose, stores it
// with a 10-minute expiry and emails it to the user. Fails with
// ErrUserNotFound when no account matches the email.
func (s *OtpService) Request(email, purpose string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	code, err := generateOtpCode()
	if err != nil {
		return err
	}

	expires := time.Now().Add(otpTTL)
	updates := map[string]interface{}{
		"otp_code":       code,
		"otp_purpose":    purpose,
		"otp_expires_at": expires,
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return err
	}

	action := otpActionLabels[purpose]
	if action == "" {
		action = purpose
	}
	subject, body := OtpEmail(code, action)
	s.mailer.SendAsync(user.Email, subject, body)

	return nil
}

// Consume validates the candidate code against the user's active slot and
// clears the slot on success, making the code single-use. The purpose must
// match the one the code was issued for. Runs on the provided tx so callers
// can bundle the consumption with their own writes.
func (s *OtpService) Consume(tx *gorm.DB, email, candidate, purpose string) (*models.User, error) {
	var user models.User
	if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if candidate == "" || user.OtpCode == nil || *user.OtpCode != candidate {
		return nil, ErrInvalidOtp
	}
	if user.OtpPurpose != purpose {
		return nil, ErrInvalidOtp
	}
	if user.OtpExpiresAt == nil || user.OtpExpiresAt.Before(time.Now()) {
		return nil, ErrInvalidOtp
	}

	// Conditional clear so two concurrent consumers cannot both spend the
	// same code: only the caller whose UPDATE matches wins.
	res := tx.Model(&models.User{}).
		Where("id = ? AND otp_code = ?", user.ID, candidate).
		Updates(map[string]interface{}{
			"otp_code":       nil,
			"otp_purpose":    "",
			"otp_expires_at": nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidOtp
	}

	return &user, nil
}

func generateOtpCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
