package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/clayworks/internal/models"
)

func TestOtpRequestUnknownUser(t *testing.T) {
	db := newTestDB(t)
	otp := NewOtpService(db, newTestMailer())

	assert.ErrorIs(t, otp.Request("nobody@example.com", OtpPurposeOrder), ErrUserNotFound)
}

func TestOtpConsumeIsSingleUse(t *testing.T) {
	db := newTestDB(t)
	otp := NewOtpService(db, newTestMailer())
	createTestUser(t, db, "alice@example.com")

	code := issueOtp(t, db, otp, "alice@example.com", OtpPurposeOrder)

	user, err := otp.Consume(db, "alice@example.com", code, OtpPurposeOrder)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	// Replaying the same code fails.
	_, err = otp.Consume(db, "alice@example.com", code, OtpPurposeOrder)
	assert.ErrorIs(t, err, ErrInvalidOtp)

	// Slot is cleared on the record.
	var stored models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&stored).Error)
	assert.Nil(t, stored.OtpCode)
	assert.Nil(t, stored.OtpExpiresAt)
	assert.Empty(t, stored.OtpPurpose)
}

func TestOtpConsumeRejectsWrongCode(t *testing.T) {
	db := newTestDB(t)
	otp := NewOtpService(db, newTestMailer())
	createTestUser(t, db, "alice@example.com")

	code := issueOtp(t, db, otp, "alice@example.com", OtpPurposeOrder)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	_, err := otp.Consume(db, "alice@example.com", wrong, OtpPurposeOrder)
	assert.ErrorIs(t, err, ErrInvalidOtp)

	// A failed attempt does not consume the code.
	_, err = otp.Consume(db, "alice@example.com", code, OtpPurposeOrder)
	assert.NoError(t, err)
}

func TestOtpConsumeRejectsExpiredCode(t *testing.T) {
	db := newTestDB(t)
	otp := NewOtpService(db, newTestMailer())
	createTestUser(t, db, "alice@example.com")

	code := issueOtp(t, db, otp, "alice@example.com", OtpPurposeOrder)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "alice@example.com").
		Update("otp_expires_at", expired).Error)

	_, err := otp.Consume(db, "alice@example.com", code, OtpPurposeOrder)
	assert.ErrorIs(t, err, ErrInvalidOtp)
}

func TestOtpConsumeRejectsWrongPurpose(t *testing.T) {
	db := newTestDB(t)
	otp := NewOtpService(db, newTestMailer())
	createTestUser(t, db, "alice@example.com")

	code := issueOtp(t, db, otp, "alice@example.com", OtpPurposeOrder)

	// A checkout code cannot authorize a cancellation.
	_, err := otp.Consume(db, "alice@example.com", code, OtpPurposeCancel)
	assert.ErrorIs(t, err, ErrInvalidOtp)
}

func TestOtpRequestOverwritesOutstandingCode(t *testing.T) {
	db := newTestDB(t)
	otp := NewOtpService(db, newTestMailer())
	createTestUser(t, db, "alice@example.com")

	first := issueOtp(t, db, otp, "alice@example.com", OtpPurposeOrder)
	second := issueOtp(t, db, otp, "alice@example.com", OtpPurposeCancel)

	if first != second {
		_, err := otp.Consume(db, "alice@example.com", first, OtpPurposeOrder)
		assert.ErrorIs(t, err, ErrInvalidOtp)
	}

	_, err := otp.Consume(db, "alice@example.com", second, OtpPurposeCancel)
	assert.NoError(t, err)
}
