package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/clayworks/internal/config"
	"github.com/example/clayworks/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database so every pooled connection sees the
	// same in-memory store.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Workshop{},
		&models.Registration{},
	))

	return db
}

func newTestMailer() *Mailer {
	return NewMailer(&config.Config{})
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := models.User{
		Name:       "Alice Potter",
		Email:      email,
		Role:       models.RoleCustomer,
		IsVerified: true,
		Phone:      "+15550100",
		Address:    "12 Kiln Lane",
		City:       "Asheville",
		Zip:        "28801",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// issueOtp requests a code for the user and reads it back from the slot.
func issueOtp(t *testing.T, db *gorm.DB, otp *OtpService, email, purpose string) string {
	t.Helper()

	require.NoError(t, otp.Request(email, purpose))

	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	require.NotNil(t, user.OtpCode)
	return *user.OtpCode
}
