package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/cook-platform/database"
	"github.com/yeremiapane/cook-platform/forms"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.SilenceLoggers()
	return database.NewTestDB(t)
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password-123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		Password: string(hashed),
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCook(t *testing.T, db *gorm.DB, username string, profile models.CookProfile) *models.User {
	t.Helper()
	cook := createUser(t, db, username, models.RoleCook)
	profile.UserID = cook.ID
	require.NoError(t, db.Create(&profile).Error)
	cook.CookProfile = &profile
	return cook
}

func slot(date, at string) forms.BookingForm {
	return forms.BookingForm{Date: date, Time: at, DurationHours: 2}
}

// bookCompletedAndPaid drives a booking through the full happy path.
func bookCompletedAndPaid(t *testing.T, svc *BookingService, customer, cook *models.User, date string) *models.Booking {
	t.Helper()
	b, err := svc.Create(customer, cook.ID, slot(date, "10:00"))
	require.NoError(t, err)
	_, err = svc.Confirm(cook, b.ID)
	require.NoError(t, err)
	_, err = svc.Pay(customer, b.ID)
	require.NoError(t, err)
	b, err = svc.Complete(cook, b.ID)
	require.NoError(t, err)
	return b
}
