package database

import (
	"fmt"

	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.CookProfile{},
		&models.Booking{},
		&models.BookingEvent{},
		&models.Review{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}

	// Verify the slot and review constraints actually exist; the booking
	// workflow depends on them.
	migrator := db.Migrator()
	checks := []struct {
		model interface{}
		index string
	}{
		{&models.Booking{}, "idx_booking_cook_slot"},
		{&models.Review{}, "idx_review_customer_cook"},
	}
	for _, c := range checks {
		if !migrator.HasIndex(c.model, c.index) {
			return fmt.Errorf("missing unique index %s", c.index)
		}
		utils.InfoLogger.Printf("Index verified: %s", c.index)
	}

	utils.InfoLogger.Println("Database migrated successfully")
	return nil
}
