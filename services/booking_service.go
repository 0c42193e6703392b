package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/cook-platform/forms"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/statemachine"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService owns every booking mutation. Status changes go through
// the statemachine table and are recorded as BookingEvents in the same
// transaction.
type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// Create requests a booking of cookID by customer for the slot in form.
func (s *BookingService) Create(customer *models.User, cookID uint, form forms.BookingForm) (*models.Booking, error) {
	if !customer.IsCustomer() {
		return nil, ErrNotCustomer
	}

	var cook models.User
	if err := s.db.Where("id = ? AND role = ?", cookID, models.RoleCook).First(&cook).Error; err != nil {
		return nil, notFound(err, "load cook")
	}

	date, slotTime, err := form.Slot()
	if err != nil {
		return nil, fmt.Errorf("parse slot: %w", err)
	}

	booking := models.Booking{
		CustomerID:    customer.ID,
		CookID:        cook.ID,
		Date:          date,
		Time:          slotTime,
		DurationHours: form.DurationHours,
		Status:        models.StatusRequested,
		PaymentStatus: models.PaymentPending,
	}
	if booking.DurationHours == 0 {
		booking.DurationHours = models.DefaultDurationHours
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Booking{}).
			Where("cook_id = ? AND date = ? AND time = ?", cook.ID, date, slotTime).
			Count(&taken).Error; err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		if taken > 0 {
			return ErrSlotTaken
		}

		if err := tx.Create(&booking).Error; err != nil {
			// a concurrent request won the race for the unique index
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotTaken
			}
			return fmt.Errorf("create booking: %w", err)
		}

		return tx.Create(&models.BookingEvent{
			BookingID:       booking.ID,
			ActorID:         customer.ID,
			ToStatus:        booking.Status,
			ToPaymentStatus: booking.PaymentStatus,
			Note:            "booking requested",
		}).Error
	})
	if err != nil {
		return nil, err
	}

	booking.Customer = *customer
	booking.Cook = cook
	utils.InfoLogger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"customer":   customer.Username,
		"cook":       cook.Username,
		"slot":       booking.DateString() + " " + booking.Time,
	}).Info("Booking requested")
	return &booking, nil
}

// Confirm accepts a requested booking. Only the booking's cook may confirm.
func (s *BookingService) Confirm(actor *models.User, id uint) (*models.Booking, error) {
	return s.mutate(actor, id, "booking confirmed", func(b *models.Booking, role statemachine.Actor) error {
		if role != statemachine.ActorCook {
			return ErrUnauthorized
		}
		if err := statemachine.CanTransition(b.Status, models.StatusConfirmed, role); err != nil {
			return fmt.Errorf("%w: %v", ErrNotRequested, err)
		}
		b.Status = models.StatusConfirmed
		return nil
	})
}

// Pay marks a confirmed booking as paid. Only the booking's customer may pay.
func (s *BookingService) Pay(actor *models.User, id uint) (*models.Booking, error) {
	return s.mutate(actor, id, "payment received", func(b *models.Booking, role statemachine.Actor) error {
		if role != statemachine.ActorCustomer {
			return ErrUnauthorized
		}
		if b.IsPaid() {
			return ErrAlreadyPaid
		}
		if b.Status != models.StatusConfirmed {
			return ErrPayBeforeConfirm
		}
		b.PaymentStatus = models.PaymentPaid
		return nil
	})
}

// Complete closes a confirmed and paid booking. Only the booking's cook may complete.
func (s *BookingService) Complete(actor *models.User, id uint) (*models.Booking, error) {
	return s.mutate(actor, id, "booking completed", func(b *models.Booking, role statemachine.Actor) error {
		if role != statemachine.ActorCook {
			return ErrUnauthorized
		}
		if err := statemachine.CanTransition(b.Status, models.StatusCompleted, role); err != nil {
			return fmt.Errorf("%w: %v", ErrNotConfirmed, err)
		}
		if !b.IsPaid() {
			return ErrNotPaid
		}
		b.Status = models.StatusCompleted
		return nil
	})
}

// Cancel is open to either party while the booking is requested or
// confirmed. Payment is always marked refunded.
func (s *BookingService) Cancel(actor *models.User, id uint) (*models.Booking, error) {
	return s.mutate(actor, id, "booking cancelled", func(b *models.Booking, role statemachine.Actor) error {
		if err := statemachine.CanTransition(b.Status, models.StatusCancelled, role); err != nil {
			return fmt.Errorf("%w: %v", ErrNotCancellable, err)
		}
		b.Status = models.StatusCancelled
		b.PaymentStatus = models.PaymentRefunded
		return nil
	})
}

func (s *BookingService) mutate(actor *models.User, id uint, note string, apply func(*models.Booking, statemachine.Actor) error) (*models.Booking, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() != "sqlite" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&booking, id).Error; err != nil {
			return notFound(err, "load booking")
		}

		role, ok := actorRole(actor, &booking)
		if !ok {
			return ErrUnauthorized
		}

		fromStatus, fromPayment := booking.Status, booking.PaymentStatus
		if err := apply(&booking, role); err != nil {
			return err
		}

		if err := tx.Model(&booking).Updates(map[string]interface{}{
			"status":         booking.Status,
			"payment_status": booking.PaymentStatus,
		}).Error; err != nil {
			return fmt.Errorf("update booking: %w", err)
		}

		return tx.Create(&models.BookingEvent{
			BookingID:         booking.ID,
			ActorID:           actor.ID,
			FromStatus:        fromStatus,
			ToStatus:          booking.Status,
			FromPaymentStatus: fromPayment,
			ToPaymentStatus:   booking.PaymentStatus,
			Note:              note,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"booking_id":     booking.ID,
		"actor":          actor.Username,
		"status":         booking.Status,
		"payment_status": booking.PaymentStatus,
	}).Info(note)
	return &booking, nil
}

func actorRole(actor *models.User, b *models.Booking) (statemachine.Actor, bool) {
	switch actor.ID {
	case b.CookID:
		return statemachine.ActorCook, true
	case b.CustomerID:
		return statemachine.ActorCustomer, true
	default:
		return "", false
	}
}

// Get loads a booking with both parties and the cook's profile.
func (s *BookingService) Get(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Preload("Customer").Preload("Cook.CookProfile").First(&booking, id).Error
	if err != nil {
		return nil, notFound(err, "load booking")
	}
	return &booking, nil
}

// Amount is hourly_rate × duration_hours, or 0 when the cook has no profile.
func (s *BookingService) Amount(b *models.Booking) (float64, error) {
	if b.Cook.CookProfile != nil && b.Cook.CookProfile.UserID == b.CookID {
		return utils.RoundMoney(b.Cook.CookProfile.HourlyRate * float64(b.DurationHours)), nil
	}

	var profile models.CookProfile
	err := s.db.Where("user_id = ?", b.CookID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load cook profile: %w", err)
	}
	return utils.RoundMoney(profile.HourlyRate * float64(b.DurationHours)), nil
}

// ForCustomer splits a customer's bookings into upcoming (date >= today)
// and past ones.
func (s *BookingService) ForCustomer(customerID uint, today time.Time) (upcoming, past []models.Booking, err error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	base := func() *gorm.DB {
		return s.db.Preload("Cook.CookProfile").Where("customer_id = ?", customerID).Order("created_at DESC, id DESC")
	}
	if err = base().Where("date >= ?", day).Find(&upcoming).Error; err != nil {
		return nil, nil, fmt.Errorf("load upcoming bookings: %w", err)
	}
	if err = base().Where("date < ?", day).Find(&past).Error; err != nil {
		return nil, nil, fmt.Errorf("load past bookings: %w", err)
	}
	return upcoming, past, nil
}

// ForCook returns all bookings for a cook, newest first.
func (s *BookingService) ForCook(cookID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("Customer").
		Where("cook_id = ?", cookID).
		Order("created_at DESC, id DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("load cook bookings: %w", err)
	}
	return bookings, nil
}

type CookStats struct {
	TotalHours    uint
	TotalEarnings float64
}

// Stats sums the hours of completed bookings and the earnings of those
// that were also paid, at the cook's current rate.
func (s *BookingService) Stats(cookID uint) (CookStats, error) {
	var stats CookStats

	var hours struct{ Total uint }
	if err := s.db.Model(&models.Booking{}).
		Select("COALESCE(SUM(duration_hours), 0) AS total").
		Where("cook_id = ? AND status = ?", cookID, models.StatusCompleted).
		Scan(&hours).Error; err != nil {
		return stats, fmt.Errorf("sum hours: %w", err)
	}
	stats.TotalHours = hours.Total

	var paidHours struct{ Total uint }
	if err := s.db.Model(&models.Booking{}).
		Select("COALESCE(SUM(duration_hours), 0) AS total").
		Where("cook_id = ? AND status = ? AND payment_status = ?", cookID, models.StatusCompleted, models.PaymentPaid).
		Scan(&paidHours).Error; err != nil {
		return stats, fmt.Errorf("sum paid hours: %w", err)
	}

	var profile models.CookProfile
	err := s.db.Where("user_id = ?", cookID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return stats, fmt.Errorf("load cook profile: %w", err)
	}
	stats.TotalEarnings = utils.RoundMoney(profile.HourlyRate * float64(paidHours.Total))
	return stats, nil
}

// Events returns the audit trail of a booking, oldest first.
func (s *BookingService) Events(bookingID uint) ([]models.BookingEvent, error) {
	var events []models.BookingEvent
	if err := s.db.Where("booking_id = ?", bookingID).Order("id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("load booking events: %w", err)
	}
	return events, nil
}

// PaidAt returns when the booking was paid, taken from its audit trail.
func (s *BookingService) PaidAt(bookingID uint) (time.Time, error) {
	var event models.BookingEvent
	err := s.db.Where("booking_id = ? AND to_payment_status = ? AND from_payment_status <> ?",
		bookingID, models.PaymentPaid, models.PaymentPaid).
		Order("id ASC").
		First(&event).Error
	if err != nil {
		return time.Time{}, notFound(err, "load payment event")
	}
	return event.CreatedAt, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
