package models

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	StatusRequested BookingStatus = "requested"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	DefaultDurationHours = 2
)

// Booking slots are unique per (cook, date, time); the index is the only
// guard against two customers grabbing the same slot concurrently.
type Booking struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	CustomerID    uint          `gorm:"not null;index" json:"customer_id"`
	Customer      User          `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"customer"`
	CookID        uint          `gorm:"not null;uniqueIndex:idx_booking_cook_slot,priority:1" json:"cook_id"`
	Cook          User          `gorm:"foreignKey:CookID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"cook"`
	Date          time.Time     `gorm:"type:date;not null;uniqueIndex:idx_booking_cook_slot,priority:2;index" json:"date"`
	Time          string        `gorm:"type:varchar(5);not null;uniqueIndex:idx_booking_cook_slot,priority:3" json:"time"`
	DurationHours uint          `gorm:"not null;default:2" json:"duration_hours"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:'requested';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (b *Booking) DateString() string {
	return b.Date.Format(DateLayout)
}

// IsTerminal reports whether no further status change is possible.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

func (b *Booking) String() string {
	return fmt.Sprintf("Booking #%d - %s -> %s on %s %s",
		b.ID, b.Customer.Username, b.Cook.Username, b.DateString(), b.Time)
}

// BookingEvent is the audit trail of booking transitions.
type BookingEvent struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	BookingID         uint          `gorm:"not null;index" json:"booking_id"`
	ActorID           uint          `gorm:"not null" json:"actor_id"`
	FromStatus        BookingStatus `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus          BookingStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	FromPaymentStatus PaymentStatus `gorm:"type:varchar(20)" json:"from_payment_status"`
	ToPaymentStatus   PaymentStatus `gorm:"type:varchar(20);not null" json:"to_payment_status"`
	Note              string        `gorm:"type:varchar(255)" json:"note"`
	CreatedAt         time.Time     `json:"created_at"`
}
