package models

import (
	"fmt"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_review_customer_cook,priority:1" json:"customer_id"`
	Customer   User      `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"customer"`
	CookID     uint      `gorm:"not null;uniqueIndex:idx_review_customer_cook,priority:2;index" json:"cook_id"`
	Cook       User      `gorm:"foreignKey:CookID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"cook"`
	Rating     uint      `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r *Review) String() string {
	return fmt.Sprintf("%d by %s for %s", r.Rating, r.Customer.Username, r.Cook.Username)
}
