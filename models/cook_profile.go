package models

import (
	"fmt"
	"strings"
	"time"
)

type CookProfile struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	Cuisine         string    `gorm:"type:varchar(100);not null;default:'';index" json:"cuisine"`
	Dishes          string    `gorm:"type:text" json:"dishes"`
	ExperienceYears uint      `gorm:"not null;default:0" json:"experience_years"`
	HourlyRate      float64   `gorm:"type:decimal(8,2);not null;default:0" json:"hourly_rate"`
	Location        string    `gorm:"type:varchar(120);not null;default:''" json:"location"`
	Bio             string    `gorm:"type:text" json:"bio"`
	Photo           *string   `gorm:"type:varchar(500)" json:"photo,omitempty"`
	AverageRating   float64   `gorm:"not null;default:0" json:"average_rating"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DishList splits the comma-separated dishes text.
func (p *CookProfile) DishList() []string {
	var dishes []string
	for _, d := range strings.Split(p.Dishes, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dishes = append(dishes, d)
		}
	}
	return dishes
}

func (p *CookProfile) String() string {
	return fmt.Sprintf("%s (%s)", p.User.FullName(), p.Cuisine)
}
