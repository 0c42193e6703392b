package models

import (
	"strings"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleCook     = "cook"
)

var Roles = []string{RoleCustomer, RoleCook}

type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"type:varchar(255);not null" json:"email"`
	FirstName   string     `gorm:"type:varchar(150)" json:"first_name"`
	LastName    string     `gorm:"type:varchar(150)" json:"last_name"`
	Password    string     `gorm:"type:varchar(255);not null" json:"-"`
	Role        string     `gorm:"type:varchar(20);not null;index" json:"role"`
	Avatar      *string    `gorm:"type:varchar(500)" json:"avatar,omitempty"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	IsStaff     bool       `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool       `gorm:"not null;default:false" json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"date_joined"`
	UpdatedAt   time.Time  `json:"updated_at"`

	CookProfile *CookProfile `gorm:"foreignKey:UserID" json:"cook_profile,omitempty"`
}

func (u *User) IsCustomer() bool {
	return u != nil && u.Role == RoleCustomer
}

func (u *User) IsCook() bool {
	return u != nil && u.Role == RoleCook
}

// FullName falls back to the username when no name was entered.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
