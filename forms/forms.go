package forms

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type RegisterForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"required,email,max=255"`
	Role      string `form:"role" validate:"required,role"`
	Password1 string `form:"password1" validate:"required,min=8,notnumeric"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required,max=150"`
	Password string `form:"password" validate:"required"`
}

type BookingForm struct {
	Date          string `form:"date" validate:"required,datetime=2006-01-02"`
	Time          string `form:"time" validate:"required,hhmm"`
	DurationHours uint   `form:"duration_hours" validate:"required,min=1,max=24"`
}

// Slot returns the parsed date and the normalized HH:MM time.
func (f BookingForm) Slot() (time.Time, string, error) {
	date, err := ParseDate(f.Date)
	if err != nil {
		return time.Time{}, "", err
	}
	t, err := NormalizeTime(f.Time)
	if err != nil {
		return time.Time{}, "", err
	}
	return date, t, nil
}

type ReviewForm struct {
	Rating  uint   `form:"rating" validate:"required,min=1,max=5"`
	Comment string `form:"comment" validate:"max=2000"`
}

type UserUpdateForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Email     string `form:"email" validate:"required,email,max=255"`
}

type CookProfileForm struct {
	Cuisine         string  `form:"cuisine" validate:"required,max=100"`
	Dishes          string  `form:"dishes" validate:"required"`
	ExperienceYears uint    `form:"experience_years" validate:"lte=80"`
	HourlyRate      float64 `form:"hourly_rate" validate:"gte=0,lt=1000000"`
	Location        string  `form:"location" validate:"required,max=120"`
	Bio             string  `form:"bio"`
}

// Bind decodes the request form (urlencoded or multipart) into dst and
// validates it. A nil result means the form is valid.
func Bind(c *gin.Context, dst interface{}) FieldErrors {
	if err := c.ShouldBindWith(dst, binding.Form); err != nil {
		return FieldErrors{NonFieldKey: "Invalid form data."}
	}
	return Errors(Validate.Struct(dst))
}
