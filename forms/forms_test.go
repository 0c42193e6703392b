package forms

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterForm {
	return RegisterForm{
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      "customer",
		Password1: "s3cure-Passw0rd",
		Password2: "s3cure-Passw0rd",
	}
}

func TestRegisterFormValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *RegisterForm)
		field  string
		msg    string
	}{
		{"valid", func(f *RegisterForm) {}, "", ""},
		{"missing username", func(f *RegisterForm) { f.Username = "" }, "username", "This field is required."},
		{"bad username chars", func(f *RegisterForm) { f.Username = "al ice" }, "username", ""},
		{"bad email", func(f *RegisterForm) { f.Email = "nope" }, "email", "Enter a valid email address."},
		{"unknown role", func(f *RegisterForm) { f.Role = "admin" }, "role", "Select a valid choice."},
		{"short password", func(f *RegisterForm) { f.Password1, f.Password2 = "abc12", "abc12" }, "password1", "Ensure this value has at least 8 characters."},
		{"numeric password", func(f *RegisterForm) { f.Password1, f.Password2 = "12345678901", "12345678901" }, "password1", "This password is entirely numeric."},
		{"mismatch", func(f *RegisterForm) { f.Password2 = "something-else" }, "password2", "The two password fields didn't match."},
		{"similar to username", func(f *RegisterForm) { f.Password1, f.Password2 = "alice-forever", "alice-forever" }, "password1", "The password is too similar to the username."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validRegister()
			tt.modify(&f)
			errs := Errors(Validate.Struct(&f))
			if tt.field == "" {
				assert.Empty(t, errs)
				return
			}
			require.True(t, errs.Has(tt.field), "errors: %v", errs)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, errs.Get(tt.field))
			}
		})
	}
}

func TestBookingFormSlot(t *testing.T) {
	f := BookingForm{Date: "2024-01-05", Time: "10:00:00", DurationHours: 2}
	assert.Empty(t, Errors(Validate.Struct(&f)))

	date, hhmm, err := f.Slot()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), date)
	assert.Equal(t, "10:00", hhmm)

	bad := BookingForm{Date: "05/01/2024", Time: "25:00", DurationHours: 0}
	errs := Errors(Validate.Struct(&bad))
	assert.Equal(t, "Enter a valid date.", errs.Get("date"))
	assert.Equal(t, "Enter a valid time.", errs.Get("time"))
	assert.True(t, errs.Has("duration_hours"))
}

func TestReviewFormRatingBounds(t *testing.T) {
	for _, r := range []uint{1, 3, 5} {
		assert.Empty(t, Errors(Validate.Struct(&ReviewForm{Rating: r})), "rating %d", r)
	}
	assert.True(t, Errors(Validate.Struct(&ReviewForm{Rating: 0})).Has("rating"))
	assert.Equal(t, "Ensure this value is less than or equal to 5.",
		Errors(Validate.Struct(&ReviewForm{Rating: 6})).Get("rating"))
}

func TestBindFromRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	body := url.Values{
		"cuisine":          {"Italian"},
		"dishes":           {"Pasta, Pizza"},
		"experience_years": {"5"},
		"hourly_rate":      {"45.50"},
		"location":         {"Rome"},
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/profile/", strings.NewReader(body.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var f CookProfileForm
	assert.Nil(t, Bind(c, &f))
	assert.Equal(t, "Italian", f.Cuisine)
	assert.Equal(t, uint(5), f.ExperienceYears)
	assert.InDelta(t, 45.5, f.HourlyRate, 0.001)

	c.Request = httptest.NewRequest(http.MethodPost, "/profile/", strings.NewReader("hourly_rate=abc"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var broken CookProfileForm
	errs := Bind(c, &broken)
	assert.True(t, errs.Has(NonFieldKey))
}
