package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/cook-platform/config"
	"github.com/yeremiapane/cook-platform/database"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/router"
	"github.com/yeremiapane/cook-platform/storage"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

// TestEndToEndIntegration walks the main flow through a real server:
// 0. register a cook and a customer, log both in
// 1. the cook fills in the profile
// 2. the customer finds the cook and requests a slot
// 3. cook confirms, customer pays, cook completes
// 4. customer reviews and downloads the receipt
func TestEndToEndIntegration(t *testing.T) {
	db, srv := setupServer(t)

	cook := newBrowser(t, srv)
	customer := newBrowser(t, srv)
	registerAndLogin(t, cook, "bob", models.RoleCook)
	registerAndLogin(t, customer, "alice", models.RoleCustomer)

	fillCookProfile(t, cook)

	var bob models.User
	require.NoError(t, db.Where("username = ?", "bob").First(&bob).Error)
	bookingID := requestBookingTest(t, customer, db, bob.ID)

	workflowTest(t, cook, customer, bookingID)
	reviewAndReceiptTest(t, customer, db, bob.ID, bookingID)
}

func setupServer(t *testing.T) (*gorm.DB, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SilenceLoggers()
	utils.ConfigureTokens("integration-secret", time.Hour)

	db := database.NewTestDB(t)
	dir := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigin: "http://localhost"},
		Auth:   config.AuthConfig{SecretKey: "integration-secret", TokenTTL: time.Hour, LoginRate: 100},
		Storage: config.StorageConfig{
			Driver:        "local",
			UploadDir:     dir,
			PublicBaseURL: "/uploads",
			MaxUploadSize: storage.DefaultMaxSize,
		},
	}
	r, err := router.SetupRouter(db, cfg, storage.NewLocalStorage(dir, "/uploads", storage.DefaultMaxSize))
	require.NoError(t, err)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return db, srv
}

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: srv.URL, client: &http.Client{Jar: jar}}
}

// page follows redirects and returns the final path and body.
func (b *browser) page(resp *http.Response, err error) (string, string) {
	b.t.Helper()
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	require.Equal(b.t, http.StatusOK, resp.StatusCode, string(body))
	return resp.Request.URL.Path, string(body)
}

func (b *browser) get(path string) (string, string) {
	return b.page(b.client.Get(b.base + path))
}

func (b *browser) post(path string, form url.Values) (string, string) {
	return b.page(b.client.PostForm(b.base+path, form))
}

func registerAndLogin(t *testing.T, b *browser, username, role string) {
	where, body := b.post("/register/", url.Values{
		"username":  {username},
		"email":     {username + "@example.com"},
		"role":      {role},
		"password1": {"Sup3r-secret!"},
		"password2": {"Sup3r-secret!"},
	})
	assert.Equal(t, "/login/", where)
	assert.Contains(t, body, "Account created successfully. Please log in.")

	where, body = b.post("/login/", url.Values{"username": {username}, "password": {"Sup3r-secret!"}})
	assert.Equal(t, "/", where)
	assert.Contains(t, body, "Welcome back!")
}

func fillCookProfile(t *testing.T, cook *browser) {
	where, body := cook.post("/profile/", url.Values{
		"email":            {"bob@example.com"},
		"cuisine":          {"Thai"},
		"dishes":           {"Green curry, Pad see ew"},
		"experience_years": {"5"},
		"hourly_rate":      {"35"},
		"location":         {"Leeds"},
	})
	assert.Equal(t, "/profile/", where)
	assert.Contains(t, body, "Profile updated successfully.")
}

func requestBookingTest(t *testing.T, customer *browser, db *gorm.DB, cookID uint) uint {
	_, body := customer.get("/cooks/?" + url.Values{"cuisine": {"thai"}, "location": {"leeds"}}.Encode())
	require.Contains(t, body, fmt.Sprintf("/cooks/%d/", cookID))

	_, body = customer.get(fmt.Sprintf("/cooks/%d/", cookID))
	assert.Contains(t, body, "Green curry")

	where, body := customer.post(fmt.Sprintf("/book/%d/", cookID), url.Values{
		"date":           {"2030-06-01"},
		"time":           {"18:30"},
		"duration_hours": {"3"},
	})
	assert.Equal(t, "/dashboard/customer/", where)
	assert.Contains(t, body, "Booking requested!")

	var booking models.Booking
	require.NoError(t, db.Where("cook_id = ?", cookID).First(&booking).Error)
	assert.Equal(t, models.StatusRequested, booking.Status)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
	return booking.ID
}

func workflowTest(t *testing.T, cook, customer *browser, bookingID uint) {
	where, body := cook.post(fmt.Sprintf("/bookings/%d/confirm/", bookingID), nil)
	assert.Equal(t, "/dashboard/cook/", where)
	assert.Contains(t, body, "Booking confirmed. Waiting for customer payment.")

	_, body = customer.get(fmt.Sprintf("/bookings/%d/pay/", bookingID))
	assert.Contains(t, body, "105.00")

	where, body = customer.post(fmt.Sprintf("/bookings/%d/pay/", bookingID), nil)
	assert.Equal(t, "/dashboard/customer/", where)
	assert.Contains(t, body, "Payment successful!")

	where, body = cook.post(fmt.Sprintf("/bookings/%d/complete/", bookingID), nil)
	assert.Equal(t, "/dashboard/cook/", where)
	assert.Contains(t, body, "Booking marked as completed.")
}

func reviewAndReceiptTest(t *testing.T, customer *browser, db *gorm.DB, cookID, bookingID uint) {
	_, body := customer.post(fmt.Sprintf("/cooks/%d/review/", cookID), url.Values{
		"rating":  {"5"},
		"comment": {"Best curry in town"},
	})
	assert.Contains(t, body, "Review added!")

	var profile models.CookProfile
	require.NoError(t, db.Where("user_id = ?", cookID).First(&profile).Error)
	assert.InDelta(t, 5.0, profile.AverageRating, 1e-9)

	resp, err := customer.client.Get(customer.base + fmt.Sprintf("/bookings/%d/receipt/", bookingID))
	require.NoError(t, err)
	defer resp.Body.Close()
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}
