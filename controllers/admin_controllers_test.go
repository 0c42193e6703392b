package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/utils"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiPage struct {
	Items       []map[string]interface{} `json:"items"`
	Total       int64                    `json:"total"`
	Page        int                      `json:"page"`
	Limit       int                      `json:"limit"`
	ListDisplay []string                 `json:"list_display"`
}

func (app *testApp) createStaff(t *testing.T, username string) *models.User {
	t.Helper()
	staff := app.createUser(t, username, models.RoleCustomer)
	require.NoError(t, app.db.Model(&models.User{}).Where("id = ?", staff.ID).Update("is_staff", true).Error)
	staff.IsStaff = true
	return staff
}

func apiCall(t *testing.T, app *testApp, user *models.User, method, target, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		token, err := utils.GenerateToken(user.ID, user.Role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.r.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func TestAdminAPIRequiresStaff(t *testing.T) {
	app := setupApp(t)
	alice := app.createUser(t, "alice", models.RoleCustomer)

	w, resp := apiCall(t, app, nil, http.MethodGet, "/admin/api/users", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Status)

	w, _ = apiCall(t, app, alice, http.MethodGet, "/admin/api/users", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "http://admin.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminListsBookingsWithFiltersAndSearch(t *testing.T) {
	app := setupApp(t)
	staff := app.createStaff(t, "admin")
	alice := app.createUser(t, "alice", models.RoleCustomer)
	carol := app.createUser(t, "carol", models.RoleCustomer)
	bob := app.createCook(t, "bob", models.CookProfile{HourlyRate: 30})

	app.client(t).as(alice).post(fmt.Sprintf("/book/%d/", bob.ID), bookingForm("2024-01-05", "10:00"))
	app.client(t).as(carol).post(fmt.Sprintf("/book/%d/", bob.ID), bookingForm("2024-01-06", "10:00"))
	var first models.Booking
	require.NoError(t, app.db.Where("customer_id = ?", alice.ID).First(&first).Error)
	app.client(t).as(bob).post(fmt.Sprintf("/bookings/%d/confirm/", first.ID), nil)

	w, resp := apiCall(t, app, staff, http.MethodGet, "/admin/api/bookings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Status)
	var page apiPage
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, []string{"customer", "cook", "date", "time", "status", "payment_status"}, page.ListDisplay)

	_, resp = apiCall(t, app, staff, http.MethodGet, "/admin/api/bookings?status=confirmed", "")
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.EqualValues(t, first.ID, page.Items[0]["id"])

	_, resp = apiCall(t, app, staff, http.MethodGet, "/admin/api/bookings?q=CAROL", "")
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, int64(1), page.Total)

	_, resp = apiCall(t, app, staff, http.MethodGet, "/admin/api/bookings?date=2024-01-06", "")
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, int64(1), page.Total)

	w, _ = apiCall(t, app, staff, http.MethodGet, "/admin/api/bookings?date=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = apiCall(t, app, staff, http.MethodGet, fmt.Sprintf("/admin/api/bookings/%d/events", first.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	var events []models.BookingEvent
	require.NoError(t, json.Unmarshal(resp.Data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, models.StatusConfirmed, events[1].ToStatus)

	w, _ = apiCall(t, app, staff, http.MethodGet, "/admin/api/bookings/999/events", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUpdateUser(t *testing.T) {
	app := setupApp(t)
	staff := app.createStaff(t, "admin")
	alice := app.createUser(t, "alice", models.RoleCustomer)

	w, resp := apiCall(t, app, staff, http.MethodPatch, fmt.Sprintf("/admin/api/users/%d", alice.ID), `{"role":"cook"}`)
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	var user models.User
	require.NoError(t, app.db.Preload("CookProfile").First(&user, alice.ID).Error)
	assert.Equal(t, models.RoleCook, user.Role)
	assert.NotNil(t, user.CookProfile)

	w, _ = apiCall(t, app, staff, http.MethodPatch, fmt.Sprintf("/admin/api/users/%d", alice.ID), `{"role":"chef"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = apiCall(t, app, staff, http.MethodPatch, fmt.Sprintf("/admin/api/users/%d", alice.ID), `{"is_active":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, app.db.First(&user, alice.ID).Error)
	assert.False(t, user.IsActive)

	// deactivated users are logged out on their next request
	w = app.client(t).as(alice).get("/profile/")
	assert.Equal(t, http.StatusFound, w.Code)

	w, _ = apiCall(t, app, staff, http.MethodPatch, "/admin/api/users/999", `{"is_staff":true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminDashboardStats(t *testing.T) {
	app := setupApp(t)
	staff := app.createStaff(t, "admin")
	alice := app.createUser(t, "alice", models.RoleCustomer)
	bob := app.createCook(t, "bob", models.CookProfile{HourlyRate: 30})
	completeBooking(t, app, alice, bob, "2024-02-01")

	w, resp := apiCall(t, app, staff, http.MethodGet, "/admin/api/dashboard/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		TotalUsers       int64   `json:"total_users"`
		TotalCooks       int64   `json:"total_cooks"`
		TotalBookings    int64   `json:"total_bookings"`
		TotalRevenue     float64 `json:"total_revenue"`
		BookingsByStatus struct {
			Completed int64 `json:"completed"`
		} `json:"bookings_by_status"`
		PaymentStats struct {
			Paid int64 `json:"paid"`
		} `json:"payment_stats"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalCooks)
	assert.Equal(t, int64(1), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.BookingsByStatus.Completed)
	assert.Equal(t, int64(1), stats.PaymentStats.Paid)
	assert.InDelta(t, 60.0, stats.TotalRevenue, 1e-9)
}
