package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/cook-platform/admin"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/services"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB       *gorm.DB
	Bookings *services.BookingService
	Cooks    *services.CookService
}

func NewAdminController(db *gorm.DB, bookings *services.BookingService, cooks *services.CookService) *AdminController {
	return &AdminController{DB: db, Bookings: bookings, Cooks: cooks}
}

// List returns the handler listing the registered model name.
func (ac *AdminController) List(name string) gin.HandlerFunc {
	model, ok := admin.Registry[name]
	if !ok {
		panic(fmt.Sprintf("admin: model %q is not registered", name))
	}
	return func(c *gin.Context) {
		page, err := model.List(ac.DB, admin.ParseListParams(c.Request.URL.Query()))
		if err != nil {
			var filterErr *admin.FilterError
			if errors.As(err, &filterErr) {
				utils.RespondError(c, http.StatusBadRequest, err)
				return
			}
			utils.ErrorLogger.Printf("Error listing %s: %v", name, err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to load "+name))
			return
		}
		utils.RespondJSON(c, http.StatusOK, name+" retrieved", page)
	}
}

type UserPatch struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
	IsStaff  *bool   `json:"is_staff"`
}

// UpdateUser lets staff change a user's role and flags. A user switched to
// cook gets an empty profile.
func (ac *AdminController) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid user id"))
		return
	}

	var patch UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if patch.Role != nil && !models.IsValidRole(*patch.Role) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid role %q", *patch.Role))
		return
	}

	updates := map[string]interface{}{}
	if patch.Role != nil {
		updates["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.IsStaff != nil {
		updates["is_staff"] = *patch.IsStaff
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("nothing to update"))
		return
	}

	var user models.User
	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		if user.IsCook() {
			_, err := services.NewCookService(tx).GetOrCreateProfile(&user)
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
			return
		}
		utils.ErrorLogger.Printf("Error updating user %d: %v", id, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to update user"))
		return
	}

	staff := middlewares.GetUser(c)
	utils.InfoLogger.WithFields(logrus.Fields{
		"staff":   staff.Username,
		"user_id": user.ID,
		"changes": updates,
	}).Info("User updated from admin")
	utils.RespondJSON(c, http.StatusOK, "user updated", user)
}

func (ac *AdminController) BookingEvents(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid booking id"))
		return
	}
	if _, err := ac.Bookings.Get(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events, err := ac.Bookings.Events(id)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "booking events retrieved", events)
}

type DashboardStats struct {
	TotalUsers       int64   `json:"total_users"`
	TotalCooks       int64   `json:"total_cooks"`
	TotalBookings    int64   `json:"total_bookings"`
	TodayBookings    int64   `json:"today_bookings"`
	TotalReviews     int64   `json:"total_reviews"`
	TotalRevenue     float64 `json:"total_revenue"`
	BookingsByStatus struct {
		Requested int64 `json:"requested"`
		Confirmed int64 `json:"confirmed"`
		Completed int64 `json:"completed"`
		Cancelled int64 `json:"cancelled"`
	} `json:"bookings_by_status"`
	PaymentStats struct {
		Pending  int64 `json:"pending"`
		Paid     int64 `json:"paid"`
		Refunded int64 `json:"refunded"`
	} `json:"payment_stats"`
}

// GetDashboardStats summarises users, bookings and revenue for staff.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var stats DashboardStats
	today := time.Now().UTC().Truncate(24 * time.Hour)

	counts := []struct {
		dest  *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&stats.TotalUsers, &models.User{}, "", nil},
		{&stats.TotalCooks, &models.User{}, "role = ?", []interface{}{models.RoleCook}},
		{&stats.TotalBookings, &models.Booking{}, "", nil},
		{&stats.TodayBookings, &models.Booking{}, "date = ?", []interface{}{today}},
		{&stats.TotalReviews, &models.Review{}, "", nil},
		{&stats.BookingsByStatus.Requested, &models.Booking{}, "status = ?", []interface{}{models.StatusRequested}},
		{&stats.BookingsByStatus.Confirmed, &models.Booking{}, "status = ?", []interface{}{models.StatusConfirmed}},
		{&stats.BookingsByStatus.Completed, &models.Booking{}, "status = ?", []interface{}{models.StatusCompleted}},
		{&stats.BookingsByStatus.Cancelled, &models.Booking{}, "status = ?", []interface{}{models.StatusCancelled}},
		{&stats.PaymentStats.Pending, &models.Booking{}, "payment_status = ?", []interface{}{models.PaymentPending}},
		{&stats.PaymentStats.Paid, &models.Booking{}, "payment_status = ?", []interface{}{models.PaymentPaid}},
		{&stats.PaymentStats.Refunded, &models.Booking{}, "payment_status = ?", []interface{}{models.PaymentRefunded}},
	}
	for _, q := range counts {
		tx := ac.DB.Model(q.model)
		if q.where != "" {
			tx = tx.Where(q.where, q.args...)
		}
		if err := tx.Count(q.dest).Error; err != nil {
			utils.ErrorLogger.Printf("Error counting dashboard stats: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to load stats"))
			return
		}
	}

	var revenue struct{ Total float64 }
	if err := ac.DB.Model(&models.Booking{}).
		Select("COALESCE(SUM(bookings.duration_hours * cook_profiles.hourly_rate), 0) AS total").
		Joins("JOIN cook_profiles ON cook_profiles.user_id = bookings.cook_id").
		Where("bookings.payment_status = ?", models.PaymentPaid).
		Scan(&revenue).Error; err != nil {
		utils.ErrorLogger.Printf("Error summing revenue: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to load stats"))
		return
	}
	stats.TotalRevenue = utils.RoundMoney(revenue.Total)

	utils.RespondJSON(c, http.StatusOK, "dashboard stats retrieved", stats)
}
