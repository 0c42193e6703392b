package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/services"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB       *gorm.DB
	Bookings *services.BookingService
	Reviews  *services.ReviewService
	Now      func() time.Time
}

func NewDashboardController(db *gorm.DB, bookings *services.BookingService, reviews *services.ReviewService) *DashboardController {
	return &DashboardController{DB: db, Bookings: bookings, Reviews: reviews, Now: time.Now}
}

// CustomerDashboard lists the customer's bookings split around today.
func (dc *DashboardController) CustomerDashboard(c *gin.Context) {
	user := middlewares.GetUser(c)

	upcoming, past, err := dc.Bookings.ForCustomer(user.ID, dc.Now().UTC())
	if err != nil {
		serverErrorPage(c, err)
		return
	}
	reviewable, err := dc.Reviews.PendingFor(user.ID)
	if err != nil {
		serverErrorPage(c, err)
		return
	}

	render(c, http.StatusOK, "customer_dashboard.html", gin.H{
		"Title":      "My bookings",
		"Upcoming":   upcoming,
		"Past":       past,
		"Reviewable": reviewable,
	})
}

func (dc *DashboardController) CookDashboard(c *gin.Context) {
	user := middlewares.GetUser(c)

	bookings, err := dc.Bookings.ForCook(user.ID)
	if err != nil {
		serverErrorPage(c, err)
		return
	}
	stats, err := dc.Bookings.Stats(user.ID)
	if err != nil {
		serverErrorPage(c, err)
		return
	}

	render(c, http.StatusOK, "cook_dashboard.html", gin.H{
		"Title":    "My requests",
		"Bookings": bookings,
		"Stats":    stats,
	})
}
