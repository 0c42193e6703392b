package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/forms"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/services"
	"gorm.io/gorm"
)

type BookingController struct {
	DB       *gorm.DB
	Bookings *services.BookingService
	Cooks    *services.CookService
}

func NewBookingController(db *gorm.DB, bookings *services.BookingService, cooks *services.CookService) *BookingController {
	return &BookingController{DB: db, Bookings: bookings, Cooks: cooks}
}

func (bc *BookingController) ShowBookForm(c *gin.Context) {
	cookID, ok := paramID(c, "cook_id")
	if !ok {
		notFoundPage(c)
		return
	}
	cook, profile, err := bc.Cooks.GetCook(cookID)
	if err != nil {
		failWith(c, err, "/cooks/")
		return
	}
	render(c, http.StatusOK, "book_cook.html", gin.H{
		"Title":       "Book " + cook.FullName(),
		"Cook":        cook,
		"Profile":     profile,
		"BookingForm": forms.BookingForm{DurationHours: models.DefaultDurationHours},
	})
}

// Book requests a slot with a cook. A taken slot sends the customer back
// to the cook's page.
func (bc *BookingController) Book(c *gin.Context) {
	cookID, ok := paramID(c, "cook_id")
	if !ok {
		notFoundPage(c)
		return
	}
	cook, profile, err := bc.Cooks.GetCook(cookID)
	if err != nil {
		failWith(c, err, "/cooks/")
		return
	}

	var form forms.BookingForm
	if errs := forms.Bind(c, &form); errs != nil {
		renderInvalid(c, "book_cook.html", "Please correct the errors in booking form.", gin.H{
			"Title":       "Book " + cook.FullName(),
			"Cook":        cook,
			"Profile":     profile,
			"BookingForm": form,
			"Errors":      errs,
		})
		return
	}

	user := middlewares.GetUser(c)
	if _, err := bc.Bookings.Create(user, cook.ID, form); err != nil {
		if errors.Is(err, services.ErrSlotTaken) {
			middlewares.Redirect(c, middlewares.FlashError, services.UserMessage(err), fmt.Sprintf("/cooks/%d/", cook.ID))
			return
		}
		failWith(c, err, fmt.Sprintf("/cooks/%d/", cook.ID))
		return
	}

	middlewares.Redirect(c, middlewares.FlashSuccess, "Booking requested!", "/dashboard/customer/")
}

func (bc *BookingController) Confirm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFoundPage(c)
		return
	}
	if _, err := bc.Bookings.Confirm(middlewares.GetUser(c), id); err != nil {
		failWith(c, err, "/dashboard/cook/")
		return
	}
	middlewares.Redirect(c, middlewares.FlashSuccess, "Booking confirmed. Waiting for customer payment.", "/dashboard/cook/")
}

// Cancel is available to both parties; the redirect depends on who asked.
func (bc *BookingController) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFoundPage(c)
		return
	}
	user := middlewares.GetUser(c)
	back := dashboardFor(user.Role)
	if _, err := bc.Bookings.Cancel(user, id); err != nil {
		failWith(c, err, back)
		return
	}
	middlewares.Redirect(c, middlewares.FlashInfo, "Booking cancelled and payment refunded.", back)
}

func (bc *BookingController) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFoundPage(c)
		return
	}
	if _, err := bc.Bookings.Complete(middlewares.GetUser(c), id); err != nil {
		failWith(c, err, "/dashboard/cook/")
		return
	}
	middlewares.Redirect(c, middlewares.FlashSuccess, "Booking marked as completed.", "/dashboard/cook/")
}

func dashboardFor(role string) string {
	if role == models.RoleCook {
		return "/dashboard/cook/"
	}
	return "/dashboard/customer/"
}
