package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/services"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

type PaymentController struct {
	DB       *gorm.DB
	Bookings *services.BookingService
}

func NewPaymentController(db *gorm.DB, bookings *services.BookingService) *PaymentController {
	return &PaymentController{DB: db, Bookings: bookings}
}

// ShowPayment is the mock checkout page of a confirmed booking.
func (pc *PaymentController) ShowPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFoundPage(c)
		return
	}
	booking, err := pc.Bookings.Get(id)
	if err != nil {
		failWith(c, err, "/dashboard/customer/")
		return
	}

	user := middlewares.GetUser(c)
	switch {
	case booking.CustomerID != user.ID:
		failWith(c, services.ErrUnauthorized, "/")
		return
	case booking.IsPaid():
		failWith(c, services.ErrAlreadyPaid, "/dashboard/customer/")
		return
	case booking.Status != models.StatusConfirmed:
		failWith(c, services.ErrPayBeforeConfirm, "/dashboard/customer/")
		return
	}

	amount, err := pc.Bookings.Amount(booking)
	if err != nil {
		serverErrorPage(c, err)
		return
	}
	render(c, http.StatusOK, "payment.html", gin.H{
		"Title":   "Payment",
		"Booking": booking,
		"Amount":  amount,
	})
}

// Pay marks the booking paid. No money moves; this stands in for a gateway.
func (pc *PaymentController) Pay(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFoundPage(c)
		return
	}
	booking, err := pc.Bookings.Pay(middlewares.GetUser(c), id)
	if err != nil {
		failWith(c, err, "/dashboard/customer/")
		return
	}

	amount, err := pc.Bookings.Amount(booking)
	if err != nil {
		utils.ErrorLogger.Printf("Error computing amount for booking %d: %v", booking.ID, err)
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"amount":     amount,
	}).Info("Payment recorded")

	middlewares.Redirect(c, middlewares.FlashSuccess, "Payment successful!", "/dashboard/customer/")
}
