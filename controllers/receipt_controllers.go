package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/services"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

type ReceiptController struct {
	DB       *gorm.DB
	Bookings *services.BookingService
}

func NewReceiptController(db *gorm.DB, bookings *services.BookingService) *ReceiptController {
	return &ReceiptController{DB: db, Bookings: bookings}
}

// ReceiptNumber formats the receipt number of a booking paid on day.
func ReceiptNumber(day time.Time, bookingID uint) string {
	return fmt.Sprintf("RCP/%s/%06d", day.Format("20060102"), bookingID)
}

// GenerateReceipt streams a PDF receipt of a paid booking to either party.
func (rc *ReceiptController) GenerateReceipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFoundPage(c)
		return
	}
	booking, err := rc.Bookings.Get(id)
	if err != nil {
		failWith(c, err, "/")
		return
	}

	user := middlewares.GetUser(c)
	if booking.CustomerID != user.ID && booking.CookID != user.ID {
		failWith(c, services.ErrUnauthorized, "/")
		return
	}
	if !booking.IsPaid() {
		middlewares.Redirect(c, middlewares.FlashError, "A receipt is only available for paid bookings.", dashboardFor(user.Role))
		return
	}

	amount, err := rc.Bookings.Amount(booking)
	if err != nil {
		serverErrorPage(c, err)
		return
	}

	paidAt, err := rc.Bookings.PaidAt(booking.ID)
	if err != nil {
		serverErrorPage(c, err)
		return
	}

	number := ReceiptNumber(paidAt, booking.ID)
	doc, err := buildReceipt(booking, number, paidAt, amount)
	if err != nil {
		serverErrorPage(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%06d.pdf"`, booking.ID))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func buildReceipt(b *models.Booking, number string, paidAt time.Time, amount float64) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Receipt "+number, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "CookBook", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Payment receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	rate := 0.0
	if b.Cook.CookProfile != nil {
		rate = b.Cook.CookProfile.HourlyRate
	}
	rows := [][2]string{
		{"Receipt no.", number},
		{"Paid", paidAt.Format("2006-01-02 15:04")},
		{"Customer", b.Customer.FullName()},
		{"Cook", b.Cook.FullName()},
		{"Date", b.DateString() + " " + b.Time},
		{"Duration", fmt.Sprintf("%d hours", b.DurationHours)},
		{"Hourly rate", utils.FormatCurrency(rate)},
		{"Status", string(b.Status)},
		{"Payment", string(b.PaymentStatus)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(40, 9, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 9, utils.FormatCurrency(amount), "T", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, "Thank you for booking with CookBook. Cancelled bookings are refunded in full.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
