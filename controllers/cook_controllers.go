package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/forms"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/services"
	"gorm.io/gorm"
)

type CookController struct {
	DB      *gorm.DB
	Cooks   *services.CookService
	Reviews *services.ReviewService
}

func NewCookController(db *gorm.DB, cooks *services.CookService, reviews *services.ReviewService) *CookController {
	return &CookController{DB: db, Cooks: cooks, Reviews: reviews}
}

// Home shows the best rated cooks.
func (cc *CookController) Home(c *gin.Context) {
	featured, err := cc.Cooks.Featured(services.FeaturedCount)
	if err != nil {
		serverErrorPage(c, err)
		return
	}
	render(c, http.StatusOK, "home.html", gin.H{"Featured": featured})
}

// List is the searchable cook directory.
func (cc *CookController) List(c *gin.Context) {
	var filters services.CookFilters
	// unknown or malformed params are simply ignored
	_ = c.ShouldBindQuery(&filters)
	filters.Trim()

	cooks, err := cc.Cooks.Search(filters)
	if err != nil {
		serverErrorPage(c, err)
		return
	}
	cuisines, err := cc.Cooks.Cuisines()
	if err != nil {
		serverErrorPage(c, err)
		return
	}

	render(c, http.StatusOK, "cook_list.html", gin.H{
		"Title":    "Find a cook",
		"Cooks":    cooks,
		"Cuisines": cuisines,
		"Filters":  filters,
	})
}

// Profile is the public page of a cook with reviews and the booking form.
func (cc *CookController) Profile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		notFoundPage(c)
		return
	}

	cook, profile, err := cc.Cooks.GetCook(id)
	if err != nil {
		failWith(c, err, "/cooks/")
		return
	}
	reviews, err := cc.Reviews.ForCook(cook.ID)
	if err != nil {
		serverErrorPage(c, err)
		return
	}

	canReview := false
	if user := middlewares.GetUser(c); user.IsCustomer() {
		pending, err := cc.Reviews.PendingFor(user.ID)
		if err != nil {
			serverErrorPage(c, err)
			return
		}
		canReview = pending[cook.ID]
	}

	render(c, http.StatusOK, "cook_profile.html", gin.H{
		"Title":       cook.FullName(),
		"Cook":        cook,
		"Profile":     profile,
		"Reviews":     reviews,
		"CanReview":   canReview,
		"BookingForm": forms.BookingForm{DurationHours: models.DefaultDurationHours},
	})
}
