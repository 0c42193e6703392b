package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/forms"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/services"
	"gorm.io/gorm"
)

type ReviewController struct {
	DB      *gorm.DB
	Reviews *services.ReviewService
}

func NewReviewController(db *gorm.DB, reviews *services.ReviewService) *ReviewController {
	return &ReviewController{DB: db, Reviews: reviews}
}

// AddReview stores the rating and refreshes the cook's average.
func (rc *ReviewController) AddReview(c *gin.Context) {
	cookID, ok := paramID(c, "id")
	if !ok {
		notFoundPage(c)
		return
	}

	var form forms.ReviewForm
	if errs := forms.Bind(c, &form); errs != nil {
		middlewares.Redirect(c, middlewares.FlashError, "Please correct the errors in the review form.", "/dashboard/customer/")
		return
	}

	if _, err := rc.Reviews.Add(middlewares.GetUser(c), cookID, form); err != nil {
		failWith(c, err, "/dashboard/customer/")
		return
	}
	middlewares.Redirect(c, middlewares.FlashSuccess, "Review added!", "/dashboard/customer/")
}
