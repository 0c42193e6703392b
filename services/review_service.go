package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/cook-platform/forms"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Add stores a customer's single review of a cook and refreshes the
// cook's average rating in the same transaction.
func (s *ReviewService) Add(customer *models.User, cookID uint, form forms.ReviewForm) (*models.Review, error) {
	if !customer.IsCustomer() {
		return nil, ErrNotCustomer
	}
	if form.Rating < models.MinRating || form.Rating > models.MaxRating {
		return nil, fmt.Errorf("rating %d out of range", form.Rating)
	}

	var cook models.User
	if err := s.db.Where("id = ? AND role = ?", cookID, models.RoleCook).First(&cook).Error; err != nil {
		return nil, notFound(err, "load cook")
	}

	ok, err := s.CanReview(customer.ID, cook.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotReviewable
	}

	review := models.Review{
		CustomerID: customer.ID,
		CookID:     cook.ID,
		Rating:     form.Rating,
		Comment:    form.Comment,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("customer_id = ? AND cook_id = ?", customer.ID, cook.ID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check review: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyReviewed
		}

		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReviewed
			}
			return fmt.Errorf("create review: %w", err)
		}
		return recomputeRating(tx, &cook)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"customer": customer.Username,
		"cook":     cook.Username,
		"rating":   review.Rating,
	}).Info("Review added")
	return &review, nil
}

func recomputeRating(tx *gorm.DB, cook *models.User) error {
	var avg struct{ Average float64 }
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average").
		Where("cook_id = ?", cook.ID).
		Scan(&avg).Error; err != nil {
		return fmt.Errorf("average rating: %w", err)
	}

	profile, err := getOrCreateProfile(tx, cook)
	if err != nil {
		return err
	}
	if err := tx.Model(&models.CookProfile{}).Where("id = ?", profile.ID).
		Update("average_rating", avg.Average).Error; err != nil {
		return fmt.Errorf("update average rating: %w", err)
	}
	profile.AverageRating = avg.Average
	return nil
}

// CanReview reports whether the customer has a completed and paid booking
// with the cook.
func (s *ReviewService) CanReview(customerID, cookID uint) (bool, error) {
	var n int64
	err := s.db.Model(&models.Booking{}).
		Where("customer_id = ? AND cook_id = ? AND status = ? AND payment_status = ?",
			customerID, cookID, models.StatusCompleted, models.PaymentPaid).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check reviewable booking: %w", err)
	}
	return n > 0, nil
}

// PendingFor returns the cooks the customer may review but has not yet.
func (s *ReviewService) PendingFor(customerID uint) (map[uint]bool, error) {
	var cookIDs []uint
	err := s.db.Model(&models.Booking{}).
		Distinct("cook_id").
		Where("customer_id = ? AND status = ? AND payment_status = ?",
			customerID, models.StatusCompleted, models.PaymentPaid).
		Where("cook_id NOT IN (?)",
			s.db.Model(&models.Review{}).Select("cook_id").Where("customer_id = ?", customerID)).
		Pluck("cook_id", &cookIDs).Error
	if err != nil {
		return nil, fmt.Errorf("load reviewable cooks: %w", err)
	}

	pending := make(map[uint]bool, len(cookIDs))
	for _, id := range cookIDs {
		pending[id] = true
	}
	return pending, nil
}

// ForCook lists a cook's reviews newest first.
func (s *ReviewService) ForCook(cookID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Preload("Customer").
		Where("cook_id = ?", cookID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	return reviews, nil
}
