package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

// FeaturedCount is how many cooks the home page shows.
const FeaturedCount = 6

// CookFilters are the raw query-string filters of the cook list. They are
// echoed back to the page unchanged.
type CookFilters struct {
	Q         string `form:"q"`
	Cuisine   string `form:"cuisine"`
	Location  string `form:"location"`
	MinRate   string `form:"min_rate"`
	MaxRate   string `form:"max_rate"`
	MinRating string `form:"min_rating"`
}

func (f *CookFilters) Trim() {
	f.Q = strings.TrimSpace(f.Q)
	f.Cuisine = strings.TrimSpace(f.Cuisine)
	f.Location = strings.TrimSpace(f.Location)
	f.MinRate = strings.TrimSpace(f.MinRate)
	f.MaxRate = strings.TrimSpace(f.MaxRate)
	f.MinRating = strings.TrimSpace(f.MinRating)
}

type CookService struct {
	db *gorm.DB
}

func NewCookService(db *gorm.DB) *CookService {
	return &CookService{db: db}
}

// Search applies every non-empty filter (AND-ed). Numeric filters that do
// not parse are ignored.
func (s *CookService) Search(f CookFilters) ([]models.CookProfile, error) {
	f.Trim()

	q := s.db.Model(&models.CookProfile{}).
		Preload("User").
		Joins("JOIN users ON users.id = cook_profiles.user_id").
		Where("users.role = ? AND users.is_active = ?", models.RoleCook, true)

	if f.Q != "" {
		like := utils.ContainsPattern(f.Q)
		q = q.Where("LOWER(users.username) LIKE ?"+utils.LikeEscape+" OR LOWER(cook_profiles.dishes) LIKE ?"+utils.LikeEscape, like, like)
	}
	if f.Cuisine != "" {
		q = q.Where("LOWER(cook_profiles.cuisine) LIKE ?"+utils.LikeEscape, utils.ContainsPattern(f.Cuisine))
	}
	if f.Location != "" {
		q = q.Where("LOWER(cook_profiles.location) LIKE ?"+utils.LikeEscape, utils.ContainsPattern(f.Location))
	}
	if v, ok := parseNumber(f.MinRate); ok {
		q = q.Where("cook_profiles.hourly_rate >= ?", v)
	}
	if v, ok := parseNumber(f.MaxRate); ok {
		q = q.Where("cook_profiles.hourly_rate <= ?", v)
	}
	if v, ok := parseNumber(f.MinRating); ok {
		q = q.Where("cook_profiles.average_rating >= ?", v)
	}

	var cooks []models.CookProfile
	if err := q.Order("cook_profiles.average_rating DESC, cook_profiles.id ASC").Find(&cooks).Error; err != nil {
		return nil, fmt.Errorf("search cooks: %w", err)
	}
	return cooks, nil
}

// Cuisines lists the distinct non-empty cuisines for the filter dropdown.
func (s *CookService) Cuisines() ([]string, error) {
	var cuisines []string
	err := s.db.Model(&models.CookProfile{}).
		Distinct("cuisine").
		Where("cuisine <> ?", "").
		Order("cuisine").
		Pluck("cuisine", &cuisines).Error
	if err != nil {
		return nil, fmt.Errorf("load cuisines: %w", err)
	}
	return cuisines, nil
}

// Featured returns the n best rated cooks.
func (s *CookService) Featured(n int) ([]models.CookProfile, error) {
	var cooks []models.CookProfile
	err := s.db.Preload("User").
		Joins("JOIN users ON users.id = cook_profiles.user_id").
		Where("users.role = ? AND users.is_active = ?", models.RoleCook, true).
		Order("cook_profiles.average_rating DESC, cook_profiles.id ASC").
		Limit(n).
		Find(&cooks).Error
	if err != nil {
		return nil, fmt.Errorf("load featured cooks: %w", err)
	}
	return cooks, nil
}

// GetCook loads a cook-role user with a profile, creating an empty profile
// when the cook has none yet.
func (s *CookService) GetCook(id uint) (*models.User, *models.CookProfile, error) {
	var cook models.User
	if err := s.db.Where("id = ? AND role = ?", id, models.RoleCook).First(&cook).Error; err != nil {
		return nil, nil, notFound(err, "load cook")
	}
	profile, err := s.GetOrCreateProfile(&cook)
	if err != nil {
		return nil, nil, err
	}
	return &cook, profile, nil
}

func (s *CookService) GetOrCreateProfile(cook *models.User) (*models.CookProfile, error) {
	if !cook.IsCook() {
		return nil, ErrNotCook
	}
	return getOrCreateProfile(s.db, cook)
}

func getOrCreateProfile(db *gorm.DB, cook *models.User) (*models.CookProfile, error) {
	profile := models.CookProfile{UserID: cook.ID}
	err := db.Where(models.CookProfile{UserID: cook.ID}).FirstOrCreate(&profile).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// created concurrently; read it back
		err = db.Where("user_id = ?", cook.ID).First(&profile).Error
	}
	if err != nil {
		return nil, fmt.Errorf("get or create cook profile: %w", err)
	}
	profile.User = *cook
	return &profile, nil
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
