// Package admin describes how each model is listed, filtered and searched
// in the staff back office.
package admin

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type FilterKind int

const (
	FilterExact FilterKind = iota
	FilterBool
	FilterDate // column holds a date
	FilterDay  // column holds a timestamp, matched by calendar day
)

type Filter struct {
	Param  string
	Column string
	Kind   FilterKind
}

type ModelAdmin struct {
	Name         string
	Model        interface{}
	NewList      func() interface{}
	ListDisplay  []string
	Filters      []Filter
	SearchFields []string
	Joins        []string
	Preloads     []string
	Ordering     string
}

type ListParams struct {
	Page    int
	Limit   int
	Search  string
	Filters url.Values
}

type Page struct {
	Items       interface{} `json:"items"`
	Total       int64       `json:"total"`
	Page        int         `json:"page"`
	Limit       int         `json:"limit"`
	ListDisplay []string    `json:"list_display"`
}

var Registry = map[string]*ModelAdmin{
	"users": {
		Name:         "users",
		Model:        &models.User{},
		NewList:      func() interface{} { return &[]models.User{} },
		ListDisplay:  []string{"username", "email", "role", "is_active", "is_staff"},
		Filters: []Filter{
			{Param: "role", Column: "users.role"},
			{Param: "is_staff", Column: "users.is_staff", Kind: FilterBool},
			{Param: "is_superuser", Column: "users.is_superuser", Kind: FilterBool},
			{Param: "is_active", Column: "users.is_active", Kind: FilterBool},
		},
		SearchFields: []string{"users.username", "users.first_name", "users.last_name", "users.email"},
		Ordering:     "users.username ASC",
	},
	"cooks": {
		Name:         "cooks",
		Model:        &models.CookProfile{},
		NewList:      func() interface{} { return &[]models.CookProfile{} },
		ListDisplay:  []string{"user", "cuisine", "experience_years", "hourly_rate", "average_rating"},
		SearchFields: []string{"cook_user.username", "cook_profiles.cuisine", "cook_profiles.dishes", "cook_profiles.location"},
		Joins:        []string{"JOIN users cook_user ON cook_user.id = cook_profiles.user_id"},
		Preloads:     []string{"User"},
		Ordering:     "cook_profiles.id DESC",
	},
	"bookings": {
		Name:        "bookings",
		Model:       &models.Booking{},
		NewList:     func() interface{} { return &[]models.Booking{} },
		ListDisplay: []string{"customer", "cook", "date", "time", "status", "payment_status"},
		Filters: []Filter{
			{Param: "status", Column: "bookings.status"},
			{Param: "payment_status", Column: "bookings.payment_status"},
			{Param: "date", Column: "bookings.date", Kind: FilterDate},
		},
		SearchFields: []string{"booking_customer.username", "booking_cook.username"},
		Joins: []string{
			"JOIN users booking_customer ON booking_customer.id = bookings.customer_id",
			"JOIN users booking_cook ON booking_cook.id = bookings.cook_id",
		},
		Preloads: []string{"Customer", "Cook"},
		Ordering: "bookings.created_at DESC, bookings.id DESC",
	},
	"reviews": {
		Name:        "reviews",
		Model:       &models.Review{},
		NewList:     func() interface{} { return &[]models.Review{} },
		ListDisplay: []string{"customer", "cook", "rating", "created_at"},
		Filters: []Filter{
			{Param: "rating", Column: "reviews.rating"},
			{Param: "created_at", Column: "reviews.created_at", Kind: FilterDay},
		},
		SearchFields: []string{"review_customer.username", "review_cook.username", "reviews.comment"},
		Joins: []string{
			"JOIN users review_customer ON review_customer.id = reviews.customer_id",
			"JOIN users review_cook ON review_cook.id = reviews.cook_id",
		},
		Preloads: []string{"Customer", "Cook"},
		Ordering: "reviews.created_at DESC, reviews.id DESC",
	},
}

// ParseListParams reads page, limit, q and filter values from a query string.
func ParseListParams(values url.Values) ListParams {
	p := ListParams{
		Page:    1,
		Limit:   DefaultLimit,
		Search:  strings.TrimSpace(values.Get("q")),
		Filters: values,
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		p.Limit = limit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// List runs the filtered, searched and paginated query.
func (m *ModelAdmin) List(db *gorm.DB, p ListParams) (*Page, error) {
	q := db.Model(m.Model)
	for _, j := range m.Joins {
		q = q.Joins(j)
	}

	for _, f := range m.Filters {
		raw := strings.TrimSpace(p.Filters.Get(f.Param))
		if raw == "" {
			continue
		}
		var err error
		if q, err = applyFilter(q, f, raw); err != nil {
			return nil, err
		}
	}

	if p.Search != "" && len(m.SearchFields) > 0 {
		like := utils.ContainsPattern(p.Search)
		clauses := make([]string, len(m.SearchFields))
		args := make([]interface{}, len(m.SearchFields))
		for i, field := range m.SearchFields {
			clauses[i] = "LOWER(" + field + ") LIKE ?" + utils.LikeEscape
			args[i] = like
		}
		q = q.Where(strings.Join(clauses, " OR "), args...)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count %s: %w", m.Name, err)
	}

	for _, preload := range m.Preloads {
		q = q.Preload(preload)
	}
	items := m.NewList()
	if err := q.Order(m.Ordering).
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", m.Name, err)
	}

	return &Page{
		Items:       items,
		Total:       total,
		Page:        p.Page,
		Limit:       p.Limit,
		ListDisplay: m.ListDisplay,
	}, nil
}

// FilterError is returned for a filter value that cannot be parsed.
type FilterError struct {
	Param string
	Value string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid value %q for filter %s", e.Value, e.Param)
}

func applyFilter(q *gorm.DB, f Filter, raw string) (*gorm.DB, error) {
	switch f.Kind {
	case FilterBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &FilterError{Param: f.Param, Value: raw}
		}
		return q.Where(f.Column+" = ?", b), nil
	case FilterDate:
		d, err := time.ParseInLocation(models.DateLayout, raw, time.UTC)
		if err != nil {
			return nil, &FilterError{Param: f.Param, Value: raw}
		}
		return q.Where(f.Column+" = ?", d), nil
	case FilterDay:
		d, err := time.ParseInLocation(models.DateLayout, raw, time.UTC)
		if err != nil {
			return nil, &FilterError{Param: f.Param, Value: raw}
		}
		return q.Where(f.Column+" >= ? AND "+f.Column+" < ?", d, d.AddDate(0, 0, 1)), nil
	default:
		return q.Where(f.Column+" = ?", raw), nil
	}
}
