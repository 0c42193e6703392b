package router

import (
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/config"
	"github.com/yeremiapane/cook-platform/controllers"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/services"
	"github.com/yeremiapane/cook-platform/static"
	"github.com/yeremiapane/cook-platform/storage"
	"github.com/yeremiapane/cook-platform/templates"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

// TemplateFuncs are the helpers available to every page.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatCurrency": utils.FormatCurrency,
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"stars": stars,
		"year": func() int {
			return time.Now().Year()
		},
		"ratings": func() []int {
			r := make([]int, 0, models.MaxRating)
			for i := models.MinRating; i <= models.MaxRating; i++ {
				r = append(r, i)
			}
			return r
		},
		"dict": dict,
	}
}

// stars renders a 0-5 rating as filled and empty stars, rounding halves up.
func stars(v interface{}) string {
	var rating float64
	switch n := v.(type) {
	case float64:
		rating = n
	case uint:
		rating = float64(n)
	case int:
		rating = float64(n)
	}
	full := int(rating + 0.5)
	if full < 0 {
		full = 0
	}
	if full > models.MaxRating {
		full = models.MaxRating
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", models.MaxRating-full)
}

func dict(pairs ...interface{}) (map[string]interface{}, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func SetupRouter(db *gorm.DB, cfg *config.Config, store storage.Storage) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())

	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	tmpl, err := templates.Load(TemplateFuncs())
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(middlewares.SecurityHeaders(cfg.Auth.CookieSecure))
	r.Use(middlewares.Sessions(cfg.Auth.SecretKey, cfg.Auth.CookieSecure))
	r.Use(middlewares.CurrentUser(db))

	r.StaticFS("/static", http.FS(static.FS))
	if cfg.Storage.Driver != "s3" {
		uploads := r.Group(cfg.Storage.PublicBaseURL)
		uploads.Use(imagesOnly())
		uploads.Static("/", cfg.Storage.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// services
	userSvc := services.NewUserService(db, store)
	cookSvc := services.NewCookService(db)
	bookingSvc := services.NewBookingService(db)
	reviewSvc := services.NewReviewService(db)

	// controllers
	userCtrl := controllers.NewUserController(db, userSvc, cfg.Auth.CookieSecure)
	cookCtrl := controllers.NewCookController(db, cookSvc, reviewSvc)
	bookingCtrl := controllers.NewBookingController(db, bookingSvc, cookSvc)
	paymentCtrl := controllers.NewPaymentController(db, bookingSvc)
	receiptCtrl := controllers.NewReceiptController(db, bookingSvc)
	dashboardCtrl := controllers.NewDashboardController(db, bookingSvc, reviewSvc)
	reviewCtrl := controllers.NewReviewController(db, reviewSvc)
	profileCtrl := controllers.NewProfileController(db, userSvc, cookSvc, cfg.Storage.MaxUploadSize)
	adminCtrl := controllers.NewAdminController(db, bookingSvc, cookSvc)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/", cookCtrl.Home)
	r.GET("/cooks/", cookCtrl.List)
	r.GET("/cooks/:id/", cookCtrl.Profile)

	limiter := middlewares.NewRateLimiter(cfg.Auth.LoginRate)
	public := r.Group("/")
	public.Use(limiter.RateLimit())
	{
		public.GET("/register/", userCtrl.ShowRegister)
		public.POST("/register/", userCtrl.Register)
		public.GET("/login/", userCtrl.ShowLogin)
		public.POST("/login/", userCtrl.Login)
	}
	r.GET("/logout/", userCtrl.Logout)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.LoginRequired())

	auth.GET("/profile/", profileCtrl.Show)
	auth.POST("/profile/", profileCtrl.Update)

	// either party
	auth.POST("/bookings/:id/cancel/", bookingCtrl.Cancel)
	receipts := auth.Group("/bookings")
	receipts.Use(middlewares.ReceiptLoggerMiddleware())
	{
		receipts.GET("/:id/receipt/", receiptCtrl.GenerateReceipt)
	}

	customer := auth.Group("/")
	customer.Use(middlewares.RoleRequired(models.RoleCustomer, "Only customers can place bookings."))
	{
		customer.GET("/book/:cook_id/", bookingCtrl.ShowBookForm)
		customer.POST("/book/:cook_id/", bookingCtrl.Book)

		pay := customer.Group("/bookings")
		pay.Use(middlewares.PaymentSecurityHeaders(), middlewares.LogPaymentRequest())
		pay.GET("/:id/pay/", paymentCtrl.ShowPayment)
		pay.POST("/:id/pay/", paymentCtrl.Pay)
	}
	auth.GET("/dashboard/customer/",
		middlewares.RoleRequired(models.RoleCustomer, "Only customers can view this page."),
		dashboardCtrl.CustomerDashboard)
	auth.POST("/cooks/:id/review/",
		middlewares.RoleRequired(models.RoleCustomer, "Only customers can add reviews."),
		reviewCtrl.AddReview)

	cook := auth.Group("/")
	cook.Use(middlewares.RoleRequired(models.RoleCook, "Only cooks can view this page."))
	{
		cook.GET("/dashboard/cook/", dashboardCtrl.CookDashboard)
		cook.POST("/bookings/:id/confirm/", bookingCtrl.Confirm)
		cook.POST("/bookings/:id/complete/", bookingCtrl.Complete)
	}

	// ----------------------------------------------------------------
	//                      ADMIN API (staff)
	// ----------------------------------------------------------------
	api := r.Group("/admin/api")
	api.Use(middlewares.CORSMiddlewares(cfg.Server.AllowedOrigin))
	api.Use(middlewares.StaffRequired())
	{
		api.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
		api.GET("/users", adminCtrl.List("users"))
		api.PATCH("/users/:id", adminCtrl.UpdateUser)
		api.GET("/cooks", adminCtrl.List("cooks"))
		api.GET("/bookings", adminCtrl.List("bookings"))
		api.GET("/bookings/:id/events", adminCtrl.BookingEvents)
		api.GET("/reviews", adminCtrl.List("reviews"))
	}

	r.NoRoute(controllers.NotFound)
	return r, nil
}

// imagesOnly keeps the uploads directory from serving anything but images.
func imagesOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ext := strings.ToLower(path.Ext(c.Request.URL.Path))
		for _, allowed := range storage.AllowImage {
			if ext == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatus(http.StatusForbidden)
	}
}
