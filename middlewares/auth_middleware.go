package middlewares

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

const (
	AuthCookie = "auth_token"
	userKey    = "user"
)

// CurrentUser resolves the token (cookie or Bearer header) into the active
// user and stores it on the context. Anonymous requests pass through.
func CurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			ClearAuthCookie(c)
			c.Next()
			return
		}

		var user models.User
		if err := db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.ErrorLogger.Printf("Error loading user %d: %v", claims.UserID, err)
			}
			ClearAuthCookie(c)
			c.Next()
			return
		}

		c.Set(userKey, &user)
		c.Set("userID", user.ID)
		c.Set("role", user.Role)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie
	}
	return ""
}

// GetUser returns the logged in user or nil.
func GetUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// LoginRequired sends anonymous visitors to the login page, remembering
// where they were going.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUser(c) == nil {
			next := c.Request.URL.RequestURI()
			c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(next))
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffRequired guards the admin JSON API.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authentication required"))
			c.Abort()
			return
		}
		if !user.IsStaff {
			utils.RespondError(c, http.StatusForbidden, errors.New("staff access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func SetAuthCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookie, token, int(ttl.Seconds()), "/", "", secure, true)
}

func ClearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookie, "", -1, "/", "", false, true)
}
