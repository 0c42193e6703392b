package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/utils"
)

const sessionName = "cook_session"

const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

type Flash struct {
	Level   string
	Message string
}

// Sessions installs the signed cookie session used for flash messages.
func Sessions(secret string, secure bool) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(sessionName, store)
}

// session is nil for handlers that run outside the Sessions middleware,
// such as the not-found handler of static file routes.
func session(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

func AddFlash(c *gin.Context, level, message string) {
	session := session(c)
	if session == nil {
		return
	}
	session.AddFlash(level + ":" + message)
	if err := session.Save(); err != nil {
		utils.ErrorLogger.Printf("Error saving flash message: %v", err)
	}
}

// Flashes pops the pending messages.
func Flashes(c *gin.Context) []Flash {
	session := session(c)
	if session == nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		utils.ErrorLogger.Printf("Error clearing flash messages: %v", err)
	}

	flashes := make([]Flash, 0, len(raw))
	for _, r := range raw {
		s, ok := r.(string)
		if !ok {
			continue
		}
		level, msg, found := strings.Cut(s, ":")
		if !found {
			level, msg = FlashInfo, s
		}
		flashes = append(flashes, Flash{Level: level, Message: msg})
	}
	return flashes
}

// Redirect flashes a message and redirects with 302.
func Redirect(c *gin.Context, level, message, location string) {
	if message != "" {
		AddFlash(c, level, message)
	}
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
