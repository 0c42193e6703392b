package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/forms"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/services"
	"github.com/yeremiapane/cook-platform/utils"
)

// render fills in what every page needs: the current user, pending flash
// messages and an empty error set.
func render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middlewares.GetUser(c)

	flashes := middlewares.Flashes(c)
	if extra, ok := data["Flashes"].([]middlewares.Flash); ok {
		flashes = append(extra, flashes...)
	}
	data["Flashes"] = flashes

	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.FieldErrors{}
	}
	c.HTML(code, name, data)
}

// renderInvalid re-renders a form page with an error banner.
func renderInvalid(c *gin.Context, name, message string, data gin.H) {
	data["Flashes"] = []middlewares.Flash{{Level: middlewares.FlashError, Message: message}}
	render(c, http.StatusOK, name, data)
}

func notFoundPage(c *gin.Context) {
	render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not found",
		"Status":  http.StatusNotFound,
		"Message": "The page you were looking for does not exist.",
	})
	c.Abort()
}

func serverErrorPage(c *gin.Context, err error) {
	utils.ErrorLogger.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Server error",
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong on our side. Please try again.",
	})
	c.Abort()
}

// NotFound is the router's NoRoute handler.
func NotFound(c *gin.Context) {
	notFoundPage(c)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// failWith turns a domain error into a flash + redirect. Unexpected errors
// are logged and shown generically.
func failWith(c *gin.Context, err error, location string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		notFoundPage(c)
		return
	case errors.Is(err, services.ErrUnauthorized):
		middlewares.Redirect(c, middlewares.FlashError, services.UserMessage(err), "/")
		return
	case errors.Is(err, services.ErrAlreadyPaid):
		middlewares.Redirect(c, middlewares.FlashInfo, services.UserMessage(err), location)
		return
	}

	msg := services.UserMessage(err)
	if msg == services.UserMessage(nil) {
		utils.ErrorLogger.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	middlewares.Redirect(c, middlewares.FlashError, msg, location)
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
