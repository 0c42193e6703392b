package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/forms"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/services"
	"github.com/yeremiapane/cook-platform/utils"
	"gorm.io/gorm"
)

type UserController struct {
	DB           *gorm.DB
	Users        *services.UserService
	SecureCookie bool
}

func NewUserController(db *gorm.DB, users *services.UserService, secureCookie bool) *UserController {
	return &UserController{DB: db, Users: users, SecureCookie: secureCookie}
}

func (uc *UserController) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{
		"Title": "Sign up",
		"Form":  forms.RegisterForm{Role: models.RoleCustomer},
	})
}

// Register creates the account and sends the user to the login page.
func (uc *UserController) Register(c *gin.Context) {
	var form forms.RegisterForm
	errs := forms.Bind(c, &form)
	data := gin.H{"Title": "Sign up", "Form": form, "Errors": errs}
	if errs != nil {
		renderInvalid(c, "register.html", "Please correct the errors below.", data)
		return
	}

	if _, err := uc.Users.Register(form); err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			data["Errors"] = forms.FieldErrors{"username": services.UserMessage(err)}
			renderInvalid(c, "register.html", "Please correct the errors below.", data)
			return
		}
		serverErrorPage(c, err)
		return
	}

	middlewares.Redirect(c, middlewares.FlashSuccess, "Account created successfully. Please log in.", "/login/")
}

func (uc *UserController) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Form":  forms.LoginForm{},
		"Next":  c.Query("next"),
	})
}

// Login checks the credentials and stores the JWT in an HttpOnly cookie.
func (uc *UserController) Login(c *gin.Context) {
	var form forms.LoginForm
	errs := forms.Bind(c, &form)
	next := c.PostForm("next")
	data := gin.H{"Title": "Log in", "Form": forms.LoginForm{Username: form.Username}, "Errors": errs, "Next": next}
	if errs != nil {
		renderInvalid(c, "login.html", "Invalid username or password.", data)
		return
	}

	user, err := uc.Users.Authenticate(form.Username, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrInactive) {
			utils.InfoLogger.Printf("Failed login for %q from %s", form.Username, c.ClientIP())
			renderInvalid(c, "login.html", "Invalid username or password.", data)
			return
		}
		serverErrorPage(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		serverErrorPage(c, err)
		return
	}
	middlewares.SetAuthCookie(c, token, utils.TokenTTL(), uc.SecureCookie)

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Username, user.Role)
	middlewares.Redirect(c, middlewares.FlashSuccess, "Welcome back!", safeNext(next))
}

func (uc *UserController) Logout(c *gin.Context) {
	middlewares.ClearAuthCookie(c)
	middlewares.Redirect(c, middlewares.FlashInfo, "Logged out successfully.", "/")
}
