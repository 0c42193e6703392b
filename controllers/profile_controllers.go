package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/forms"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/services"
	"github.com/yeremiapane/cook-platform/storage"
	"gorm.io/gorm"
)

type ProfileController struct {
	DB            *gorm.DB
	Users         *services.UserService
	Cooks         *services.CookService
	MaxUploadSize int64
}

func NewProfileController(db *gorm.DB, users *services.UserService, cooks *services.CookService, maxUploadSize int64) *ProfileController {
	if maxUploadSize <= 0 {
		maxUploadSize = storage.DefaultMaxSize
	}
	return &ProfileController{DB: db, Users: users, Cooks: cooks, MaxUploadSize: maxUploadSize}
}

func (pc *ProfileController) Show(c *gin.Context) {
	user := middlewares.GetUser(c)
	data := gin.H{
		"Title": "Your profile",
		"UserForm": forms.UserUpdateForm{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
	}

	if user.IsCook() {
		profile, err := pc.Cooks.GetOrCreateProfile(user)
		if err != nil {
			serverErrorPage(c, err)
			return
		}
		data["CookForm"] = &forms.CookProfileForm{
			Cuisine:         profile.Cuisine,
			Dishes:          profile.Dishes,
			ExperienceYears: profile.ExperienceYears,
			HourlyRate:      profile.HourlyRate,
			Location:        profile.Location,
			Bio:             profile.Bio,
		}
	}

	render(c, http.StatusOK, "profile.html", data)
}

// Update saves the account fields and, for cooks, the cook profile. Both
// forms are validated together and nothing is saved unless both pass.
func (pc *ProfileController) Update(c *gin.Context) {
	user := middlewares.GetUser(c)
	// room for two images plus the text fields
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*pc.MaxUploadSize+1<<20)

	var userForm forms.UserUpdateForm
	errs := forms.Bind(c, &userForm)
	if errs == nil {
		errs = forms.FieldErrors{}
	}

	in := services.ProfileUpdate{User: userForm}
	var cookForm *forms.CookProfileForm
	if user.IsCook() {
		cookForm = &forms.CookProfileForm{}
		for k, v := range forms.Bind(c, cookForm) {
			errs[k] = v
		}
		in.CookForm = cookForm
		in.Photo = optionalFile(c, "photo")
	}
	in.Avatar = optionalFile(c, "avatar")

	data := gin.H{"Title": "Your profile", "UserForm": userForm, "Errors": errs}
	if cookForm != nil {
		data["CookForm"] = cookForm
	}
	if len(errs) > 0 {
		renderInvalid(c, "profile.html", "Please correct the errors below.", data)
		return
	}

	if _, err := pc.Users.UpdateProfile(c.Request.Context(), user, in); err != nil {
		if errors.Is(err, storage.ErrFileType) || errors.Is(err, storage.ErrFileTooLarge) {
			errs[uploadField(err, in)] = services.UserMessage(err)
			renderInvalid(c, "profile.html", "Please correct the errors below.", data)
			return
		}
		serverErrorPage(c, err)
		return
	}

	middlewares.Redirect(c, middlewares.FlashSuccess, "Profile updated successfully.", "/profile/")
}

func optionalFile(c *gin.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil || fh.Size == 0 {
		return nil
	}
	return fh
}

// uploadField names the file input a storage error belongs to.
func uploadField(err error, in services.ProfileUpdate) string {
	if in.Photo != nil && strings.Contains(err.Error(), "upload cook_photos") {
		return "photo"
	}
	return "avatar"
}
