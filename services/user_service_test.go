package services

import (
	"bytes"
	"context"
	"io/fs"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/cook-platform/forms"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/storage"
)

func registerForm(username, role string) forms.RegisterForm {
	return forms.RegisterForm{
		Username:  username,
		Email:     username + "@example.com",
		Role:      role,
		Password1: "correct-horse-9",
		Password2: "correct-horse-9",
	}
}

func TestRegisterCreatesCookProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, nil)

	cook, err := svc.Register(registerForm("bob", models.RoleCook))
	require.NoError(t, err)
	require.NotNil(t, cook.CookProfile)
	assert.NotEqual(t, "correct-horse-9", cook.Password)

	customer, err := svc.Register(registerForm("alice", models.RoleCustomer))
	require.NoError(t, err)
	assert.Nil(t, customer.CookProfile)

	var profiles int64
	db.Model(&models.CookProfile{}).Count(&profiles)
	assert.Equal(t, int64(1), profiles)

	_, err = svc.Register(registerForm("bob", models.RoleCustomer))
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, nil)

	_, err := svc.Register(registerForm("alice", models.RoleCustomer))
	require.NoError(t, err)

	user, err := svc.Authenticate("alice", "correct-horse-9")
	require.NoError(t, err)
	assert.NotNil(t, user.LastLogin)

	_, err = svc.Authenticate("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody", "correct-horse-9")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = svc.Authenticate("alice", "correct-horse-9")
	assert.ErrorIs(t, err, ErrInactive)
}

func TestCreateSuperuser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db, nil)

	admin, err := svc.CreateSuperuser("admin", "admin@example.com", "admin-pass-1")
	require.NoError(t, err)
	assert.True(t, admin.IsStaff)
	assert.True(t, admin.IsSuperuser)

	_, err = svc.CreateSuperuser("admin", "other@example.com", "admin-pass-1")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func fileUpload(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/profile/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func pngUpload(t *testing.T, name string) *multipart.FileHeader {
	return fileUpload(t, name, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01"))
}

// storedFiles lists every regular file under dir.
func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	require.NoError(t, filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	}))
	return files
}

func TestUpdateProfileForCook(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	store := storage.NewLocalStorage(dir, "/uploads", 0)
	svc := NewUserService(db, store)

	cook, err := svc.Register(registerForm("bob", models.RoleCook))
	require.NoError(t, err)

	profile, err := svc.UpdateProfile(context.Background(), cook, ProfileUpdate{
		User: forms.UserUpdateForm{FirstName: "Bob", LastName: "Baker", Email: "bob@bakery.test"},
		CookForm: &forms.CookProfileForm{
			Cuisine: "French", Dishes: "Croissant, Quiche", ExperienceYears: 7,
			HourlyRate: 55.556, Location: "Lyon", Bio: "Pastry first.",
		},
		Avatar: pngUpload(t, "me.png"),
		Photo:  pngUpload(t, "kitchen.png"),
	})
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "French", profile.Cuisine)
	assert.InDelta(t, 55.56, profile.HourlyRate, 0.001)
	require.NotNil(t, profile.Photo)
	assert.True(t, strings.HasPrefix(*profile.Photo, "/uploads/cook_photos/"))

	var stored models.User
	require.NoError(t, db.First(&stored, cook.ID).Error)
	assert.Equal(t, "Bob Baker", stored.FullName())
	require.NotNil(t, stored.Avatar)
	key := store.GetObjectKeyFromLink(*stored.Avatar)
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.NoError(t, err)

	// replacing the avatar removes the old file
	_, err = svc.UpdateProfile(context.Background(), cook, ProfileUpdate{
		User:   forms.UserUpdateForm{Email: "bob@bakery.test"},
		Avatar: pngUpload(t, "new.png"),
	})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateProfileRejectsNonImage(t *testing.T) {
	db := setupTestDB(t)
	store := storage.NewLocalStorage(t.TempDir(), "/uploads", 0)
	svc := NewUserService(db, store)

	customer, err := svc.Register(registerForm("alice", models.RoleCustomer))
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), customer, ProfileUpdate{
		User:   forms.UserUpdateForm{Email: "alice@example.com"},
		Avatar: fileUpload(t, "virus.exe", []byte("MZ")),
	})
	assert.ErrorIs(t, err, storage.ErrFileType)
	assert.Equal(t, "Upload a valid image. Allowed types are jpg, jpeg, png, gif and webp.", UserMessage(err))
}

func TestUpdateProfileRemovesNewUploadsOnFailure(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()
	svc := NewUserService(db, storage.NewLocalStorage(dir, "/uploads", 0))

	cook, err := svc.Register(registerForm("bob", models.RoleCook))
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), cook, ProfileUpdate{
		User:     forms.UserUpdateForm{Email: "bob@example.com"},
		CookForm: &forms.CookProfileForm{Cuisine: "Thai", Dishes: "Curry", Location: "Leeds"},
		Avatar:   pngUpload(t, "me.png"),
		Photo:    fileUpload(t, "virus.exe", []byte("MZ")),
	})
	assert.ErrorIs(t, err, storage.ErrFileType)
	assert.Empty(t, storedFiles(t, dir))

	var stored models.User
	require.NoError(t, db.First(&stored, cook.ID).Error)
	assert.Nil(t, stored.Avatar)
}
