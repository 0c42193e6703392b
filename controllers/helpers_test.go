package controllers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/cook-platform/config"
	"github.com/yeremiapane/cook-platform/database"
	"github.com/yeremiapane/cook-platform/middlewares"
	"github.com/yeremiapane/cook-platform/models"
	"github.com/yeremiapane/cook-platform/router"
	"github.com/yeremiapane/cook-platform/storage"
	"github.com/yeremiapane/cook-platform/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "password-123"

type testApp struct {
	r         *gin.Engine
	db        *gorm.DB
	uploadDir string
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SilenceLoggers()
	utils.ConfigureTokens("test-secret", time.Hour)

	db := database.NewTestDB(t)
	dir := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigin: "http://admin.test"},
		Auth:   config.AuthConfig{SecretKey: "test-secret", TokenTTL: time.Hour, LoginRate: 100},
		Storage: config.StorageConfig{
			Driver:        "local",
			UploadDir:     dir,
			PublicBaseURL: "/uploads",
			MaxUploadSize: storage.DefaultMaxSize,
		},
	}
	store := storage.NewLocalStorage(dir, "/uploads", storage.DefaultMaxSize)

	r, err := router.SetupRouter(db, cfg, store)
	require.NoError(t, err)
	return &testApp{r: r, db: db, uploadDir: dir}
}

func (app *testApp) createUser(t *testing.T, username, role string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		Password: string(hashed),
		IsActive: true,
	}
	require.NoError(t, app.db.Create(user).Error)
	return user
}

func (app *testApp) createCook(t *testing.T, username string, profile models.CookProfile) *models.User {
	t.Helper()
	cook := app.createUser(t, username, models.RoleCook)
	profile.UserID = cook.ID
	require.NoError(t, app.db.Create(&profile).Error)
	return cook
}

// client replays cookies between requests like a browser.
type client struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (app *testApp) client(t *testing.T) *client {
	return &client{t: t, app: app, cookies: map[string]*http.Cookie{}}
}

// as logs the client in by minting a token directly.
func (cl *client) as(user *models.User) *client {
	cl.t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Role)
	require.NoError(cl.t, err)
	cl.cookies[middlewares.AuthCookie] = &http.Cookie{Name: middlewares.AuthCookie, Value: token}
	return cl
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	cl.app.r.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(cl.cookies, c.Name)
			continue
		}
		cl.cookies[c.Name] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) postMultipart(path, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return cl.do(req)
}

// follow asserts a redirect to location and loads it.
func (cl *client) follow(w *httptest.ResponseRecorder, location string) *httptest.ResponseRecorder {
	cl.t.Helper()
	require.Contains(cl.t, []int{http.StatusFound, http.StatusSeeOther}, w.Code, w.Body.String())
	require.Equal(cl.t, location, w.Header().Get("Location"))
	return cl.get(location)
}

func bookingForm(date, at string) url.Values {
	return url.Values{"date": {date}, "time": {at}, "duration_hours": {"2"}}
}
