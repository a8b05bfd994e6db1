package Controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Summit/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.User{}, &Models.OKRRecord{}, &Models.RequestLog{}))
	Models.DB = db
	Models.InitError = ""
	t.Cleanup(func() { Models.DB = nil })
}

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	setupTestDB(t)
	app := fiber.New()
	app.Post("/api/Login", Login)
	app.Post("/api/RegisterUser", RegisterUser)
	app.Get("/api/validate-token", ValidateToken)
	app.Post("/api/Logout", Logout)
	return app
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, jsonBody(t, payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func registerTestUser(t *testing.T, app *fiber.App) {
	t.Helper()
	resp := postJSON(t, app, "/api/RegisterUser", RegisterInput{
		Username: "ana",
		Password: "secret123",
		Name:     "Ana",
		Tenant:   "acme",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestRegisterAndLogin(t *testing.T) {
	app := newAuthApp(t)
	registerTestUser(t, app)

	resp := postJSON(t, app, "/api/Login", LoginInput{Username: "ana", Password: "secret123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ana", body["username"])
	assert.Equal(t, "Ana", body["name"])
	assert.Equal(t, "acme", body["tenant"])

	var hasJWT bool
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "jwt" && cookie.Value != "" {
			hasJWT = true
		}
	}
	assert.True(t, hasJWT, "login must set the jwt cookie")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app := newAuthApp(t)
	registerTestUser(t, app)

	resp := postJSON(t, app, "/api/RegisterUser", RegisterInput{
		Username: "ana",
		Password: "another456",
		Name:     "Other Ana",
		Tenant:   "globex",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app := newAuthApp(t)

	resp := postJSON(t, app, "/api/RegisterUser", RegisterInput{Username: "x"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginFailureIsIndistinguishable(t *testing.T) {
	app := newAuthApp(t)
	registerTestUser(t, app)

	wrongPassword := postJSON(t, app, "/api/Login", LoginInput{Username: "ana", Password: "wrong-pass"})
	missingAccount := postJSON(t, app, "/api/Login", LoginInput{Username: "nobody", Password: "wrong-pass"})

	require.Equal(t, fiber.StatusUnauthorized, wrongPassword.StatusCode)
	require.Equal(t, fiber.StatusUnauthorized, missingAccount.StatusCode)

	var a, b map[string]string
	require.NoError(t, json.NewDecoder(wrongPassword.Body).Decode(&a))
	require.NoError(t, json.NewDecoder(missingAccount.Body).Decode(&b))
	assert.Equal(t, a["message"], b["message"])
}

func TestPasswordsAreNotStoredPlaintext(t *testing.T) {
	app := newAuthApp(t)
	registerTestUser(t, app)

	var user Models.User
	require.NoError(t, Models.DB.Where("username = ?", "ana").First(&user).Error)
	assert.NotEqual(t, []byte("secret123"), user.Password)
	assert.NotEmpty(t, user.Password)
}

func TestValidateTokenWithoutCookie(t *testing.T) {
	app := newAuthApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/validate-token", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
