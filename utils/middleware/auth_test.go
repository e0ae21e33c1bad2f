package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/auth"
)

const middlewareTestSecret = "middleware-test-secret"

func signMiddlewareTestToken(t *testing.T, subject, email, fullName string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.IdentityClaims{
		Email:    email,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(middlewareTestSecret))
	require.NoError(t, err)
	return signed
}

func newAuthTestMiddleware(t *testing.T) (*AuthMiddleware, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	verifier := auth.NewTokenVerifier(auth.VerifierConfig{Secret: middlewareTestSecret})
	return NewAuthMiddleware(verifier, db), db
}

func TestRequireAdminRejectsNonAdminBeforeHandler(t *testing.T) {
	m, db := newAuthTestMiddleware(t)

	user := model.User{ID: "plain-subject", Email: "plain@example.com"}
	require.NoError(t, db.Create(&user).Error)

	handlerCalled := false
	app := fiber.New()
	app.Get("/admin/stats", m.RequireAdmin(), func(c *fiber.Ctx) error {
		handlerCalled = true
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signMiddlewareTestToken(t, user.ID, user.Email, "Plain User"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The handler (and therefore any query it would run) never executed
	require.False(t, handlerCalled)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	m, db := newAuthTestMiddleware(t)

	admin := model.User{ID: "admin-subject", Email: "admin@example.com", IsAdmin: true}
	require.NoError(t, db.Create(&admin).Error)

	app := fiber.New()
	app.Get("/admin/stats", m.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signMiddlewareTestToken(t, admin.ID, admin.Email, "Platform Admin"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdminReloadsFlagFresh(t *testing.T) {
	m, db := newAuthTestMiddleware(t)

	admin := model.User{ID: "demoted-subject", Email: "demoted@example.com", IsAdmin: true}
	require.NoError(t, db.Create(&admin).Error)

	app := fiber.New()
	app.Get("/admin/stats", m.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	token := signMiddlewareTestToken(t, admin.ID, admin.Email, "Former Admin")

	req := httptest.NewRequest(fiber.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Revoking the flag takes effect on the very next request, with the
	// same still-valid token
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", admin.ID).Update("is_admin", false).Error)

	req = httptest.NewRequest(fiber.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequiredRejectsMissingToken(t *testing.T) {
	m, _ := newAuthTestMiddleware(t)

	app := fiber.New()
	app.Get("/me", m.Required(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequiredProvisionsUserLazily(t *testing.T) {
	m, db := newAuthTestMiddleware(t)

	app := fiber.New()
	app.Get("/me", m.Required(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signMiddlewareTestToken(t, "fresh-subject", "fresh@example.com", "Fresh Face"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", "fresh-subject").Error)
	require.Equal(t, "fresh@example.com", user.Email)
	require.Equal(t, "Fresh", user.FirstName)
	require.Equal(t, "Face", user.LastName)
	require.False(t, user.IsAdmin)
}
