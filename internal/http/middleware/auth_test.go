package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogapi/internal/auth"
	"catalogapi/internal/model"
)

func newTestIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	return issuer
}

func okHandler(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

func TestRequireAuth(t *testing.T) {
	issuer := newTestIssuer(t)
	app := fiber.New()
	app.Get("/private", RequireAuth(issuer), okHandler)

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		tok, err := issuer.Issue(&model.User{ID: "u1", Role: model.RoleReader})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRequireCapability(t *testing.T) {
	issuer := newTestIssuer(t)
	app := fiber.New()
	app.Post("/books", RequireAuth(issuer), RequireCapability(auth.CapBooksWrite), okHandler)

	t.Run("reader lacks books:write", func(t *testing.T) {
		tok, err := issuer.Issue(&model.User{ID: "u1", Role: model.RoleReader})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/books", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("editor passes", func(t *testing.T) {
		tok, err := issuer.Issue(&model.User{ID: "u1", Role: model.RoleEditor})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/books", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestOptionalAuth(t *testing.T) {
	issuer := newTestIssuer(t)
	app := fiber.New()
	app.Post("/tickets", OptionalAuth(issuer), func(c *fiber.Ctx) error {
		if claims, ok := ClaimsFromCtx(c); ok {
			return c.JSON(fiber.Map{"user_id": claims.UserID})
		}
		return c.JSON(fiber.Map{"user_id": ""})
	})

	t.Run("anonymous passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tickets", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("token attaches claims", func(t *testing.T) {
		tok, err := issuer.Issue(&model.User{ID: "u1", Role: model.RoleReader})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/tickets", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
