package middleware

import (
	"edhub/config"
	"edhub/models"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/me", JWTMiddleware(cfg), func(c *fiber.Ctx) error {
		id, role, _ := CurrentUser(c)
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"id": id, "role": role})
	})
	app.Get("/authors", JWTMiddleware(cfg), RequireRoles(models.RoleInstructor, models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestJWTMiddleware(t *testing.T) {
	cfg := &config.Config{JWTKey: "test-key", JWTTTL: time.Hour}
	app := testApp(cfg)

	token, err := GenerateJWT(cfg, &models.User{ID: 42, Name: "Ada", Role: models.RoleStudent})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Status bool `json:"status"`
		Data   struct {
			ID   uint   `json:"id"`
			Role string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Status)
	assert.EqualValues(t, 42, body.Data.ID)
	assert.Equal(t, models.RoleStudent, body.Data.Role)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic " + token,
		"garbage token":  "Bearer not-a-token",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestJWTMiddlewareRejectsExpiredAndForeignTokens(t *testing.T) {
	cfg := &config.Config{JWTKey: "test-key", JWTTTL: time.Hour}
	app := testApp(cfg)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": 1, "exp": time.Now().Add(-time.Minute).Unix()})
	signed, err := expired.SignedString([]byte(cfg.JWTKey))
	require.NoError(t, err)

	foreign, err := GenerateJWT(&config.Config{JWTKey: "other-key", JWTTTL: time.Hour}, &models.User{ID: 1})
	require.NoError(t, err)

	for _, tok := range []string{signed, foreign} {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestRequireRoles(t *testing.T) {
	cfg := &config.Config{JWTKey: "test-key", JWTTTL: time.Hour}
	app := testApp(cfg)

	for role, want := range map[string]int{
		models.RoleStudent:    fiber.StatusForbidden,
		models.RoleInstructor: fiber.StatusNoContent,
		models.RoleAdmin:      fiber.StatusNoContent,
	} {
		token, err := GenerateJWT(cfg, &models.User{ID: 7, Role: role})
		require.NoError(t, err)
		req := httptest.NewRequest("GET", "/authors", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, role)
	}
}
