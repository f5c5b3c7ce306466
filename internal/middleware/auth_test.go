package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/officer", Authenticate(secret), RequireRole(RoleOfficer, RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c) + "/" + Role(c))
	})
	return app
}

func request(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/officer", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := make([]byte, 256)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestAuthenticateAndRole(t *testing.T) {
	app := newApp()

	token, err := IssueToken(secret, "officer-1", RoleOfficer, time.Hour)
	require.NoError(t, err)
	code, body := request(t, app, token)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "officer-1/OFFICER", body)

	driverToken, err := IssueToken(secret, "driver-1", RoleDriver, time.Hour)
	require.NoError(t, err)
	code, _ = request(t, app, driverToken)
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestAuthenticateRejects(t *testing.T) {
	app := newApp()

	code, _ := request(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = request(t, app, "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	wrongKey, err := IssueToken("other-secret", "officer-1", RoleOfficer, time.Hour)
	require.NoError(t, err)
	code, _ = request(t, app, wrongKey)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	expired, err := IssueToken(secret, "officer-1", RoleOfficer, -time.Minute)
	require.NoError(t, err)
	code, _ = request(t, app, expired)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseToken(secret, raw)
	assert.Error(t, err)

	_, err = ParseToken("", raw)
	assert.Error(t, err)
}
