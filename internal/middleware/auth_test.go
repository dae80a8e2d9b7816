package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bailemos/internal/config"
	"bailemos/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func newTestAuthenticator() *Authenticator {
	return NewAuthenticator(&config.Config{
		JWTSecret:      testSecret,
		JWTIssuer:      "bailemos-api",
		JWTAudience:    "bailemos-app",
		JWTExpiryHours: 1,
	})
}

func TestAuthenticator_IssueAndParse(t *testing.T) {
	auth := newTestAuthenticator()

	token, err := auth.Issue("user-1", models.RoleAcademy)
	require.NoError(t, err)

	claims, err := auth.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, models.RoleAcademy, claims.Role)
	assert.NotEmpty(t, claims.ID)

	other := NewAuthenticator(&config.Config{JWTSecret: testSecret, JWTIssuer: "someone-else", JWTAudience: "bailemos-app"})
	_, err = other.Parse(token)
	assert.Error(t, err, "issuer mismatch must be rejected")
}

func TestAuthRequired(t *testing.T) {
	auth := newTestAuthenticator()
	app := fiber.New()
	app.Get("/test", auth.Required(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": CurrentUserID(c), "role": CurrentRole(c)})
	})

	valid, err := auth.Issue("user-123", models.RoleDancer)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: models.RoleDancer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "bailemos-api",
			Audience:  jwt.ClaimStrings{"bailemos-app"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"Happy Path", "Bearer " + valid, http.StatusOK},
		{"Missing Header", "", http.StatusUnauthorized},
		{"Invalid Format", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"Malformed Token", "Bearer malformed.token.here", http.StatusUnauthorized},
		{"Expired Token", "Bearer " + expiredToken, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]string
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, "user-123", body["userID"])
				assert.Equal(t, "dancer", body["role"])
			}
		})
	}
}

func TestWebSocketAuthRequired(t *testing.T) {
	auth := newTestAuthenticator()
	app := fiber.New()
	app.Get("/ws-test", auth.WebSocketRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	token, err := auth.Issue("user-1", models.RoleAcademy)
	require.NoError(t, err)

	tests := []struct {
		name           string
		tokenParam     string
		authHeader     string
		expectedStatus int
	}{
		{name: "Token via Query Param", tokenParam: token, expectedStatus: http.StatusOK},
		{name: "Token via Header", authHeader: "Bearer " + token, expectedStatus: http.StatusOK},
		{name: "Missing Token", expectedStatus: http.StatusUnauthorized},
		{name: "Invalid Token", tokenParam: "invalid-token", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/ws-test"
			if tt.tokenParam != "" {
				path += "?token=" + tt.tokenParam
			}
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestRoleRequired(t *testing.T) {
	auth := newTestAuthenticator()
	app := fiber.New()
	app.Get("/academy-only", auth.Required(), RoleRequired(models.RoleAcademy, models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for role, want := range map[models.Role]int{
		models.RoleAcademy:       http.StatusOK,
		models.RoleAdmin:         http.StatusOK,
		models.RoleDancer:        http.StatusForbidden,
		models.RoleEstablishment: http.StatusForbidden,
	} {
		token, err := auth.Issue("user-1", role)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/academy-only", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "role %s", role)
		_ = resp.Body.Close()
	}
}

func TestOptionalAuth(t *testing.T) {
	auth := newTestAuthenticator()
	app := fiber.New()
	app.Get("/classes", auth.Optional(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": CurrentUserID(c), "role": CurrentRole(c)})
	})

	token, err := auth.Issue("academy-1", models.RoleAcademy)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantUser string
	}{
		{"anonymous", "", ""},
		{"valid token", "Bearer " + token, "academy-1"},
		{"garbage token", "Bearer not-a-token", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/classes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantUser, body["userID"])
		})
	}
}
