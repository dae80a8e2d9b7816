package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"bailemos/internal/config"
	"bailemos/internal/database"
	"bailemos/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "secret123"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:         "test-secret-key-12345678901234567890123456789012",
		JWTIssuer:         "bailemos-api",
		JWTAudience:       "bailemos-app",
		JWTExpiryHours:    1,
		Env:               "test",
		UploadDir:         t.TempDir(),
		PublicBaseURL:     "http://localhost:5000",
		MaxVoucherSizeMB:  1,
		NotifyTimeoutSecs: 1,
		FeatureFlags:      "realtime=on",
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// newTestServer wires a Server over in-memory sqlite. rdb may be nil.
func newTestServer(t *testing.T, rdb *redis.Client) (*Server, *fiber.App) {
	t.Helper()
	db := newTestDB(t)
	srv, err := NewServerWithDeps(testConfig(t), db, rdb)
	require.NoError(t, err)
	t.Cleanup(srv.enrollmentService.Wait)
	return srv, srv.NewApp()
}

func seedUser(t *testing.T, srv *Server, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Role:     role,
		Name:     gofakeit.Name(),
		Email:    strings.ToLower(gofakeit.Email()),
		Password: string(hash),
		Phone:    gofakeit.Phone(),
	}
	if role == models.RoleAcademy || role == models.RoleEstablishment {
		u.Name = gofakeit.Company()
		u.Address = gofakeit.Street()
	}
	if role == models.RoleAcademy {
		schedule := models.DefaultSchedule()
		u.Schedule = &schedule
	}
	require.NoError(t, srv.db.Create(u).Error)
	return u
}

func tokenFor(t *testing.T, srv *Server, u *models.User) string {
	t.Helper()
	token, err := srv.auth.Issue(u.ID, u.Role)
	require.NoError(t, err)
	return token
}

// doJSON sends body as JSON and returns the status and raw response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	return decode[models.ErrorResponse](t, raw).Code
}
