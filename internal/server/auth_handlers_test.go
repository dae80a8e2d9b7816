package server

import (
	"context"
	"net/http"
	"testing"

	"bailemos/internal/geo"
	"bailemos/internal/middleware"
	"bailemos/internal/models"
	"bailemos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateSchedule(ctx context.Context, id string, schedule models.WeeklySchedule) error {
	args := m.Called(ctx, id, schedule)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePrices(ctx context.Context, id string, prices []models.PriceOption) error {
	args := m.Called(ctx, id, prices)
	return args.Error(0)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) ListByRoleWithin(ctx context.Context, role models.Role, box geo.Box) ([]models.User, error) {
	args := m.Called(ctx, role, box)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) AddStudent(ctx context.Context, academyID, userID string) error {
	args := m.Called(ctx, academyID, userID)
	return args.Error(0)
}

func (m *MockUserRepository) ListStudents(ctx context.Context, academyID string) ([]models.User, error) {
	args := m.Called(ctx, academyID)
	return args.Get(0).([]models.User), args.Error(1)
}

func newAuthApp(t *testing.T, users *MockUserRepository) *fiber.App {
	t.Helper()
	cfg := testConfig(t)
	srv := &Server{
		config:      cfg,
		authService: service.NewAuthService(users, nil, middleware.NewAuthenticator(cfg)),
	}
	app := fiber.New()
	app.Post("/api/auth/register", srv.Register)
	app.Post("/api/auth/login", srv.Login)
	return app
}

func TestRegister(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
			Return(models.NewValidationError("User already exists")).Once()
		app := newAuthApp(t, users)

		status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", service.RegisterInput{
			Name: "Salsa Norte", Email: "norte@example.com", Password: testPassword,
			Role: models.RoleAcademy, Address: "Calle Mayor 1",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "User already exists", decode[models.ErrorResponse](t, body).Error)
		users.AssertExpectations(t)
	})

	t.Run("academy requires address", func(t *testing.T) {
		users := new(MockUserRepository)
		app := newAuthApp(t, users)

		status, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", service.RegisterInput{
			Name: "Salsa Norte", Email: "norte@example.com", Password: testPassword, Role: models.RoleAcademy,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("admin self-registration refused", func(t *testing.T) {
		users := new(MockUserRepository)
		app := newAuthApp(t, users)

		status, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", service.RegisterInput{
			Name: "Root", Email: "root@example.com", Password: testPassword, Role: models.RoleAdmin,
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("dancer created", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "lola@example.com" && u.Role == models.RoleDancer && u.Password != testPassword
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = "0b7c7a43-6c1f-4d39-9a65-3b4f7a1e9d10"
		}).Return(nil).Once()
		app := newAuthApp(t, users)

		status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", service.RegisterInput{
			Name: "Lola", Email: " Lola@Example.com ", Password: testPassword, Role: models.RoleDancer,
		})
		require.Equal(t, http.StatusCreated, status, string(body))
		res := decode[service.AuthResult](t, body)
		assert.Equal(t, "0b7c7a43-6c1f-4d39-9a65-3b4f7a1e9d10", res.ID)
		assert.NotEmpty(t, res.Token)
		users.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	academy := &models.User{
		ID:       "5d0e4f1c-2a57-4c2b-8f0e-8f3c1b6a7d21",
		Role:     models.RoleAcademy,
		Name:     "Salsa Norte",
		Email:    "norte@example.com",
		Password: string(hash),
	}

	t.Run("unknown user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil).Once()
		app := newAuthApp(t, users)

		status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "",
			service.LoginInput{Email: "ghost@example.com", Password: testPassword})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, models.CodeUnauthorized, errorCode(t, body))
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByEmail", mock.Anything, academy.Email).Return(academy, nil).Once()
		app := newAuthApp(t, users)

		status, _ := doJSON(t, app, http.MethodPost, "/api/auth/login", "",
			service.LoginInput{Email: academy.Email, Password: "not-it"})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("academy login", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByEmail", mock.Anything, academy.Email).Return(academy, nil).Once()
		app := newAuthApp(t, users)

		status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "",
			service.LoginInput{Email: academy.Email, Password: testPassword})
		require.Equal(t, http.StatusOK, status, string(body))
		res := decode[service.AuthResult](t, body)
		assert.Equal(t, academy.ID, res.ID)
		assert.Equal(t, models.RoleAcademy, res.Role)
		assert.Nil(t, res.EnrolledAcademy)
		assert.NotEmpty(t, res.Token)
		users.AssertExpectations(t)
	})
}
