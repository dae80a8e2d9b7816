package service

import (
	"context"
	"strings"
	"time"

	"bailemos/internal/cache"
	"bailemos/internal/models"
	"bailemos/internal/repository"
	"bailemos/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID string, role models.Role) (string, error)
}

type RegisterInput struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Role        models.Role `json:"role"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	Description string      `json:"description"`
	Location    []float64   `json:"location"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileInput carries optional fields; nil means unchanged.
type UpdateProfileInput struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// EnrolledAcademy summarizes a dancer's current membership.
type EnrolledAcademy struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Status          models.EnrollmentStatus `json:"status"`
	NextPaymentDate string                  `json:"nextPaymentDate"`
}

type AuthResult struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Role            models.Role      `json:"role"`
	Token           string           `json:"token"`
	EnrolledAcademy *EnrolledAcademy `json:"enrolledAcademy,omitempty"`
}

type AuthService struct {
	users       repository.UserRepository
	enrollments repository.EnrollmentRepository
	tokens      TokenIssuer
}

func NewAuthService(users repository.UserRepository, enrollments repository.EnrollmentRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, enrollments: enrollments, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Address = strings.TrimSpace(in.Address)
	in.Role = models.Role(strings.ToLower(strings.TrimSpace(string(in.Role))))

	if err := validation.Required(
		"name", in.Name,
		"email", in.Email,
		"password", in.Password,
		"role", string(in.Role),
	); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	switch in.Role {
	case models.RoleDancer:
	case models.RoleEstablishment, models.RoleAcademy:
		if in.Address == "" {
			return nil, models.NewValidationError("address is required for " + string(in.Role) + " accounts")
		}
	default:
		return nil, models.NewValidationError("role must be one of dancer, establishment, academy")
	}

	user := &models.User{
		Role:        in.Role,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       strings.TrimSpace(in.Phone),
		Address:     in.Address,
		Description: strings.TrimSpace(in.Description),
	}
	if in.Location != nil {
		if err := validation.ValidateLocation(in.Location); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		lon, lat := in.Location[0], in.Location[1]
		user.Longitude, user.Latitude = &lon, &lat
	}
	if in.Role == models.RoleAcademy {
		schedule := models.DefaultSchedule()
		user.Schedule = &schedule
		user.Prices = []models.PriceOption{}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user.Password = string(hashed)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if user.Role == models.RoleAcademy {
		cache.Invalidate(ctx, cache.AcademyListKey)
	}

	return s.result(user, nil)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}

	var enrolled *EnrolledAcademy
	if user.Role == models.RoleDancer {
		if enrolled, err = s.enrolledAcademy(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return s.result(user, enrolled)
}

func (s *AuthService) Me(ctx context.Context, caller Caller) (*models.Profile, error) {
	user, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	p := user.Account().Profile()
	return &p, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, caller Caller, in UpdateProfileInput) (*models.Profile, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("name must not be empty")
		}
		fields["name"] = name
	}
	if in.Avatar != nil {
		fields["avatar"] = strings.TrimSpace(*in.Avatar)
	}
	if len(fields) == 0 {
		return nil, models.NewValidationError("Provide name or avatar to update")
	}
	fields["updated_at"] = time.Now().UTC()

	user, err := s.users.UpdateFields(ctx, caller.ID, fields)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAcademy {
		cache.InvalidateAcademy(ctx, user.ID)
	}
	p := user.Account().Profile()
	return &p, nil
}

func (s *AuthService) UpdateDeviceToken(ctx context.Context, caller Caller, token string) error {
	token = strings.TrimSpace(token)
	if err := validation.Required("deviceToken", token); err != nil {
		return models.NewValidationError(err.Error())
	}
	_, err := s.users.UpdateFields(ctx, caller.ID, map[string]interface{}{"device_token": token})
	return err
}

func (s *AuthService) enrolledAcademy(ctx context.Context, userID string) (*EnrolledAcademy, error) {
	e, err := s.enrollments.LatestApprovedForUser(ctx, userID)
	if err != nil || e == nil {
		return nil, err
	}
	out := &EnrolledAcademy{
		ID:              e.AcademyID,
		Status:          e.Status,
		NextPaymentDate: e.NextPaymentDate().UTC().Format(time.RFC3339),
	}
	if e.Academy != nil {
		out.Name = e.Academy.Name
	}
	return out, nil
}

func (s *AuthService) result(user *models.User, enrolled *EnrolledAcademy) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		Token:           token,
		EnrolledAcademy: enrolled,
	}, nil
}
