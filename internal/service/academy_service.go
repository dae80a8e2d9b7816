package service

import (
	"context"
	"strings"

	"bailemos/internal/cache"
	"bailemos/internal/middleware"
	"bailemos/internal/models"
	"bailemos/internal/repository"
	"bailemos/internal/validation"

	"github.com/google/uuid"
)

// AcademyDetail is the public page of one academy.
type AcademyDetail struct {
	models.Profile
	Schedule models.WeeklySchedule `json:"schedule"`
	Prices   []models.PriceOption  `json:"prices"`
}

type CreateClassInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Level       models.ClassLevel `json:"level"`
	Schedule    string            `json:"schedule"`
	Price       float64           `json:"price"`
}

type BookClassInput struct {
	ClassID   string           `json:"classId"`
	DanceRole models.DanceRole `json:"danceRole"`
}

type AcademyService struct {
	users   repository.UserRepository
	classes repository.ClassRepository
}

func NewAcademyService(users repository.UserRepository, classes repository.ClassRepository) *AcademyService {
	return &AcademyService{users: users, classes: classes}
}

func (s *AcademyService) ListAcademies(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	err := cache.Aside(ctx, cache.AcademyListKey, &out, cache.AcademyListTTL, func() error {
		academies, err := s.users.ListByRole(ctx, models.RoleAcademy)
		if err != nil {
			return err
		}
		out = make([]models.Profile, 0, len(academies))
		for i := range academies {
			out = append(out, academies[i].Account().Profile())
		}
		return nil
	})
	return out, err
}

func (s *AcademyService) GetAcademy(ctx context.Context, id string) (*AcademyDetail, error) {
	var out AcademyDetail
	err := cache.Aside(ctx, cache.AcademyKey(id), &out, cache.AcademyTTL, func() error {
		academy, err := s.academy(ctx, id)
		if err != nil {
			return err
		}
		out = AcademyDetail{
			Profile:  academy.Account().Profile(),
			Schedule: scheduleOf(academy),
			Prices:   pricesOf(academy),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AcademyService) CreateClass(ctx context.Context, caller Caller, in CreateClassInput) (*models.DanceClass, error) {
	if caller.Role != models.RoleAcademy {
		return nil, models.NewForbiddenError("Only academies can create classes")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Schedule = strings.TrimSpace(in.Schedule)
	if err := validation.Required("name", in.Name, "level", string(in.Level), "schedule", in.Schedule); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if !in.Level.Valid() {
		return nil, models.NewValidationError("level must be one of Beginner, Intermediate, Advanced, All Levels")
	}
	if in.Price < 0 {
		return nil, models.NewValidationError("price must be greater than or equal to 0")
	}

	class := &models.DanceClass{
		AcademyID:   caller.ID,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Level:       in.Level,
		Schedule:    in.Schedule,
		Price:       in.Price,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.AcademyClassesKey(caller.ID))
	return class, nil
}

// ListClasses lists one academy's classes. Without an explicit academy an
// academy caller sees its own and everyone else sees the whole catalogue.
func (s *AcademyService) ListClasses(ctx context.Context, caller Caller, academyID string) ([]models.DanceClass, error) {
	academyID = strings.TrimSpace(academyID)
	if academyID == "" && caller.Role == models.RoleAcademy {
		academyID = caller.ID
	}
	if academyID == "" {
		return s.classes.List(ctx, "")
	}

	var out []models.DanceClass
	err := cache.Aside(ctx, cache.AcademyClassesKey(academyID), &out, cache.ClassesTTL, func() error {
		classes, err := s.classes.List(ctx, academyID)
		if err != nil {
			return err
		}
		out = classes
		return nil
	})
	return out, err
}

func (s *AcademyService) ClassBookings(ctx context.Context, caller Caller, classID string) ([]models.Booking, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !caller.Is(class.AcademyID) {
		return nil, models.NewForbiddenError("Not authorized to view bookings for this class")
	}
	return s.classes.ListBookingsByClass(ctx, classID)
}

// BookClass reserves a place for a dancer. Payment is recorded as paid.
func (s *AcademyService) BookClass(ctx context.Context, caller Caller, in BookClassInput) (*models.Booking, error) {
	if caller.Role != models.RoleDancer {
		return nil, models.NewForbiddenError("Only dancers can book classes")
	}
	if err := validation.Required("classId", in.ClassID); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	switch in.DanceRole {
	case "":
		in.DanceRole = models.DanceRoleFollower
	case models.DanceRoleLeader, models.DanceRoleFollower:
	default:
		return nil, models.NewValidationError("danceRole must be one of leader, follower")
	}

	class, err := s.classes.GetByID(ctx, in.ClassID)
	if err != nil {
		return nil, err
	}
	existing, err := s.classes.FindActiveBooking(ctx, class.ID, caller.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Already booked this class")
	}

	booking := &models.Booking{
		ClassID:       class.ID,
		DancerID:      caller.ID,
		AcademyID:     class.AcademyID,
		PaymentStatus: models.PaymentStatusPaid,
		Status:        models.BookingStatusActive,
		DanceRole:     in.DanceRole,
	}
	if err := s.classes.Book(ctx, booking); err != nil {
		return nil, err
	}
	booking.Class = class
	middleware.Logger.InfoContext(ctx, "class booked",
		"booking_id", booking.ID, "class_id", class.ID, "academy_id", class.AcademyID)
	return booking, nil
}

func (s *AcademyService) MyBookings(ctx context.Context, caller Caller) ([]models.Booking, error) {
	return s.classes.ListBookingsByDancer(ctx, caller.ID)
}

func (s *AcademyService) CancelBooking(ctx context.Context, caller Caller, bookingID string) (*models.Booking, error) {
	booking, err := s.classes.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !caller.Is(booking.DancerID) {
		return nil, models.NewForbiddenError("Not authorized to cancel this booking")
	}
	return s.classes.CancelBooking(ctx, bookingID)
}

func (s *AcademyService) GetSchedule(ctx context.Context, caller Caller, userID string) (models.WeeklySchedule, error) {
	if err := s.authorizeSettings(caller, userID); err != nil {
		return nil, err
	}
	var out models.WeeklySchedule
	err := cache.Aside(ctx, cache.AcademyScheduleKey(userID), &out, cache.AcademyTTL, func() error {
		academy, err := s.academy(ctx, userID)
		if err != nil {
			return err
		}
		out = scheduleOf(academy)
		return nil
	})
	return out, err
}

func (s *AcademyService) PutSchedule(ctx context.Context, caller Caller, userID string, schedule models.WeeklySchedule) (models.WeeklySchedule, error) {
	if err := s.authorizeSettings(caller, userID); err != nil {
		return nil, err
	}
	normalized, err := validation.NormalizeSchedule(schedule)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.users.UpdateSchedule(ctx, userID, normalized); err != nil {
		return nil, err
	}
	cache.InvalidateAcademy(ctx, userID)
	return normalized, nil
}

func (s *AcademyService) GetPrices(ctx context.Context, caller Caller, userID string) ([]models.PriceOption, error) {
	if err := s.authorizeSettings(caller, userID); err != nil {
		return nil, err
	}
	var out []models.PriceOption
	err := cache.Aside(ctx, cache.AcademyPricesKey(userID), &out, cache.AcademyTTL, func() error {
		academy, err := s.academy(ctx, userID)
		if err != nil {
			return err
		}
		out = pricesOf(academy)
		return nil
	})
	return out, err
}

func (s *AcademyService) PutPrices(ctx context.Context, caller Caller, userID string, prices []models.PriceOption) ([]models.PriceOption, error) {
	if err := s.authorizeSettings(caller, userID); err != nil {
		return nil, err
	}
	if err := validation.ValidatePrices(prices); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	out := make([]models.PriceOption, len(prices))
	for i, p := range prices {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		out[i] = p
	}
	if err := s.users.UpdatePrices(ctx, userID, out); err != nil {
		return nil, err
	}
	cache.InvalidateAcademy(ctx, userID)
	return out, nil
}

func (s *AcademyService) authorizeSettings(caller Caller, userID string) error {
	if !caller.Is(userID) && !caller.IsAdmin() {
		return models.NewForbiddenError("Not authorized to manage this academy")
	}
	return nil
}

func (s *AcademyService) academy(ctx context.Context, id string) (*models.User, error) {
	return loadAcademy(ctx, s.users, id)
}

// loadAcademy fetches a user and requires the academy role.
func loadAcademy(ctx context.Context, users repository.UserRepository, id string) (*models.User, error) {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		if hasCode(err, models.CodeNotFound) {
			return nil, models.NewNotFoundError("Academy", id)
		}
		return nil, err
	}
	if u.Role != models.RoleAcademy {
		return nil, models.NewNotFoundError("Academy", id)
	}
	return u, nil
}

func scheduleOf(u *models.User) models.WeeklySchedule {
	if u.Schedule == nil {
		return models.DefaultSchedule()
	}
	return *u.Schedule
}

func pricesOf(u *models.User) []models.PriceOption {
	if u.Prices == nil {
		return []models.PriceOption{}
	}
	return u.Prices
}
