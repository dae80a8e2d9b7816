package repository

import (
	"context"
	"errors"
	"strings"

	"bailemos/internal/geo"
	"bailemos/internal/models"
	"bailemos/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users and the academy
// students set.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
	UpdateSchedule(ctx context.Context, id string, schedule models.WeeklySchedule) error
	UpdatePrices(ctx context.Context, id string, prices []models.PriceOption) error
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	ListByRoleWithin(ctx context.Context, role models.Role, box geo.Box) ([]models.User, error)
	AddStudent(ctx context.Context, academyID, userID string) error
	ListStudents(ctx context.Context, academyID string) ([]models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, findErr(err, "User", id)
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no account uses the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User already exists")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"id": user.ID, "role": user.Role})
	return nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("User", id)
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) UpdateSchedule(ctx context.Context, id string, schedule models.WeeklySchedule) error {
	return r.updateAcademy(ctx, id, &models.User{Schedule: &schedule}, "schedule")
}

func (r *userRepository) UpdatePrices(ctx context.Context, id string, prices []models.PriceOption) error {
	if prices == nil {
		prices = []models.PriceOption{}
	}
	return r.updateAcademy(ctx, id, &models.User{Prices: prices}, "prices")
}

// updateAcademy writes a serialized column through the model so the JSON
// serializer applies.
func (r *userRepository) updateAcademy(ctx context.Context, id string, values *models.User, column string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role = ?", id, models.RoleAcademy).
		Select(column).
		Updates(values)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Academy", id)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"id": id, "column": column})
	return nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	defer observability.TrackQuery("list", "users")()
	var users []models.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("name ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) ListByRoleWithin(ctx context.Context, role models.Role, box geo.Box) ([]models.User, error) {
	defer observability.TrackQuery("nearby", "users")()
	var users []models.User
	q := withinBox(r.db.WithContext(ctx).Where("role = ?", role), box)
	if err := q.Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) AddStudent(ctx context.Context, academyID, userID string) error {
	if err := addStudent(r.db.WithContext(ctx), academyID, userID); err != nil {
		r.log.LogError(ctx, err, "add_student")
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) ListStudents(ctx context.Context, academyID string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN academy_students s ON s.user_id = users.id").
		Where("s.academy_id = ?", academyID).
		Order("s.created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
