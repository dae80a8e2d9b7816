// Package seed populates the database with demo data for development and
// testing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bailemos/internal/middleware"
	"bailemos/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Options configures a seeding run.
type Options struct {
	Dancers            int
	PendingPerAcademy  int
	ApprovedPerAcademy int
	BookingsPerDancer  int
	// FastHash hashes passwords at the minimum bcrypt cost.
	FastHash bool
	// Clean removes every non-admin row before seeding.
	Clean bool
	// RandSeed makes fake data reproducible when non-zero.
	RandSeed int64
}

// Summary counts what a run created.
type Summary struct {
	Academies      int
	Establishments int
	Classes        int
	Events         int
	Promotions     int
	Dancers        int
	Enrollments    int
	Bookings       int
}

// Seeder loads the catalogue and generates fake dancers around it.
type Seeder struct {
	db   *gorm.DB
	opts Options
	now  func() time.Time
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.RandSeed != 0 {
		gofakeit.Seed(opts.RandSeed)
	} else {
		gofakeit.Seed(time.Now().UnixNano())
	}
	return &Seeder{db: db, opts: opts, now: func() time.Time { return time.Now().UTC() }}
}

// Run seeds the catalogue, then dancers, enrollments and bookings.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	log := middleware.Logger
	log.Info("starting database seeding", "dancers", s.opts.Dancers)

	if s.opts.Clean {
		if err := Clean(ctx, s.db); err != nil {
			return nil, err
		}
	}

	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}

	hash, err := s.passwordHash()
	if err != nil {
		return nil, err
	}

	sum := &Summary{}
	academies, classes, err := s.seedAcademies(ctx, catalog.Academies, hash, sum)
	if err != nil {
		return nil, err
	}
	if err := s.seedEstablishments(ctx, catalog.Establishments, hash, sum); err != nil {
		return nil, err
	}
	log.Info("catalogue seeded", "academies", sum.Academies, "establishments", sum.Establishments)

	factory := NewFactory(s.db, hash)
	dancers := make([]*models.User, 0, s.opts.Dancers)
	for i := 0; i < s.opts.Dancers; i++ {
		d, err := factory.CreateDancer(ctx)
		if err != nil {
			return nil, err
		}
		dancers = append(dancers, d)
	}
	sum.Dancers = len(dancers)

	if err := s.seedEnrollments(ctx, factory, academies, dancers, sum); err != nil {
		return nil, err
	}

	if len(classes) > 0 {
		for _, d := range dancers {
			for i := 0; i < s.opts.BookingsPerDancer; i++ {
				class := classes[gofakeit.Number(0, len(classes)-1)]
				if _, err := factory.CreateBooking(ctx, class, d); err != nil {
					return nil, err
				}
				sum.Bookings++
			}
		}
	}

	log.Info("database seeding completed",
		"dancers", sum.Dancers, "enrollments", sum.Enrollments, "bookings", sum.Bookings)
	return sum, nil
}

func (s *Seeder) passwordHash() (string, error) {
	cost := bcrypt.DefaultCost
	if s.opts.FastHash {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash seed password: %w", err)
	}
	return string(hash), nil
}

// seedAcademies upserts catalogue academies by email. Classes are only created
// for academies that have none yet, so reruns do not duplicate them.
func (s *Seeder) seedAcademies(ctx context.Context, specs []AcademySpec, hash string, sum *Summary) ([]*models.User, []*models.DanceClass, error) {
	var academies []*models.User
	var classes []*models.DanceClass

	for _, spec := range specs {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			schedule := models.DefaultSchedule()
			for day, hours := range spec.Schedule {
				schedule[day] = hours
			}
			prices := make([]models.PriceOption, 0, len(spec.Prices))
			for _, p := range spec.Prices {
				prices = append(prices, models.PriceOption{
					ID:             uuid.NewString(),
					Type:           p.Type,
					MonthlyPrice:   p.MonthlyPrice,
					ClassesPerWeek: p.ClassesPerWeek,
				})
			}

			academy := &models.User{
				Role:        models.RoleAcademy,
				Name:        spec.Name,
				Email:       strings.ToLower(spec.Email),
				Password:    hash,
				Phone:       spec.Phone,
				Address:     spec.Address,
				Description: spec.Description,
				Schedule:    &schedule,
				Prices:      prices,
			}
			setLocation(academy, spec.Location)

			if err := upsertAccount(tx, academy); err != nil {
				return err
			}
			academies = append(academies, academy)

			var existing []models.DanceClass
			if err := tx.Where("academy_id = ?", academy.ID).Find(&existing).Error; err != nil {
				return err
			}
			if len(existing) > 0 {
				for i := range existing {
					classes = append(classes, &existing[i])
				}
				return nil
			}
			for _, cs := range spec.Classes {
				class := &models.DanceClass{
					AcademyID:   academy.ID,
					Name:        cs.Name,
					Description: cs.Description,
					Level:       cs.Level,
					Schedule:    cs.Schedule,
					Price:       cs.Price,
				}
				if err := tx.Create(class).Error; err != nil {
					return err
				}
				classes = append(classes, class)
				sum.Classes++
			}
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("seed academy %s: %w", spec.Email, err)
		}
		sum.Academies++
	}
	return academies, classes, nil
}

func (s *Seeder) seedEstablishments(ctx context.Context, specs []EstablishmentSpec, hash string, sum *Summary) error {
	now := s.now()
	for _, spec := range specs {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			venue := &models.User{
				Role:        models.RoleEstablishment,
				Name:        spec.Name,
				Email:       strings.ToLower(spec.Email),
				Password:    hash,
				Phone:       spec.Phone,
				Address:     spec.Address,
				Description: spec.Description,
			}
			setLocation(venue, spec.Location)
			if err := upsertAccount(tx, venue); err != nil {
				return err
			}

			var events int64
			if err := tx.Model(&models.Event{}).Where("establishment_id = ?", venue.ID).Count(&events).Error; err != nil {
				return err
			}
			if events == 0 {
				for _, es := range spec.Events {
					event := &models.Event{
						EstablishmentID: venue.ID,
						Name:            es.Name,
						Description:     es.Description,
						Date:            now.Add(time.Duration(es.InDays) * 24 * time.Hour).Truncate(time.Hour),
						CoverCharge:     es.CoverCharge,
						Longitude:       venue.Longitude,
						Latitude:        venue.Latitude,
					}
					if err := tx.Create(event).Error; err != nil {
						return err
					}
					sum.Events++
				}
			}

			var promos int64
			if err := tx.Model(&models.Promotion{}).Where("establishment_id = ?", venue.ID).Count(&promos).Error; err != nil {
				return err
			}
			if promos == 0 {
				for _, ps := range spec.Promotions {
					promo := &models.Promotion{
						ID:              uuid.NewString(),
						EstablishmentID: venue.ID,
						Title:           ps.Title,
						Description:     ps.Description,
						DiscountType:    ps.DiscountType,
						Value:           ps.Value,
						ValidUntil:      now.Add(time.Duration(ps.ValidDays) * 24 * time.Hour),
					}
					promo.QRCodeData = fmt.Sprintf(`{"promoId":%q,"establishmentId":%q,"type":%q,"val":%v}`,
						promo.ID, venue.ID, promo.DiscountType, promo.Value)
					if err := tx.Create(promo).Error; err != nil {
						return err
					}
					sum.Promotions++
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed establishment %s: %w", spec.Email, err)
		}
		sum.Establishments++
	}
	return nil
}

// seedEnrollments gives each academy pending and approved applications from
// distinct dancers.
func (s *Seeder) seedEnrollments(ctx context.Context, f *Factory, academies, dancers []*models.User, sum *Summary) error {
	per := s.opts.PendingPerAcademy + s.opts.ApprovedPerAcademy
	if per == 0 || len(dancers) == 0 {
		return nil
	}
	if per > len(dancers) {
		per = len(dancers)
	}

	for _, academy := range academies {
		pool := make([]*models.User, len(dancers))
		copy(pool, dancers)
		gofakeit.ShuffleAnySlice(pool)

		for i, d := range pool[:per] {
			status := models.EnrollmentStatusPending
			if i >= s.opts.PendingPerAcademy {
				status = models.EnrollmentStatusApproved
			}
			if _, err := f.CreateEnrollment(ctx, academy, d, status); err != nil {
				return err
			}
			sum.Enrollments++
		}
	}
	return nil
}

// upsertAccount inserts u, or refreshes the profile of the account with the
// same email and loads its id into u.
func upsertAccount(tx *gorm.DB, u *models.User) error {
	var existing models.User
	err := tx.Where("email = ?", u.Email).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(u).Error
	case err != nil:
		return err
	}
	if existing.Role != u.Role {
		return fmt.Errorf("%s already exists with role %s", u.Email, existing.Role)
	}
	u.ID = existing.ID
	return tx.Model(&existing).Updates(map[string]interface{}{
		"name":        u.Name,
		"phone":       u.Phone,
		"address":     u.Address,
		"description": u.Description,
		"longitude":   u.Longitude,
		"latitude":    u.Latitude,
	}).Error
}

func setLocation(u *models.User, loc []float64) {
	if len(loc) == 2 {
		lon, lat := loc[0], loc[1]
		u.Longitude, u.Latitude = &lon, &lat
	}
}

// Clean deletes every seeded row. Admin accounts are kept.
func Clean(ctx context.Context, db *gorm.DB) error {
	middleware.Logger.Info("clearing existing data")
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Booking{},
			&models.AcademyStudent{},
			&models.Enrollment{},
			&models.Promotion{},
			&models.Event{},
			&models.DanceClass{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clean %T: %w", model, err)
			}
		}
		return tx.Where("role <> ?", models.RoleAdmin).Delete(&models.User{}).Error
	})
}
