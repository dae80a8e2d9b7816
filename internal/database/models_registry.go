package database

import "bailemos/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.AcademyStudent{},
		&models.Enrollment{},
		&models.DanceClass{},
		&models.Booking{},
		&models.Event{},
		&models.Promotion{},
	}
}
