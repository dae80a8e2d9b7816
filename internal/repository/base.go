// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"bailemos/internal/geo"
	"bailemos/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// findErr maps a lookup failure to NotFound or Internal.
func findErr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// addStudent inserts (academyID, userID) into the students set. An existing
// member is left untouched.
func addStudent(tx *gorm.DB, academyID, userID string) error {
	member := models.AcademyStudent{AcademyID: academyID, UserID: userID}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}

// withinBox restricts a query on longitude/latitude columns to box.
func withinBox(q *gorm.DB, box geo.Box) *gorm.DB {
	q = q.Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	if box.CrossesAntimeridian() {
		return q.Where("(longitude >= ? OR longitude <= ?)", box.MinLon, box.MaxLon)
	}
	return q.Where("longitude BETWEEN ? AND ?", box.MinLon, box.MaxLon)
}
