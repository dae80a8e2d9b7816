package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a dated night published by an establishment.
type Event struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	EstablishmentID string    `gorm:"type:varchar(36);not null;index" json:"establishmentId"`
	Establishment   *User     `gorm:"foreignKey:EstablishmentID" json:"-"`
	Name            string    `gorm:"size:160;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	Date            time.Time `gorm:"not null;index" json:"date"`
	Longitude       *float64  `json:"-"`
	Latitude        *float64  `json:"-"`
	CoverCharge     float64   `gorm:"not null;default:0" json:"coverCharge"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (Event) TableName() string {
	return "events"
}

// BeforeCreate assigns an opaque id when the caller did not set one.
func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Location returns the event's point, or nil when it has no coordinates.
func (e *Event) Location() *Location {
	if e.Longitude == nil || e.Latitude == nil {
		return nil
	}
	return &Location{Type: "Point", Coordinates: [2]float64{*e.Longitude, *e.Latitude}}
}
