package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassLevel is the difficulty a class is aimed at.
type ClassLevel string

const (
	ClassLevelBeginner     ClassLevel = "Beginner"
	ClassLevelIntermediate ClassLevel = "Intermediate"
	ClassLevelAdvanced     ClassLevel = "Advanced"
	ClassLevelAll          ClassLevel = "All Levels"
)

// Valid reports whether l is a known level.
func (l ClassLevel) Valid() bool {
	switch l {
	case ClassLevelBeginner, ClassLevelIntermediate, ClassLevelAdvanced, ClassLevelAll:
		return true
	}
	return false
}

// DanceClass is a recurring class offered by an academy.
type DanceClass struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	AcademyID   string     `gorm:"type:varchar(36);not null;index" json:"academyId"`
	Academy     *User      `gorm:"foreignKey:AcademyID" json:"-"`
	Name        string     `gorm:"size:120;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Level       ClassLevel `gorm:"type:varchar(20);not null" json:"level"`
	Schedule    string     `gorm:"size:120;not null" json:"schedule"`
	Price       float64    `gorm:"not null" json:"price"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (DanceClass) TableName() string {
	return "dance_classes"
}

// BeforeCreate assigns an opaque id when the caller did not set one.
func (c *DanceClass) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
