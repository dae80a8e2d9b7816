package models

import "time"

// Weekdays lists schedule keys in display order.
var Weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

const (
	// DefaultOpenTime is used when a day omits its opening time.
	DefaultOpenTime = "09:00"
	// DefaultCloseTime is used when a day omits its closing time.
	DefaultCloseTime = "18:00"
)

// DaySchedule is one weekday of an academy's opening hours.
type DaySchedule struct {
	Open      bool   `json:"open" yaml:"open"`
	OpenTime  string `json:"openTime" yaml:"openTime"`
	CloseTime string `json:"closeTime" yaml:"closeTime"`
}

// WeeklySchedule maps weekday keys (mon..sun) to opening hours.
type WeeklySchedule map[string]DaySchedule

// PriceType is the kind of monthly plan an academy sells.
type PriceType string

const (
	PriceTypeIndividual PriceType = "individual"
	PriceTypeCouples    PriceType = "couples"
	PriceTypePrivate    PriceType = "private"
)

// Valid reports whether t is a known plan type.
func (t PriceType) Valid() bool {
	switch t {
	case PriceTypeIndividual, PriceTypeCouples, PriceTypePrivate:
		return true
	}
	return false
}

// DefaultSchedule returns every weekday closed with the default hours.
func DefaultSchedule() WeeklySchedule {
	out := make(WeeklySchedule, len(Weekdays))
	for _, day := range Weekdays {
		out[day] = DaySchedule{OpenTime: DefaultOpenTime, CloseTime: DefaultCloseTime}
	}
	return out
}

// PriceOption is a single monthly plan.
type PriceOption struct {
	ID             string    `json:"id"`
	Type           PriceType `json:"type"`
	MonthlyPrice   float64   `json:"monthlyPrice"`
	ClassesPerWeek int       `json:"classesPerWeek"`
}

// AcademyStudent is one member of an academy's student set.
type AcademyStudent struct {
	AcademyID string    `gorm:"type:varchar(36);primaryKey" json:"academyId"`
	UserID    string    `gorm:"type:varchar(36);primaryKey;index" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (AcademyStudent) TableName() string {
	return "academy_students"
}
