package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatus tracks whether a booking still holds a place.
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus is the simulated payment state of a booking.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// DanceRole is the partner role a dancer books a class as.
type DanceRole string

const (
	DanceRoleLeader   DanceRole = "leader"
	DanceRoleFollower DanceRole = "follower"
)

// Booking is a dancer's place in a class.
type Booking struct {
	ID            string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	ClassID       string        `gorm:"type:varchar(36);not null;index" json:"classId"`
	Class         *DanceClass   `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	DancerID      string        `gorm:"type:varchar(36);not null;index" json:"dancerId"`
	AcademyID     string        `gorm:"type:varchar(36);not null;index" json:"academyId"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'paid'" json:"paymentStatus"`
	Status        BookingStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	DanceRole     DanceRole     `gorm:"type:varchar(20);not null;default:'follower'" json:"danceRole"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (Booking) TableName() string {
	return "bookings"
}

// BeforeCreate assigns an opaque id when the caller did not set one.
func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
