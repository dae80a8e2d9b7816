package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnrollmentStatus defines lifecycle states for academy enrollments.
type EnrollmentStatus string

const (
	// EnrollmentStatusPending indicates the enrollment is awaiting review.
	EnrollmentStatusPending EnrollmentStatus = "pending"
	// EnrollmentStatusApproved indicates the academy accepted the applicant.
	EnrollmentStatusApproved EnrollmentStatus = "approved"
	// EnrollmentStatusRejected indicates the academy declined the applicant.
	EnrollmentStatusRejected EnrollmentStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusPending, EnrollmentStatusApproved, EnrollmentStatusRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is a state a review may move an enrollment to.
func (s EnrollmentStatus) IsDecision() bool {
	return s == EnrollmentStatusApproved || s == EnrollmentStatusRejected
}

// ActiveEnrollmentStatuses block a new application for the same academy.
var ActiveEnrollmentStatuses = []EnrollmentStatus{EnrollmentStatusPending, EnrollmentStatusApproved}

// Enrollment is an applicant's request to join an academy.
type Enrollment struct {
	ID          string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	AcademyID   string           `gorm:"type:varchar(36);not null;index:idx_enrollments_user_academy,priority:2;index" json:"academyId"`
	Academy     *User            `gorm:"foreignKey:AcademyID" json:"-"`
	UserID      *string          `gorm:"type:varchar(36);index:idx_enrollments_user_academy,priority:1" json:"userId"`
	User        *User            `gorm:"foreignKey:UserID" json:"-"`
	FullName    string           `gorm:"size:160;not null" json:"fullName"`
	Phone       string           `gorm:"size:40;not null" json:"phone"`
	Email       string           `gorm:"size:255;not null" json:"email"`
	IDNumber    string           `gorm:"size:64;not null" json:"idNumber"`
	VoucherPath string           `gorm:"type:text" json:"voucherPath,omitempty"`
	VoucherURL  string           `gorm:"type:text" json:"voucherUrl,omitempty"`
	Status      EnrollmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedAt  *time.Time       `json:"reviewedAt"`
	ReviewedBy  *string          `gorm:"type:varchar(36)" json:"reviewedBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (Enrollment) TableName() string {
	return "enrollments"
}

// BeforeCreate assigns an opaque id when the caller did not set one.
func (e *Enrollment) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// NextPaymentDate is display data for approved enrollments: thirty days after
// the last update.
func (e *Enrollment) NextPaymentDate() time.Time {
	return e.UpdatedAt.Add(30 * 24 * time.Hour)
}
