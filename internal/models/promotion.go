package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountType describes how a promotion's value is applied.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
	DiscountTypeFreePass   DiscountType = "free_pass"
)

// Valid reports whether d is a known discount type.
func (d DiscountType) Valid() bool {
	switch d {
	case DiscountTypePercentage, DiscountTypeFixed, DiscountTypeFreePass:
		return true
	}
	return false
}

// Promotion is a redeemable offer published by an establishment.
type Promotion struct {
	ID              string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	EstablishmentID string       `gorm:"type:varchar(36);not null;index" json:"establishmentId"`
	Establishment   *User        `gorm:"foreignKey:EstablishmentID" json:"-"`
	Title           string       `gorm:"size:160;not null" json:"title"`
	Description     string       `gorm:"type:text" json:"description,omitempty"`
	DiscountType    DiscountType `gorm:"type:varchar(20);not null" json:"discountType"`
	Value           float64      `gorm:"not null;default:0" json:"value"`
	QRCodeData      string       `gorm:"type:text" json:"qrCodeData"`
	ValidUntil      time.Time    `gorm:"not null;index" json:"validUntil"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (Promotion) TableName() string {
	return "promotions"
}

// BeforeCreate assigns an opaque id when the caller did not set one.
func (p *Promotion) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the promotion is no longer redeemable at now.
func (p *Promotion) Expired(now time.Time) bool {
	return now.After(p.ValidUntil)
}
