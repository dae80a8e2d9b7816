// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies which kind of account a user row represents.
type Role string

const (
	// RoleDancer is an end user who books classes and applies to academies.
	RoleDancer Role = "dancer"
	// RoleEstablishment is a venue that publishes events and promotions.
	RoleEstablishment Role = "establishment"
	// RoleAcademy is a school that owns classes and reviews enrollments.
	RoleAcademy Role = "academy"
	// RoleAdmin is a platform operator.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDancer, RoleEstablishment, RoleAcademy, RoleAdmin:
		return true
	}
	return false
}

// User is the shared record behind every account variant. Role-specific
// columns are only meaningful for the variants that expose them.
type User struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Role        Role            `gorm:"type:varchar(20);not null;index" json:"role"`
	Name        string          `gorm:"size:120;not null" json:"name"`
	Email       string          `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string          `gorm:"not null" json:"-"`
	Phone       string          `gorm:"size:40" json:"phone,omitempty"`
	Avatar      string          `gorm:"type:text" json:"avatar,omitempty"`
	DeviceToken string          `gorm:"type:text" json:"-"`
	Address     string          `gorm:"size:255" json:"address,omitempty"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Longitude   *float64        `json:"-"`
	Latitude    *float64        `json:"-"`
	Schedule    *WeeklySchedule `gorm:"serializer:json;type:text" json:"-"`
	Prices      []PriceOption   `gorm:"serializer:json;type:text" json:"-"`
	IsRootAdmin bool            `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an opaque id when the caller did not set one.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// HasLocation reports whether both coordinates are stored.
func (u *User) HasLocation() bool {
	return u.Longitude != nil && u.Latitude != nil
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Account is the role-tagged view of a user. Each variant exposes only the
// fields that belong to its role.
type Account interface {
	Base() *User
	Profile() Profile
}

// Dancer is the dancer variant of User.
type Dancer struct{ *User }

// Establishment is the establishment variant of User.
type Establishment struct{ *User }

// Academy is the academy variant of User.
type Academy struct{ *User }

// Admin is the admin variant of User.
type Admin struct{ *User }

// Account returns the variant matching the user's role.
func (u *User) Account() Account {
	switch u.Role {
	case RoleEstablishment:
		return Establishment{u}
	case RoleAcademy:
		return Academy{u}
	case RoleAdmin:
		return Admin{u}
	default:
		return Dancer{u}
	}
}

func (d Dancer) Base() *User { return d.User }

func (e Establishment) Base() *User { return e.User }

func (a Academy) Base() *User { return a.User }

func (a Admin) Base() *User { return a.User }

// Profile is the public projection of an account.
type Profile struct {
	ID          string     `json:"id"`
	Role        Role       `json:"role"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Avatar      string     `json:"avatar,omitempty"`
	Address     string     `json:"address,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    *Location  `json:"location,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Location is a GeoJSON-style point. Coordinates are [longitude, latitude].
type Location struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func (u *User) baseProfile() Profile {
	updated := u.UpdatedAt
	return Profile{
		ID:        u.ID,
		Role:      u.Role,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: &updated,
	}
}

func (u *User) location() *Location {
	if !u.HasLocation() {
		return nil
	}
	return &Location{Type: "Point", Coordinates: [2]float64{*u.Longitude, *u.Latitude}}
}

func (d Dancer) Profile() Profile {
	p := d.baseProfile()
	p.Location = d.location()
	return p
}

func (e Establishment) Profile() Profile {
	p := e.baseProfile()
	p.Address = e.Address
	p.Description = e.Description
	p.Location = e.location()
	return p
}

func (a Academy) Profile() Profile {
	p := a.baseProfile()
	p.Address = a.Address
	p.Description = a.Description
	p.Location = a.location()
	return p
}

func (a Admin) Profile() Profile {
	return a.baseProfile()
}

// Contact is the routing information notifications need for one recipient.
type Contact struct {
	UserID      string
	Name        string
	Email       string
	DeviceToken string
}

// Contact returns the notification routing details of the user.
func (u *User) Contact() Contact {
	return Contact{
		UserID:      u.ID,
		Name:        u.Name,
		Email:       u.Email,
		DeviceToken: u.DeviceToken,
	}
}
