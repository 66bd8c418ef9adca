package identity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient   Role = "client"
	RoleCreative Role = "creative"
	RoleVisitor  Role = "visitor"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleCreative, RoleVisitor, RoleAdmin:
		return true
	}
	return false
}

// User is the account record supplied to the marketplace.
// Role and Country do not change after signup.
type User struct {
	ID           string `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email        string `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"not null"`
	Name         string `json:"name" gorm:"size:255"`
	Role         Role   `json:"role" gorm:"type:varchar(16);not null;index"`
	Country      string `json:"country" gorm:"size:120"`
	// SeedVerified is the default verification flag from seed data; admin
	// overrides in the verification registry take precedence.
	SeedVerified bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
