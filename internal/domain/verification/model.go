package verification

import (
	"time"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied:
		return true
	}
	return false
}

// Request is a creative's application for the verified badge.
// A user holds at most one request; a new submission replaces the old one.
type Request struct {
	ID          string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID      string        `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	Name        string        `json:"name" gorm:"size:255"`
	Email       string        `json:"email" gorm:"size:255"`
	Message     string        `json:"message" gorm:"type:text;not null"`
	Status      RequestStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	SubmittedAt time.Time     `json:"submitted_at" gorm:"not null"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
}

func (Request) TableName() string {
	return "verification_requests"
}

// Override is an admin-set verification flag. It wins over seed defaults.
type Override struct {
	UserID    string    `json:"user_id" gorm:"type:varchar(36);primaryKey"`
	Verified  bool      `json:"verified" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Override) TableName() string {
	return "verification_overrides"
}

// Models lists the tables owned by this package for AutoMigrate.
func Models() []any {
	return []any{&Override{}, &Request{}}
}
