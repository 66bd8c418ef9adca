package credits

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultStartingCredits int64 = 20

	ReasonJobApply = "job_apply"
)

// Balance is a user's Connects balance. It never goes below zero.
type Balance struct {
	UserID    string    `json:"user_id" gorm:"type:varchar(36);primaryKey"`
	Balance   int64     `json:"balance" gorm:"not null;default:0;check:balance >= 0"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Balance) TableName() string {
	return "credit_balances"
}

// Transaction records one balance change; debits are negative.
type Transaction struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Amount    int64     `json:"amount" gorm:"not null"`
	Reason    string    `json:"reason" gorm:"type:varchar(32);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
}

func (Transaction) TableName() string {
	return "credit_transactions"
}

func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func Models() []any {
	return []any{&Balance{}, &Transaction{}}
}
