package credits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"photomarket/internal/database"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetOrCreate(ctx context.Context, userID string, starting int64) (int64, error) {
	b, err := getOrCreateBalance(s.db.WithContext(ctx), userID, starting)
	if err != nil {
		return 0, err
	}
	return b.Balance, nil
}

func (s *GormStore) SetBalance(ctx context.Context, userID string, balance int64) error {
	b := Balance{UserID: userID, Balance: balance, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
	}).Create(&b).Error
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

// Debit is one conditional update; zero affected rows means the balance
// did not cover the amount.
func (s *GormStore) Debit(ctx context.Context, txn *Transaction, starting int64) (int64, error) {
	cost := -txn.Amount
	var balance Balance

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getOrCreateBalance(tx, txn.UserID, starting); err != nil {
			return err
		}

		res := tx.Model(&Balance{}).
			Where("user_id = ? AND balance >= ?", txn.UserID, cost).
			Updates(map[string]any{
				"balance":    gorm.Expr("balance - ?", cost),
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return fmt.Errorf("debit balance: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCredits
		}

		if err := tx.Create(txn).Error; err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		return tx.Where("user_id = ?", txn.UserID).First(&balance).Error
	})
	if err != nil {
		return 0, err
	}
	return balance.Balance, nil
}

func (s *GormStore) Transactions(ctx context.Context, userID string) ([]Transaction, error) {
	var txns []Transaction
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

func getOrCreateBalance(db *gorm.DB, userID string, starting int64) (*Balance, error) {
	var b Balance
	err := db.Where("user_id = ?", userID).First(&b).Error
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get balance: %w", err)
	}

	b = Balance{UserID: userID, Balance: starting, UpdatedAt: time.Now().UTC()}
	if err := db.Create(&b).Error; err != nil {
		if database.IsUniqueViolation(err, "") {
			if err := db.Where("user_id = ?", userID).First(&b).Error; err != nil {
				return nil, fmt.Errorf("get balance: %w", err)
			}
			return &b, nil
		}
		return nil, fmt.Errorf("create balance: %w", err)
	}
	return &b, nil
}
