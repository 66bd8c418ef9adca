package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetOverride(ctx context.Context, userID string) (bool, bool, error) {
	var o Override
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("get verification override: %w", err)
	}
	return o.Verified, true, nil
}

func (s *GormStore) SetOverride(ctx context.Context, userID string, verified bool) error {
	return setOverride(s.db.WithContext(ctx), userID, verified)
}

func setOverride(db *gorm.DB, userID string, verified bool) error {
	o := Override{UserID: userID, Verified: verified, UpdatedAt: time.Now().UTC()}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"verified", "updated_at"}),
	}).Create(&o).Error
	if err != nil {
		return fmt.Errorf("set verification override: %w", err)
	}
	return nil
}

func (s *GormStore) ReplaceRequest(ctx context.Context, req *Request) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", req.UserID).Delete(&Request{}).Error; err != nil {
			return fmt.Errorf("supersede verification request: %w", err)
		}
		if err := tx.Create(req).Error; err != nil {
			return fmt.Errorf("create verification request: %w", err)
		}
		return nil
	})
}

func (s *GormStore) GetRequest(ctx context.Context, id string) (*Request, error) {
	return s.first(s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *GormStore) GetRequestByUser(ctx context.Context, userID string) (*Request, error) {
	return s.first(s.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (s *GormStore) first(q *gorm.DB) (*Request, error) {
	var r Request
	if err := q.First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("get verification request: %w", err)
	}
	return &r, nil
}

func (s *GormStore) ListRequests(ctx context.Context, status RequestStatus) ([]Request, error) {
	q := s.db.WithContext(ctx).Model(&Request{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []Request
	if err := q.Order("submitted_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list verification requests: %w", err)
	}
	return out, nil
}

func (s *GormStore) Resolve(ctx context.Context, id string, status RequestStatus, at time.Time) (*Request, error) {
	var resolved Request
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Request{}).
			Where("id = ? AND status = ?", id, StatusPending).
			Updates(map[string]any{"status": status, "resolved_at": at})
		if res.Error != nil {
			return fmt.Errorf("resolve verification request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&Request{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrRequestNotFound
			}
			return ErrRequestAlreadyResolved
		}

		if err := tx.Where("id = ?", id).First(&resolved).Error; err != nil {
			return err
		}
		if status == StatusApproved {
			return setOverride(tx, resolved.UserID, true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}
