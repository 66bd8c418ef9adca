package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type uniqueRow struct {
	ID   int64  `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex"`
}

func TestConnect_SQLiteUniqueViolation(t *testing.T) {
	db, err := Connect(fmt.Sprintf("file:database_test_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&uniqueRow{}))

	require.NoError(t, db.Create(&uniqueRow{Code: "a"}).Error)
	err = db.Create(&uniqueRow{Code: "a"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err, ""))
}

func TestIsUniqueViolation(t *testing.T) {
	pgDup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_proposals_job_photographer"}

	assert.False(t, IsUniqueViolation(nil, ""))
	assert.True(t, IsUniqueViolation(pgDup, ""))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", pgDup), "idx_proposals_job_photographer"))
	assert.False(t, IsUniqueViolation(pgDup, "other_constraint"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey, ""))
	assert.False(t, IsUniqueViolation(errors.New("connection reset"), ""))
}
