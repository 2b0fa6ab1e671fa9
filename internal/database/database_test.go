// internal/database/database_test.go
package database

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/franchise-backoffice/internal/config"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/testutil"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestWithTransactionCommits(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE royalties SET status = $1")).
		WithArgs("overdue").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := WithTransaction(db, func(tx *gorm.DB) error {
		return tx.Exec("UPDATE royalties SET status = ?", "overdue").Error
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("unit step failed")
	err := WithTransaction(db, func(tx *gorm.DB) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnPanic(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = WithTransaction(db, func(tx *gorm.DB) error { panic("boom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		if i >= len(codes) {
			return "", fmt.Errorf("sequence exhausted")
		}
		c := codes[i]
		i++
		return c, nil
	}
}

func TestCreateWithUniqueCodeSkipsTakenCodes(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	owner := fx.User(models.RoleFranchisor)
	franchise := fx.Franchise(owner)
	fx.Unit(franchise, nil, func(u *models.Unit) { u.UnitCode = "U-TAKEN" })

	unit := &models.Unit{FranchiseID: franchise.ID, UnitName: "New", Address: "2 Main", City: "X", Country: "US"}
	err := WithTransaction(db, func(tx *gorm.DB) error {
		return CreateWithUniqueCode(tx, unit, "unit_code", sequence("U-TAKEN", "U-FREE"), func(c string) { unit.UnitCode = c })
	})
	require.NoError(t, err)
	assert.Equal(t, "U-FREE", unit.UnitCode)

	var stored models.Unit
	require.NoError(t, db.First(&stored, "id = ?", unit.ID).Error)
	assert.Equal(t, "U-FREE", stored.UnitCode)
}

func TestCreateWithUniqueCodeGivesUp(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	owner := fx.User(models.RoleFranchisor)
	franchise := fx.Franchise(owner)
	fx.Unit(franchise, nil, func(u *models.Unit) { u.UnitCode = "U-TAKEN" })

	always := func() (string, error) { return "U-TAKEN", nil }
	unit := &models.Unit{FranchiseID: franchise.ID, UnitName: "New", Address: "2 Main", City: "X", Country: "US"}
	err := CreateWithUniqueCode(db, unit, "unit_code", always, func(c string) { unit.UnitCode = c })
	assert.ErrorIs(t, err, ErrCodeExhausted)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: units.unit_code")))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)`)))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestSeedInitialDataIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	admin := config.AdminConfig{Email: "root@example.test", Password: "secret123"}

	require.NoError(t, SeedInitialData(db, admin))
	require.NoError(t, SeedInitialData(db, admin))

	var users []models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).Find(&users).Error)
	require.Len(t, users, 1)
	assert.NoError(t, users[0].CheckPassword("secret123"))
}
