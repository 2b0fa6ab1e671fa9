// internal/testutil/db.go
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/franchise-backoffice/internal/models"
)

// NewDB opens a private in-memory SQLite database with every model migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// Fixtures creates linked rows for tests.
type Fixtures struct {
	t  testing.TB
	db *gorm.DB
	n  int
}

func NewFixtures(t testing.TB, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) next() int {
	f.n++
	return f.n
}

func (f *Fixtures) User(role models.UserRole, mutate ...func(*models.User)) *models.User {
	f.t.Helper()
	n := f.next()
	u := &models.User{
		Name:   fmt.Sprintf("%s %d", role, n),
		Email:  fmt.Sprintf("%s%d@example.test", role, n),
		Role:   role,
		Status: models.UserStatusActive,
	}
	require.NoError(f.t, u.SetPassword("password123"))
	for _, m := range mutate {
		m(u)
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *Fixtures) Franchise(franchisor *models.User, mutate ...func(*models.Franchise)) *models.Franchise {
	f.t.Helper()
	n := f.next()
	fr := &models.Franchise{
		FranchisorID:           franchisor.ID,
		Name:                   fmt.Sprintf("Franchise %d", n),
		BrandCode:              fmt.Sprintf("BR%04d", n),
		Industry:               "food_beverage",
		RoyaltyPercentage:      decimal.NewFromInt(6),
		MarketingFeePercentage: decimal.NewFromInt(2),
		Status:                 models.FranchiseStatusActive,
	}
	for _, m := range mutate {
		m(fr)
	}
	require.NoError(f.t, f.db.Create(fr).Error)
	return fr
}

func (f *Fixtures) Unit(franchise *models.Franchise, franchisee *models.User, mutate ...func(*models.Unit)) *models.Unit {
	f.t.Helper()
	n := f.next()
	u := &models.Unit{
		FranchiseID: franchise.ID,
		UnitName:    fmt.Sprintf("Unit %d", n),
		UnitCode:    fmt.Sprintf("U-%06d", n),
		Address:     "1 Main St",
		City:        "Springfield",
		Country:     "US",
		Status:      models.UnitStatusActive,
	}
	if franchisee != nil {
		u.FranchiseeID = &franchisee.ID
	}
	for _, m := range mutate {
		m(u)
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *Fixtures) Lead(creator *models.User, mutate ...func(*models.Lead)) *models.Lead {
	f.t.Helper()
	n := f.next()
	l := &models.Lead{
		CreatedBy:  creator.ID,
		AssignedTo: &creator.ID,
		FirstName:  "Lead",
		LastName:   fmt.Sprintf("No%d", n),
		Email:      fmt.Sprintf("lead%d@example.test", n),
		Source:     "website",
		Status:     models.LeadStatusNew,
		Priority:   models.PriorityMedium,
	}
	for _, m := range mutate {
		m(l)
	}
	require.NoError(f.t, f.db.Create(l).Error)
	return l
}

func (f *Fixtures) Revenue(unit *models.Unit, creator *models.User, amount int64, on time.Time, mutate ...func(*models.Revenue)) *models.Revenue {
	f.t.Helper()
	n := f.next()
	r := &models.Revenue{
		RevenueNumber: fmt.Sprintf("REV-T-%06d", n),
		FranchiseID:   unit.FranchiseID,
		UnitID:        unit.ID,
		Type:          "sales",
		Amount:        decimal.NewFromInt(amount),
		RevenueDate:   models.NewDate(on),
		PaymentMethod: "card",
		PaymentStatus: models.PaymentStatusCompleted,
		Status:        models.RevenueStatusPending,
		CreatedBy:     creator.ID,
	}
	r.ComputeNet()
	for _, m := range mutate {
		m(r)
	}
	require.NoError(f.t, f.db.Create(r).Error)
	return r
}

func (f *Fixtures) Ticket(unit *models.Unit, requester *models.User, mutate ...func(*models.TechnicalRequest)) *models.TechnicalRequest {
	f.t.Helper()
	n := f.next()
	tr := &models.TechnicalRequest{
		TicketNumber: fmt.Sprintf("TR-T-%06d", n),
		Title:        "POS offline",
		Description:  "The POS terminal does not boot",
		Category:     "pos_system",
		Priority:     models.PriorityMedium,
		Status:       models.TicketStatusOpen,
		RequesterID:  requester.ID,
		FranchiseID:  unit.FranchiseID,
		UnitID:       &unit.ID,
	}
	for _, m := range mutate {
		m(tr)
	}
	require.NoError(f.t, f.db.Create(tr).Error)
	return tr
}
