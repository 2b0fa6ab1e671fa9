// internal/scope/scope_test.go
package scope

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/testutil"
)

type ScopeTestSuite struct {
	suite.Suite
	db       *gorm.DB
	fx       *testutil.Fixtures
	resolver *Resolver
}

func (s *ScopeTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.fx = testutil.NewFixtures(s.T(), s.db)
	s.resolver = NewResolver(s.db)
}

func (s *ScopeTestSuite) principal(u *models.User) Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}

func (s *ScopeTestSuite) count(p Principal, res Resource, model interface{}) int64 {
	sc, err := s.resolver.Resolve(context.Background(), p, res)
	s.Require().NoError(err)
	var n int64
	s.Require().NoError(sc.Apply(s.db.Model(model)).Count(&n).Error)
	return n
}

func (s *ScopeTestSuite) TestBrokerLeadsAreIsolated() {
	admin := s.fx.User(models.RoleAdmin)
	brokerA := s.fx.User(models.RoleBroker)
	brokerB := s.fx.User(models.RoleBroker)
	s.fx.Lead(brokerA)

	s.Equal(int64(1), s.count(s.principal(brokerA), Lead, &models.Lead{}))
	s.Equal(int64(0), s.count(s.principal(brokerB), Lead, &models.Lead{}))
	s.Equal(int64(1), s.count(s.principal(admin), Lead, &models.Lead{}))
}

func (s *ScopeTestSuite) TestBrokerSeesLeadsAssignedByOthers() {
	brokerA := s.fx.User(models.RoleBroker)
	brokerB := s.fx.User(models.RoleBroker)
	s.fx.Lead(brokerA, func(l *models.Lead) { l.AssignedTo = &brokerB.ID })

	s.Equal(int64(1), s.count(s.principal(brokerA), Lead, &models.Lead{}))
	s.Equal(int64(1), s.count(s.principal(brokerB), Lead, &models.Lead{}))
}

func (s *ScopeTestSuite) TestFranchisorWithoutFranchisesResolvesEmpty() {
	franchisor := s.fx.User(models.RoleFranchisor)
	other := s.fx.User(models.RoleFranchisor)
	s.fx.Unit(s.fx.Franchise(other), nil)

	sc, err := s.resolver.Resolve(context.Background(), s.principal(franchisor), Unit)
	s.Require().NoError(err)
	s.True(sc.Empty())
	s.Equal(int64(0), s.count(s.principal(franchisor), Unit, &models.Unit{}))
}

func (s *ScopeTestSuite) TestFranchisorSeesOwnedFranchiseRows() {
	owner := s.fx.User(models.RoleFranchisor)
	other := s.fx.User(models.RoleFranchisor)
	mine := s.fx.Franchise(owner)
	theirs := s.fx.Franchise(other)
	s.fx.Unit(mine, nil)
	s.fx.Unit(mine, nil)
	s.fx.Unit(theirs, nil)

	p := s.principal(owner)
	s.Equal(int64(1), s.count(p, Franchise, &models.Franchise{}))
	s.Equal(int64(2), s.count(p, Unit, &models.Unit{}))
	s.Equal(int64(0), s.count(p, Property, &models.Property{}))
}

func (s *ScopeTestSuite) TestFranchiseeSeesOnlyOwnUnitRows() {
	owner := s.fx.User(models.RoleFranchisor)
	franchise := s.fx.Franchise(owner)
	alice := s.fx.User(models.RoleFranchisee)
	bob := s.fx.User(models.RoleFranchisee)
	aliceUnit := s.fx.Unit(franchise, alice)
	bobUnit := s.fx.Unit(franchise, bob)
	s.fx.Revenue(aliceUnit, alice, 100, aliceUnit.CreatedAt)
	s.fx.Revenue(bobUnit, bob, 200, bobUnit.CreatedAt)
	s.fx.Ticket(aliceUnit, alice)

	p := s.principal(alice)
	s.Equal(int64(1), s.count(p, Unit, &models.Unit{}))
	s.Equal(int64(1), s.count(p, Revenue, &models.Revenue{}))
	s.Equal(int64(1), s.count(p, TechnicalRequest, &models.TechnicalRequest{}))
	s.Equal(int64(0), s.count(p, Franchise, &models.Franchise{}))
	s.Equal(int64(0), s.count(s.principal(bob), TechnicalRequest, &models.TechnicalRequest{}))
}

func (s *ScopeTestSuite) TestFranchiseeStaffThroughAssignments() {
	owner := s.fx.User(models.RoleFranchisor)
	franchise := s.fx.Franchise(owner)
	franchisee := s.fx.User(models.RoleFranchisee)
	unit := s.fx.Unit(franchise, franchisee)

	assigned := &models.Staff{FranchiseID: franchise.ID, FirstName: "A", LastName: "B", Position: "Cook"}
	unassigned := &models.Staff{FranchiseID: franchise.ID, FirstName: "C", LastName: "D", Position: "Cook"}
	s.Require().NoError(s.db.Create(assigned).Error)
	s.Require().NoError(s.db.Create(unassigned).Error)
	s.Require().NoError(s.db.Create(&models.StaffUnit{StaffID: assigned.ID, UnitID: unit.ID, IsPrimary: true}).Error)

	s.Equal(int64(1), s.count(s.principal(franchisee), Staff, &models.Staff{}))
	s.Equal(int64(2), s.count(s.principal(owner), Staff, &models.Staff{}))
}

func (s *ScopeTestSuite) TestUnknownRoleIsDenied() {
	s.fx.Lead(s.fx.User(models.RoleBroker))

	p := Principal{UserID: uuid.New(), Role: models.UserRole("auditor")}
	sc, err := s.resolver.Resolve(context.Background(), p, Lead)
	s.Require().NoError(err)
	s.True(sc.Empty())
	s.Equal(int64(0), s.count(p, Lead, &models.Lead{}))
}

func (s *ScopeTestSuite) TestUnmappedResourceIsDenied() {
	broker := s.fx.User(models.RoleBroker)
	sc, err := s.resolver.Resolve(context.Background(), s.principal(broker), Revenue)
	s.Require().NoError(err)
	s.True(sc.Empty())
}

func (s *ScopeTestSuite) TestNotificationsAreAlwaysOwn() {
	admin := s.fx.User(models.RoleAdmin)
	other := s.fx.User(models.RoleBroker)
	for _, u := range []*models.User{admin, other} {
		s.Require().NoError(s.db.Create(&models.Notification{
			NotifiableType: models.NotifiableUser,
			NotifiableID:   u.ID,
			Type:           "test",
			Title:          "hello",
			Message:        "hello",
		}).Error)
	}
	s.Equal(int64(1), s.count(s.principal(admin), Notification, &models.Notification{}))
}

func TestScopeTestSuite(t *testing.T) {
	suite.Run(t, new(ScopeTestSuite))
}

func TestAnyOf(t *testing.T) {
	assert.True(t, anyOf(noRows(), noRows()).Empty())
	assert.True(t, anyOf(noRows(), allRows()).All())

	s := anyOf(where("a = ?", 1), noRows(), where("b = ?", 2))
	require.False(t, s.Empty())
	sql, args := s.expr()
	assert.Equal(t, "(a = ? OR b = ?)", sql)
	assert.Equal(t, []interface{}{1, 2}, args)
}
