// internal/services/user_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/javajoker/franchise-backoffice/internal/models"
)

type UserServiceSuite struct {
	serviceSuite
	svc   *UserService
	admin *models.User
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewUserService(s.db, s.scopes)
	s.admin = s.fx.User(models.RoleAdmin)
}

func (s *UserServiceSuite) TestCreateRequiresAdminAndPassword() {
	in := UserInput{Name: ptr("New Broker"), Email: ptr("NEW@example.test"), Role: ptr(models.RoleBroker)}

	_, err := s.svc.Create(s.ctx, s.as(s.fx.User(models.RoleFranchisor)), in)
	s.ErrorIs(err, ErrForbidden)

	_, err = s.svc.Create(s.ctx, s.as(s.admin), in)
	s.requireFieldError(err, "password")

	in.Password = ptr("secret123")
	user, err := s.svc.Create(s.ctx, s.as(s.admin), in)
	s.Require().NoError(err)
	s.Equal("new@example.test", user.Email)
	s.Equal(models.UserStatusActive, user.Status)

	_, err = s.svc.Create(s.ctx, s.as(s.admin), in)
	s.requireFieldError(err, "email")
}

func (s *UserServiceSuite) TestUserDirectoryIsAdminOnly() {
	franchisor := s.fx.User(models.RoleFranchisor)

	page, err := s.svc.List(s.ctx, s.as(franchisor), listQuery(nil))
	s.Require().NoError(err)
	s.Zero(page.Total)

	_, err = s.svc.Get(s.ctx, s.as(franchisor), s.admin.ID)
	s.ErrorIs(err, ErrForbidden)
}

func (s *UserServiceSuite) TestListBrokersForFranchisors() {
	franchisor := s.fx.User(models.RoleFranchisor)
	s.fx.User(models.RoleBroker)
	s.fx.User(models.RoleBroker, func(u *models.User) { u.Status = models.UserStatusSuspended })

	page, err := s.svc.ListBrokers(s.ctx, s.as(franchisor), listQuery(nil))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)

	_, err = s.svc.ListBrokers(s.ctx, s.as(s.fx.User(models.RoleFranchisee)), listQuery(nil))
	s.ErrorIs(err, ErrForbidden)
}

func (s *UserServiceSuite) TestDeleteFranchisorCascades() {
	franchisor := s.fx.User(models.RoleFranchisor)
	franchise := s.fx.Franchise(franchisor)

	s.Require().NoError(s.svc.Delete(s.ctx, s.as(s.admin), franchisor.ID))
	s.Zero(s.count(&models.User{}, "id = ?", franchisor.ID))
	s.Zero(s.count(&models.Franchise{}, "id = ?", franchise.ID))

	var deleted models.Franchise
	s.Require().NoError(s.db.Unscoped().First(&deleted, "id = ?", franchise.ID).Error)
	s.True(deleted.DeletedAt.Valid)
}

func (s *UserServiceSuite) TestAdminCannotActOnSelf() {
	err := s.svc.Delete(s.ctx, s.as(s.admin), s.admin.ID)
	s.requireDomainError(err, CodeNotDeletable)

	_, err = s.svc.UpdateStatus(s.ctx, s.as(s.admin), s.admin.ID, models.UserStatusSuspended)
	s.requireDomainError(err, CodeInvalidTransition)
}

func (s *UserServiceSuite) TestUpdateStatus() {
	broker := s.fx.User(models.RoleBroker, func(u *models.User) { u.Status = models.UserStatusPending })

	updated, err := s.svc.UpdateStatus(s.ctx, s.as(s.admin), broker.ID, models.UserStatusActive)
	s.Require().NoError(err)
	s.Equal(models.UserStatusActive, updated.Status)

	_, err = s.svc.UpdateStatus(s.ctx, s.as(s.admin), broker.ID, models.UserStatusActive)
	s.requireDomainError(err, CodeNothingToDo)
}

func (s *UserServiceSuite) TestResetPassword() {
	broker := s.fx.User(models.RoleBroker)

	generated, err := s.svc.ResetPassword(s.ctx, s.as(s.admin), broker.ID, "")
	s.Require().NoError(err)
	s.Len(generated, 12)

	var stored models.User
	s.Require().NoError(s.db.First(&stored, "id = ?", broker.ID).Error)
	s.NoError(stored.CheckPassword(generated))
	s.Error(stored.CheckPassword("password123"))

	chosen, err := s.svc.ResetPassword(s.ctx, s.as(s.admin), broker.ID, "chosen123")
	s.Require().NoError(err)
	s.Equal("chosen123", chosen)
}
