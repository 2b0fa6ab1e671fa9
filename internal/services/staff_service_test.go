// internal/services/staff_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/franchise-backoffice/internal/models"
)

type StaffServiceSuite struct {
	serviceSuite
	svc        *StaffService
	franchisor *models.User
	franchisee *models.User
	franchise  *models.Franchise
	unit       *models.Unit
}

func TestStaffServiceSuite(t *testing.T) {
	suite.Run(t, new(StaffServiceSuite))
}

func (s *StaffServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewStaffService(s.db, s.scopes)
	s.franchisor = s.fx.User(models.RoleFranchisor)
	s.franchisee = s.fx.User(models.RoleFranchisee)
	s.franchise = s.fx.Franchise(s.franchisor)
	s.unit = s.fx.Unit(s.franchise, s.franchisee)
}

func (s *StaffServiceSuite) hire(p *models.User, unitID *uuid.UUID) *models.Staff {
	staff, err := s.svc.Create(s.ctx, s.as(p), StaffInput{
		FranchiseID: &s.franchise.ID,
		UnitID:      unitID,
		FirstName:   ptr("Sam"),
		LastName:    ptr("Cook"),
		Position:    ptr("shift_lead"),
	})
	s.Require().NoError(err)
	return staff
}

func (s *StaffServiceSuite) primaryUnit(staffID uuid.UUID) uuid.UUID {
	var rows []models.StaffUnit
	s.Require().NoError(s.db.Where("staff_id = ? AND is_primary = ?", staffID, true).Find(&rows).Error)
	s.Require().Len(rows, 1)
	return rows[0].UnitID
}

func (s *StaffServiceSuite) TestFranchiseeHiresIntoOwnUnit() {
	_, err := s.svc.Create(s.ctx, s.as(s.franchisee), StaffInput{FirstName: ptr("No"), LastName: ptr("Unit")})
	s.requireFieldError(err, "unit_id")

	staff := s.hire(s.franchisee, &s.unit.ID)
	s.Equal(s.franchise.ID, staff.FranchiseID)
	s.Require().Len(staff.Assignments, 1)
	s.True(staff.Assignments[0].IsPrimary)
	s.Equal("shift_lead", staff.Assignments[0].Role)
}

func (s *StaffServiceSuite) TestPrimaryAssignmentMoves() {
	second := s.fx.Unit(s.franchise, nil)
	third := s.fx.Unit(s.franchise, nil)
	staff := s.hire(s.franchisor, nil)

	_, err := s.svc.AssignToUnit(s.ctx, s.as(s.franchisor), staff.ID, AssignStaffInput{UnitID: s.unit.ID, Role: "cook"})
	s.Require().NoError(err)
	s.Equal(s.unit.ID, s.primaryUnit(staff.ID), "the first assignment is primary")

	_, err = s.svc.AssignToUnit(s.ctx, s.as(s.franchisor), staff.ID, AssignStaffInput{UnitID: second.ID, Role: "cook"})
	s.Require().NoError(err)
	s.Equal(s.unit.ID, s.primaryUnit(staff.ID))

	updated, err := s.svc.AssignToUnit(s.ctx, s.as(s.franchisor), staff.ID, AssignStaffInput{UnitID: third.ID, Role: "manager", IsPrimary: true})
	s.Require().NoError(err)
	s.Len(updated.Assignments, 3)
	s.Equal(third.ID, s.primaryUnit(staff.ID))
}

func (s *StaffServiceSuite) TestUnassigningPrimaryPromotesOldest() {
	second := s.fx.Unit(s.franchise, nil)
	third := s.fx.Unit(s.franchise, nil)
	staff := s.hire(s.franchisor, &s.unit.ID)

	for _, unitID := range []uuid.UUID{second.ID, third.ID} {
		_, err := s.svc.AssignToUnit(s.ctx, s.as(s.franchisor), staff.ID, AssignStaffInput{UnitID: unitID})
		s.Require().NoError(err)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.db.Model(&models.StaffUnit{}).Where("unit_id = ?", third.ID).Update("assigned_at", base).Error)
	s.Require().NoError(s.db.Model(&models.StaffUnit{}).Where("unit_id = ?", second.ID).Update("assigned_at", base.AddDate(0, 1, 0)).Error)

	updated, err := s.svc.UnassignFromUnit(s.ctx, s.as(s.franchisor), staff.ID, s.unit.ID)
	s.Require().NoError(err)
	s.Len(updated.Assignments, 2)
	s.Equal(third.ID, s.primaryUnit(staff.ID))

	_, err = s.svc.UnassignFromUnit(s.ctx, s.as(s.franchisor), staff.ID, s.unit.ID)
	s.requireFieldError(err, "unit_id")
}

func (s *StaffServiceSuite) TestReassigningRestoresRemovedAssignment() {
	second := s.fx.Unit(s.franchise, nil)
	staff := s.hire(s.franchisor, &s.unit.ID)
	_, err := s.svc.AssignToUnit(s.ctx, s.as(s.franchisor), staff.ID, AssignStaffInput{UnitID: second.ID})
	s.Require().NoError(err)
	_, err = s.svc.UnassignFromUnit(s.ctx, s.as(s.franchisor), staff.ID, second.ID)
	s.Require().NoError(err)

	updated, err := s.svc.AssignToUnit(s.ctx, s.as(s.franchisor), staff.ID, AssignStaffInput{UnitID: second.ID, Role: "cashier"})
	s.Require().NoError(err)
	s.Len(updated.Assignments, 2)
}

func (s *StaffServiceSuite) TestUnitMustShareFranchise() {
	admin := s.fx.User(models.RoleAdmin)
	foreign := s.fx.Unit(s.fx.Franchise(s.fx.User(models.RoleFranchisor)), nil)
	staff := s.hire(s.franchisor, nil)

	_, err := s.svc.AssignToUnit(s.ctx, s.as(admin), staff.ID, AssignStaffInput{UnitID: foreign.ID})
	s.requireFieldError(err, "unit_id")
}

func (s *StaffServiceSuite) TestDeleteRemovesAssignments() {
	staff := s.hire(s.franchisee, &s.unit.ID)

	s.Require().NoError(s.svc.Delete(s.ctx, s.as(s.franchisee), staff.ID))
	s.Zero(s.count(&models.Staff{}, "id = ?", staff.ID))
	s.Zero(s.count(&models.StaffUnit{}, "staff_id = ?", staff.ID))
}

func (s *StaffServiceSuite) TestFranchiseeSeesOnlyOwnUnitStaff() {
	s.hire(s.franchisee, &s.unit.ID)
	other := s.fx.Unit(s.franchise, s.fx.User(models.RoleFranchisee))
	s.hire(s.franchisor, &other.ID)

	page, err := s.svc.List(s.ctx, s.as(s.franchisee), listQuery(nil))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)

	page, err = s.svc.List(s.ctx, s.as(s.franchisor), listQuery(nil))
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)
}
