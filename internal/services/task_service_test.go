// internal/services/task_service_test.go
package services

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/models"
)

type TaskServiceSuite struct {
	serviceSuite
	svc        *TaskService
	franchisor *models.User
	franchisee *models.User
	broker     *models.User
	franchise  *models.Franchise
	unit       *models.Unit
}

func TestTaskServiceSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceSuite))
}

func (s *TaskServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewTaskService(s.db, s.scopes, s.pub)
	s.franchisor = s.fx.User(models.RoleFranchisor)
	s.franchisee = s.fx.User(models.RoleFranchisee)
	s.broker = s.fx.User(models.RoleBroker)
	s.franchise = s.fx.Franchise(s.franchisor)
	s.unit = s.fx.Unit(s.franchise, s.franchisee)
}

func (s *TaskServiceSuite) task(assignee *models.User) *models.Task {
	task, err := s.svc.Create(s.ctx, s.as(s.franchisor), TaskInput{
		Title:      ptr("Inspect kitchen"),
		UnitID:     &s.unit.ID,
		AssignedTo: &assignee.ID,
	})
	s.Require().NoError(err)
	return task
}

func (s *TaskServiceSuite) TestCreateDerivesFranchiseAndNotifiesAssignee() {
	task := s.task(s.franchisee)
	s.Equal(models.TaskStatusPending, task.Status)
	s.Require().NotNil(task.FranchiseID)
	s.Equal(s.franchise.ID, *task.FranchiseID)

	assigned := s.pub.ofType(events.TaskAssigned)
	s.Require().Len(assigned, 1)
	s.Equal(s.franchisee.ID, assigned[0].Recipients[0])
}

func (s *TaskServiceSuite) TestSelfAssignmentIsSilent() {
	_, err := s.svc.Create(s.ctx, s.as(s.franchisor), TaskInput{Title: ptr("Own todo"), AssignedTo: &s.franchisor.ID})
	s.Require().NoError(err)
	s.Empty(s.pub.ofType(events.TaskAssigned))
}

func (s *TaskServiceSuite) TestCreateRequiresAssignee() {
	_, err := s.svc.Create(s.ctx, s.as(s.franchisor), TaskInput{Title: ptr("Nobody")})
	s.requireFieldError(err, "assigned_to")
}

func (s *TaskServiceSuite) TestForeignUnitIsRejected() {
	other := s.fx.User(models.RoleFranchisor)
	_, err := s.svc.Create(s.ctx, s.as(other), TaskInput{
		Title:      ptr("Sneaky"),
		UnitID:     &s.unit.ID,
		AssignedTo: &other.ID,
	})
	s.Error(err)
}

func (s *TaskServiceSuite) TestTransitions() {
	task := s.task(s.franchisee)

	task, err := s.svc.UpdateStatus(s.ctx, s.as(s.franchisee), task.ID, models.TaskStatusInProgress)
	s.Require().NoError(err)
	s.Nil(task.CompletedAt)

	task, err = s.svc.Complete(s.ctx, s.as(s.franchisee), task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusCompleted, task.Status)
	s.NotNil(task.CompletedAt)

	_, err = s.svc.UpdateStatus(s.ctx, s.as(s.franchisee), task.ID, models.TaskStatusCancelled)
	s.requireDomainError(err, CodeInvalidTransition)

	_, err = s.svc.Assign(s.ctx, s.as(s.franchisor), task.ID, s.broker.ID)
	s.requireDomainError(err, CodeInvalidTransition)

	// Reopening clears the completion stamp.
	task, err = s.svc.UpdateStatus(s.ctx, s.as(s.franchisor), task.ID, models.TaskStatusInProgress)
	s.Require().NoError(err)
	s.Nil(task.CompletedAt)
}

func (s *TaskServiceSuite) TestBrokerSeesOnlyAssignedTasks() {
	mine := s.task(s.broker)
	s.task(s.franchisee)

	page, err := s.svc.List(s.ctx, s.as(s.broker), listQuery(url.Values{}))
	s.Require().NoError(err)
	s.EqualValues(1, page.Total)

	_, err = s.svc.Get(s.ctx, s.as(s.broker), mine.ID)
	s.NoError(err)
}

func (s *TaskServiceSuite) TestOnlyCreatorOrAdminDeletes() {
	task := s.task(s.franchisee)

	err := s.svc.Delete(s.ctx, s.as(s.franchisee), task.ID)
	s.ErrorIs(err, ErrForbidden)

	s.Require().NoError(s.svc.Delete(s.ctx, s.as(s.franchisor), task.ID))
	s.EqualValues(0, s.count(&models.Task{}, "id = ?", task.ID))
}
