// internal/services/user_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/database"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

// UserService is the admin user directory.
type UserService struct {
	db     *gorm.DB
	scopes *scope.Resolver
}

type UserInput struct {
	Name        *string            `json:"name"`
	Email       *string            `json:"email"`
	Phone       *string            `json:"phone"`
	Password    *string            `json:"password"`
	Role        *models.UserRole   `json:"role"`
	Status      *models.UserStatus `json:"status"`
	FranchiseID *uuid.UUID         `json:"franchise_id"`
}

func (in UserInput) applyTo(u *models.User) {
	set(&u.Name, in.Name)
	if in.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	set(&u.Phone, in.Phone)
	set(&u.Role, in.Role)
	set(&u.Status, in.Status)
	setPtr(&u.FranchiseID, in.FranchiseID)
}

func NewUserService(db *gorm.DB, scopes *scope.Resolver) *UserService {
	return &UserService{db: db, scopes: scopes}
}

var userListOptions = listOptions{
	resource: scope.User,
	filters: map[string]string{
		"role":         "users.role",
		"status":       "users.status",
		"franchise_id": "users.franchise_id",
	},
	search: []string{"users.name", "users.email", "users.phone"},
	sorts: map[string]string{
		"name":          "users.name",
		"email":         "users.email",
		"role":          "users.role",
		"status":        "users.status",
		"last_login_at": "users.last_login_at",
		"created_at":    "users.created_at",
	},
	defaultSort: "users.created_at DESC",
	dateColumn:  "users.created_at",
}

func (s *UserService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.User](ctx, s.db, s.scopes, p, q, userListOptions)
}

// ListBrokers lists active brokers for assignment pickers. Franchisors need
// it to assign brokers, so it is not limited to the user scope.
func (s *UserService) ListBrokers(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	if err := requireRole(p, models.RoleAdmin, models.RoleFranchisor); err != nil {
		return utils.Page{}, err
	}
	query := s.db.WithContext(ctx).Model(&models.User{}).
		Where("users.role = ? AND users.status = ?", models.RoleBroker, models.UserStatusActive)
	query = applyListFilters(query, q, listOptions{search: userListOptions.search}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Page{}, err
	}
	brokers := make([]models.User, 0)
	if err := utils.ApplyPagination(utils.ApplySort(query, q, userListOptions.sorts, "users.name ASC"), q).
		Find(&brokers).Error; err != nil {
		return utils.Page{}, err
	}
	return utils.NewPage(brokers, total, q), nil
}

func (s *UserService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.User, error) {
	return findScoped[models.User](ctx, s.db, s.scopes, p, scope.User, id, "Franchise")
}

func (s *UserService) Create(ctx context.Context, p scope.Principal, in UserInput) (*models.User, error) {
	if err := requireRole(p, models.RoleAdmin); err != nil {
		return nil, err
	}
	if in.Password == nil || *in.Password == "" {
		return nil, NewValidationError("password", "The password field is required")
	}

	user := &models.User{Status: models.UserStatusActive}
	in.applyTo(user)
	if err := s.checkEmail(ctx, user.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkFranchise(ctx, p, in.FranchiseID); err != nil {
		return nil, err
	}
	if err := user.SetPassword(*in.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", translateWriteError(err))
	}
	return reload[models.User](ctx, s.db, user.ID, "Franchise")
}

func (s *UserService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in UserInput) (*models.User, error) {
	user, err := findScoped[models.User](ctx, s.db, s.scopes, p, scope.User, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(user)
	if in.Email != nil {
		if err := s.checkEmail(ctx, user.Email, user.ID); err != nil {
			return nil, err
		}
	}
	if err := s.checkFranchise(ctx, p, in.FranchiseID); err != nil {
		return nil, err
	}
	if in.Password != nil && *in.Password != "" {
		if err := user.SetPassword(*in.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	if err := save(ctx, s.db, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return reload[models.User](ctx, s.db, user.ID, "Franchise")
}

// Delete soft deletes a user. Removing a franchisor also removes the
// franchises they own, in the same transaction.
func (s *UserService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	user, err := findScoped[models.User](ctx, s.db, s.scopes, p, scope.User, id)
	if err != nil {
		return err
	}
	if user.ID == p.UserID {
		return domainError(CodeNotDeletable, "You cannot delete your own account")
	}

	return database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if user.Role == models.RoleFranchisor {
			res := tx.Where("franchisor_id = ?", user.ID).Delete(&models.Franchise{})
			if res.Error != nil {
				return fmt.Errorf("failed to delete franchises: %w", res.Error)
			}
			logrus.WithFields(logrus.Fields{
				"user_id":    user.ID,
				"franchises": res.RowsAffected,
			}).Info("Cascaded franchisor delete")
		}
		return tx.Delete(user).Error
	})
}

func (s *UserService) UpdateStatus(ctx context.Context, p scope.Principal, id uuid.UUID, status models.UserStatus) (*models.User, error) {
	user, err := findScoped[models.User](ctx, s.db, s.scopes, p, scope.User, id)
	if err != nil {
		return nil, err
	}
	if user.ID == p.UserID {
		return nil, domainError(CodeInvalidTransition, "You cannot change your own status")
	}
	if user.Status == status {
		return nil, domainError(CodeNothingToDo, "User is already %s", status)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"from":     user.Status,
		"to":       status,
		"admin_id": p.UserID,
	}).Info("User status changed")
	return reload[models.User](ctx, s.db, user.ID, "Franchise")
}

// ResetPassword sets a new password, generating one when none is given.
// The plain password is returned once so the admin can hand it over.
func (s *UserService) ResetPassword(ctx context.Context, p scope.Principal, id uuid.UUID, password string) (string, error) {
	user, err := findScoped[models.User](ctx, s.db, s.scopes, p, scope.User, id)
	if err != nil {
		return "", err
	}
	if password == "" {
		generated, err := utils.GenerateRandomString(12)
		if err != nil {
			return "", err
		}
		password = generated
	}
	if err := user.SetPassword(password); err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", user.PasswordHash).Error; err != nil {
		return "", fmt.Errorf("failed to reset password: %w", err)
	}
	return password, nil
}

func (s *UserService) checkEmail(ctx context.Context, email string, self uuid.UUID) error {
	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, self).
		Count(&taken).Error; err != nil {
		return err
	}
	if taken > 0 {
		return NewValidationError("email", "The email has already been taken")
	}
	return nil
}

func (s *UserService) checkFranchise(ctx context.Context, p scope.Principal, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := requireParent[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, *id, "franchise_id")
	return err
}
