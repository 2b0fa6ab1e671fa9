// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/config"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

var ErrAccountInactive = errors.New("account is not active")

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	denylist TokenDenylist
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Email    string          `json:"email" validate:"required,email"`
	Phone    string          `json:"phone" validate:"omitempty,max=30"`
	Password string          `json:"password" validate:"required,strong_password"`
	Role     models.UserRole `json:"role" validate:"required,oneof=franchisor broker"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Phone *string `json:"phone" validate:"omitempty,max=30"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config, denylist TokenDenylist) *AuthService {
	if denylist == nil {
		denylist = NewMemoryDenylist()
	}
	return &AuthService{
		db:       db,
		cfg:      cfg,
		denylist: denylist,
	}
}

func validateRequest(req interface{}) error {
	if err := utils.ValidateStruct(req); err != nil {
		return &ValidationError{Fields: utils.GetValidationErrors(err)}
	}
	return nil
}

// Register creates a franchisor or broker account that stays pending until
// an admin activates it. No tokens are issued.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if taken > 0 {
		return nil, NewValidationError("email", "The email has already been taken")
	}

	user := &models.User{
		Name:   req.Name,
		Email:  email,
		Phone:  req.Phone,
		Role:   req.Role,
		Status: models.UserStatusPending,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", translateWriteError(err))
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("Account registered, awaiting approval")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrAccountInactive, user.Status)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to stamp last login")
	}

	return s.issue(&user)
}

// Refresh exchanges a refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, req *RefreshRequest) (*AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	subject, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrAccountInactive, user.Status)
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Franchise").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *ProfileRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	set(&user.Name, req.Name)
	set(&user.Phone, req.Phone)
	if err := s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"name":  user.Name,
		"phone": user.Phone,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.CheckPassword(req.CurrentPassword); err != nil {
		return NewValidationError("current_password", "The current password is incorrect")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.db.WithContext(ctx).Model(user).Update("password_hash", user.PasswordHash).Error
}

// Logout revokes the access token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *utils.JWTClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.denylist.Revoke(ctx, claims.ID, ttl)
}

// Revoked reports whether the token id was logged out.
func (s *AuthService) Revoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return s.denylist.Revoked(ctx, jti)
}
