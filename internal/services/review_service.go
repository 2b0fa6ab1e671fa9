// internal/services/review_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type ReviewService struct {
	db     *gorm.DB
	scopes *scope.Resolver
}

type ReviewInput struct {
	FranchiseID *uuid.UUID `json:"franchise_id"`
	Rating      *int       `json:"rating"`
	Title       *string    `json:"title"`
	Comment     *string    `json:"comment"`
}

func (in ReviewInput) applyTo(r *models.Review) {
	set(&r.Rating, in.Rating)
	set(&r.Title, in.Title)
	set(&r.Comment, in.Comment)
}

var reviewRelations = []string{"Franchise", "User"}

func NewReviewService(db *gorm.DB, scopes *scope.Resolver) *ReviewService {
	return &ReviewService{db: db, scopes: scopes}
}

func (s *ReviewService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Review](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Review,
		filters: map[string]string{
			"status":       "reviews.status",
			"rating":       "reviews.rating",
			"franchise_id": "reviews.franchise_id",
			"user_id":      "reviews.user_id",
		},
		search: []string{"reviews.title", "reviews.comment"},
		sorts: map[string]string{
			"rating":     "reviews.rating",
			"status":     "reviews.status",
			"created_at": "reviews.created_at",
		},
		defaultSort: "reviews.created_at DESC",
		dateColumn:  "reviews.created_at",
		preloads:    []string{"User"},
	})
}

func (s *ReviewService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Review, error) {
	return findScoped[models.Review](ctx, s.db, s.scopes, p, scope.Review, id, reviewRelations...)
}

// Create records a pending review. Any franchise may be reviewed, but a user
// reviews each franchise once.
func (s *ReviewService) Create(ctx context.Context, p scope.Principal, in ReviewInput) (*models.Review, error) {
	if err := requireRole(p, models.RoleFranchisee, models.RoleBroker); err != nil {
		return nil, err
	}
	if in.FranchiseID == nil {
		return nil, NewValidationError("franchise_id", "The franchise id field is required")
	}

	db := s.db.WithContext(ctx)
	var exists int64
	if err := db.Model(&models.Franchise{}).Where("id = ?", *in.FranchiseID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, NewValidationError("franchise_id", "The selected franchise id is invalid")
	}

	var dup int64
	if err := db.Model(&models.Review{}).
		Where("franchise_id = ? AND user_id = ?", *in.FranchiseID, p.UserID).
		Count(&dup).Error; err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, NewValidationError("franchise_id", "You have already reviewed this franchise")
	}

	review := &models.Review{
		FranchiseID: *in.FranchiseID,
		UserID:      p.UserID,
		Status:      models.ReviewStatusPending,
	}
	in.applyTo(review)
	if err := db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", translateWriteError(err))
	}
	return reload[models.Review](ctx, s.db, review.ID, reviewRelations...)
}

// Update lets the author revise a review, which sends it back to moderation.
func (s *ReviewService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in ReviewInput) (*models.Review, error) {
	review, err := findScoped[models.Review](ctx, s.db, s.scopes, p, scope.Review, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != p.UserID {
		return nil, ErrForbidden
	}

	in.applyTo(review)
	review.Status = models.ReviewStatusPending
	review.ModeratedBy = nil
	review.ModeratedAt = nil
	if err := save(ctx, s.db, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return reload[models.Review](ctx, s.db, review.ID, reviewRelations...)
}

func (s *ReviewService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	review, err := findScoped[models.Review](ctx, s.db, s.scopes, p, scope.Review, id)
	if err != nil {
		return err
	}
	if !p.IsAdmin() && review.UserID != p.UserID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(review).Error
}

// Moderate approves or rejects a pending review.
func (s *ReviewService) Moderate(ctx context.Context, p scope.Principal, id uuid.UUID, status models.ReviewStatus) (*models.Review, error) {
	if err := requireRole(p, models.RoleAdmin, models.RoleFranchisor); err != nil {
		return nil, err
	}
	review, err := findScoped[models.Review](ctx, s.db, s.scopes, p, scope.Review, id)
	if err != nil {
		return nil, err
	}
	if status != models.ReviewStatusApproved && status != models.ReviewStatusRejected {
		return nil, NewValidationError("status", "The selected status is invalid")
	}
	if review.Status != models.ReviewStatusPending {
		return nil, invalidTransition("review", review.Status, status)
	}

	now := time.Now()
	moved, err := updateFrom(ctx, s.db, review, models.ReviewStatusPending, map[string]interface{}{
		"status":       status,
		"moderated_by": p.UserID,
		"moderated_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to moderate review: %w", err)
	}
	if !moved {
		return nil, invalidTransition("review", models.ReviewStatusPending, status)
	}
	return reload[models.Review](ctx, s.db, review.ID, reviewRelations...)
}
