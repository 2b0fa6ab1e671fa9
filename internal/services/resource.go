// internal/services/resource.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/franchise-backoffice/internal/events"
	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

// listOptions describes what a list endpoint lets callers filter, search
// and sort on. Maps go from query parameter to table-qualified column.
type listOptions struct {
	resource    scope.Resource
	filters     map[string]string
	search      []string
	sorts       map[string]string
	defaultSort string
	dateColumn  string
	preloads    []string
	refine      func(query *gorm.DB, q utils.ListQuery) *gorm.DB
}

// listScoped runs a paginated, scoped list. An empty scope returns an
// empty page without touching the database.
func listScoped[T any](ctx context.Context, db *gorm.DB, scopes *scope.Resolver, p scope.Principal, q utils.ListQuery, opts listOptions) (utils.Page, error) {
	sc, err := scopes.Resolve(ctx, p, opts.resource)
	if err != nil {
		return utils.Page{}, err
	}
	if sc.Empty() {
		return utils.EmptyPage(q), nil
	}

	query := sc.Apply(db.WithContext(ctx).Model(new(T)))
	query = applyListFilters(query, q, opts).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Page{}, fmt.Errorf("count %s: %w", opts.resource, err)
	}

	items := make([]T, 0)
	if total > 0 {
		find := utils.ApplySort(query, q, opts.sorts, opts.defaultSort)
		for _, rel := range opts.preloads {
			find = find.Preload(rel)
		}
		if err := utils.ApplyPagination(find, q).Find(&items).Error; err != nil {
			return utils.Page{}, fmt.Errorf("list %s: %w", opts.resource, err)
		}
	}

	return utils.NewPage(items, total, q), nil
}

func applyListFilters(query *gorm.DB, q utils.ListQuery, opts listOptions) *gorm.DB {
	for param, column := range opts.filters {
		value, ok := q.Filters[param]
		if !ok {
			continue
		}
		switch strings.ToLower(value) {
		case "true":
			query = query.Where(column+" = ?", true)
		case "false":
			query = query.Where(column+" = ?", false)
		default:
			query = query.Where(column+" = ?", value)
		}
	}

	if opts.dateColumn != "" {
		if from, err := models.ParseDate(q.DateFrom); err == nil {
			query = query.Where(opts.dateColumn+" >= ?", from.String())
		}
		if to, err := models.ParseDate(q.DateTo); err == nil {
			query = query.Where(opts.dateColumn+" < ?", models.NewDate(to.AddDate(0, 0, 1)).String())
		}
	}

	if q.Search != "" && len(opts.search) > 0 {
		term := "%" + strings.ToLower(q.Search) + "%"
		clauses := make([]string, 0, len(opts.search))
		args := make([]interface{}, 0, len(opts.search))
		for _, column := range opts.search {
			clauses = append(clauses, "LOWER("+column+") LIKE ?")
			args = append(args, term)
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	if opts.refine != nil {
		query = opts.refine(query, q)
	}
	return query
}

// findScoped loads one row. A missing id is ErrNotFound; a row that exists
// outside the caller's scope is ErrForbidden.
func findScoped[T any](ctx context.Context, db *gorm.DB, scopes *scope.Resolver, p scope.Principal, res scope.Resource, id uuid.UUID, preloads ...string) (*T, error) {
	var exists int64
	if err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("lookup %s: %w", res, err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	sc, err := scopes.WithDB(db).Resolve(ctx, p, res)
	if err != nil {
		return nil, err
	}
	if sc.Empty() {
		return nil, ErrForbidden
	}

	query := sc.Apply(db.WithContext(ctx).Model(new(T)))
	for _, rel := range preloads {
		query = query.Preload(rel)
	}

	var item T
	if err := query.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("load %s: %w", res, err)
	}
	return &item, nil
}

// requireParent checks that a referenced row exists and is visible to the
// caller. A missing row is reported against field.
func requireParent[T any](ctx context.Context, db *gorm.DB, scopes *scope.Resolver, p scope.Principal, res scope.Resource, id uuid.UUID, field string) (*T, error) {
	item, err := findScoped[T](ctx, db, scopes, p, res, id)
	if errors.Is(err, ErrNotFound) {
		return nil, NewValidationError(field, "The selected "+strings.ReplaceAll(field, "_", " ")+" is invalid")
	}
	return item, err
}

// reload fetches a row by id with relations, ignoring scope. Used to shape
// responses after a scoped mutation.
func reload[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, preloads ...string) (*T, error) {
	query := db.WithContext(ctx)
	for _, rel := range preloads {
		query = query.Preload(rel)
	}
	var item T
	if err := query.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, fmt.Errorf("reload: %w", err)
	}
	return &item, nil
}

// loadUser fetches a user and checks its role.
func loadUser(ctx context.Context, db *gorm.DB, id uuid.UUID, field string, roles ...models.UserRole) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError(field, "The selected user does not exist")
		}
		return nil, err
	}
	if len(roles) == 0 {
		return &user, nil
	}
	for _, r := range roles {
		if user.Role == r {
			return &user, nil
		}
	}
	return nil, domainError(CodeInvalidAssignee, "User %s cannot be assigned here (role %s)", user.Email, user.Role)
}

// publish hands an event to the publisher once the change is committed.
// Failures are logged and never surface to the caller.
func publish(ctx context.Context, pub events.Publisher, e events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		logrus.WithError(err).WithField("event_type", e.Type).Error("Failed to publish event")
	}
}

func requireRole(p scope.Principal, roles ...models.UserRole) error {
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueMessage(err.Error()) {
		return ErrConflict
	}
	return err
}

func isUniqueMessage(msg string) bool {
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// save writes every column of a loaded row, leaving relations alone.
func save(ctx context.Context, db *gorm.DB, model interface{}) error {
	return translateWriteError(db.WithContext(ctx).Omit(clause.Associations).Save(model).Error)
}

// updateFrom applies updates only while the row still has status from. It
// reports false when another writer moved the row first.
func updateFrom(ctx context.Context, db *gorm.DB, model interface{}, from interface{}, updates map[string]interface{}) (bool, error) {
	result := db.WithContext(ctx).Model(model).Where("status = ?", from).Updates(updates)
	if result.Error != nil {
		return false, translateWriteError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// set copies v into dst when the field was supplied.
func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// setPtr replaces an optional column when the field was supplied.
func setPtr[T any](dst **T, v *T) {
	if v != nil {
		value := *v
		*dst = &value
	}
}
