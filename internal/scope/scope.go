// internal/scope/scope.go

// Package scope narrows queries to the rows a caller's role lets them see.
package scope

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/models"
)

type Resource string

const (
	Franchise        Resource = "franchise"
	Unit             Resource = "unit"
	Lead             Resource = "lead"
	Task             Resource = "task"
	TechnicalRequest Resource = "technical_request"
	Revenue          Resource = "revenue"
	Royalty          Resource = "royalty"
	Product          Resource = "product"
	Document         Resource = "document"
	Review           Resource = "review"
	Transaction      Resource = "transaction"
	Staff            Resource = "staff"
	Property         Resource = "property"
	Notification     Resource = "notification"
	User             Resource = "user"
)

// Principal is the authenticated caller. Role always comes from verified
// token claims.
type Principal struct {
	UserID uuid.UUID
	Role   models.UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

type predicate struct {
	sql  string
	args []interface{}
}

// Scope is all rows, no rows, or a predicate over one table.
type Scope struct {
	all        bool
	empty      bool
	predicates []predicate
}

func allRows() Scope { return Scope{all: true} }

func noRows() Scope { return Scope{empty: true} }

func where(sql string, args ...interface{}) Scope {
	return Scope{predicates: []predicate{{sql: sql, args: args}}}
}

// Empty reports whether the scope can never match a row.
func (s Scope) Empty() bool { return s.empty }

// All reports whether the scope is unrestricted.
func (s Scope) All() bool { return s.all }

// Apply narrows db to the scope. Empty scopes add a false predicate so
// callers that forget to short-circuit still see nothing.
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	switch {
	case s.empty:
		return db.Where("1 = 0")
	case s.all:
		return db
	}
	sql, args := s.expr()
	return db.Where(sql, args...)
}

func (s Scope) String() string {
	switch {
	case s.empty:
		return "none"
	case s.all:
		return "all"
	}
	sql, args := s.expr()
	return fmt.Sprintf("%s %v", sql, args)
}

func (s Scope) expr() (string, []interface{}) {
	parts := make([]string, 0, len(s.predicates))
	var args []interface{}
	for _, p := range s.predicates {
		parts = append(parts, p.sql)
		args = append(args, p.args...)
	}
	if len(parts) == 1 {
		return parts[0], args
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// anyOf ORs the given scopes. Empty members are dropped; an unrestricted
// member makes the union unrestricted.
func anyOf(scopes ...Scope) Scope {
	out := Scope{}
	for _, s := range scopes {
		if s.all {
			return allRows()
		}
		if s.empty {
			continue
		}
		out.predicates = append(out.predicates, s.predicates...)
	}
	if len(out.predicates) == 0 {
		return noRows()
	}
	return out
}

// Resolver turns a principal and resource into a Scope.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// WithDB returns a resolver that plucks ownership sets through db, so a
// resolution inside a transaction reads the transaction's view.
func (r *Resolver) WithDB(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve looks the pair up in the role table. Unknown roles and unmapped
// resources are denied.
func (r *Resolver) Resolve(ctx context.Context, p Principal, res Resource) (Scope, error) {
	resources, ok := table[p.Role]
	if !ok {
		return noRows(), nil
	}
	build, ok := resources[res]
	if !ok {
		return noRows(), nil
	}
	o := &ownership{db: r.db.WithContext(ctx), principal: p}
	s, err := build(o)
	if err != nil {
		return noRows(), fmt.Errorf("resolve %s scope for %s: %w", res, p.Role, err)
	}
	return s, nil
}

// ownership lazily plucks the id sets a builder needs, once per resolution.
type ownership struct {
	db        *gorm.DB
	principal Principal

	franchises     []uuid.UUID
	franchisesDone bool
	units          []uuid.UUID
	unitsDone      bool
	unitFranchises []uuid.UUID
	unitFrDone     bool
}

func (o *ownership) ownedFranchises() ([]uuid.UUID, error) {
	if !o.franchisesDone {
		if err := o.db.Model(&models.Franchise{}).
			Where("franchisor_id = ?", o.principal.UserID).
			Pluck("id", &o.franchises).Error; err != nil {
			return nil, err
		}
		o.franchisesDone = true
	}
	return o.franchises, nil
}

func (o *ownership) ownUnits() ([]uuid.UUID, error) {
	if !o.unitsDone {
		if err := o.db.Model(&models.Unit{}).
			Where("franchisee_id = ?", o.principal.UserID).
			Pluck("id", &o.units).Error; err != nil {
			return nil, err
		}
		o.unitsDone = true
	}
	return o.units, nil
}

func (o *ownership) ownUnitFranchises() ([]uuid.UUID, error) {
	if !o.unitFrDone {
		if err := o.db.Model(&models.Unit{}).
			Where("franchisee_id = ?", o.principal.UserID).
			Distinct().
			Pluck("franchise_id", &o.unitFranchises).Error; err != nil {
			return nil, err
		}
		o.unitFrDone = true
	}
	return o.unitFranchises, nil
}
