// internal/services/product_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/models"
	"github.com/javajoker/franchise-backoffice/internal/scope"
	"github.com/javajoker/franchise-backoffice/internal/utils"
)

type ProductService struct {
	db     *gorm.DB
	scopes *scope.Resolver
}

type ProductInput struct {
	FranchiseID    *uuid.UUID            `json:"franchise_id"`
	Name           *string               `json:"name"`
	SKU            *string               `json:"sku"`
	Description    *string               `json:"description"`
	Category       *string               `json:"category"`
	UnitPrice      *decimal.Decimal      `json:"unit_price"`
	CostPrice      *decimal.Decimal      `json:"cost_price"`
	StockQuantity  *int                  `json:"stock_quantity"`
	Images         *models.StringArray   `json:"images"`
	Specifications *models.JSONB         `json:"specifications"`
	Status         *models.ProductStatus `json:"status"`
}

func (in ProductInput) applyTo(pr *models.Product) {
	set(&pr.Name, in.Name)
	if in.SKU != nil {
		pr.SKU = strings.ToUpper(strings.TrimSpace(*in.SKU))
	}
	set(&pr.Description, in.Description)
	set(&pr.Category, in.Category)
	set(&pr.UnitPrice, in.UnitPrice)
	set(&pr.CostPrice, in.CostPrice)
	set(&pr.StockQuantity, in.StockQuantity)
	set(&pr.Images, in.Images)
	set(&pr.Specifications, in.Specifications)
	set(&pr.Status, in.Status)
}

func NewProductService(db *gorm.DB, scopes *scope.Resolver) *ProductService {
	return &ProductService{db: db, scopes: scopes}
}

func (s *ProductService) List(ctx context.Context, p scope.Principal, q utils.ListQuery) (utils.Page, error) {
	return listScoped[models.Product](ctx, s.db, s.scopes, p, q, listOptions{
		resource: scope.Product,
		filters: map[string]string{
			"status":       "products.status",
			"category":     "products.category",
			"franchise_id": "products.franchise_id",
		},
		search: []string{"products.name", "products.sku", "products.description"},
		sorts: map[string]string{
			"name":           "products.name",
			"sku":            "products.sku",
			"unit_price":     "products.unit_price",
			"stock_quantity": "products.stock_quantity",
			"created_at":     "products.created_at",
		},
		defaultSort: "products.name ASC",
		dateColumn:  "products.created_at",
		refine: func(query *gorm.DB, q utils.ListQuery) *gorm.DB {
			if q.Filters["low_stock"] == "true" {
				return query.Where("products.stock_quantity <= ?", 5)
			}
			return query
		},
	})
}

func (s *ProductService) Get(ctx context.Context, p scope.Principal, id uuid.UUID) (*models.Product, error) {
	return findScoped[models.Product](ctx, s.db, s.scopes, p, scope.Product, id, "Franchise")
}

func (s *ProductService) Create(ctx context.Context, p scope.Principal, in ProductInput) (*models.Product, error) {
	if in.FranchiseID == nil {
		return nil, NewValidationError("franchise_id", "The franchise id field is required")
	}
	if _, err := requireParent[models.Franchise](ctx, s.db, s.scopes, p, scope.Franchise, *in.FranchiseID, "franchise_id"); err != nil {
		return nil, err
	}

	product := &models.Product{FranchiseID: *in.FranchiseID, Status: models.ProductStatusActive}
	in.applyTo(product)
	if err := s.checkSKU(ctx, product); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", translateWriteError(err))
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, p scope.Principal, id uuid.UUID, in ProductInput) (*models.Product, error) {
	product, err := findScoped[models.Product](ctx, s.db, s.scopes, p, scope.Product, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(product)
	if in.SKU != nil {
		if err := s.checkSKU(ctx, product); err != nil {
			return nil, err
		}
	}

	if err := save(ctx, s.db, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, p scope.Principal, id uuid.UUID) error {
	product, err := findScoped[models.Product](ctx, s.db, s.scopes, p, scope.Product, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(product).Error
}

// checkSKU keeps SKUs unique within a franchise.
func (s *ProductService) checkSKU(ctx context.Context, product *models.Product) error {
	var taken int64
	err := s.db.WithContext(ctx).Unscoped().Model(&models.Product{}).
		Where("franchise_id = ? AND sku = ? AND id <> ?", product.FranchiseID, product.SKU, product.ID).
		Count(&taken).Error
	if err != nil {
		return err
	}
	if taken > 0 {
		return NewValidationError("sku", "The sku has already been taken")
	}
	return nil
}
