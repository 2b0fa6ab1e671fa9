// internal/services/product_service_test.go
package services

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/javajoker/franchise-backoffice/internal/models"
)

type ProductServiceSuite struct {
	serviceSuite
	svc        *ProductService
	franchisor *models.User
	franchise  *models.Franchise
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceSuite))
}

func (s *ProductServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewProductService(s.db, s.scopes)
	s.franchisor = s.fx.User(models.RoleFranchisor)
	s.franchise = s.fx.Franchise(s.franchisor)
}

func (s *ProductServiceSuite) product(sku string, stock int) *models.Product {
	product, err := s.svc.Create(s.ctx, s.as(s.franchisor), ProductInput{
		FranchiseID:   &s.franchise.ID,
		Name:          ptr("Patty " + sku),
		SKU:           ptr(sku),
		UnitPrice:     ptr(dec("3.25")),
		StockQuantity: ptr(stock),
	})
	s.Require().NoError(err)
	return product
}

func (s *ProductServiceSuite) TestCreateNormalisesSKU() {
	product := s.product(" bb-001 ", 40)
	s.Equal("BB-001", product.SKU)
	s.Equal(models.ProductStatusActive, product.Status)
	s.True(dec("3.25").Equal(product.UnitPrice))
}

func (s *ProductServiceSuite) TestSKUUniqueWithinFranchise() {
	s.product("BB-001", 10)

	_, err := s.svc.Create(s.ctx, s.as(s.franchisor), ProductInput{
		FranchiseID: &s.franchise.ID,
		Name:        ptr("Duplicate"),
		SKU:         ptr("bb-001"),
		UnitPrice:   ptr(dec("1")),
	})
	s.requireFieldError(err, "sku")

	// Another franchise may reuse it.
	other := s.fx.Franchise(s.franchisor)
	_, err = s.svc.Create(s.ctx, s.as(s.franchisor), ProductInput{
		FranchiseID: &other.ID,
		Name:        ptr("Same SKU elsewhere"),
		SKU:         ptr("BB-001"),
		UnitPrice:   ptr(dec("1")),
	})
	s.NoError(err)
}

func (s *ProductServiceSuite) TestFranchiseRequiredAndScoped() {
	_, err := s.svc.Create(s.ctx, s.as(s.franchisor), ProductInput{Name: ptr("Orphan")})
	s.requireFieldError(err, "franchise_id")

	stranger := s.fx.User(models.RoleFranchisor)
	_, err = s.svc.Create(s.ctx, s.as(stranger), ProductInput{
		FranchiseID: &s.franchise.ID,
		Name:        ptr("Not mine"),
		SKU:         ptr("X-1"),
		UnitPrice:   ptr(dec("1")),
	})
	s.Error(err)

	product := s.product("BB-002", 1)
	_, err = s.svc.Get(s.ctx, s.as(stranger), product.ID)
	s.ErrorIs(err, ErrForbidden)
}

func (s *ProductServiceSuite) TestLowStockFilter() {
	s.product("BB-010", 2)
	s.product("BB-011", 50)

	page, err := s.svc.List(s.ctx, s.as(s.franchisor), listQuery(url.Values{"low_stock": {"true"}}))
	s.Require().NoError(err)
	s.EqualValues(1, page.Total)

	page, err = s.svc.List(s.ctx, s.as(s.franchisor), listQuery(url.Values{}))
	s.Require().NoError(err)
	s.EqualValues(2, page.Total)
}

func (s *ProductServiceSuite) TestUpdateAndDelete() {
	product := s.product("BB-020", 5)

	updated, err := s.svc.Update(s.ctx, s.as(s.franchisor), product.ID, ProductInput{StockQuantity: ptr(12)})
	s.Require().NoError(err)
	s.Equal(12, updated.StockQuantity)

	s.Require().NoError(s.svc.Delete(s.ctx, s.as(s.franchisor), product.ID))
	s.EqualValues(0, s.count(&models.Product{}, "id = ?", product.ID))
}
