package services

import (
	"context"

	"catalog-editor-service/internal/models"
	"catalog-editor-service/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCatalogRepository is a mock implementation of CatalogRepositoryInterface
type MockCatalogRepository struct {
	mock.Mock
}

var _ repository.CatalogRepositoryInterface = (*MockCatalogRepository)(nil)

func (m *MockCatalogRepository) QueryProducts(ctx context.Context, tenantID string, filter models.CatalogFilter) ([]models.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetProductByID(ctx context.Context, tenantID string, productID uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogRepository) SaveProduct(ctx context.Context, tenantID string, product *models.Product) error {
	args := m.Called(ctx, tenantID, product)
	return args.Error(0)
}

func (m *MockCatalogRepository) CreateProduct(ctx context.Context, tenantID string, product *models.Product) error {
	args := m.Called(ctx, tenantID, product)
	return args.Error(0)
}

func (m *MockCatalogRepository) UpdateProductStatus(ctx context.Context, tenantID string, productID uuid.UUID, status models.ProductStatus) error {
	args := m.Called(ctx, tenantID, productID, status)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetVariationByID(ctx context.Context, tenantID string, variationID uuid.UUID) (*models.ProductVariation, error) {
	args := m.Called(ctx, tenantID, variationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductVariation), args.Error(1)
}

func (m *MockCatalogRepository) ListVariations(ctx context.Context, tenantID string, productID uuid.UUID) ([]models.ProductVariation, error) {
	args := m.Called(ctx, tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProductVariation), args.Error(1)
}

func (m *MockCatalogRepository) SaveVariation(ctx context.Context, tenantID string, variation *models.ProductVariation) error {
	args := m.Called(ctx, tenantID, variation)
	return args.Error(0)
}

func (m *MockCatalogRepository) AddCategory(ctx context.Context, tenantID string, productID, categoryID uuid.UUID) error {
	args := m.Called(ctx, tenantID, productID, categoryID)
	return args.Error(0)
}

func (m *MockCatalogRepository) RemoveCategory(ctx context.Context, tenantID string, productID, categoryID uuid.UUID) error {
	args := m.Called(ctx, tenantID, productID, categoryID)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCatalogRepository) GetStats(ctx context.Context, tenantID string) (*models.CatalogStats, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogStats), args.Error(1)
}
