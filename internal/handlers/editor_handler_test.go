package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"catalog-editor-service/internal/models"
	"catalog-editor-service/internal/repository"
	"catalog-editor-service/internal/services"
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

func setupEditorRouter(mockRepo *MockCatalogRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	editorService := services.NewEditorService(mockRepo, nil, logger)
	bulkService := services.NewBulkService(mockRepo, nil, logger)
	handler := NewEditorHandler(editorService, bulkService)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("tenant_id", "tenant-123")
		c.Set("user_id", uuid.New().String())
		c.Next()
	})

	router.GET("/editor/products", handler.LoadProducts)
	router.GET("/editor/products/:id/variations", handler.LoadVariations)
	router.GET("/editor/categories", handler.GetCategories)
	router.GET("/editor/stats", handler.GetStats)
	router.POST("/editor/products/save", handler.SaveProducts)
	router.POST("/editor/products/bulk", handler.ApplyBulkAction)

	return router
}

func TestLoadProductsEndpoint(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupEditorRouter(mockRepo)

	sku := "TEE-001"
	products := []models.Product{
		{
			ID:          uuid.New(),
			TenantID:    "tenant-123",
			Name:        "Plain Tee",
			Type:        models.ProductTypeSimple,
			SKU:         &sku,
			StockStatus: models.StockStatusInStock,
			Status:      models.ProductStatusPublish,
		},
	}

	mockRepo.On("QueryProducts", mock.Anything, "tenant-123", mock.Anything).
		Return(products, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/editor/products?search=tee", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.SuccessResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	mockRepo.AssertExpectations(t)
}

func TestLoadProductsEndpointRejectsBadCategoryID(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupEditorRouter(mockRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/editor/products?category=not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "QueryProducts", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadVariationsEndpointNotVariable(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupEditorRouter(mockRepo)

	product := &models.Product{
		ID:       uuid.New(),
		TenantID: "tenant-123",
		Name:     "Plain Tee",
		Type:     models.ProductTypeSimple,
	}
	mockRepo.On("GetProductByID", mock.Anything, "tenant-123", product.ID).Return(product, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/editor/products/"+product.ID.String()+"/variations", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_VARIABLE", resp.Error.Code)
	mockRepo.AssertExpectations(t)
}

func TestLoadVariationsEndpointMissingProduct(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupEditorRouter(mockRepo)

	productID := uuid.New()
	mockRepo.On("GetProductByID", mock.Anything, "tenant-123", productID).Return(nil, repository.ErrNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/editor/products/"+productID.String()+"/variations", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestSaveProductsEndpointRejectsEmptyBatch(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupEditorRouter(mockRepo)

	body, _ := json.Marshal(map[string]interface{}{"products": []interface{}{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/editor/products/save", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyBulkActionEndpointUnknownAction(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupEditorRouter(mockRepo)

	body, _ := json.Marshal(models.BulkActionRequest{
		Action:     "detonate",
		ProductIDs: []uuid.UUID{uuid.New()},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/editor/products/bulk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UNKNOWN_ACTION", resp.Error.Code)
	mockRepo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetCategoriesEndpoint(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupEditorRouter(mockRepo)

	categories := []models.Category{
		{ID: uuid.New(), TenantID: "tenant-123", Name: "Shirts", Slug: "shirts"},
	}
	mockRepo.On("GetCategories", mock.Anything, "tenant-123").Return(categories, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/editor/categories", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestGetStatsEndpoint(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupEditorRouter(mockRepo)

	stats := &models.CatalogStats{
		TotalProducts: 3,
		ByStatus:      map[models.ProductStatus]int64{models.ProductStatusPublish: 3},
		ByType:        map[models.ProductType]int64{models.ProductTypeSimple: 3},
		ByStockStatus: map[models.StockStatus]int64{models.StockStatusInStock: 3},
	}
	mockRepo.On("GetStats", mock.Anything, "tenant-123").Return(stats, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/editor/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}
