package handlers

import (
	"bytes"
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
	"catalog-editor-service/internal/services"

	"github.com/Tesseract-Nexus/go-shared/rbac"
)

// newDenyingStaffService stands in for the staff service and answers every
// effective-permissions lookup with an empty permission set, so any gated
// permission check is denied.
func newDenyingStaffService(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"staffId":        uuid.New().String(),
				"roles":          []interface{}{},
				"permissions":    []interface{}{},
				"canManageStaff": false,
				"canCreateRoles": false,
				"canDeleteRoles": false,
				"maxPriority":    0,
			},
		})
	}))
}

func setupGatedRouter(mockRepo *MockCatalogRepository, staffServiceURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	editorService := services.NewEditorService(mockRepo, nil, logger)
	bulkService := services.NewBulkService(mockRepo, nil, logger)
	handler := NewEditorHandler(editorService, bulkService)

	rbacMw := rbac.NewMiddlewareWithURL(staffServiceURL, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		userID := uuid.New().String()
		c.Set("tenant_id", "tenant-123")
		c.Set("user_id", userID)
		c.Set("staff_id", userID)
		c.Next()
	})

	router.POST("/editor/products/save", rbacMw.RequirePermission(rbac.PermissionProductsUpdate), handler.SaveProducts)
	router.POST("/editor/products/bulk", rbacMw.RequirePermission(rbac.PermissionProductsUpdate), handler.ApplyBulkAction)

	return router
}

func TestSaveProductsDeniedWithoutUpdatePermission(t *testing.T) {
	staffService := newDenyingStaffService(t)
	defer staffService.Close()

	mockRepo := new(MockCatalogRepository)
	router := setupGatedRouter(mockRepo, staffService.URL)

	price := "120"
	body, _ := json.Marshal(models.SaveProductsRequest{
		Products: []models.ProductPatch{{ID: uuid.New(), RegularPrice: &price}},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/editor/products/save", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	// The gate rejects before the handler runs: nothing may be read or written
	mockRepo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "SaveProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyBulkActionDeniedWithoutUpdatePermission(t *testing.T) {
	staffService := newDenyingStaffService(t)
	defer staffService.Close()

	mockRepo := new(MockCatalogRepository)
	router := setupGatedRouter(mockRepo, staffService.URL)

	body, _ := json.Marshal(models.BulkActionRequest{
		Action:     models.BulkActionPriceIncrease,
		Value:      "10",
		ProductIDs: []uuid.UUID{uuid.New()},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/editor/products/bulk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockRepo.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "SaveProduct", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpdateProductStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
