package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalog-editor-service/internal/models"
	"catalog-editor-service/internal/services"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
)

// EditorHandler exposes the spreadsheet-style catalog editor endpoints
type EditorHandler struct {
	editor *services.EditorService
	bulk   *services.BulkService
}

func NewEditorHandler(editor *services.EditorService, bulk *services.BulkService) *EditorHandler {
	return &EditorHandler{
		editor: editor,
		bulk:   bulk,
	}
}

func actorFromContext(c *gin.Context) services.Actor {
	actor := gosharedmw.GetActorInfo(c)
	return services.Actor{
		ID:    actor.ActorID,
		Name:  actor.ActorName,
		Email: actor.ActorEmail,
	}
}

// LoadProducts returns one page of the editor grid
// @Summary Load products for the editor grid
// @Description Returns up to 100 products matching the filters, newest first
// @Tags Editor
// @Produce json
// @Param type query string false "Product type filter (simple, variable, grouped, external)"
// @Param category query string false "Category ID filter"
// @Param stockStatus query string false "Stock status filter (instock, outofstock, onbackorder)"
// @Param search query string false "Name substring search"
// @Success 200 {object} models.SuccessResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /editor/products [get]
func (h *EditorHandler) LoadProducts(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var filter models.CatalogFilter
	if v := c.Query("type"); v != "" {
		productType := models.ProductType(v)
		filter.ProductType = &productType
	}
	if v := c.Query("category"); v != "" {
		categoryID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "VALIDATION_ERROR",
					Message: "Invalid category ID",
					Field:   "category",
				},
			})
			return
		}
		filter.CategoryID = &categoryID
	}
	if v := c.Query("stockStatus"); v != "" {
		stockStatus := models.StockStatus(v)
		filter.StockStatus = &stockStatus
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	summaries, err := h.editor.LoadProducts(c.Request.Context(), tenantID.(string), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to load products",
				Details: &models.JSON{"error": err.Error()},
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    summaries,
	})
}

// SaveProducts applies a batch of field patches from the grid
// @Summary Save edited products
// @Description Applies sparse field patches per product or variation id, best effort
// @Tags Editor
// @Accept json
// @Produce json
// @Param request body models.SaveProductsRequest true "Patches"
// @Success 200 {object} models.UpdatedResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /editor/products/save [post]
func (h *EditorHandler) SaveProducts(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var req models.SaveProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	saved, err := h.editor.SaveProducts(c.Request.Context(), tenantID.(string), req.Products, actorFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "SAVE_FAILED",
				Message: "Failed to save products",
				Details: &models.JSON{"error": err.Error()},
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.UpdatedResponse{
		Success: true,
		Updated: saved,
	})
}

// LoadVariations returns the variation matrix of one variable product
// @Summary Load variations
// @Description Returns the editable variation rows of a variable product
// @Tags Editor
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /editor/products/{id}/variations [get]
func (h *EditorHandler) LoadVariations(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid product ID",
				Field:   "id",
			},
		})
		return
	}

	sheet, err := h.editor.LoadVariations(c.Request.Context(), tenantID.(string), productID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "NOT_FOUND",
					Message: "Product not found",
				},
			})
		case errors.Is(err, services.ErrNotVariable):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "NOT_VARIABLE",
					Message: "Product has no variations",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "FETCH_FAILED",
					Message: "Failed to load variations",
					Details: &models.JSON{"error": err.Error()},
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    sheet,
	})
}

// ApplyBulkAction applies one action to a selection of products
// @Summary Apply a bulk action
// @Description Applies a price, stock, status, category or duplicate action to the selected products
// @Tags Editor
// @Accept json
// @Produce json
// @Param request body models.BulkActionRequest true "Bulk action"
// @Success 200 {object} models.UpdatedResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /editor/products/bulk [post]
func (h *EditorHandler) ApplyBulkAction(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var req models.BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	updated, err := h.bulk.ApplyBulkAction(c.Request.Context(), tenantID.(string), req, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownAction):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "UNKNOWN_ACTION",
					Message: "Unknown bulk action",
					Field:   "action",
				},
			})
		case errors.Is(err, services.ErrInvalidValue):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "VALIDATION_ERROR",
					Message: "Invalid value for bulk action",
					Field:   "value",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "BULK_ACTION_FAILED",
					Message: "Failed to apply bulk action",
					Details: &models.JSON{"error": err.Error()},
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.UpdatedResponse{
		Success: true,
		Updated: updated,
	})
}

// GetCategories returns the tenant's categories for the filter dropdown
// @Summary Get categories
// @Description Returns all categories of the tenant, sorted by name
// @Tags Editor
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /editor/categories [get]
func (h *EditorHandler) GetCategories(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	categories, err := h.editor.GetCategories(c.Request.Context(), tenantID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve categories",
				Details: &models.JSON{"error": err.Error()},
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    categories,
	})
}

// GetStats returns aggregate catalog counts
// @Summary Get catalog stats
// @Description Returns product counts grouped by status, type and stock status
// @Tags Editor
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /editor/stats [get]
func (h *EditorHandler) GetStats(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	stats, err := h.editor.GetStats(c.Request.Context(), tenantID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to compute catalog stats",
				Details: &models.JSON{"error": err.Error()},
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    stats,
	})
}
