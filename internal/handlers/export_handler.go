package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"catalog-editor-service/internal/models"
	"catalog-editor-service/internal/services"
)

var exportColumns = []string{
	"ID", "Name", "Type", "SKU", "Regular Price", "Sale Price",
	"Stock Quantity", "Stock Status", "Categories", "Status",
}

// ExportHandler streams the current grid view as a downloadable file
type ExportHandler struct {
	editor *services.EditorService
}

func NewExportHandler(editor *services.EditorService) *ExportHandler {
	return &ExportHandler{editor: editor}
}

// ExportProducts exports the filtered grid page as CSV or XLSX
// @Summary Export products
// @Description Exports the products matching the current filters as CSV or XLSX
// @Tags Editor
// @Produce octet-stream
// @Param format query string false "Export format (csv or xlsx)" default(csv)
// @Param type query string false "Product type filter"
// @Param category query string false "Category ID filter"
// @Param stockStatus query string false "Stock status filter"
// @Param search query string false "Name substring search"
// @Success 200 {file} file
// @Failure 500 {object} models.ErrorResponse
// @Router /editor/products/export [get]
func (h *ExportHandler) ExportProducts(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	filter := filterFromQuery(c)
	summaries, err := h.editor.LoadProducts(c.Request.Context(), tenantID.(string), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EXPORT_FAILED",
				Message: "Failed to load products for export",
				Details: &models.JSON{"error": err.Error()},
			},
		})
		return
	}

	filename := "catalog_export_" + time.Now().Format("20060102_150405")
	if c.DefaultQuery("format", "csv") == "xlsx" {
		h.writeXLSX(c, summaries, filename)
		return
	}
	h.writeCSV(c, summaries, filename)
}

func filterFromQuery(c *gin.Context) models.CatalogFilter {
	var filter models.CatalogFilter
	if v := c.Query("type"); v != "" {
		productType := models.ProductType(v)
		filter.ProductType = &productType
	}
	if v := c.Query("category"); v != "" {
		if categoryID, err := uuid.Parse(v); err == nil {
			filter.CategoryID = &categoryID
		}
	}
	if v := c.Query("stockStatus"); v != "" {
		stockStatus := models.StockStatus(v)
		filter.StockStatus = &stockStatus
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}
	return filter
}

func (h *ExportHandler) writeCSV(c *gin.Context, summaries []models.ProductSummary, filename string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename+".csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportColumns)
	for i := range summaries {
		writer.Write(exportRow(&summaries[i]))
	}
}

func (h *ExportHandler) writeXLSX(c *gin.Context, summaries []models.ProductSummary, filename string) {
	f := excelize.NewFile()
	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	for i, header := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 18)
	}

	for rowIdx := range summaries {
		row := exportRow(&summaries[rowIdx])
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename+".xlsx")

	f.Write(c.Writer)
}

func exportRow(summary *models.ProductSummary) []string {
	return []string{
		summary.ID.String(),
		summary.Name,
		string(summary.Type),
		strOrEmpty(summary.SKU),
		strOrEmpty(summary.RegularPrice),
		strOrEmpty(summary.SalePrice),
		intOrEmpty(summary.StockQuantity),
		string(summary.StockStatus),
		strings.Join(summary.Categories, ", "),
		string(summary.Status),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
