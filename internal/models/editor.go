package models

import (
	"github.com/google/uuid"
)

// CatalogFilter narrows the editor grid query. All fields are optional;
// absent means unconstrained. The product type constraint is applied after
// fetch because it matches the computed type, not a stored column.
type CatalogFilter struct {
	ProductType *ProductType `json:"productType,omitempty"`
	CategoryID  *uuid.UUID   `json:"categoryId,omitempty"`
	StockStatus *StockStatus `json:"stockStatus,omitempty"`
	Search      *string      `json:"search,omitempty"`
}

// ProductSummary is one flattened row of the editor grid
type ProductSummary struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Type          ProductType   `json:"type"`
	SKU           *string       `json:"sku,omitempty"`
	RegularPrice  *string       `json:"regularPrice,omitempty"`
	SalePrice     *string       `json:"salePrice,omitempty"`
	StockQuantity *int          `json:"stockQuantity,omitempty"`
	StockStatus   StockStatus   `json:"stockStatus"`
	Categories    []string      `json:"categories"`
	Status        ProductStatus `json:"status"`
	Thumbnail     *string       `json:"thumbnail,omitempty"`
	IsVariable    bool          `json:"isVariable"`
}

// ProductPatch is a sparse field patch for one product or variation id.
// Only fields present in the patch are applied. Weight and Enabled apply
// to variation rows only and are ignored for plain products.
type ProductPatch struct {
	ID            uuid.UUID      `json:"id" binding:"required"`
	RegularPrice  *string        `json:"regularPrice,omitempty"`
	SalePrice     *string        `json:"salePrice,omitempty"`
	SKU           *string        `json:"sku,omitempty"`
	StockQuantity *int           `json:"stockQuantity,omitempty"`
	StockStatus   *StockStatus   `json:"stockStatus,omitempty"`
	Status        *ProductStatus `json:"status,omitempty"`
	Weight        *string        `json:"weight,omitempty"`
	Enabled       *bool          `json:"enabled,omitempty"`
}

// SaveProductsRequest carries the accumulated diff set from the grid
type SaveProductsRequest struct {
	Products []ProductPatch `json:"products" binding:"required,min=1,dive"`
}

// BulkActionKind identifies a catalog-wide bulk transformation
type BulkActionKind string

const (
	BulkActionPriceIncrease  BulkActionKind = "price-increase"
	BulkActionPriceDecrease  BulkActionKind = "price-decrease"
	BulkActionSetSalePrice   BulkActionKind = "set-sale-price"
	BulkActionUpdateStock    BulkActionKind = "update-stock"
	BulkActionChangeStatus   BulkActionKind = "change-status"
	BulkActionAddCategory    BulkActionKind = "add-category"
	BulkActionRemoveCategory BulkActionKind = "remove-category"
	BulkActionDuplicate      BulkActionKind = "duplicate"
)

// BulkActionRequest applies one action with a scalar value to a set of
// selected products. The value is interpreted per action kind.
type BulkActionRequest struct {
	Action     BulkActionKind `json:"action" binding:"required"`
	Value      string         `json:"value"`
	ProductIDs []uuid.UUID    `json:"productIds" binding:"required,min=1"`
}

// VariantRow is one editable row of a variable product's variation matrix
type VariantRow struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"productId"`
	Label         string    `json:"label"`
	SKU           *string   `json:"sku,omitempty"`
	RegularPrice  *string   `json:"regularPrice,omitempty"`
	SalePrice     *string   `json:"salePrice,omitempty"`
	StockQuantity *int      `json:"stockQuantity,omitempty"`
	Weight        *string   `json:"weight,omitempty"`
	Enabled       bool      `json:"enabled"`
}

// VariationSheet is the variation sub-editor payload for one product
type VariationSheet struct {
	ProductID   uuid.UUID    `json:"productId"`
	ProductName string       `json:"productName"`
	Variations  []VariantRow `json:"variations"`
}

// CatalogStats summarizes the tenant's catalog for the console header
type CatalogStats struct {
	TotalProducts int64                   `json:"totalProducts"`
	ByStatus      map[ProductStatus]int64 `json:"byStatus"`
	ByType        map[ProductType]int64   `json:"byType"`
	ByStockStatus map[StockStatus]int64   `json:"byStockStatus"`
}

// Response types

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     Error  `json:"error"`
	Timestamp string `json:"timestamp,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details *JSON  `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

// UpdatedResponse is the aggregate result of a batch save or bulk action.
// Per-item failures are folded into the count; callers compare it against
// the number of ids they submitted.
type UpdatedResponse struct {
	Success bool `json:"success"`
	Updated int  `json:"updated"`
}
