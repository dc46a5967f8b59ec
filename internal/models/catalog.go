package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductType represents the stored type of a product
type ProductType string

const (
	ProductTypeSimple   ProductType = "simple"
	ProductTypeVariable ProductType = "variable"
	ProductTypeGrouped  ProductType = "grouped"
	ProductTypeExternal ProductType = "external"
)

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductStatusPublish ProductStatus = "publish"
	ProductStatusDraft   ProductStatus = "draft"
	ProductStatusPending ProductStatus = "pending"
	ProductStatusPrivate ProductStatus = "private"
)

// StockStatus represents the stock status of a product
type StockStatus string

const (
	StockStatusInStock     StockStatus = "instock"
	StockStatusOutOfStock  StockStatus = "outofstock"
	StockStatusOnBackorder StockStatus = "onbackorder"
)

// JSON type for PostgreSQL JSONB (object/map)
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// VariationAttribute is one attribute-value pair of a variation's combination
type VariationAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// VariationAttributes is the ordered attribute combination, stored as JSONB
type VariationAttributes []VariationAttribute

func (a VariationAttributes) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *VariationAttributes) Scan(value interface{}) error {
	if value == nil {
		*a = make(VariationAttributes, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// Label joins the non-empty attribute values into a display label.
// Empty ("any") selections are omitted rather than shown as blanks.
func (a VariationAttributes) Label() string {
	values := make([]string, 0, len(a))
	for _, attr := range a {
		if attr.Value != "" {
			values = append(values, attr.Value)
		}
	}
	return strings.Join(values, ", ")
}

// Product represents a catalog product row administered by the editor
type Product struct {
	ID            uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      string              `json:"tenantId" gorm:"not null;index:idx_products_tenant_id;index:idx_products_tenant_status;index:idx_products_tenant_stock"`
	Name          string              `json:"name" gorm:"not null"`
	Type          ProductType         `json:"type" gorm:"not null;default:'simple'"`
	SKU           *string             `json:"sku,omitempty" gorm:"index"`
	RegularPrice  *string             `json:"regularPrice,omitempty"`
	SalePrice     *string             `json:"salePrice,omitempty"`
	ManageStock   bool                `json:"manageStock" gorm:"not null;default:false"`
	StockQuantity *int                `json:"stockQuantity,omitempty"`
	StockStatus   StockStatus         `json:"stockStatus" gorm:"not null;default:'instock';index:idx_products_tenant_stock"`
	Status        ProductStatus       `json:"status" gorm:"not null;default:'draft';index:idx_products_tenant_status"`
	ThumbnailURL  *string             `json:"thumbnailUrl,omitempty" gorm:"column:thumbnail_url"`
	Categories    []*Category         `json:"categories,omitempty" gorm:"many2many:product_categories"`
	Variations    []*ProductVariation `json:"variations,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	DeletedAt     *gorm.DeletedAt     `json:"deletedAt,omitempty" gorm:"index"`
	CreatedBy     *string             `json:"createdBy,omitempty"`
	UpdatedBy     *string             `json:"updatedBy,omitempty"`
}

// EffectiveType returns the computed type: a product with variation rows is
// variable regardless of the stored type. The repository query cannot filter
// on this, so type filtering happens after fetch.
func (p *Product) EffectiveType() ProductType {
	if len(p.Variations) > 0 {
		return ProductTypeVariable
	}
	return p.Type
}

// IsVariable reports whether the product is variable by computed type
func (p *Product) IsVariable() bool {
	return p.EffectiveType() == ProductTypeVariable
}

// ProductVariation represents one purchasable attribute combination of a
// variable product. It is product-like: it carries its own id, prices and
// stock, and saves through the same field-patch path as products.
type ProductVariation struct {
	ID            uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID     uuid.UUID           `json:"productId" gorm:"type:uuid;not null;index"`
	SKU           *string             `json:"sku,omitempty" gorm:"index"`
	RegularPrice  *string             `json:"regularPrice,omitempty"`
	SalePrice     *string             `json:"salePrice,omitempty"`
	ManageStock   bool                `json:"manageStock" gorm:"not null;default:false"`
	StockQuantity *int                `json:"stockQuantity,omitempty"`
	Weight        *string             `json:"weight,omitempty"`
	Status        ProductStatus       `json:"status" gorm:"not null;default:'publish'"`
	Attributes    VariationAttributes `json:"attributes,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	DeletedAt     *gorm.DeletedAt     `json:"deletedAt,omitempty" gorm:"index"`
}

// Enabled reports whether the variation is purchasable (published)
func (v *ProductVariation) Enabled() bool {
	return v.Status == ProductStatusPublish
}

// SetEnabled maps the editor's enabled flag back onto the status
func (v *ProductVariation) SetEnabled(enabled bool) {
	if enabled {
		v.Status = ProductStatusPublish
	} else {
		v.Status = ProductStatusDraft
	}
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  string          `json:"tenantId" gorm:"column:tenant_id;not null;index"`
	Name      string          `json:"name" gorm:"not null"`
	Slug      string          `json:"slug" gorm:"not null"`
	CreatedAt time.Time       `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time       `json:"updatedAt" gorm:"column:updated_at"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"column:deleted_at;index"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for the ProductVariation model
func (ProductVariation) TableName() string {
	return "product_variations"
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
