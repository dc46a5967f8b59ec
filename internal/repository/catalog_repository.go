package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-editor-service/internal/models"
	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	// EditorPageSize is the fixed raw page the grid query fetches. Type
	// filtering happens after fetch, so the visible result may be smaller
	// even when more matching products exist beyond this page.
	EditorPageSize = 100

	// CategoryCacheTTL covers the filter-dropdown category list. Product
	// state is never cached; every grid query re-reads the database.
	CategoryCacheTTL = 30 * time.Minute
)

var ErrNotFound = errors.New("not found")

// CatalogRepositoryInterface is the catalog read/write surface consumed by
// the editor services. Kept as an interface so the services can be unit
// tested against a mock.
type CatalogRepositoryInterface interface {
	QueryProducts(ctx context.Context, tenantID string, filter models.CatalogFilter) ([]models.Product, error)
	GetProductByID(ctx context.Context, tenantID string, productID uuid.UUID) (*models.Product, error)
	SaveProduct(ctx context.Context, tenantID string, product *models.Product) error
	CreateProduct(ctx context.Context, tenantID string, product *models.Product) error
	UpdateProductStatus(ctx context.Context, tenantID string, productID uuid.UUID, status models.ProductStatus) error
	GetVariationByID(ctx context.Context, tenantID string, variationID uuid.UUID) (*models.ProductVariation, error)
	ListVariations(ctx context.Context, tenantID string, productID uuid.UUID) ([]models.ProductVariation, error)
	SaveVariation(ctx context.Context, tenantID string, variation *models.ProductVariation) error
	AddCategory(ctx context.Context, tenantID string, productID, categoryID uuid.UUID) error
	RemoveCategory(ctx context.Context, tenantID string, productID, categoryID uuid.UUID) error
	GetCategories(ctx context.Context, tenantID string) ([]models.Category, error)
	GetStats(ctx context.Context, tenantID string) (*models.CatalogStats, error)
}

type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
	cache *cache.CacheLayer
}

var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

func NewCatalogRepository(db *gorm.DB, redis *redis.Client) *CatalogRepository {
	repo := &CatalogRepository{
		db:    db,
		redis: redis,
	}

	// Initialize CacheLayer with the existing Redis client
	if redis != nil {
		cacheConfig := cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 1000,
			L1TTL:      30 * time.Second,
			DefaultTTL: CategoryCacheTTL,
			KeyPrefix:  "catalog-editor:",
		}
		repo.cache = cache.NewCacheLayerFromClient(redis, cacheConfig)
	}

	return repo
}

// QueryProducts fetches the raw editor page: up to EditorPageSize products
// ordered by descending identifier, with category, stock-status and search
// constraints pushed into the query. The computed-type constraint cannot be
// pushed down and is applied by the caller.
func (r *CatalogRepository) QueryProducts(ctx context.Context, tenantID string, filter models.CatalogFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("products.tenant_id = ?", tenantID)

	if filter.CategoryID != nil {
		query = query.
			Joins("JOIN product_categories ON product_categories.product_id = products.id").
			Where("product_categories.category_id = ?", *filter.CategoryID)
	}

	if filter.StockStatus != nil {
		query = query.Where("products.stock_status = ?", *filter.StockStatus)
	}

	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		query = query.Where("(products.name ILIKE ? OR products.sku ILIKE ?)", pattern, pattern)
	}

	var products []models.Product
	err := query.
		Preload("Categories").
		Preload("Variations").
		Order("products.id DESC").
		Limit(EditorPageSize).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

// GetProductByID retrieves a product with its categories and variations
func (r *CatalogRepository) GetProductByID(ctx context.Context, tenantID string, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		Preload("Categories").
		Preload("Variations").
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// SaveProduct writes a loaded product back. Association rows are left
// untouched; category membership changes go through AddCategory and
// RemoveCategory.
func (r *CatalogRepository) SaveProduct(ctx context.Context, tenantID string, product *models.Product) error {
	product.TenantID = tenantID
	product.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Omit("Categories", "Variations").
		Save(product).Error
}

// CreateProduct inserts a new product. Existing categories on the struct are
// linked, not re-created; variation rows are not copied.
func (r *CatalogRepository) CreateProduct(ctx context.Context, tenantID string, product *models.Product) error {
	product.TenantID = tenantID
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	return r.db.WithContext(ctx).
		Omit("Categories.*").
		Omit("Variations").
		Create(product).Error
}

// UpdateProductStatus writes the publication status through its own update
// path; status lives at a different layer than the commerce fields.
func (r *CatalogRepository) UpdateProductStatus(ctx context.Context, tenantID string, productID uuid.UUID, status models.ProductStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetVariationByID retrieves a variation, scoped to the tenant through the
// parent product
func (r *CatalogRepository) GetVariationByID(ctx context.Context, tenantID string, variationID uuid.UUID) (*models.ProductVariation, error) {
	var variation models.ProductVariation
	err := r.db.WithContext(ctx).Model(&models.ProductVariation{}).
		Joins("JOIN products ON products.id = product_variations.product_id").
		Where("products.tenant_id = ? AND product_variations.id = ?", tenantID, variationID).
		First(&variation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &variation, nil
}

// ListVariations returns all variation rows of one product
func (r *CatalogRepository) ListVariations(ctx context.Context, tenantID string, productID uuid.UUID) ([]models.ProductVariation, error) {
	var variations []models.ProductVariation
	err := r.db.WithContext(ctx).Model(&models.ProductVariation{}).
		Joins("JOIN products ON products.id = product_variations.product_id").
		Where("products.tenant_id = ? AND product_variations.product_id = ?", tenantID, productID).
		Order("product_variations.created_at ASC").
		Find(&variations).Error
	if err != nil {
		return nil, err
	}
	return variations, nil
}

// SaveVariation writes a loaded variation back
func (r *CatalogRepository) SaveVariation(ctx context.Context, tenantID string, variation *models.ProductVariation) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, variation.ProductID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	variation.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(variation).Error
}

// AddCategory attaches a category to a product. The underlying association
// upsert makes repeated adds idempotent.
func (r *CatalogRepository) AddCategory(ctx context.Context, tenantID string, productID, categoryID uuid.UUID) error {
	product, err := r.findTenantProduct(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(product).
		Omit("Categories.*").
		Association("Categories").
		Append(&models.Category{ID: categoryID})
}

// RemoveCategory detaches a category from a product
func (r *CatalogRepository) RemoveCategory(ctx context.Context, tenantID string, productID, categoryID uuid.UUID) error {
	product, err := r.findTenantProduct(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(product).
		Association("Categories").
		Delete(&models.Category{ID: categoryID})
}

func (r *CatalogRepository) findTenantProduct(ctx context.Context, tenantID string, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Select("id").
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetCategories retrieves the tenant's categories for the filter dropdown,
// through the cache layer when Redis is available
func (r *CatalogRepository) GetCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	fetch := func() ([]models.Category, error) {
		var categories []models.Category
		err := r.db.WithContext(ctx).Model(&models.Category{}).
			Where("tenant_id = ?", tenantID).
			Order("name ASC").
			Find(&categories).Error
		if err != nil {
			return nil, err
		}
		return categories, nil
	}

	if r.cache != nil {
		cacheKey := fmt.Sprintf("categories:%s:list", tenantID)
		var categories []models.Category
		err := r.cache.GetOrSetJSON(ctx, cacheKey, &categories, CategoryCacheTTL, func() (any, error) {
			return fetch()
		})
		if err != nil {
			return nil, err
		}
		return categories, nil
	}

	return fetch()
}

// GetStats aggregates catalog counts for the console header
func (r *CatalogRepository) GetStats(ctx context.Context, tenantID string) (*models.CatalogStats, error) {
	stats := &models.CatalogStats{
		ByStatus:      make(map[models.ProductStatus]int64),
		ByType:        make(map[models.ProductType]int64),
		ByStockStatus: make(map[models.StockStatus]int64),
	}

	base := r.db.WithContext(ctx).Model(&models.Product{}).Where("tenant_id = ?", tenantID)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byStatus []bucket
	if err := base.Session(&gorm.Session{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[models.ProductStatus(b.Key)] = b.Count
	}

	var byType []bucket
	if err := base.Session(&gorm.Session{}).
		Select("type AS key, COUNT(*) AS count").
		Group("type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, b := range byType {
		stats.ByType[models.ProductType(b.Key)] = b.Count
	}

	var byStock []bucket
	if err := base.Session(&gorm.Session{}).
		Select("stock_status AS key, COUNT(*) AS count").
		Group("stock_status").
		Scan(&byStock).Error; err != nil {
		return nil, err
	}
	for _, b := range byStock {
		stats.ByStockStatus[models.StockStatus(b.Key)] = b.Count
	}

	return stats, nil
}
