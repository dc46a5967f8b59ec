package services

import (
	"context"
	"errors"

	"catalog-editor-service/internal/events"
	"catalog-editor-service/internal/models"
	"catalog-editor-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotVariable     = errors.New("product is not a variable product")
)

// Actor identifies who performed an edit, for the audit trail
type Actor struct {
	ID    string
	Name  string
	Email string
}

// EditorService implements the grid workflow: filtered catalog queries,
// sparse-patch saves, and the variation sub-editor. It is constructed once
// at startup with its dependencies injected; it holds no request state.
type EditorService struct {
	repo      repository.CatalogRepositoryInterface
	publisher *events.Publisher
	logger    *logrus.Logger
}

// NewEditorService creates a new EditorService. The publisher may be nil
// when NATS is not configured.
func NewEditorService(repo repository.CatalogRepositoryInterface, publisher *events.Publisher, logger *logrus.Logger) *EditorService {
	return &EditorService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// LoadProducts runs the filtered grid query and flattens the surviving
// products into summaries. The type filter matches the computed type, so it
// is applied here by discarding rows from the fetched page; the result may
// undershoot the page size even when more matching products exist beyond it.
func (s *EditorService) LoadProducts(ctx context.Context, tenantID string, filter models.CatalogFilter) ([]models.ProductSummary, error) {
	products, err := s.repo.QueryProducts(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ProductSummary, 0, len(products))
	for i := range products {
		product := &products[i]
		if filter.ProductType != nil && product.EffectiveType() != *filter.ProductType {
			continue
		}
		summaries = append(summaries, flattenProduct(product))
	}

	return summaries, nil
}

func flattenProduct(product *models.Product) models.ProductSummary {
	categories := make([]string, 0, len(product.Categories))
	for _, category := range product.Categories {
		categories = append(categories, category.Name)
	}

	return models.ProductSummary{
		ID:            product.ID,
		Name:          product.Name,
		Type:          product.EffectiveType(),
		SKU:           product.SKU,
		RegularPrice:  product.RegularPrice,
		SalePrice:     product.SalePrice,
		StockQuantity: product.StockQuantity,
		StockStatus:   product.StockStatus,
		Categories:    categories,
		Status:        product.Status,
		Thumbnail:     product.ThumbnailURL,
		IsVariable:    product.IsVariable(),
	}
}

// SaveProducts applies a batch of sparse patches. Each patch id is resolved
// as a product first and as a variation second; ids that resolve to neither
// are skipped. Patches are independent and best-effort: one failure never
// aborts the rest, and the only aggregate signal is the returned count of
// entities that were found and saved.
func (s *EditorService) SaveProducts(ctx context.Context, tenantID string, patches []models.ProductPatch, actor Actor) (int, error) {
	saved := 0
	for _, patch := range patches {
		if err := s.applyPatch(ctx, tenantID, patch, actor); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				s.logger.WithFields(logrus.Fields{
					"tenantId": tenantID,
					"id":       patch.ID,
				}).WithError(err).Warn("Failed to save patch")
			}
			continue
		}
		saved++
	}
	return saved, nil
}

func (s *EditorService) applyPatch(ctx context.Context, tenantID string, patch models.ProductPatch, actor Actor) error {
	product, err := s.repo.GetProductByID(ctx, tenantID, patch.ID)
	if err == nil {
		return s.applyProductPatch(ctx, tenantID, product, patch, actor)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	// Not a product id; a variation is product-like and saves through the
	// same patch path with its own id.
	variation, err := s.repo.GetVariationByID(ctx, tenantID, patch.ID)
	if err != nil {
		return err
	}
	return s.applyVariationPatch(ctx, tenantID, variation, patch)
}

func (s *EditorService) applyProductPatch(ctx context.Context, tenantID string, product *models.Product, patch models.ProductPatch, actor Actor) error {
	changed := make([]string, 0, 6)

	if patch.RegularPrice != nil {
		product.RegularPrice = patch.RegularPrice
		changed = append(changed, "regularPrice")
	}
	if patch.SalePrice != nil {
		product.SalePrice = patch.SalePrice
		changed = append(changed, "salePrice")
	}
	if patch.SKU != nil {
		product.SKU = patch.SKU
		changed = append(changed, "sku")
	}
	if patch.StockQuantity != nil && product.ManageStock {
		product.StockQuantity = patch.StockQuantity
		changed = append(changed, "stockQuantity")
	}
	if patch.StockStatus != nil {
		product.StockStatus = *patch.StockStatus
		changed = append(changed, "stockStatus")
	}

	// Status is platform-managed at a different layer than the commerce
	// fields and writes through its own update path.
	if patch.Status != nil && *patch.Status != product.Status {
		oldStatus := product.Status
		if err := s.repo.UpdateProductStatus(ctx, tenantID, product.ID, *patch.Status); err != nil {
			return err
		}
		product.Status = *patch.Status
		if s.publisher != nil {
			_ = s.publisher.PublishProductStatusChanged(ctx, product, string(oldStatus), string(*patch.Status), tenantID, actor.ID, actor.Name, actor.Email)
		}
	}

	if err := s.repo.SaveProduct(ctx, tenantID, product); err != nil {
		return err
	}

	if s.publisher != nil && len(changed) > 0 {
		_ = s.publisher.PublishProductUpdated(ctx, product, changed, tenantID, actor.ID, actor.Name, actor.Email)
	}
	return nil
}

func (s *EditorService) applyVariationPatch(ctx context.Context, tenantID string, variation *models.ProductVariation, patch models.ProductPatch) error {
	if patch.RegularPrice != nil {
		variation.RegularPrice = patch.RegularPrice
	}
	if patch.SalePrice != nil {
		variation.SalePrice = patch.SalePrice
	}
	if patch.SKU != nil {
		variation.SKU = patch.SKU
	}
	if patch.StockQuantity != nil && variation.ManageStock {
		variation.StockQuantity = patch.StockQuantity
	}
	if patch.Weight != nil {
		variation.Weight = patch.Weight
	}
	if patch.Enabled != nil {
		variation.SetEnabled(*patch.Enabled)
	}

	return s.repo.SaveVariation(ctx, tenantID, variation)
}

// LoadVariations returns the variation matrix of one variable product.
// Ids that resolve to a non-variable product are rejected.
func (s *EditorService) LoadVariations(ctx context.Context, tenantID string, productID uuid.UUID) (*models.VariationSheet, error) {
	product, err := s.repo.GetProductByID(ctx, tenantID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if !product.IsVariable() {
		return nil, ErrNotVariable
	}

	variations, err := s.repo.ListVariations(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	rows := make([]models.VariantRow, 0, len(variations))
	for i := range variations {
		variation := &variations[i]
		rows = append(rows, models.VariantRow{
			ID:            variation.ID,
			ProductID:     variation.ProductID,
			Label:         variation.Attributes.Label(),
			SKU:           variation.SKU,
			RegularPrice:  variation.RegularPrice,
			SalePrice:     variation.SalePrice,
			StockQuantity: variation.StockQuantity,
			Weight:        variation.Weight,
			Enabled:       variation.Enabled(),
		})
	}

	return &models.VariationSheet{
		ProductID:   product.ID,
		ProductName: product.Name,
		Variations:  rows,
	}, nil
}

// GetCategories returns the tenant's categories for the filter dropdown
func (s *EditorService) GetCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	return s.repo.GetCategories(ctx, tenantID)
}

// GetStats returns aggregate catalog counts for the console header
func (s *EditorService) GetStats(ctx context.Context, tenantID string) (*models.CatalogStats, error) {
	return s.repo.GetStats(ctx, tenantID)
}
