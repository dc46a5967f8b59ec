package services

import (
	"context"
	"errors"
	"math"
	"strconv"

	"catalog-editor-service/internal/events"
	"catalog-editor-service/internal/models"
	"catalog-editor-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownAction = errors.New("unknown bulk action")
	ErrInvalidValue  = errors.New("invalid bulk action value")
)

// BulkService applies one action across a selection of products. Actions are
// applied per product, write-through: each product is persisted before the
// next is touched, so a failure midway leaves earlier products updated.
type BulkService struct {
	repo      repository.CatalogRepositoryInterface
	publisher *events.Publisher
	logger    *logrus.Logger
}

// NewBulkService creates a new BulkService. The publisher may be nil.
func NewBulkService(repo repository.CatalogRepositoryInterface, publisher *events.Publisher, logger *logrus.Logger) *BulkService {
	return &BulkService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// ApplyBulkAction validates the action and value once, then applies the
// action to each selected product. Ids are processed independently and best
// effort: ids that do not resolve within the tenant are skipped, and a read
// or write failure on one id never aborts the rest. Returns the count of
// products that were found and processed.
func (s *BulkService) ApplyBulkAction(ctx context.Context, tenantID string, req models.BulkActionRequest, actor Actor) (int, error) {
	apply, err := s.resolveAction(req)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, productID := range req.ProductIDs {
		product, err := s.repo.GetProductByID(ctx, tenantID, productID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				s.logger.WithFields(logrus.Fields{
					"tenantId":  tenantID,
					"productId": productID,
					"action":    req.Action,
				}).WithError(err).Warn("Failed to load product for bulk action")
			}
			continue
		}

		if err := apply(ctx, tenantID, product, actor); err != nil {
			s.logger.WithFields(logrus.Fields{
				"tenantId":  tenantID,
				"productId": productID,
				"action":    req.Action,
			}).WithError(err).Warn("Bulk action failed for product")
			continue
		}
		updated++
	}

	return updated, nil
}

type bulkApplyFunc func(ctx context.Context, tenantID string, product *models.Product, actor Actor) error

// resolveAction parses the action value up front so a malformed request is
// rejected before any product is touched.
func (s *BulkService) resolveAction(req models.BulkActionRequest) (bulkApplyFunc, error) {
	switch req.Action {
	case models.BulkActionPriceIncrease:
		percent, err := parsePercent(req.Value)
		if err != nil {
			return nil, err
		}
		return s.priceAdjuster(percent), nil

	case models.BulkActionPriceDecrease:
		percent, err := parsePercent(req.Value)
		if err != nil {
			return nil, err
		}
		return s.priceAdjuster(-percent), nil

	case models.BulkActionSetSalePrice:
		if req.Value == "" {
			return nil, ErrInvalidValue
		}
		if _, err := strconv.ParseFloat(req.Value, 64); err != nil {
			return nil, ErrInvalidValue
		}
		salePrice := req.Value
		return func(ctx context.Context, tenantID string, product *models.Product, actor Actor) error {
			product.SalePrice = &salePrice
			return s.save(ctx, tenantID, product, []string{"salePrice"}, actor)
		}, nil

	case models.BulkActionUpdateStock:
		quantity, err := strconv.Atoi(req.Value)
		if err != nil {
			return nil, ErrInvalidValue
		}
		return func(ctx context.Context, tenantID string, product *models.Product, actor Actor) error {
			if !product.ManageStock {
				return nil
			}
			qty := quantity
			product.StockQuantity = &qty
			return s.save(ctx, tenantID, product, []string{"stockQuantity"}, actor)
		}, nil

	case models.BulkActionChangeStatus:
		status := models.ProductStatus(req.Value)
		switch status {
		case models.ProductStatusPublish, models.ProductStatusDraft, models.ProductStatusPending, models.ProductStatusPrivate:
		default:
			return nil, ErrInvalidValue
		}
		return func(ctx context.Context, tenantID string, product *models.Product, actor Actor) error {
			oldStatus := product.Status
			if oldStatus == status {
				return nil
			}
			if err := s.repo.UpdateProductStatus(ctx, tenantID, product.ID, status); err != nil {
				return err
			}
			product.Status = status
			if s.publisher != nil {
				_ = s.publisher.PublishProductStatusChanged(ctx, product, string(oldStatus), string(status), tenantID, actor.ID, actor.Name, actor.Email)
			}
			return nil
		}, nil

	case models.BulkActionAddCategory:
		categoryID, err := uuid.Parse(req.Value)
		if err != nil {
			return nil, ErrInvalidValue
		}
		return func(ctx context.Context, tenantID string, product *models.Product, actor Actor) error {
			return s.repo.AddCategory(ctx, tenantID, product.ID, categoryID)
		}, nil

	case models.BulkActionRemoveCategory:
		categoryID, err := uuid.Parse(req.Value)
		if err != nil {
			return nil, ErrInvalidValue
		}
		return func(ctx context.Context, tenantID string, product *models.Product, actor Actor) error {
			return s.repo.RemoveCategory(ctx, tenantID, product.ID, categoryID)
		}, nil

	case models.BulkActionDuplicate:
		return s.duplicateProduct, nil

	default:
		return nil, ErrUnknownAction
	}
}

// priceAdjuster scales the regular price by a signed percentage. Products
// without a regular price are left untouched entirely; for priced variable
// products the scaling cascades to the priced variations, skipping unpriced
// ones.
func (s *BulkService) priceAdjuster(percent float64) bulkApplyFunc {
	return func(ctx context.Context, tenantID string, product *models.Product, actor Actor) error {
		if product.RegularPrice == nil || *product.RegularPrice == "" {
			return nil
		}

		scaled, err := scalePrice(*product.RegularPrice, percent)
		if err != nil {
			return err
		}
		product.RegularPrice = &scaled

		for _, variation := range product.Variations {
			if variation.RegularPrice == nil || *variation.RegularPrice == "" {
				continue
			}
			varScaled, err := scalePrice(*variation.RegularPrice, percent)
			if err != nil {
				continue
			}
			variation.RegularPrice = &varScaled
			if err := s.repo.SaveVariation(ctx, tenantID, variation); err != nil {
				return err
			}
		}

		return s.save(ctx, tenantID, product, []string{"regularPrice"}, actor)
	}
}

// duplicateProduct creates a draft copy of the product with a fresh id and
// a " - Copy" name suffix. Category links are carried over; variations are
// not, the copy starts as a plain product.
func (s *BulkService) duplicateProduct(ctx context.Context, tenantID string, product *models.Product, actor Actor) error {
	duplicate := &models.Product{
		ID:            uuid.New(),
		TenantID:      tenantID,
		Name:          product.Name + " - Copy",
		Type:          product.Type,
		SKU:           nil,
		RegularPrice:  copyString(product.RegularPrice),
		SalePrice:     copyString(product.SalePrice),
		ManageStock:   product.ManageStock,
		StockQuantity: copyInt(product.StockQuantity),
		StockStatus:   product.StockStatus,
		Status:        models.ProductStatusDraft,
		ThumbnailURL:  copyString(product.ThumbnailURL),
		Categories:    product.Categories,
	}
	if actor.ID != "" {
		duplicate.CreatedBy = &actor.ID
	}

	if err := s.repo.CreateProduct(ctx, tenantID, duplicate); err != nil {
		return err
	}

	if s.publisher != nil {
		_ = s.publisher.PublishProductDuplicated(ctx, duplicate, product.ID, tenantID, actor.ID, actor.Name, actor.Email)
	}
	return nil
}

func (s *BulkService) save(ctx context.Context, tenantID string, product *models.Product, changed []string, actor Actor) error {
	if err := s.repo.SaveProduct(ctx, tenantID, product); err != nil {
		return err
	}
	if s.publisher != nil {
		_ = s.publisher.PublishProductUpdated(ctx, product, changed, tenantID, actor.ID, actor.Name, actor.Email)
	}
	return nil
}

func parsePercent(value string) (float64, error) {
	percent, err := strconv.ParseFloat(value, 64)
	if err != nil || percent < 0 {
		return 0, ErrInvalidValue
	}
	return percent, nil
}

// scalePrice adjusts a decimal price string by a signed percentage, rounding
// to cents. The result keeps the shortest decimal representation, so whole
// results print without trailing zeros.
func scalePrice(price string, percent float64) (string, error) {
	parsed, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return "", ErrInvalidValue
	}
	scaled := parsed * (100 + percent) / 100
	scaled = math.Round(scaled*100) / 100
	if scaled < 0 {
		scaled = 0
	}
	return strconv.FormatFloat(scaled, 'f', -1, 64), nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
