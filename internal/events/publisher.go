package events

import (
	"context"
	"fmt"
	"os"
	"time"

	"catalog-editor-service/internal/models"
	"github.com/Tesseract-Nexus/go-shared/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Publisher wraps the go-shared events publisher for catalog audit events.
// Every save and bulk mutation emits an event so the audit trail can show
// who edited what, even though the editor itself returns only counts.
type Publisher struct {
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewPublisher creates a new catalog events publisher
func NewPublisher(logger *logrus.Logger) (*Publisher, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://nats.nats.svc.cluster.local:4222"
	}

	config := events.DefaultPublisherConfig(natsURL)
	config.Name = "catalog-editor-service"

	publisher, err := events.NewPublisher(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create events publisher: %w", err)
	}

	// Ensure the products stream exists
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := publisher.EnsureStream(ctx, events.StreamProducts, []string{"product.>"}); err != nil {
		logger.WithError(err).Warn("Failed to ensure products stream (may already exist)")
	}

	return &Publisher{
		publisher: publisher,
		logger:    logger.WithField("component", "catalog-events"),
	}, nil
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.publisher != nil {
		p.publisher.Close()
	}
}

// PublishProductUpdated publishes a product.updated event for a grid save or
// bulk mutation
func (p *Publisher) PublishProductUpdated(ctx context.Context, product *models.Product, changedFields []string, tenantID, actorID, actorName, actorEmail string) error {
	event := p.buildProductEvent(events.ProductUpdated, product, tenantID)
	event.ActorID = actorID
	event.ActorName = actorName
	event.ActorEmail = actorEmail
	event.ChangeType = "updated"
	event.ChangedFields = changedFields
	return p.publish(ctx, event)
}

// PublishProductStatusChanged publishes a product status change event
func (p *Publisher) PublishProductStatusChanged(ctx context.Context, product *models.Product, oldStatus, newStatus string, tenantID, actorID, actorName, actorEmail string) error {
	event := p.buildProductEvent("product.status_changed", product, tenantID)
	event.ActorID = actorID
	event.ActorName = actorName
	event.ActorEmail = actorEmail
	event.ChangeType = "status_changed"
	event.OldValue = map[string]interface{}{"status": oldStatus}
	event.NewValue = map[string]interface{}{"status": newStatus}
	event.ChangedFields = []string{"status"}
	return p.publish(ctx, event)
}

// PublishProductDuplicated publishes an event for a duplicate bulk action
func (p *Publisher) PublishProductDuplicated(ctx context.Context, duplicate *models.Product, sourceID uuid.UUID, tenantID, actorID, actorName, actorEmail string) error {
	event := p.buildProductEvent(events.ProductCreated, duplicate, tenantID)
	event.ActorID = actorID
	event.ActorName = actorName
	event.ActorEmail = actorEmail
	event.ChangeType = "duplicated"
	event.OldValue = map[string]interface{}{"sourceProductId": sourceID.String()}
	return p.publish(ctx, event)
}

// buildProductEvent creates a ProductEvent from a product model
func (p *Publisher) buildProductEvent(eventType string, product *models.Product, tenantID string) *events.ProductEvent {
	event := events.NewProductEvent(eventType, tenantID)
	event.SourceID = uuid.New().String()
	event.ProductID = product.ID.String()
	event.ProductName = product.Name
	event.Status = string(product.Status)

	if product.SKU != nil {
		event.SKU = *product.SKU
	}

	if product.RegularPrice != nil {
		if price, err := parsePrice(*product.RegularPrice); err == nil {
			event.Price = price
		}
	}

	return event
}

// parsePrice converts a price string to float64
func parsePrice(priceStr string) (float64, error) {
	var price float64
	_, err := fmt.Sscanf(priceStr, "%f", &price)
	return price, err
}

// publish is a helper that logs and publishes events asynchronously
func (p *Publisher) publish(ctx context.Context, event *events.ProductEvent) error {
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := p.publisher.PublishProduct(pubCtx, event); err != nil {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"productID": event.ProductID,
				"tenantID":  event.TenantID,
			}).WithError(err).Error("Failed to publish product event")
		}
	}()

	return nil
}
