package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog_service/internal/domain"
	"catalog_service/internal/events"

	"github.com/sirupsen/logrus"
)

type PurchaseResult struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Remaining int    `json:"remaining"`
}

// InventoryLedger is the only component that mutates stock. It never reads
// stock and writes it back; the store's conditional decrement does both.
type InventoryLedger struct {
	products  domain.ProductRepository
	publisher events.Publisher
	log       *logrus.Logger
}

func NewInventoryLedger(products domain.ProductRepository, publisher events.Publisher, logger *logrus.Logger) *InventoryLedger {
	return &InventoryLedger{products: products, publisher: publisher, log: logger}
}

func (l *InventoryLedger) Purchase(ctx context.Context, name string, quantity int) (*PurchaseResult, error) {
	if strings.TrimSpace(name) == "" {
		l.log.Warn("Use Case: Attempted purchase with empty product name")
		return nil, &domain.InvalidRequestError{Reason: "product name cannot be empty"}
	}
	if quantity <= 0 {
		l.log.Warnf("Use Case: Attempted purchase of '%s' with invalid quantity: %d", name, quantity)
		return nil, &domain.InvalidRequestError{Reason: "quantity must be positive"}
	}

	if _, err := l.products.GetProductByName(ctx, name); err != nil {
		if !domain.IsNotFound(err) {
			l.log.Errorf("Use Case: Failed to look up product '%s' for purchase: %v", name, err)
		}
		return nil, err
	}

	res, err := l.products.TryDecrementStock(ctx, name, quantity)
	if err != nil {
		l.log.Errorf("Use Case: Stock decrement failed for '%s': %v", name, err)
		return nil, fmt.Errorf("could not purchase product '%s': %w", name, err)
	}

	switch res.Outcome {
	case domain.DecrementSucceeded:
	case domain.DecrementNotFound:
		// Removed between the lookup and the decrement.
		l.log.Warnf("Use Case: Product '%s' disappeared before stock decrement", name)
		return nil, domain.NewProductNotFoundError("name=" + name)
	case domain.DecrementInsufficientStock:
		l.log.Infof("Use Case: Insufficient stock for '%s': requested %d, available %d", name, quantity, res.Stock)
		return nil, &domain.InsufficientStockError{Name: name, Requested: quantity, Available: res.Stock}
	default:
		return nil, fmt.Errorf("could not purchase product '%s': unexpected outcome %s", name, res.Outcome)
	}

	l.log.Infof("Use Case: Purchased %d of '%s', %d remaining", quantity, name, res.Stock)
	event := events.ProductPurchased{Name: name, Quantity: quantity, Remaining: res.Stock, OccurredAt: time.Now().UTC()}
	if err := l.publisher.Publish(ctx, event); err != nil {
		l.log.Errorf("Use Case: Purchase of '%s' committed but event was not published: %v", name, err)
	}
	return &PurchaseResult{Name: name, Quantity: quantity, Remaining: res.Stock}, nil
}
