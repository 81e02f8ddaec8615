package usecase

import (
	"context"
	"io"
	"sync"
	"testing"

	"catalog_service/internal/domain"
	"catalog_service/internal/events"
	"catalog_service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

type fixture struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	publisher  *recordingPublisher
	uc         ProductUseCase
	categoryID int
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setup(t *testing.T) *fixture {
	t.Helper()
	logger := quietLogger()
	products := repository.NewMemoryProductRepository(logger)
	categories := repository.NewMemoryCategoryRepository(logger)
	publisher := &recordingPublisher{}

	cat, err := categories.CreateCategory(context.Background(), &domain.Category{Name: "Hogar"})
	require.NoError(t, err)

	uc := NewProductUseCase(
		products,
		categories,
		NewSearchEngine(products, logger),
		NewInventoryLedger(products, publisher, logger),
		publisher,
		logger,
	)
	return &fixture{products: products, categories: categories, publisher: publisher, uc: uc, categoryID: cat.ID}
}

func (f *fixture) candidate(name, sku string, stock int) *domain.Product {
	return &domain.Product{
		Name:        name,
		SKU:         sku,
		Description: "Lámpara LED regulable",
		Price:       decimal.RequireFromString("89.99"),
		Stock:       stock,
		CategoryID:  f.categoryID,
		ImageURL:    "https://example.com/lamp.png",
	}
}
