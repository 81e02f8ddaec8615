package repository

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"catalog_service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func widget(name, sku string, stock int) *domain.Product {
	return &domain.Product{
		Name:        name,
		SKU:         sku,
		Description: "A widget",
		Price:       decimal.RequireFromString("9.99"),
		Stock:       stock,
		CategoryID:  1,
	}
}

func TestMemoryProductRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryProductRepository(newTestLogger())
	ctx := context.Background()

	created, err := repo.CreateProduct(ctx, widget("Widget", "W-1", 10))
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := repo.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *byID)

	byName, err := repo.GetProductByName(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	bySKU, err := repo.GetProductBySKU(ctx, "W-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySKU.ID)

	_, err = repo.GetProductByName(ctx, "widget")
	assert.ErrorIs(t, err, domain.ErrNotFound, "names are case-sensitive")
}

func TestMemoryProductRepository_CreateConflicts(t *testing.T) {
	repo := NewMemoryProductRepository(newTestLogger())
	ctx := context.Background()

	_, err := repo.CreateProduct(ctx, widget("Widget", "W-1", 10))
	require.NoError(t, err)

	_, err = repo.CreateProduct(ctx, widget("Widget", "W-2", 1))
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "name", conflict.Field)

	_, err = repo.CreateProduct(ctx, widget("Gadget", "W-1", 1))
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "sku", conflict.Field)

	all, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryProductRepository_ListKeepsInsertionOrder(t *testing.T) {
	repo := NewMemoryProductRepository(newTestLogger())
	ctx := context.Background()

	for i, cat := range []int{2, 1, 2} {
		p := widget(fmt.Sprintf("P%d", i), fmt.Sprintf("S%d", i), 1)
		p.CategoryID = cat
		_, err := repo.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	all, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"P0", "P1", "P2"}, []string{all[0].Name, all[1].Name, all[2].Name})

	inTwo, err := repo.ListProductsByCategory(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, inTwo, 2)

	none, err := repo.ListProductsByCategory(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryProductRepository_TryDecrementStock(t *testing.T) {
	repo := NewMemoryProductRepository(newTestLogger())
	ctx := context.Background()
	_, err := repo.CreateProduct(ctx, widget("Widget", "W-1", 10))
	require.NoError(t, err)

	res, err := repo.TryDecrementStock(ctx, "Widget", 6)
	require.NoError(t, err)
	assert.Equal(t, domain.DecrementResult{Outcome: domain.DecrementSucceeded, Stock: 4}, res)

	res, err = repo.TryDecrementStock(ctx, "Widget", 6)
	require.NoError(t, err)
	assert.Equal(t, domain.DecrementResult{Outcome: domain.DecrementInsufficientStock, Stock: 4}, res)

	res, err = repo.TryDecrementStock(ctx, "Widget", 4)
	require.NoError(t, err)
	assert.Equal(t, domain.DecrementResult{Outcome: domain.DecrementSucceeded, Stock: 0}, res)

	res, err = repo.TryDecrementStock(ctx, "Nope", 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DecrementNotFound, res.Outcome)

	_, err = repo.TryDecrementStock(ctx, "Widget", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestMemoryProductRepository_ConcurrentDecrementsNeverOversell(t *testing.T) {
	repo := NewMemoryProductRepository(newTestLogger())
	ctx := context.Background()
	const stock = 100
	_, err := repo.CreateProduct(ctx, widget("Widget", "W-1", stock))
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		sold int64
		ok   int64
	)
	for i := 0; i < 200; i++ {
		qty := i%3 + 1
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := repo.TryDecrementStock(ctx, "Widget", qty)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if res.Outcome == domain.DecrementSucceeded {
				atomic.AddInt64(&sold, int64(qty))
				atomic.AddInt64(&ok, 1)
			}
		}()
	}
	wg.Wait()

	p, err := repo.GetProductByName(ctx, "Widget")
	require.NoError(t, err)
	assert.LessOrEqual(t, sold, int64(stock))
	assert.Equal(t, stock-int(sold), p.Stock)
	assert.GreaterOrEqual(t, p.Stock, 0)
	assert.Positive(t, ok)
}

func TestMemoryProductRepository_ConcurrentCreatesKeepNamesUnique(t *testing.T) {
	repo := NewMemoryProductRepository(newTestLogger())
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		succeeded int64
		conflicts int64
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateProduct(ctx, widget("Widget", "W-1", 1))
			switch {
			case err == nil:
				atomic.AddInt64(&succeeded, 1)
			case assert.ErrorIs(t, err, domain.ErrConflict):
				atomic.AddInt64(&conflicts, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), succeeded)
	assert.Equal(t, int64(49), conflicts)
	all, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryProductRepository_CanceledContext(t *testing.T) {
	repo := NewMemoryProductRepository(newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.CreateProduct(ctx, widget("Widget", "W-1", 1))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.TryDecrementStock(ctx, "Widget", 1)
	assert.ErrorIs(t, err, context.Canceled)

	all, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryCategoryRepository(t *testing.T) {
	repo := NewMemoryCategoryRepository(newTestLogger())
	ctx := context.Background()

	books, err := repo.CreateCategory(ctx, &domain.Category{Name: "Libros"})
	require.NoError(t, err)
	assert.Equal(t, 1, books.ID)

	_, err = repo.CreateCategory(ctx, &domain.Category{Name: "Libros"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "category", conflict.Resource)
	assert.Equal(t, "name", conflict.Field)

	exists, err := repo.Exists(ctx, books.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.GetCategoryByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
