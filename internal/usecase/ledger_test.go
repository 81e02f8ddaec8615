package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"catalog_service/internal/domain"
	"catalog_service/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyProduct_TwoConcurrentPurchasesOfSix(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.uc.CreateProduct(ctx, f.candidate("Widget", "W-1", 10))
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		results = make([]*PurchaseResult, 2)
		errs    = make([]error, 2)
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.uc.BuyProduct(ctx, "Widget", 6)
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for i := range errs {
		switch {
		case errs[i] == nil:
			succeeded++
			assert.Equal(t, 4, results[i].Remaining)
		case errors.Is(errs[i], domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", errs[i])
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)
}

func TestBuyProduct_ManyBuyersNeverOversell(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	const stock = 50
	_, err := f.uc.CreateProduct(ctx, f.candidate("Widget", "W-1", stock))
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		sold int64
	)
	for i := 0; i < 120; i++ {
		qty := i%4 + 1
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.BuyProduct(ctx, "Widget", qty)
			if err == nil {
				atomic.AddInt64(&sold, int64(qty))
				return
			}
			if !errors.Is(err, domain.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	p, err := f.products.GetProductByName(ctx, "Widget")
	require.NoError(t, err)
	assert.LessOrEqual(t, sold, int64(stock))
	assert.Equal(t, stock-int(sold), p.Stock)

	var purchased int
	for _, e := range f.publisher.Events() {
		if e.Type() == events.TypeProductPurchased {
			purchased += e.(events.ProductPurchased).Quantity
		}
	}
	assert.Equal(t, int(sold), purchased)
}

func TestBuyProduct_InvalidRequests(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.uc.CreateProduct(ctx, f.candidate("Widget", "W-1", 10))
	require.NoError(t, err)

	for _, qty := range []int{0, -1} {
		_, err := f.uc.BuyProduct(ctx, "Widget", qty)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest, "quantity %d", qty)
	}

	_, err = f.uc.BuyProduct(ctx, "   ", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	p, err := f.products.GetProductByName(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)
}

func TestBuyProduct_NotFound(t *testing.T) {
	f := setup(t)

	_, err := f.uc.BuyProduct(context.Background(), "Nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuyProduct_ExactStock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.uc.CreateProduct(ctx, f.candidate("Widget", "W-1", 3))
	require.NoError(t, err)

	res, err := f.uc.BuyProduct(ctx, "Widget", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Remaining)

	_, err = f.uc.BuyProduct(ctx, "Widget", 1)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Available)
	assert.Equal(t, 1, insufficient.Requested)
}

// racingStore reports NotFound from the decrement even though the lookup saw
// the product, as if it had been removed in between.
type racingStore struct {
	domain.ProductRepository
}

func (racingStore) TryDecrementStock(context.Context, string, int) (domain.DecrementResult, error) {
	return domain.DecrementResult{Outcome: domain.DecrementNotFound}, nil
}

func TestLedger_ProductRemovedBeforeDecrement(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.uc.CreateProduct(ctx, f.candidate("Widget", "W-1", 3))
	require.NoError(t, err)

	ledger := NewInventoryLedger(racingStore{f.products}, f.publisher, quietLogger())
	_, err = ledger.Purchase(ctx, "Widget", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type unavailableStore struct {
	domain.ProductRepository
}

func (unavailableStore) TryDecrementStock(context.Context, string, int) (domain.DecrementResult, error) {
	return domain.DecrementResult{}, &domain.StoreUnavailableError{Op: "decrement stock", Err: errors.New("connection refused")}
}

func TestLedger_StoreUnavailable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.uc.CreateProduct(ctx, f.candidate("Widget", "W-1", 3))
	require.NoError(t, err)

	ledger := NewInventoryLedger(unavailableStore{f.products}, f.publisher, quietLogger())
	_, err = ledger.Purchase(ctx, "Widget", 1)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	p, err := f.products.GetProductByName(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}
