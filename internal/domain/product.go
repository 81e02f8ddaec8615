package domain

import "context"

// DecrementOutcome is the result of a conditional stock decrement.
type DecrementOutcome int

const (
	DecrementSucceeded DecrementOutcome = iota
	DecrementInsufficientStock
	DecrementNotFound
)

func (o DecrementOutcome) String() string {
	switch o {
	case DecrementSucceeded:
		return "succeeded"
	case DecrementInsufficientStock:
		return "insufficient_stock"
	case DecrementNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// DecrementResult carries the stock left after a successful decrement, or the
// stock that was available when the decrement was refused.
type DecrementResult struct {
	Outcome DecrementOutcome
	Stock   int
}

// ProductRepository is the catalog store. CreateProduct and TryDecrementStock
// are the only writes and each is atomic with respect to the checks it makes.
type ProductRepository interface {
	GetProductByID(ctx context.Context, id int) (*Product, error)
	GetProductByName(ctx context.Context, name string) (*Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int) ([]Product, error)

	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	TryDecrementStock(ctx context.Context, name string, quantity int) (DecrementResult, error)
}
