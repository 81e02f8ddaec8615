package repository

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

// productRecord owns the mutable stock of one product. Every other field is
// fixed at insert time.
type productRecord struct {
	mu      sync.Mutex
	product domain.Product
}

func (r *productRecord) snapshot() domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.product
}

// memoryProductRepository is the single-process catalog store. The index maps
// are guarded by mu; stock is guarded by the per-record lock so decrements on
// different products never contend.
type memoryProductRepository struct {
	mu     sync.RWMutex
	nextID int
	order  []*productRecord
	byID   map[int]*productRecord
	byName map[string]*productRecord
	bySKU  map[string]*productRecord
	now    func() time.Time
	log    *logrus.Logger
}

func NewMemoryProductRepository(logger *logrus.Logger) domain.ProductRepository {
	return &memoryProductRepository{
		nextID: 1,
		byID:   make(map[int]*productRecord),
		byName: make(map[string]*productRecord),
		bySKU:  make(map[string]*productRecord),
		now:    func() time.Time { return time.Now().UTC() },
		log:    logger,
	}
}

var _ domain.ProductRepository = (*memoryProductRepository)(nil)

func (r *memoryProductRepository) lookup(index map[string]*productRecord, key string) *productRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return index[key]
}

func (r *memoryProductRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	rec := r.byID[id]
	r.mu.RUnlock()
	if rec == nil {
		return nil, domain.NewProductNotFoundError("id=" + strconv.Itoa(id))
	}
	p := rec.snapshot()
	return &p, nil
}

func (r *memoryProductRepository) GetProductByName(ctx context.Context, name string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := r.lookup(r.byName, name)
	if rec == nil {
		return nil, domain.NewProductNotFoundError("name=" + name)
	}
	p := rec.snapshot()
	return &p, nil
}

func (r *memoryProductRepository) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec := r.lookup(r.bySKU, sku)
	if rec == nil {
		return nil, domain.NewProductNotFoundError("sku=" + sku)
	}
	p := rec.snapshot()
	return &p, nil
}

func (r *memoryProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, func(*domain.Product) bool { return true })
}

func (r *memoryProductRepository) ListProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error) {
	return r.list(ctx, func(p *domain.Product) bool { return p.CategoryID == categoryID })
}

func (r *memoryProductRepository) list(ctx context.Context, keep func(*domain.Product) bool) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	records := make([]*productRecord, len(r.order))
	copy(records, r.order)
	r.mu.RUnlock()

	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		p := rec.snapshot()
		if keep(&p) {
			products = append(products, p)
		}
	}
	return products, nil
}

// CreateProduct checks name and SKU uniqueness and inserts under the same
// write lock, so two concurrent inserts of the same name cannot both commit.
func (r *memoryProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("could not create product: nil product")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byName[product.Name]; taken {
		r.log.Warnf("Repository: Attempted to create product with duplicate name: %s", product.Name)
		return nil, &domain.ConflictError{Field: "name", Value: product.Name}
	}
	if _, taken := r.bySKU[product.SKU]; taken {
		r.log.Warnf("Repository: Attempted to create product with duplicate sku: %s", product.SKU)
		return nil, &domain.ConflictError{Field: "sku", Value: product.SKU}
	}

	stored := *product
	stored.ID = r.nextID
	stored.CreatedAt = r.now()
	r.nextID++

	rec := &productRecord{product: stored}
	r.order = append(r.order, rec)
	r.byID[stored.ID] = rec
	r.byName[stored.Name] = rec
	r.bySKU[stored.SKU] = rec

	r.log.Debugf("Repository: Product created with ID: %d, Name: %s", stored.ID, stored.Name)
	return &stored, nil
}

func (r *memoryProductRepository) TryDecrementStock(ctx context.Context, name string, quantity int) (domain.DecrementResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.DecrementResult{}, err
	}
	if quantity <= 0 {
		return domain.DecrementResult{}, &domain.InvalidRequestError{Reason: "quantity must be positive"}
	}

	rec := r.lookup(r.byName, name)
	if rec == nil {
		return domain.DecrementResult{Outcome: domain.DecrementNotFound}, nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.product.Stock < quantity {
		return domain.DecrementResult{Outcome: domain.DecrementInsufficientStock, Stock: rec.product.Stock}, nil
	}
	rec.product.Stock -= quantity
	return domain.DecrementResult{Outcome: domain.DecrementSucceeded, Stock: rec.product.Stock}, nil
}
