package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog_service/internal/domain"
	"catalog_service/internal/events"

	"github.com/sirupsen/logrus"
)

type ProductUseCase interface {
	CreateProduct(ctx context.Context, candidate *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	SearchByTerm(ctx context.Context, term string) ([]domain.Product, error)
	SearchByCategory(ctx context.Context, categoryID int) ([]domain.Product, error)
	BuyProduct(ctx context.Context, name string, quantity int) (*PurchaseResult, error)
}

type productUseCase struct {
	productRepo domain.ProductRepository
	categories  domain.CategoryGateway
	search      *SearchEngine
	ledger      *InventoryLedger
	publisher   events.Publisher
	log         *logrus.Logger
}

func NewProductUseCase(
	pRepo domain.ProductRepository,
	categories domain.CategoryGateway,
	search *SearchEngine,
	ledger *InventoryLedger,
	publisher events.Publisher,
	logger *logrus.Logger,
) ProductUseCase {
	return &productUseCase{
		productRepo: pRepo,
		categories:  categories,
		search:      search,
		ledger:      ledger,
		publisher:   publisher,
		log:         logger,
	}
}

func (uc *productUseCase) taken(ctx context.Context, lookup func(context.Context, string) (*domain.Product, error), key string) (bool, error) {
	_, err := lookup(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, candidate *domain.Product) (*domain.Product, error) {
	if candidate == nil {
		return nil, domain.ValidateNewProduct(nil, false, false, false)
	}

	categoryExists, err := uc.categories.Exists(ctx, candidate.CategoryID)
	if err != nil {
		uc.log.Errorf("Use Case: Could not check category %d: %v", candidate.CategoryID, err)
		return nil, fmt.Errorf("could not check category: %w", err)
	}
	nameTaken, err := uc.taken(ctx, uc.productRepo.GetProductByName, candidate.Name)
	if err != nil {
		uc.log.Errorf("Use Case: Could not check name '%s': %v", candidate.Name, err)
		return nil, fmt.Errorf("could not check product name: %w", err)
	}
	skuTaken, err := uc.taken(ctx, uc.productRepo.GetProductBySKU, candidate.SKU)
	if err != nil {
		uc.log.Errorf("Use Case: Could not check sku '%s': %v", candidate.SKU, err)
		return nil, fmt.Errorf("could not check product sku: %w", err)
	}

	if err := domain.ValidateNewProduct(candidate, categoryExists, nameTaken, skuTaken); err != nil {
		uc.log.Warnf("Use Case: Rejected product '%s': %v", candidate.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create product '%s'", candidate.Name)
	created, err := uc.productRepo.CreateProduct(ctx, candidate)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", candidate.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product '%s' created successfully with ID %d", created.Name, created.ID)
	event := events.ProductCreated{
		ProductID:  created.ID,
		Name:       created.Name,
		SKU:        created.SKU,
		Price:      created.Price,
		Stock:      created.Stock,
		CategoryID: created.CategoryID,
		OccurredAt: time.Now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.log.Errorf("Use Case: Product %d created but event was not published: %v", created.ID, err)
	}
	return created, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product ID %d: %v", id, err)
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := uc.productRepo.ListProducts(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	uc.log.Debugf("Use Case: Retrieved %d products", len(products))
	return products, nil
}

func (uc *productUseCase) SearchByTerm(ctx context.Context, term string) ([]domain.Product, error) {
	return uc.search.Search(ctx, term)
}

func (uc *productUseCase) SearchByCategory(ctx context.Context, categoryID int) ([]domain.Product, error) {
	return uc.search.ByCategory(ctx, categoryID)
}

func (uc *productUseCase) BuyProduct(ctx context.Context, name string, quantity int) (*PurchaseResult, error) {
	return uc.ledger.Purchase(ctx, name, quantity)
}
