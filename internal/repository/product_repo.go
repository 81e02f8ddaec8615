package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"catalog_service/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const productColumns = `id, name, sku, description, price, stock, category_id, image_url, created_at`

type postgresProductRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sqlx.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresProductRepository) getOne(ctx context.Context, op, key, query string, arg interface{}) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.db.GetContext(ctx, product, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewProductNotFoundError(key)
		}
		r.log.Errorf("Failed to get product by %s: %v", key, err)
		return nil, &domain.StoreUnavailableError{Op: op, Err: err}
	}
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.getOne(ctx, "get product by id", "id="+strconv.Itoa(id), query, id)
}

func (r *postgresProductRepository) GetProductByName(ctx context.Context, name string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = $1`
	return r.getOne(ctx, "get product by name", "name="+name, query, name)
}

func (r *postgresProductRepository) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return r.getOne(ctx, "get product by sku", "sku="+sku, query, sku)
}

func (r *postgresProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id ASC`
	products := []domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		r.log.Errorf("Failed to list products: %v", err)
		return nil, &domain.StoreUnavailableError{Op: "list products", Err: err}
	}
	return products, nil
}

func (r *postgresProductRepository) ListProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category_id = $1 ORDER BY id ASC`
	products := []domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, categoryID); err != nil {
		r.log.Errorf("Failed to list products for category %d: %v", categoryID, err)
		return nil, &domain.StoreUnavailableError{Op: "list products by category", Err: err}
	}
	return products, nil
}

// CreateProduct relies on the UNIQUE constraints on name and sku, so the
// uniqueness check and the insert are one statement. The returned product is
// the stored row, as rounded by the column types.
func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, sku, description, price, stock, category_id, image_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + productColumns

	stored := &domain.Product{}
	err := r.db.QueryRowxContext(ctx, query,
		product.Name, product.SKU, product.Description, product.Price, product.Stock, product.CategoryID, product.ImageURL,
	).StructScan(stored)
	if err != nil {
		if pqErr, ok := asPQError(err, pqUniqueViolation); ok {
			field := constraintField(pqErr)
			value := product.Name
			if field == "sku" {
				value = product.SKU
			}
			r.log.Warnf("Attempted to create product with duplicate %s: %s", field, value)
			return nil, &domain.ConflictError{Field: field, Value: value}
		}
		if _, ok := asPQError(err, pqForeignKeyViolation); ok {
			r.log.Warnf("Attempted to create product with non-existent category ID: %d", product.CategoryID)
			return nil, &domain.ValidationError{Kind: domain.UnknownCategory, Field: "category_id", Reason: "category does not exist"}
		}
		if pqErr, ok := asPQError(err, pqCheckViolation); ok {
			r.log.Warnf("Check constraint violation for product '%s': %s", product.Name, pqErr.Message)
			return nil, &domain.ValidationError{Kind: domain.InvalidField, Field: constraintField(pqErr), Reason: pqErr.Message}
		}
		if pqErr, ok := asPQError(err, pqNumericOutOfRange); ok {
			r.log.Warnf("Price out of range for product '%s': %s", product.Name, pqErr.Message)
			return nil, &domain.ValidationError{Kind: domain.InvalidField, Field: "price", Reason: "out of range"}
		}
		r.log.Errorf("Failed to create product '%s': %v", product.Name, err)
		return nil, &domain.StoreUnavailableError{Op: "insert product", Err: err}
	}

	r.log.Infof("Product created successfully with ID: %d, Name: %s", stored.ID, stored.Name)
	return stored, nil
}

// TryDecrementStock performs the check and the write in one conditional
// UPDATE; the row lock taken by postgres serializes concurrent decrements of
// the same product.
func (r *postgresProductRepository) TryDecrementStock(ctx context.Context, name string, quantity int) (result domain.DecrementResult, err error) {
	if quantity <= 0 {
		return domain.DecrementResult{}, &domain.InvalidRequestError{Reason: "quantity must be positive"}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.log.Errorf("Failed to begin transaction: %v", err)
		return domain.DecrementResult{}, &domain.StoreUnavailableError{Op: "decrement stock", Err: err}
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Errorf("TryDecrementStock: Failed to rollback transaction: %v (original error: %v)", rbErr, err)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				r.log.Errorf("TryDecrementStock: Failed to commit transaction: %v", cErr)
				result = domain.DecrementResult{}
				err = &domain.StoreUnavailableError{Op: "decrement stock", Err: cErr}
			}
		}
	}()

	update := `
        UPDATE products
        SET stock = stock - $1
        WHERE name = $2 AND stock >= $1
        RETURNING stock`

	// No stored stock can cover more than MaxStock, and the parameter would not
	// fit the INTEGER column, so skip straight to the refusal.
	if quantity <= domain.MaxStock {
		var remaining int
		err = tx.QueryRowxContext(ctx, update, quantity, name).Scan(&remaining)
		if err == nil {
			return domain.DecrementResult{Outcome: domain.DecrementSucceeded, Stock: remaining}, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			r.log.Errorf("Failed to decrement stock for product '%s': %v", name, err)
			return domain.DecrementResult{}, &domain.StoreUnavailableError{Op: "decrement stock", Err: err}
		}
	}

	var available int
	err = tx.QueryRowxContext(ctx, `SELECT stock FROM products WHERE name = $1`, name).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DecrementResult{Outcome: domain.DecrementNotFound}, nil
	}
	if err != nil {
		r.log.Errorf("Failed to read stock for product '%s': %v", name, err)
		return domain.DecrementResult{}, &domain.StoreUnavailableError{Op: "decrement stock", Err: fmt.Errorf("read stock: %w", err)}
	}
	return domain.DecrementResult{Outcome: domain.DecrementInsufficientStock, Stock: available}, nil
}
