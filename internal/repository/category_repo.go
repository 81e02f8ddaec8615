package repository

import (
	"context"
	"database/sql"
	"errors"

	"catalog_service/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type postgresCategoryRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewPostgresCategoryRepository(db *sqlx.DB, logger *logrus.Logger) domain.CategoryRepository {
	return &postgresCategoryRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id, created_at`
	created := domain.Category{Name: category.Name}
	err := r.db.QueryRowxContext(ctx, query, category.Name).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if _, ok := asPQError(err, pqUniqueViolation); ok {
			r.log.Warnf("Attempted to create category with duplicate name: %s", category.Name)
			return nil, &domain.ConflictError{Resource: "category", Field: "name", Value: category.Name}
		}
		r.log.Errorf("Failed to create category '%s': %v", category.Name, err)
		return nil, &domain.StoreUnavailableError{Op: "insert category", Err: err}
	}
	r.log.Infof("Category created successfully with ID: %d, Name: %s", created.ID, created.Name)
	return &created, nil
}

func (r *postgresCategoryRepository) GetCategoryByID(ctx context.Context, id int) (*domain.Category, error) {
	query := `SELECT id, name, created_at FROM categories WHERE id = $1`
	category := &domain.Category{}
	err := r.db.GetContext(ctx, category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Category with ID %d not found", id)
			return nil, domain.NewCategoryNotFoundError(id)
		}
		r.log.Errorf("Failed to get category by ID %d: %v", id, err)
		return nil, &domain.StoreUnavailableError{Op: "get category", Err: err}
	}
	return category, nil
}

func (r *postgresCategoryRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRowxContext(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Errorf("Failed to check category ID %d: %v", id, err)
		return false, &domain.StoreUnavailableError{Op: "category exists", Err: err}
	}
	return exists, nil
}

func (r *postgresCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, created_at FROM categories ORDER BY id ASC`
	categories := []domain.Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		r.log.Errorf("Failed to list categories: %v", err)
		return nil, &domain.StoreUnavailableError{Op: "list categories", Err: err}
	}
	r.log.Debugf("Retrieved %d categories", len(categories))
	return categories, nil
}
