package repository

import (
	"context"
	"sync"
	"time"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type memoryCategoryRepository struct {
	mu         sync.RWMutex
	nextID     int
	categories []domain.Category
	log        *logrus.Logger
}

func NewMemoryCategoryRepository(logger *logrus.Logger) domain.CategoryRepository {
	return &memoryCategoryRepository{nextID: 1, log: logger}
}

func (r *memoryCategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.categories {
		if c.Name == category.Name {
			r.log.Warnf("Attempted to create category with duplicate name: %s", category.Name)
			return nil, &domain.ConflictError{Resource: "category", Field: "name", Value: category.Name}
		}
	}

	created := domain.Category{ID: r.nextID, Name: category.Name, CreatedAt: time.Now().UTC()}
	r.nextID++
	r.categories = append(r.categories, created)
	return &created, nil
}

func (r *memoryCategoryRepository) GetCategoryByID(ctx context.Context, id int) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, domain.NewCategoryNotFoundError(id)
}

func (r *memoryCategoryRepository) Exists(ctx context.Context, id int) (bool, error) {
	_, err := r.GetCategoryByID(ctx, id)
	if domain.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *memoryCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]domain.Category, len(r.categories))
	copy(categories, r.categories)
	return categories, nil
}
