package domain

import "context"

// CategoryGateway answers whether a category id can be referenced by a product.
type CategoryGateway interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type CategoryRepository interface {
	CategoryGateway

	CreateCategory(ctx context.Context, category *Category) (*Category, error)
	GetCategoryByID(ctx context.Context, id int) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
}
