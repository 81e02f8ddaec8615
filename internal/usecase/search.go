package usecase

import (
	"context"
	"fmt"
	"strings"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
)

type productLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error)
}

// SearchEngine filters the current catalog snapshot. It holds no state of its
// own, so repeated searches over an unchanged catalog return the same set.
type SearchEngine struct {
	products productLister
	log      *logrus.Logger
}

func NewSearchEngine(products productLister, logger *logrus.Logger) *SearchEngine {
	return &SearchEngine{products: products, log: logger}
}

// Search returns products whose name or description contains term, ignoring
// case. The term is used as given, surrounding whitespace included; an empty
// term matches every product.
func (s *SearchEngine) Search(ctx context.Context, term string) ([]domain.Product, error) {
	all, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not search products: %w", err)
	}

	// Casers keep state between calls and are not safe for concurrent use.
	fold := cases.Fold()
	needle := fold.String(term)

	matches := make([]domain.Product, 0)
	for _, p := range all {
		if strings.Contains(fold.String(p.Name), needle) || strings.Contains(fold.String(p.Description), needle) {
			matches = append(matches, p)
		}
	}
	s.log.Debugf("Search: term '%s' matched %d of %d products", term, len(matches), len(all))
	return matches, nil
}

// ByCategory does not check that the category exists; an unknown id yields no
// results.
func (s *SearchEngine) ByCategory(ctx context.Context, categoryID int) ([]domain.Product, error) {
	products, err := s.products.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve products for category %d: %w", categoryID, err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
