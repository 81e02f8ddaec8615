package seed

import (
	"context"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var categoryNames = []string{
	"Ropa y accesorios",
	"Electrónicos",
	"Deportes",
	"Hogar",
	"Libros",
}

type productSeed struct {
	name        string
	description string
	price       string
	sku         string
	stock       int
	category    int // index into categoryNames
	imageURL    string
}

var productSeeds = []productSeed{
	{"Camiseta Básica", "Camiseta de algodón 100%", "25.99", "PROD-001-CAM-M", 50, 0, "https://via.placeholder.com/300x300/FF0000/FFFFFF?text=Camiseta"},
	{"Smartphone Galaxy", "Teléfono inteligente con 128GB", "599.99", "PROD-002-PHO-BLK", 25, 1, "https://via.placeholder.com/300x300/0000FF/FFFFFF?text=Smartphone"},
	{"Pelota de Fútbol", "Pelota oficial FIFA", "45.00", "PROD-003-BAL-WHT", 30, 2, "https://via.placeholder.com/300x300/00FF00/FFFFFF?text=Pelota"},
	{"Lámpara de Mesa", "Lámpara LED regulable", "89.99", "PROD-004-LAM-WHT", 15, 3, "https://via.placeholder.com/300x300/FFFF00/000000?text=Lampara"},
	{"El Quijote", "Novela clásica de Cervantes", "19.99", "PROD-005-LIB-ESP", 100, 4, "https://via.placeholder.com/300x300/800080/FFFFFF?text=Libro"},
	{"Jeans Clásicos", "Pantalones vaqueros azules", "79.99", "PROD-006-PAN-BLU", 40, 0, "https://via.placeholder.com/300x300/4169E1/FFFFFF?text=Jeans"},
	{"Tablet Pro", "Tablet 10.5 pulgadas con stylus incluido", "459.99", "PROD-007-TAB-SIL", 20, 1, "https://via.placeholder.com/300x300/C0C0C0/000000?text=Tablet"},
	{"Zapatillas Running", "Zapatillas deportivas para correr", "129.99", "PROD-008-ZAP-BLK", 35, 2, "https://via.placeholder.com/300x300/000000/FFFFFF?text=Zapatillas"},
	{"Cafetera Express", "Cafetera automática con molinillo integrado", "299.99", "PROD-009-CAF-BLK", 12, 3, "https://via.placeholder.com/300x300/2F4F4F/FFFFFF?text=Cafetera"},
	{"Programación en C#", "Guía completa de programación en C# y .NET", "49.99", "PROD-010-LIB-ESP", 80, 4, "https://via.placeholder.com/300x300/008B8B/FFFFFF?text=C%23+Book"},
	{"Chaqueta Deportiva", "Chaqueta impermeable para actividades al aire libre", "149.99", "PROD-011-CHA-NAV", 28, 0, "https://via.placeholder.com/300x300/000080/FFFFFF?text=Chaqueta"},
	{"Auriculares Bluetooth", "Auriculares inalámbricos con cancelación de ruido", "189.99", "PROD-012-AUR-BLK", 45, 1, "https://via.placeholder.com/300x300/1C1C1C/FFFFFF?text=Auriculares"},
}

// Run loads the bootstrap catalog into an empty store. A store that already
// has categories is left untouched, so Run is safe on every start.
func Run(ctx context.Context, categories domain.CategoryRepository, products domain.ProductRepository, logger *logrus.Logger) error {
	existing, err := categories.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("seed: list categories: %w", err)
	}
	if len(existing) > 0 {
		logger.Infof("Seed: %d categories present, skipping", len(existing))
		return nil
	}

	ids := make([]int, len(categoryNames))
	for i, name := range categoryNames {
		created, err := categories.CreateCategory(ctx, &domain.Category{Name: name})
		if err != nil {
			return fmt.Errorf("seed: create category %q: %w", name, err)
		}
		ids[i] = created.ID
	}

	for _, s := range productSeeds {
		_, err := products.CreateProduct(ctx, &domain.Product{
			Name:        s.name,
			SKU:         s.sku,
			Description: s.description,
			Price:       decimal.RequireFromString(s.price),
			Stock:       s.stock,
			CategoryID:  ids[s.category],
			ImageURL:    s.imageURL,
		})
		if err != nil {
			return fmt.Errorf("seed: create product %q: %w", s.name, err)
		}
	}

	logger.Infof("Seed: inserted %d categories and %d products", len(categoryNames), len(productSeeds))
	return nil
}
