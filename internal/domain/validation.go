package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Prices are stored as NUMERIC(12, 2): at most two decimal places and ten
// integer digits. Stock is a 32-bit INTEGER column.
const (
	PriceScale = 2
	MaxStock   = math.MaxInt32
)

var MaxPrice = decimal.New(1, 10)

// ValidateNewProduct applies the creation rules in a fixed order and reports
// the first failure. A duplicate name is reported before an unknown category;
// callers depend on that precedence.
func ValidateNewProduct(candidate *Product, categoryExists, nameTaken, skuTaken bool) error {
	switch {
	case candidate == nil:
		return &ValidationError{Kind: InvalidField, Field: "product", Reason: "must be provided"}
	case strings.TrimSpace(candidate.Name) == "":
		return &ValidationError{Kind: InvalidField, Field: "name", Reason: "cannot be empty"}
	case strings.TrimSpace(candidate.SKU) == "":
		return &ValidationError{Kind: InvalidField, Field: "sku", Reason: "cannot be empty"}
	case candidate.Price.IsNegative():
		return &ValidationError{Kind: InvalidField, Field: "price", Reason: "cannot be negative"}
	case !candidate.Price.Equal(candidate.Price.Truncate(PriceScale)):
		return &ValidationError{Kind: InvalidField, Field: "price", Reason: "cannot have more than two decimal places"}
	case candidate.Price.GreaterThanOrEqual(MaxPrice):
		return &ValidationError{Kind: InvalidField, Field: "price", Reason: "must be less than " + MaxPrice.String()}
	case candidate.Stock < 0:
		return &ValidationError{Kind: InvalidField, Field: "stock", Reason: "cannot be negative"}
	case candidate.Stock > MaxStock:
		return &ValidationError{Kind: InvalidField, Field: "stock", Reason: "too large"}
	}

	if nameTaken {
		return &ValidationError{Kind: DuplicateName, Field: "name", Reason: "product '" + candidate.Name + "' already exists"}
	}
	if !categoryExists {
		return &ValidationError{Kind: UnknownCategory, Field: "category_id", Reason: "category does not exist"}
	}
	if skuTaken {
		return &ValidationError{Kind: DuplicateSKU, Field: "sku", Reason: "sku '" + candidate.SKU + "' already exists"}
	}
	return nil
}
