package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqNumericOutOfRange   = "22003"
)

func asPQError(err error, code string) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == code {
		return pqErr, true
	}
	return nil, false
}

// constraintField names the product column behind a constraint, e.g.
// products_sku_key -> sku, products_stock_check -> stock. Postgres leaves
// pq.Error.Column empty for unique and check violations.
func constraintField(pqErr *pq.Error) string {
	for _, column := range []string{"sku", "price", "stock", "name"} {
		if strings.Contains(pqErr.Constraint, column) {
			return column
		}
	}
	return pqErr.Column
}
