package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int             `json:"id"          db:"id"`
	Name        string          `json:"name"        db:"name"`
	SKU         string          `json:"sku"         db:"sku"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price"       db:"price"`
	Stock       int             `json:"stock"       db:"stock"`
	CategoryID  int             `json:"category_id" db:"category_id"`
	ImageURL    string          `json:"image_url"   db:"image_url"`
	CreatedAt   time.Time       `json:"created_at"  db:"created_at"`
}

type Category struct {
	ID        int       `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
