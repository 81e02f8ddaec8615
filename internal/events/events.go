// Package events publishes catalog changes after they have been committed.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	TypeProductCreated   = "product.created"
	TypeProductPurchased = "product.purchased"
)

// Event is a committed catalog change. Key is used for partitioning so all
// events for one product stay ordered.
type Event interface {
	Type() string
	Key() string
}

type ProductCreated struct {
	ProductID  int             `json:"product_id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID int             `json:"category_id"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func (ProductCreated) Type() string  { return TypeProductCreated }
func (e ProductCreated) Key() string { return e.Name }

type ProductPurchased struct {
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	Remaining  int       `json:"remaining"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (ProductPurchased) Type() string  { return TypeProductPurchased }
func (e ProductPurchased) Key() string { return e.Name }

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// LogPublisher writes events to the service log. It is used when no broker is
// configured.
type LogPublisher struct {
	log *logrus.Logger
}

func NewLogPublisher(logger *logrus.Logger) *LogPublisher {
	return &LogPublisher{log: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.log.WithFields(logrus.Fields{
		"event_type": event.Type(),
		"event_key":  event.Key(),
	}).Info("Catalog event")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
