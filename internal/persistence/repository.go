// Package persistence provides durable storage for parent order records.
package persistence

import (
	"context"
	"errors"

	"github.com/ockhamtrading/stoploss/internal/ledger"
	"github.com/ockhamtrading/stoploss/internal/types"
)

// ErrOrderNotFound is returned when no record exists for an address.
var ErrOrderNotFound = errors.New("order not found")

// Repository defines the interface for order persistence.
type Repository interface {
	// SaveOrder inserts or replaces the record keyed by its own address.
	SaveOrder(ctx context.Context, order *ledger.Order) error

	// GetOrder loads the record for the given own address.
	GetOrder(ctx context.Context, ownAddress types.Address) (*ledger.Order, error)

	// ListOpenOrders returns all non-terminal orders.
	ListOpenOrders(ctx context.Context) ([]*ledger.Order, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
