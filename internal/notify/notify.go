// Package notify publishes out-of-band notifications about parent order
// updates and child order fills. The wire encoding is a collaborator
// concern; this package fixes the content contract only.
package notify

import (
	"context"
	"time"

	"github.com/ockhamtrading/stoploss/internal/types"
)

// OrderUpdate signals observers to refresh the ledger snapshot for an
// order.
type OrderUpdate struct {
	EventID    string        `json:"event_id"`
	OwnAddress types.Address `json:"own_address"`
}

// ChildOrderFill describes one execution attempt against the venue,
// whatever its fill outcome.
type ChildOrderFill struct {
	EventID       string          `json:"event_id"`
	ParentAddress types.Address   `json:"parent_address"`
	ParentOrderID uint64          `json:"parent_order_id"`
	ChildOrderID  uint64          `json:"child_order_id"`
	CompositeID   uint64          `json:"composite_id"`
	Market        types.Address   `json:"market"`
	Side          types.Side      `json:"side"`
	RequestedQty  uint64          `json:"requested_qty"`
	LimitPrice    uint64          `json:"limit_price"`
	BaseFilledQty uint64          `json:"base_filled_qty"`
	QuoteFilledQty uint64         `json:"quote_filled_qty"`
	Price         string          `json:"price"` // decimal string
	FilledTime    int64           `json:"filled_time"` // unix seconds
	Status        types.OrdStatus `json:"ord_status"`
	OrderType     types.OrderType `json:"order_type"`
}

// Notifier publishes order lifecycle notifications.
type Notifier interface {
	// OrderUpdated publishes a parent order update.
	OrderUpdated(ctx context.Context, update OrderUpdate) error
	// ChildOrderFilled publishes a child order fill report.
	ChildOrderFilled(ctx context.Context, fill ChildOrderFill) error
	// Name returns the name of the notifier.
	Name() string
}

// Clock returns the current time; injectable for tests.
type Clock func() time.Time
