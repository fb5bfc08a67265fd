// Package venue provides connectivity to the external order-matching
// venue. The venue matches immediate-or-cancel child orders and settles
// proceeds into accounts the controller designates; it never reports fill
// quantities directly.
package venue

import (
	"context"
	"errors"

	"github.com/ockhamtrading/stoploss/internal/types"
)

// Common venue errors.
var (
	ErrUnknownMarket  = errors.New("unknown market")
	ErrOrderRejected  = errors.New("order rejected by venue")
	ErrSettleFailed   = errors.New("settlement failed")
	ErrVenueUnhealthy = errors.New("venue unavailable")
)

// SelfTradeBehavior controls how the venue resolves a self-match.
type SelfTradeBehavior int

const (
	// SelfTradeDecrementTake decrements the taker side on a self-match.
	SelfTradeDecrementTake SelfTradeBehavior = iota
	SelfTradeCancelProvide
	SelfTradeAbortTransaction
)

// DefaultMaxMatches caps the number of matching iterations the venue will
// perform for one order.
const DefaultMaxMatches uint16 = 65535

// MarketInfo is the venue-supplied metadata for one market.
type MarketInfo struct {
	Address      types.Address
	BaseLotSize  uint64
	QuoteLotSize uint64
}

// IOCOrder is one immediate-or-cancel child order. Base quantity is in
// venue lot units, quote quantity in native units including fees. The
// venue either fills against resting liquidity or cancels; nothing rests.
type IOCOrder struct {
	Side              types.Side
	LimitPrice        uint64
	MaxBaseQty        uint64
	MaxQuoteQty       uint64
	ClientOrderID     uint64 // parent+child composite identifier
	PayingAccount     types.Address
	RoutingRecord     types.Address
	SelfTradeBehavior SelfTradeBehavior
	MaxMatches        uint16
}

// Venue is the external matching engine boundary. Calls are synchronous
// and non-retrying: acceptance, partial fill or no fill is final for one
// attempt.
type Venue interface {
	// Market returns lot-size metadata for a market.
	Market(ctx context.Context, market types.Address) (*MarketInfo, error)

	// SubmitOrder submits an immediate-or-cancel order. Fill outcome is
	// not reported; it is observed through balance deltas after settle.
	SubmitOrder(ctx context.Context, market types.Address, ord IOCOrder) error

	// SettleFunds moves filled proceeds and any unfilled remainder held
	// by the venue for a routing record to the given destinations.
	SettleFunds(ctx context.Context, market, routing, baseDest, quoteDest types.Address) error
}
