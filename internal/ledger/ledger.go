// Package ledger defines the parent order record and its quantity and
// status bookkeeping. The record is the single source of truth for an
// order; the engines in internal/engine are its only mutators.
package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/ockhamtrading/stoploss/internal/types"
)

// Order is the ledger record of one parent order.
//
// Quantities are tracked per leg in native units: base is the asset being
// traded ("coin"), quote is the pricing asset ("pc"). The committed leg is
// quote for buys and base for sells; its max quantity was moved into the
// corresponding custody vault at creation.
type Order struct {
	// Identity
	OwnAddress    types.Address
	Market        types.Address
	RoutingRecord types.Address // the per-client routing record at the venue
	BaseVault     types.Address
	QuoteVault    types.Address

	ClientBaseWallet   types.Address
	ClientQuoteWallet  types.Address
	ClientPayingWallet types.Address

	// Authorization principals
	SignalProvider types.Address
	AmendAuthority types.Address

	// Order terms
	Side                      types.Side
	LimitPrice                uint64
	TriggerPrice              uint64
	ClientOrderID             uint64
	ShouldCreateRoutingRecord bool

	// Quantity state per leg
	MaxBaseQty     uint64
	MaxQuoteQty    uint64
	BaseLeavesQty  uint64
	QuoteLeavesQty uint64
	BaseCumQty     uint64
	QuoteCumQty    uint64

	// Pricing
	LastPrice uint64
	AvgPrice  uint64

	ChildOrderCount uint64
	Status          types.OrdStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBuy reports whether the order buys the base asset.
func (o *Order) IsBuy() bool {
	return o.Side == types.SideBuy
}

// CommittedVault returns the custody vault holding the committed leg.
func (o *Order) CommittedVault() types.Address {
	if o.IsBuy() {
		return o.QuoteVault
	}
	return o.BaseVault
}

// CommittedWallet returns the client wallet the committed leg was funded
// from, and that refunds flow back to.
func (o *Order) CommittedWallet() types.Address {
	if o.IsBuy() {
		return o.ClientQuoteWallet
	}
	return o.ClientBaseWallet
}

// PrimaryLeaves returns the remaining quantity on the committed leg.
func (o *Order) PrimaryLeaves() uint64 {
	if o.IsBuy() {
		return o.QuoteLeavesQty
	}
	return o.BaseLeavesQty
}

// PrimaryCum returns the cumulative filled quantity on the committed leg.
func (o *Order) PrimaryCum() uint64 {
	if o.IsBuy() {
		return o.QuoteCumQty
	}
	return o.BaseCumQty
}

// PrimaryMax returns the committed leg's total order quantity.
func (o *Order) PrimaryMax() uint64 {
	if o.IsBuy() {
		return o.MaxQuoteQty
	}
	return o.MaxBaseQty
}

// ApplyFill decrements leaves and increments cum on both legs by the filled
// amounts. Underflow or overflow means the venue moved more than the ledger
// had outstanding and is not recoverable.
func (o *Order) ApplyFill(baseFilled, quoteFilled uint64) error {
	if baseFilled > o.BaseLeavesQty || quoteFilled > o.QuoteLeavesQty {
		return fmt.Errorf("%w: base %d/%d quote %d/%d",
			types.ErrQuantityUnderflow, baseFilled, o.BaseLeavesQty, quoteFilled, o.QuoteLeavesQty)
	}
	if baseFilled > math.MaxUint64-o.BaseCumQty || quoteFilled > math.MaxUint64-o.QuoteCumQty {
		return types.ErrQuantityOverflow
	}

	o.BaseLeavesQty -= baseFilled
	o.QuoteLeavesQty -= quoteFilled
	o.BaseCumQty += baseFilled
	o.QuoteCumQty += quoteFilled
	return nil
}

// AdjustPrimary redefines the committed leg's max quantity, moving leaves
// by the difference. Callers must have checked newMax >= cum first.
func (o *Order) AdjustPrimary(newMax uint64) {
	if o.IsBuy() {
		o.QuoteLeavesQty = newMax - o.QuoteCumQty
		o.MaxQuoteQty = newMax
	} else {
		o.BaseLeavesQty = newMax - o.BaseCumQty
		o.MaxBaseQty = newMax
	}
}

// Terminate clears remaining quantity on both legs and redefines max to
// the filled amount, the same way an amendment redefines it. Terminal
// states carry leaves of zero, consistent with FIX, and the per-leg
// invariant leaves+cum == max keeps holding.
func (o *Order) Terminate() {
	o.BaseLeavesQty = 0
	o.QuoteLeavesQty = 0
	o.MaxBaseQty = o.BaseCumQty
	o.MaxQuoteQty = o.QuoteCumQty
}

// CheckInvariants verifies leaves+cum == max per leg, and zero leaves in
// terminal states.
func (o *Order) CheckInvariants() error {
	if o.BaseLeavesQty+o.BaseCumQty != o.MaxBaseQty {
		return fmt.Errorf("base leg: leaves %d + cum %d != max %d", o.BaseLeavesQty, o.BaseCumQty, o.MaxBaseQty)
	}
	if o.QuoteLeavesQty+o.QuoteCumQty != o.MaxQuoteQty {
		return fmt.Errorf("quote leg: leaves %d + cum %d != max %d", o.QuoteLeavesQty, o.QuoteCumQty, o.MaxQuoteQty)
	}
	if o.Status.IsTerminal() && (o.BaseLeavesQty != 0 || o.QuoteLeavesQty != 0) {
		return fmt.Errorf("terminal status %s with leaves base=%d quote=%d", o.Status, o.BaseLeavesQty, o.QuoteLeavesQty)
	}
	return nil
}
