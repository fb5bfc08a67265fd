package engine

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ockhamtrading/stoploss/internal/ledger"
	"github.com/ockhamtrading/stoploss/internal/metrics"
	"github.com/ockhamtrading/stoploss/internal/notify"
	"github.com/ockhamtrading/stoploss/internal/reconcile"
	"github.com/ockhamtrading/stoploss/internal/types"
	"github.com/ockhamtrading/stoploss/internal/venue"
	"github.com/ockhamtrading/stoploss/pkg/lots"
)

// Execute submits one immediate-or-cancel child order against the venue
// and reconciles the outcome into the ledger.
//
// execute_qty is the quantity of the order's primary leg to attempt: the
// quote leg for buys, the base leg (raw units, converted to venue lots)
// for sells. execute_limit must not be worse than the parent's limit
// price; the venue order itself is always priced at the parent limit.
//
// The venue never reports fill quantities; they are derived from the
// balance deltas observed around the submit/settle pair. With
// reuseUnfilled false the attempt settles directly to the client wallets
// and terminates the parent one way or the other; with reuseUnfilled
// true proceeds settle back into the custody vaults so the parent can
// run further attempts.
func (c *Controller) Execute(ctx context.Context, order *ledger.Order, caller types.Signer, executeQty, executeLimit uint64, reuseUnfilled bool) error {
	timer := metrics.NewTimer()

	err := c.execute(ctx, order, caller, executeQty, executeLimit, reuseUnfilled)
	timer.ObserveExecution()
	c.recorder.RecordOperation("execute", err)
	if err == nil {
		c.recorder.RecordExecution(order.Side.String(), order.Status.String())
	}
	return err
}

func (c *Controller) execute(ctx context.Context, order *ledger.Order, caller types.Signer, executeQty, executeLimit uint64, reuseUnfilled bool) error {
	if order.Status == types.OrdStatusCancelled {
		return types.ErrExecuteCancelledOrder
	}
	if order.Status == types.OrdStatusFilled {
		return types.ErrExecuteFilledOrder
	}
	if !caller.Signed {
		return types.ErrMissingSignalProviderSignature
	}
	if caller.Address != order.SignalProvider {
		return types.ErrIncorrectSignalProvider
	}
	if (order.IsBuy() && executeLimit > order.LimitPrice) ||
		(!order.IsBuy() && executeLimit < order.LimitPrice) {
		c.logger.Warn("execute limit outside parent limit",
			"order", order.OwnAddress, "parent_limit", order.LimitPrice, "execute_limit", executeLimit)
		return types.ErrOutsideParentLimit
	}

	market, err := c.venue.Market(ctx, order.Market)
	if err != nil {
		return fmt.Errorf("market metadata: %w", err)
	}

	var deltas reconcile.BalanceDeltas
	clientBase, clientQuote, custodyBase, custodyQuote, err := c.snapshot(ctx, order)
	if err != nil {
		return fmt.Errorf("snapshot before: %w", err)
	}
	deltas.RecordBefore(order.Side, clientBase, clientQuote, custodyBase, custodyQuote)

	// For buys the quote cap carries the requested size and the base cap
	// is unconstrained; for sells the reverse, with the base cap scaled
	// to venue lots.
	var paying types.Address
	var baseCap, quoteCap uint64
	if order.IsBuy() {
		paying = order.QuoteVault
		baseCap = math.MaxUint64
		quoteCap = executeQty
	} else {
		paying = order.BaseVault
		baseCap = lots.ToLots(executeQty, market.BaseLotSize)
		quoteCap = math.MaxUint64
	}

	compositeID := concat(order.ClientOrderID, order.ChildOrderCount)

	c.logger.Info("placing child order",
		"order", order.OwnAddress,
		"side", order.Side.String(),
		"base_cap", baseCap,
		"quote_cap", quoteCap,
		"composite_id", compositeID,
	)

	ioc := venue.IOCOrder{
		Side:              order.Side,
		LimitPrice:        order.LimitPrice,
		MaxBaseQty:        baseCap,
		MaxQuoteQty:       quoteCap,
		ClientOrderID:     compositeID,
		PayingAccount:     paying,
		RoutingRecord:     order.RoutingRecord,
		SelfTradeBehavior: venue.SelfTradeDecrementTake,
		MaxMatches:        venue.DefaultMaxMatches,
	}
	if err := c.venue.SubmitOrder(ctx, order.Market, ioc); err != nil {
		return fmt.Errorf("submit child order: %w", err)
	}

	// Settle either back into the custody vaults, keeping the remainder
	// available for later attempts, or straight to the client wallets.
	baseDest, quoteDest := order.ClientBaseWallet, order.ClientQuoteWallet
	if reuseUnfilled {
		baseDest, quoteDest = order.BaseVault, order.QuoteVault
	}
	if err := c.venue.SettleFunds(ctx, order.Market, order.RoutingRecord, baseDest, quoteDest); err != nil {
		return fmt.Errorf("settle funds: %w", err)
	}

	clientBase, clientQuote, custodyBase, custodyQuote, err = c.snapshot(ctx, order)
	if err != nil {
		return fmt.Errorf("snapshot after: %w", err)
	}
	deltas.RecordAfter(clientBase, clientQuote, custodyBase, custodyQuote)

	order.ChildOrderCount++

	// The settlement step returns any unfilled remainder to the client,
	// so the client-side delta has to be reconciled against the custody
	// movement to isolate what genuinely executed.
	var quoteFilled, baseFilled uint64
	if order.IsBuy() {
		quoteFilled = deltas.CustodyQuoteDelta() - deltas.ClientQuoteDelta()
		baseFilled = deltas.ClientBaseDelta()
	} else {
		quoteFilled = deltas.ClientQuoteDelta()
		baseFilled = deltas.CustodyBaseDelta() - deltas.ClientBaseDelta()
	}

	if !reuseUnfilled {
		if err := c.applyTerminalFill(order, market.BaseLotSize, baseFilled, quoteFilled); err != nil {
			return err
		}
	} else {
		done, err := c.applyReusableFill(ctx, order, &deltas, market.BaseLotSize, &baseFilled, &quoteFilled)
		if err != nil {
			return err
		}
		if done {
			// Nothing moved; the attempt still consumed a child id.
			return c.save(ctx, order)
		}
	}

	order.UpdatedAt = c.clock()
	if err := c.save(ctx, order); err != nil {
		return err
	}
	if err := c.notifyParent(ctx, order); err != nil {
		return err
	}

	c.recorder.RecordFill(string(order.Market), baseFilled, quoteFilled)
	c.notifyChild(ctx, order, compositeID, baseFilled, quoteFilled)
	return nil
}

// applyTerminalFill is the single-attempt policy: whatever remains
// unfilled has already been settled to the client, so the parent always
// terminates here. A zero fill abandons the order outright.
func (c *Controller) applyTerminalFill(order *ledger.Order, baseLotSize uint64, baseFilled, quoteFilled uint64) error {
	if baseFilled == 0 && quoteFilled == 0 {
		c.logger.Info("nothing filled, cancelling parent", "order", order.OwnAddress)
		order.BaseCumQty = 0
		order.QuoteCumQty = 0
		order.Status = types.OrdStatusCancelled
		order.Terminate()
		return nil
	}

	if err := order.ApplyFill(baseFilled, quoteFilled); err != nil {
		return err
	}
	order.LastPrice = lots.Price(quoteFilled, baseFilled, baseLotSize)
	order.AvgPrice = lots.Price(order.QuoteCumQty, order.BaseCumQty, baseLotSize)

	c.logger.Info("fill applied",
		"order", order.OwnAddress,
		"base_leaves", order.BaseLeavesQty,
		"quote_leaves", order.QuoteLeavesQty,
		"last_price", order.LastPrice,
	)

	if order.PrimaryLeaves() == 0 {
		order.Status = types.OrdStatusFilled
	} else {
		order.Status = types.OrdStatusCancelled
	}
	order.Terminate()
	return nil
}

// applyReusableFill is the multi-attempt policy: proceeds were settled
// into the custody vaults and are transferred on to the client here.
// Reports done=true for a zero-fill no-op.
//
// TODO: terminal status handling on this path is unfinished; the status
// is forced to PartiallyFilled even when the order is fully filled, and
// the custody base delta is folded into both legs' filled quantities.
func (c *Controller) applyReusableFill(ctx context.Context, order *ledger.Order, deltas *reconcile.BalanceDeltas, baseLotSize uint64, baseFilled, quoteFilled *uint64) (bool, error) {
	if *baseFilled == 0 && *quoteFilled == 0 {
		c.logger.Info("nothing filled", "order", order.OwnAddress, "side", order.Side.String())
		return true, nil
	}

	*baseFilled += deltas.CustodyBaseDelta()
	*quoteFilled += deltas.CustodyBaseDelta()

	if err := order.ApplyFill(*baseFilled, *quoteFilled); err != nil {
		return false, err
	}
	order.LastPrice = lots.Price(*quoteFilled, *baseFilled, baseLotSize)
	order.AvgPrice = lots.Price(order.QuoteCumQty, order.BaseCumQty, baseLotSize)

	var err error
	if order.IsBuy() {
		err = c.funds.Transfer(ctx, order.BaseVault, order.ClientBaseWallet, c.authority, *baseFilled)
	} else {
		err = c.funds.Transfer(ctx, order.QuoteVault, order.ClientQuoteWallet, c.authority, *quoteFilled)
	}
	if err != nil {
		c.recorder.RecordTransferFailure()
		return false, fmt.Errorf("forward proceeds: %w", err)
	}

	order.Status = types.OrdStatusPartiallyFilled
	return false, nil
}

// notifyChild publishes the child order fill report. Its status reflects
// the attempt, not the parent: PartiallyFilled on any fill, Cancelled on
// none.
func (c *Controller) notifyChild(ctx context.Context, order *ledger.Order, compositeID, baseFilled, quoteFilled uint64) {
	if c.notifier == nil {
		return
	}

	status := types.OrdStatusPartiallyFilled
	if baseFilled == 0 && quoteFilled == 0 {
		status = types.OrdStatusCancelled
	}

	var requested uint64
	if order.IsBuy() {
		if order.LimitPrice != 0 {
			requested = order.MaxQuoteQty / order.LimitPrice
		}
	} else {
		requested = order.MaxBaseQty
	}

	fill := notify.ChildOrderFill{
		EventID:        uuid.NewString(),
		ParentAddress:  order.OwnAddress,
		ParentOrderID:  order.ClientOrderID,
		ChildOrderID:   order.ChildOrderCount,
		CompositeID:    compositeID,
		Market:         order.Market,
		Side:           order.Side,
		RequestedQty:   requested,
		LimitPrice:     order.LimitPrice,
		BaseFilledQty:  baseFilled,
		QuoteFilledQty: quoteFilled,
		Price:          fillPriceString(baseFilled, quoteFilled),
		FilledTime:     c.clock().Unix(),
		Status:         status,
		OrderType:      types.OrderTypeImmediateOrCancel,
	}
	if err := c.notifier.ChildOrderFilled(ctx, fill); err != nil {
		c.logger.Warn("child fill notification failed",
			"order", order.OwnAddress, "composite_id", compositeID, "err", err)
	}
}

// snapshot reads the four balances feeding the delta reconciliation.
func (c *Controller) snapshot(ctx context.Context, order *ledger.Order) (clientBase, clientQuote, custodyBase, custodyQuote uint64, err error) {
	if clientBase, err = c.funds.Balance(ctx, order.ClientBaseWallet); err != nil {
		return
	}
	if clientQuote, err = c.funds.Balance(ctx, order.ClientQuoteWallet); err != nil {
		return
	}
	if custodyBase, err = c.funds.Balance(ctx, order.BaseVault); err != nil {
		return
	}
	custodyQuote, err = c.funds.Balance(ctx, order.QuoteVault)
	return
}

// fillPriceString renders the base/quote fill ratio as a decimal string
// for the fill report. Zero quote filled renders as "0".
func fillPriceString(baseFilled, quoteFilled uint64) string {
	if quoteFilled == 0 {
		return "0"
	}
	base := decimal.NewFromBigInt(new(big.Int).SetUint64(baseFilled), 0)
	quote := decimal.NewFromBigInt(new(big.Int).SetUint64(quoteFilled), 0)
	return base.Div(quote).String()
}

// concat builds the composite child identifier by decimal concatenation
// of the parent client order id and the child order count.
func concat(elems ...uint64) uint64 {
	var acc uint64
	for _, elem := range elems {
		acc *= 10
		acc += elem
	}
	return acc
}
