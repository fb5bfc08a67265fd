// Package engine implements the parent order lifecycle: creation, routing
// record initialisation, child order execution, amendment and cancellation.
// Each operation is one atomic state transition against a single ledger
// record; fund transfers happen before the ledger mutation they belong to,
// so an aborted transfer leaves no partial update behind.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ockhamtrading/stoploss/internal/custody"
	"github.com/ockhamtrading/stoploss/internal/ledger"
	"github.com/ockhamtrading/stoploss/internal/metrics"
	"github.com/ockhamtrading/stoploss/internal/notify"
	"github.com/ockhamtrading/stoploss/internal/persistence"
	"github.com/ockhamtrading/stoploss/internal/types"
	"github.com/ockhamtrading/stoploss/internal/venue"
)

// Controller drives the order lifecycle. It owns the custody vaults:
// transfers out of a vault are authorised by the controller's own signing
// identity, transfers out of a client wallet by the calling principal.
type Controller struct {
	authority types.Address // vault signing identity

	funds    custody.FundMover
	venue    venue.Venue
	repo     persistence.Repository // optional
	notifier notify.Notifier
	recorder *metrics.Recorder
	logger   *slog.Logger
	clock    notify.Clock
}

// Option configures optional controller collaborators.
type Option func(*Controller)

// WithRepository attaches a persistence repository; every successful
// operation upserts the ledger record through it.
func WithRepository(repo persistence.Repository) Option {
	return func(c *Controller) { c.repo = repo }
}

// WithNotifier sets the notifier for parent and child order updates.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithClock overrides the time source, for tests.
func WithClock(clock notify.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// NewController creates a controller over the given fund mover and venue.
func NewController(authority types.Address, funds custody.FundMover, vn venue.Venue, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		authority: authority,
		funds:     funds,
		venue:     vn,
		notifier:  notify.NewLogNotifier(logger),
		recorder:  metrics.NewRecorder(),
		logger:    logger,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateOrderParams carries everything needed to open a parent order. The
// calling principal becomes the amend authority.
type CreateOrderParams struct {
	OwnAddress types.Address
	Market     types.Address

	BaseVault         types.Address
	QuoteVault        types.Address
	ClientBaseWallet  types.Address
	ClientQuoteWallet types.Address
	RoutingRecord     types.Address

	Side          types.Side
	LimitPrice    uint64
	TriggerPrice  uint64
	ClientOrderID uint64
	MaxBaseQty    uint64
	MaxQuoteQty   uint64

	ShouldCreateRoutingRecord bool

	SignalProvider types.Address
	Authority      types.Address
}

// CreateOrder opens a new parent order. The committed leg's max quantity
// is moved from the client wallet into the matching custody vault; the
// ledger starts with leaves equal to max on both legs. The order starts
// in PendingInit when the routing record has not been provisioned yet.
func (c *Controller) CreateOrder(ctx context.Context, p CreateOrderParams) (*ledger.Order, error) {
	var err error
	if p.Side == types.SideBuy {
		c.logger.Info("buying, committing quote leg", "order", p.OwnAddress, "qty", p.MaxQuoteQty)
		err = c.funds.Transfer(ctx, p.ClientQuoteWallet, p.QuoteVault, p.Authority, p.MaxQuoteQty)
	} else {
		c.logger.Info("selling, committing base leg", "order", p.OwnAddress, "qty", p.MaxBaseQty)
		err = c.funds.Transfer(ctx, p.ClientBaseWallet, p.BaseVault, p.Authority, p.MaxBaseQty)
	}
	if err != nil {
		c.recorder.RecordTransferFailure()
		c.recorder.RecordOperation("create", err)
		return nil, fmt.Errorf("commit funds: %w", err)
	}

	now := c.clock()
	order := &ledger.Order{
		OwnAddress:        p.OwnAddress,
		Market:            p.Market,
		RoutingRecord:     p.RoutingRecord,
		BaseVault:         p.BaseVault,
		QuoteVault:        p.QuoteVault,
		ClientBaseWallet:  p.ClientBaseWallet,
		ClientQuoteWallet: p.ClientQuoteWallet,

		SignalProvider: p.SignalProvider,
		AmendAuthority: p.Authority,

		Side:                      p.Side,
		LimitPrice:                p.LimitPrice,
		TriggerPrice:              p.TriggerPrice,
		ClientOrderID:             p.ClientOrderID,
		ShouldCreateRoutingRecord: p.ShouldCreateRoutingRecord,

		MaxBaseQty:     p.MaxBaseQty,
		MaxQuoteQty:    p.MaxQuoteQty,
		BaseLeavesQty:  p.MaxBaseQty,
		QuoteLeavesQty: p.MaxQuoteQty,

		Status:    types.OrdStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if p.Side == types.SideBuy {
		order.ClientPayingWallet = p.ClientQuoteWallet
	} else {
		order.ClientPayingWallet = p.ClientBaseWallet
	}

	if order.RoutingRecord.IsUnset() {
		order.Status = types.OrdStatusPendingInit
	}

	if err := c.saveAndNotify(ctx, order); err != nil {
		c.recorder.RecordOperation("create", err)
		return nil, err
	}

	c.recorder.RecordOperation("create", nil)
	return order, nil
}

// InitRoutingRecord records the provisioned routing record address and
// moves the order out of PendingInit. Only the signal provider may call
// it. Re-invocation silently overwrites the stored address.
func (c *Controller) InitRoutingRecord(ctx context.Context, order *ledger.Order, caller, routingRecord types.Address) error {
	if caller != order.SignalProvider {
		c.recorder.RecordOperation("init_routing", types.ErrIncorrectSignalProvider)
		return types.ErrIncorrectSignalProvider
	}

	c.logger.Info("initialising routing record",
		"order", order.OwnAddress, "routing_record", routingRecord)

	order.RoutingRecord = routingRecord
	order.Status = types.OrdStatusNew
	order.UpdatedAt = c.clock()

	if err := c.saveAndNotify(ctx, order); err != nil {
		c.recorder.RecordOperation("init_routing", err)
		return err
	}
	c.recorder.RecordOperation("init_routing", nil)
	return nil
}

// saveAndNotify upserts the ledger record and publishes a parent order
// update.
func (c *Controller) saveAndNotify(ctx context.Context, order *ledger.Order) error {
	if err := c.save(ctx, order); err != nil {
		return err
	}
	return c.notifyParent(ctx, order)
}

func (c *Controller) save(ctx context.Context, order *ledger.Order) error {
	if c.repo == nil {
		return nil
	}
	if err := c.repo.SaveOrder(ctx, order); err != nil {
		return fmt.Errorf("persist order %s: %w", order.OwnAddress, err)
	}
	return nil
}

func (c *Controller) notifyParent(ctx context.Context, order *ledger.Order) error {
	if c.notifier == nil {
		return nil
	}
	update := notify.OrderUpdate{
		EventID:    uuid.NewString(),
		OwnAddress: order.OwnAddress,
	}
	if err := c.notifier.OrderUpdated(ctx, update); err != nil {
		// Notification failure does not unwind the state transition.
		c.logger.Warn("parent update notification failed",
			"order", order.OwnAddress, "err", err)
	}
	return nil
}
