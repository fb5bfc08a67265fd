// Package paper provides a simulated venue for tests and paper runs. It
// matches immediate-or-cancel orders against injected liquidity levels and
// moves funds through a custody bank the same way the real venue does:
// escrow on submit, release on settle.
package paper

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/ockhamtrading/stoploss/internal/custody"
	"github.com/ockhamtrading/stoploss/internal/types"
	"github.com/ockhamtrading/stoploss/internal/venue"
)

// Level is one resting liquidity level: Price in quote units per base lot,
// BaseQty in raw base units.
type Level struct {
	Price   uint64
	BaseQty uint64
}

type pendingFunds struct {
	base  uint64
	quote uint64
}

type market struct {
	info         venue.MarketInfo
	escrow       types.Address
	counterparty types.Address
	asks         []Level // resting sells, ascending price; buys match here
	bids         []Level // resting buys, descending price; sells match here
}

// Venue implements venue.Venue over an in-memory custody bank.
type Venue struct {
	bank      *custody.Bank
	authority types.Address
	logger    *slog.Logger

	mu      sync.Mutex
	markets map[types.Address]*market
	pending map[types.Address]*pendingFunds // keyed by routing record
}

// NewVenue creates a paper venue over the given bank.
func NewVenue(bank *custody.Bank, logger *slog.Logger) *Venue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Venue{
		bank:      bank,
		authority: "paper-venue-authority",
		logger:    logger,
		markets:   make(map[types.Address]*market),
		pending:   make(map[types.Address]*pendingFunds),
	}
}

// AddMarket registers a market. The counterparty account that backs
// injected liquidity is seeded with a large base and quote float.
func (v *Venue) AddMarket(info venue.MarketInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := &market{
		info:         info,
		escrow:       types.Address(fmt.Sprintf("paper-escrow-%s", info.Address)),
		counterparty: types.Address(fmt.Sprintf("paper-counterparty-%s", info.Address)),
	}
	v.bank.Deposit(m.counterparty+"-base", 1<<40)
	v.bank.Deposit(m.counterparty+"-quote", 1<<40)
	v.markets[info.Address] = m
}

// SetAsks replaces the resting sell-side liquidity a buy order matches
// against. Levels must be in ascending price order.
func (v *Venue) SetAsks(marketAddr types.Address, levels []Level) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if m, ok := v.markets[marketAddr]; ok {
		m.asks = append([]Level(nil), levels...)
	}
}

// SetBids replaces the resting buy-side liquidity a sell order matches
// against. Levels must be in descending price order.
func (v *Venue) SetBids(marketAddr types.Address, levels []Level) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if m, ok := v.markets[marketAddr]; ok {
		m.bids = append([]Level(nil), levels...)
	}
}

// Market returns lot-size metadata.
func (v *Venue) Market(ctx context.Context, marketAddr types.Address) (*venue.MarketInfo, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	m, ok := v.markets[marketAddr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", venue.ErrUnknownMarket, marketAddr)
	}
	info := m.info
	return &info, nil
}

// SubmitOrder escrows the committed quantity, matches it against resting
// liquidity within the limit price, and parks proceeds plus any unfilled
// remainder for settlement.
func (v *Venue) SubmitOrder(ctx context.Context, marketAddr types.Address, ord venue.IOCOrder) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	m, ok := v.markets[marketAddr]
	if !ok {
		return fmt.Errorf("%w: %s", venue.ErrUnknownMarket, marketAddr)
	}

	p := v.pending[ord.RoutingRecord]
	if p == nil {
		p = &pendingFunds{}
		v.pending[ord.RoutingRecord] = p
	}

	switch ord.Side {
	case types.SideBuy:
		return v.matchBuy(ctx, m, ord, p)
	case types.SideSell:
		return v.matchSell(ctx, m, ord, p)
	default:
		return fmt.Errorf("%w: bad side %d", venue.ErrOrderRejected, ord.Side)
	}
}

func (v *Venue) matchBuy(ctx context.Context, m *market, ord venue.IOCOrder, p *pendingFunds) error {
	// The full quote cap is escrowed up front; whatever does not match is
	// returned at settlement.
	if err := v.bank.Transfer(ctx, ord.PayingAccount, m.escrow, v.authority, ord.MaxQuoteQty); err != nil {
		return fmt.Errorf("escrow quote: %w", err)
	}

	lot := m.info.BaseLotSize
	remainingQuote := ord.MaxQuoteQty
	baseCap := rawBaseCap(ord.MaxBaseQty, lot)

	var baseFilled, quoteSpent uint64
	for i := range m.asks {
		lvl := &m.asks[i]
		if lvl.Price > ord.LimitPrice || lvl.BaseQty == 0 {
			continue
		}
		affordable := remainingQuote * lot / lvl.Price
		take := min3(lvl.BaseQty, affordable, baseCap-baseFilled)
		if take == 0 {
			continue
		}
		cost := take * lvl.Price / lot
		lvl.BaseQty -= take
		baseFilled += take
		quoteSpent += cost
		remainingQuote -= cost
	}

	if baseFilled > 0 {
		if err := v.bank.Transfer(ctx, m.counterparty+"-base", m.escrow, v.authority, baseFilled); err != nil {
			return fmt.Errorf("deliver base: %w", err)
		}
		if err := v.bank.Transfer(ctx, m.escrow, m.counterparty+"-quote", v.authority, quoteSpent); err != nil {
			return fmt.Errorf("pay quote: %w", err)
		}
	}

	p.base += baseFilled
	p.quote += remainingQuote

	v.logger.Debug("paper buy matched",
		"market", m.info.Address,
		"base_filled", baseFilled,
		"quote_spent", quoteSpent,
		"quote_unfilled", remainingQuote,
	)
	return nil
}

func (v *Venue) matchSell(ctx context.Context, m *market, ord venue.IOCOrder, p *pendingFunds) error {
	lot := m.info.BaseLotSize
	rawBase := rawBaseCap(ord.MaxBaseQty, lot)

	if err := v.bank.Transfer(ctx, ord.PayingAccount, m.escrow, v.authority, rawBase); err != nil {
		return fmt.Errorf("escrow base: %w", err)
	}

	remainingBase := rawBase
	var quoteReceived uint64
	for i := range m.bids {
		lvl := &m.bids[i]
		if lvl.Price < ord.LimitPrice || lvl.BaseQty == 0 {
			continue
		}
		take := lvl.BaseQty
		if take > remainingBase {
			take = remainingBase
		}
		if take == 0 {
			continue
		}
		proceeds := take * lvl.Price / lot
		lvl.BaseQty -= take
		remainingBase -= take
		quoteReceived += proceeds
	}

	sold := rawBase - remainingBase
	if sold > 0 {
		if err := v.bank.Transfer(ctx, m.escrow, m.counterparty+"-base", v.authority, sold); err != nil {
			return fmt.Errorf("deliver base: %w", err)
		}
		if err := v.bank.Transfer(ctx, m.counterparty+"-quote", m.escrow, v.authority, quoteReceived); err != nil {
			return fmt.Errorf("receive quote: %w", err)
		}
	}

	p.base += remainingBase
	p.quote += quoteReceived

	v.logger.Debug("paper sell matched",
		"market", m.info.Address,
		"base_sold", sold,
		"quote_received", quoteReceived,
		"base_unfilled", remainingBase,
	)
	return nil
}

// SettleFunds releases everything parked for a routing record to the given
// destinations.
func (v *Venue) SettleFunds(ctx context.Context, marketAddr, routing, baseDest, quoteDest types.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	m, ok := v.markets[marketAddr]
	if !ok {
		return fmt.Errorf("%w: %s", venue.ErrUnknownMarket, marketAddr)
	}

	p := v.pending[routing]
	if p == nil {
		return nil
	}

	if p.base > 0 {
		if err := v.bank.Transfer(ctx, m.escrow, baseDest, v.authority, p.base); err != nil {
			return fmt.Errorf("%w: base: %v", venue.ErrSettleFailed, err)
		}
	}
	if p.quote > 0 {
		if err := v.bank.Transfer(ctx, m.escrow, quoteDest, v.authority, p.quote); err != nil {
			return fmt.Errorf("%w: quote: %v", venue.ErrSettleFailed, err)
		}
	}

	p.base = 0
	p.quote = 0
	return nil
}

// rawBaseCap converts a lot-denominated base cap to raw units. The
// unconstrained sentinel passes through untouched.
func rawBaseCap(lotsQty, lotSize uint64) uint64 {
	if lotsQty == math.MaxUint64 {
		return math.MaxUint64
	}
	return lotsQty * lotSize
}

func min3(a, b, c uint64) uint64 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
