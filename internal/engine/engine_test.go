package engine

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ockhamtrading/stoploss/internal/custody"
	"github.com/ockhamtrading/stoploss/internal/ledger"
	"github.com/ockhamtrading/stoploss/internal/notify"
	"github.com/ockhamtrading/stoploss/internal/types"
	"github.com/ockhamtrading/stoploss/internal/venue"
	"github.com/ockhamtrading/stoploss/internal/venue/paper"
)

const (
	testMarket   = types.Address("SOL-USDC")
	clientBaseW  = types.Address("client-base")
	clientQuoteW = types.Address("client-quote")
	baseVault    = types.Address("vault-base")
	quoteVault   = types.Address("vault-quote")
	owner        = types.Address("owner")
	provider     = types.Address("provider")
	routing      = types.Address("routing-1")
)

type fixture struct {
	ctrl  *Controller
	bank  *custody.Bank
	venue *paper.Venue
	mock  *notify.MockNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bank := custody.NewBank()
	pv := paper.NewVenue(bank, slog.Default())
	pv.AddMarket(venue.MarketInfo{Address: testMarket, BaseLotSize: 1, QuoteLotSize: 1})

	mock := notify.NewMockNotifier()
	ctrl := NewController("controller", bank, pv, slog.Default(),
		WithNotifier(mock),
		WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	)
	return &fixture{ctrl: ctrl, bank: bank, venue: pv, mock: mock}
}

func (f *fixture) createBuy(t *testing.T, maxBase, maxQuote, limit uint64) *ledger.Order {
	t.Helper()
	f.bank.Deposit(clientQuoteW, maxQuote)

	order, err := f.ctrl.CreateOrder(context.Background(), CreateOrderParams{
		OwnAddress:        "order-buy",
		Market:            testMarket,
		BaseVault:         baseVault,
		QuoteVault:        quoteVault,
		ClientBaseWallet:  clientBaseW,
		ClientQuoteWallet: clientQuoteW,
		RoutingRecord:     routing,
		Side:              types.SideBuy,
		LimitPrice:        limit,
		TriggerPrice:      limit + 2,
		ClientOrderID:     7,
		MaxBaseQty:        maxBase,
		MaxQuoteQty:       maxQuote,
		SignalProvider:    provider,
		Authority:         owner,
	})
	if err != nil {
		t.Fatalf("create buy order: %v", err)
	}
	return order
}

func (f *fixture) createSell(t *testing.T, maxBase, maxQuote, limit uint64) *ledger.Order {
	t.Helper()
	f.bank.Deposit(clientBaseW, maxBase)

	order, err := f.ctrl.CreateOrder(context.Background(), CreateOrderParams{
		OwnAddress:        "order-sell",
		Market:            testMarket,
		BaseVault:         baseVault,
		QuoteVault:        quoteVault,
		ClientBaseWallet:  clientBaseW,
		ClientQuoteWallet: clientQuoteW,
		RoutingRecord:     routing,
		Side:              types.SideSell,
		LimitPrice:        limit,
		TriggerPrice:      limit - 2,
		ClientOrderID:     9,
		MaxBaseQty:        maxBase,
		MaxQuoteQty:       maxQuote,
		SignalProvider:    provider,
		Authority:         owner,
	})
	if err != nil {
		t.Fatalf("create sell order: %v", err)
	}
	return order
}

func checkInvariants(t *testing.T, order *ledger.Order) {
	t.Helper()
	if err := order.CheckInvariants(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

func balance(t *testing.T, bank *custody.Bank, account types.Address) uint64 {
	t.Helper()
	bal, err := bank.Balance(context.Background(), account)
	if err != nil {
		t.Fatalf("balance %s: %v", account, err)
	}
	return bal
}

func signedProvider() types.Signer {
	return types.Signer{Address: provider, Signed: true}
}

func TestCreateBuyCommitsQuoteLeg(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)

	if got := balance(t, f.bank, clientQuoteW); got != 0 {
		t.Errorf("client quote wallet = %d, want 0", got)
	}
	if got := balance(t, f.bank, quoteVault); got != 1000 {
		t.Errorf("quote vault = %d, want 1000", got)
	}
	if order.Status != types.OrdStatusNew {
		t.Errorf("status = %v, want New", order.Status)
	}
	if order.QuoteLeavesQty != 1000 || order.QuoteCumQty != 0 {
		t.Errorf("quote leaves/cum = %d/%d, want 1000/0", order.QuoteLeavesQty, order.QuoteCumQty)
	}
	if order.ClientPayingWallet != clientQuoteW {
		t.Errorf("paying wallet = %q, want client quote wallet", order.ClientPayingWallet)
	}
	checkInvariants(t, order)

	if len(f.mock.Updates()) != 1 {
		t.Errorf("parent updates = %d, want 1", len(f.mock.Updates()))
	}
}

func TestCreateWithUnsetRoutingRecordIsPendingInit(t *testing.T) {
	f := newFixture(t)
	f.bank.Deposit(clientQuoteW, 100)

	order, err := f.ctrl.CreateOrder(context.Background(), CreateOrderParams{
		OwnAddress:        "order-pending",
		Market:            testMarket,
		BaseVault:         baseVault,
		QuoteVault:        quoteVault,
		ClientBaseWallet:  clientBaseW,
		ClientQuoteWallet: clientQuoteW,
		RoutingRecord:     types.UnsetAddress,
		Side:              types.SideBuy,
		LimitPrice:        10,
		MaxQuoteQty:       100,
		SignalProvider:    provider,
		Authority:         owner,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != types.OrdStatusPendingInit {
		t.Fatalf("status = %v, want PendingInit", order.Status)
	}
}

func TestCreateFailsOnUnfundedWallet(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.CreateOrder(context.Background(), CreateOrderParams{
		OwnAddress:        "order-broke",
		Market:            testMarket,
		BaseVault:         baseVault,
		QuoteVault:        quoteVault,
		ClientBaseWallet:  clientBaseW,
		ClientQuoteWallet: clientQuoteW,
		RoutingRecord:     routing,
		Side:              types.SideBuy,
		LimitPrice:        10,
		MaxQuoteQty:       100,
		SignalProvider:    provider,
		Authority:         owner,
	})
	if err == nil {
		t.Fatal("expected create to fail without funds")
	}
}

func TestInitRoutingRecord(t *testing.T) {
	f := newFixture(t)
	f.bank.Deposit(clientQuoteW, 100)

	order, err := f.ctrl.CreateOrder(context.Background(), CreateOrderParams{
		OwnAddress:        "order-init",
		Market:            testMarket,
		BaseVault:         baseVault,
		QuoteVault:        quoteVault,
		ClientBaseWallet:  clientBaseW,
		ClientQuoteWallet: clientQuoteW,
		RoutingRecord:     types.UnsetAddress,
		Side:              types.SideBuy,
		LimitPrice:        10,
		MaxQuoteQty:       100,
		SignalProvider:    provider,
		Authority:         owner,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	err = f.ctrl.InitRoutingRecord(context.Background(), order, owner, routing)
	if !errors.Is(err, types.ErrIncorrectSignalProvider) {
		t.Fatalf("init by non-provider: err = %v, want ErrIncorrectSignalProvider", err)
	}

	if err := f.ctrl.InitRoutingRecord(context.Background(), order, provider, routing); err != nil {
		t.Fatalf("init routing record: %v", err)
	}
	if order.RoutingRecord != routing {
		t.Errorf("routing record = %q, want %q", order.RoutingRecord, routing)
	}
	if order.Status != types.OrdStatusNew {
		t.Errorf("status = %v, want New", order.Status)
	}
}

func TestExecuteAuthorization(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)
	ctx := context.Background()

	err := f.ctrl.Execute(ctx, order, types.Signer{Address: provider, Signed: false}, 500, 10, false)
	if !errors.Is(err, types.ErrMissingSignalProviderSignature) {
		t.Fatalf("unsigned: err = %v, want ErrMissingSignalProviderSignature", err)
	}

	err = f.ctrl.Execute(ctx, order, types.Signer{Address: owner, Signed: true}, 500, 10, false)
	if !errors.Is(err, types.ErrIncorrectSignalProvider) {
		t.Fatalf("wrong provider: err = %v, want ErrIncorrectSignalProvider", err)
	}

	if order.Status != types.OrdStatusNew || order.ChildOrderCount != 0 {
		t.Error("failed execute must not touch the ledger")
	}
	checkInvariants(t, order)
}

func TestExecuteOutsideParentLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	buy := f.createBuy(t, 100, 1000, 10)
	err := f.ctrl.Execute(ctx, buy, signedProvider(), 500, 11, false)
	if !errors.Is(err, types.ErrOutsideParentLimit) {
		t.Fatalf("buy above limit: err = %v, want ErrOutsideParentLimit", err)
	}
	if buy.ChildOrderCount != 0 || buy.QuoteCumQty != 0 {
		t.Error("rejected execute must leave the ledger unchanged")
	}

	sell := f.createSell(t, 100, 0, 10)
	err = f.ctrl.Execute(ctx, sell, signedProvider(), 50, 9, false)
	if !errors.Is(err, types.ErrOutsideParentLimit) {
		t.Fatalf("sell below limit: err = %v, want ErrOutsideParentLimit", err)
	}
}

func TestExecuteTerminalStates(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)
	ctx := context.Background()

	order.Status = types.OrdStatusCancelled
	err := f.ctrl.Execute(ctx, order, signedProvider(), 500, 10, false)
	if !errors.Is(err, types.ErrExecuteCancelledOrder) {
		t.Fatalf("cancelled: err = %v, want ErrExecuteCancelledOrder", err)
	}

	order.Status = types.OrdStatusFilled
	err = f.ctrl.Execute(ctx, order, signedProvider(), 500, 10, false)
	if !errors.Is(err, types.ErrExecuteFilledOrder) {
		t.Fatalf("filled: err = %v, want ErrExecuteFilledOrder", err)
	}
}

// Buy 1000 quote at limit 10, execute 500 against a full fill at 10. The
// single-attempt policy terminates the parent after one child order.
func TestExecuteBuyPartialTerminates(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)
	f.venue.SetAsks(testMarket, []paper.Level{{Price: 10, BaseQty: 50}})

	if err := f.ctrl.Execute(context.Background(), order, signedProvider(), 500, 10, false); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if order.QuoteCumQty != 500 {
		t.Errorf("quote cum = %d, want 500", order.QuoteCumQty)
	}
	if order.BaseCumQty != 50 {
		t.Errorf("base cum = %d, want 50", order.BaseCumQty)
	}
	if order.LastPrice != 10 {
		t.Errorf("last price = %d, want 10", order.LastPrice)
	}
	if order.AvgPrice != 10 {
		t.Errorf("avg price = %d, want 10", order.AvgPrice)
	}
	if order.Status != types.OrdStatusCancelled {
		t.Errorf("status = %v, want Cancelled", order.Status)
	}
	if order.ChildOrderCount != 1 {
		t.Errorf("child order count = %d, want 1", order.ChildOrderCount)
	}
	checkInvariants(t, order)

	// The matched base leg went straight to the client.
	if got := balance(t, f.bank, clientBaseW); got != 50 {
		t.Errorf("client base wallet = %d, want 50", got)
	}

	fills := f.mock.Fills()
	if len(fills) != 1 {
		t.Fatalf("child fills = %d, want 1", len(fills))
	}
	fill := fills[0]
	if fill.CompositeID != 70 {
		t.Errorf("composite id = %d, want 70", fill.CompositeID)
	}
	if fill.ChildOrderID != 1 {
		t.Errorf("child order id = %d, want 1", fill.ChildOrderID)
	}
	if fill.BaseFilledQty != 50 || fill.QuoteFilledQty != 500 {
		t.Errorf("filled = %d/%d, want 50/500", fill.BaseFilledQty, fill.QuoteFilledQty)
	}
	if fill.Status != types.OrdStatusPartiallyFilled {
		t.Errorf("fill status = %v, want PartiallyFilled", fill.Status)
	}
	if fill.Price != "0.1" {
		t.Errorf("fill price = %q, want %q", fill.Price, "0.1")
	}
	if fill.FilledTime != 1700000000 {
		t.Errorf("filled time = %d, want fixed clock", fill.FilledTime)
	}
}

func TestExecuteBuyFullFill(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)
	f.venue.SetAsks(testMarket, []paper.Level{{Price: 10, BaseQty: 100}})

	if err := f.ctrl.Execute(context.Background(), order, signedProvider(), 1000, 10, false); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if order.Status != types.OrdStatusFilled {
		t.Fatalf("status = %v, want Filled", order.Status)
	}
	if order.QuoteCumQty != 1000 || order.BaseCumQty != 100 {
		t.Errorf("cum = %d/%d, want 100/1000", order.BaseCumQty, order.QuoteCumQty)
	}
	if order.QuoteLeavesQty != 0 || order.BaseLeavesQty != 0 {
		t.Error("terminal order must carry zero leaves")
	}
	checkInvariants(t, order)
}

func TestExecuteSellFullFill(t *testing.T) {
	f := newFixture(t)
	order := f.createSell(t, 100, 1000, 10)
	f.venue.SetBids(testMarket, []paper.Level{{Price: 10, BaseQty: 100}})

	if err := f.ctrl.Execute(context.Background(), order, signedProvider(), 100, 10, false); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if order.BaseCumQty != 100 {
		t.Errorf("base cum = %d, want 100", order.BaseCumQty)
	}
	if order.Status != types.OrdStatusFilled {
		t.Errorf("status = %v, want Filled", order.Status)
	}
	if order.LastPrice != 10 {
		t.Errorf("last price = %d, want 10", order.LastPrice)
	}
	checkInvariants(t, order)

	// Sale proceeds settled straight to the client quote wallet.
	if got := balance(t, f.bank, clientQuoteW); got != 1000 {
		t.Errorf("client quote wallet = %d, want 1000", got)
	}
}

func TestExecuteZeroFillAbandonsParent(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)
	// No liquidity at all.

	if err := f.ctrl.Execute(context.Background(), order, signedProvider(), 500, 10, false); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if order.Status != types.OrdStatusCancelled {
		t.Fatalf("status = %v, want Cancelled", order.Status)
	}
	if order.BaseCumQty != 0 || order.QuoteCumQty != 0 {
		t.Error("abandoned order must carry zero cumulative quantity")
	}
	checkInvariants(t, order)

	fills := f.mock.Fills()
	if len(fills) != 1 {
		t.Fatalf("child fills = %d, want 1", len(fills))
	}
	if fills[0].Status != types.OrdStatusCancelled {
		t.Errorf("fill status = %v, want Cancelled", fills[0].Status)
	}
	if fills[0].Price != "0" {
		t.Errorf("fill price = %q, want 0", fills[0].Price)
	}
}

func TestExecuteReuseZeroFillIsNoOp(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)
	fillsBefore := len(f.mock.Fills())

	if err := f.ctrl.Execute(context.Background(), order, signedProvider(), 500, 10, true); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if order.Status != types.OrdStatusNew {
		t.Errorf("status = %v, want New", order.Status)
	}
	if order.QuoteCumQty != 0 || order.QuoteLeavesQty != 1000 {
		t.Error("zero-fill reuse attempt must not change quantities")
	}
	// The attempt still consumes a child identifier.
	if order.ChildOrderCount != 1 {
		t.Errorf("child order count = %d, want 1", order.ChildOrderCount)
	}
	if len(f.mock.Fills()) != fillsBefore {
		t.Error("zero-fill reuse attempt must not emit a fill report")
	}
	checkInvariants(t, order)
}

func TestExecuteReuseKeepsParentOpen(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)
	f.venue.SetAsks(testMarket, []paper.Level{{Price: 10, BaseQty: 10}})

	if err := f.ctrl.Execute(context.Background(), order, signedProvider(), 100, 10, true); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if order.Status != types.OrdStatusPartiallyFilled {
		t.Fatalf("status = %v, want PartiallyFilled", order.Status)
	}
	checkInvariants(t, order)

	// Matched base was forwarded from the vault to the client.
	if got := balance(t, f.bank, clientBaseW); got != 10 {
		t.Errorf("client base wallet = %d, want 10", got)
	}
	if got := balance(t, f.bank, baseVault); got != 0 {
		t.Errorf("base vault = %d, want 0", got)
	}
}

func TestConsecutiveExecutionsProduceDistinctCompositeIDs(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)
	ctx := context.Background()

	f.venue.SetAsks(testMarket, []paper.Level{{Price: 10, BaseQty: 10}})
	if err := f.ctrl.Execute(ctx, order, signedProvider(), 100, 10, true); err != nil {
		t.Fatalf("first execute: %v", err)
	}
	f.venue.SetAsks(testMarket, []paper.Level{{Price: 10, BaseQty: 10}})
	if err := f.ctrl.Execute(ctx, order, signedProvider(), 100, 10, true); err != nil {
		t.Fatalf("second execute: %v", err)
	}

	if order.ChildOrderCount != 2 {
		t.Fatalf("child order count = %d, want 2", order.ChildOrderCount)
	}

	fills := f.mock.Fills()
	if len(fills) != 2 {
		t.Fatalf("child fills = %d, want 2", len(fills))
	}
	if fills[0].CompositeID == fills[1].CompositeID {
		t.Errorf("composite ids must differ, both %d", fills[0].CompositeID)
	}
	if fills[0].CompositeID != 70 || fills[1].CompositeID != 71 {
		t.Errorf("composite ids = %d/%d, want 70/71", fills[0].CompositeID, fills[1].CompositeID)
	}
	if fills[1].ChildOrderID <= fills[0].ChildOrderID {
		t.Error("child order ids must be monotonically increasing")
	}
}

func TestAmendReduceRefundsClient(t *testing.T) {
	f := newFixture(t)
	order := f.createSell(t, 100, 0, 10)

	if err := f.ctrl.Amend(context.Background(), order, owner, 10, 40, 8); err != nil {
		t.Fatalf("amend: %v", err)
	}

	if order.MaxBaseQty != 40 || order.BaseLeavesQty != 40 {
		t.Errorf("base max/leaves = %d/%d, want 40/40", order.MaxBaseQty, order.BaseLeavesQty)
	}
	if got := balance(t, f.bank, clientBaseW); got != 60 {
		t.Errorf("client base wallet = %d, want refund of 60", got)
	}
	if got := balance(t, f.bank, baseVault); got != 40 {
		t.Errorf("base vault = %d, want 40", got)
	}
	checkInvariants(t, order)
}

func TestAmendIncreaseCommitsMore(t *testing.T) {
	f := newFixture(t)
	order := f.createSell(t, 100, 0, 10)
	f.bank.Deposit(clientBaseW, 50)

	if err := f.ctrl.Amend(context.Background(), order, owner, 12, 150, 9); err != nil {
		t.Fatalf("amend: %v", err)
	}

	if order.MaxBaseQty != 150 || order.BaseLeavesQty != 150 {
		t.Errorf("base max/leaves = %d/%d, want 150/150", order.MaxBaseQty, order.BaseLeavesQty)
	}
	if order.LimitPrice != 12 || order.TriggerPrice != 9 {
		t.Errorf("prices = %d/%d, want 12/9", order.LimitPrice, order.TriggerPrice)
	}
	if got := balance(t, f.bank, baseVault); got != 150 {
		t.Errorf("base vault = %d, want 150", got)
	}
	checkInvariants(t, order)
}

func TestAmendBelowFilledQuantityFails(t *testing.T) {
	f := newFixture(t)
	order := f.createSell(t, 100, 0, 10)
	order.BaseCumQty = 50
	order.BaseLeavesQty = 50
	order.Status = types.OrdStatusPartiallyFilled

	err := f.ctrl.Amend(context.Background(), order, owner, 10, 30, 8)
	if !errors.Is(err, types.ErrAmendBelowFilledQty) {
		t.Fatalf("err = %v, want ErrAmendBelowFilledQty", err)
	}
	if order.MaxBaseQty != 100 || order.BaseLeavesQty != 50 {
		t.Error("rejected amend must leave the ledger unchanged")
	}
}

func TestAmendAuthorization(t *testing.T) {
	f := newFixture(t)
	order := f.createSell(t, 100, 0, 10)

	err := f.ctrl.Amend(context.Background(), order, provider, 10, 40, 8)
	if !errors.Is(err, types.ErrIncorrectAmendAuthority) {
		t.Fatalf("err = %v, want ErrIncorrectAmendAuthority", err)
	}
}

func TestAmendTerminalStates(t *testing.T) {
	f := newFixture(t)
	order := f.createSell(t, 100, 0, 10)
	ctx := context.Background()

	order.Status = types.OrdStatusFilled
	if err := f.ctrl.Amend(ctx, order, owner, 10, 40, 8); !errors.Is(err, types.ErrOrderAlreadyFilled) {
		t.Fatalf("filled: err = %v, want ErrOrderAlreadyFilled", err)
	}

	order.Status = types.OrdStatusCancelled
	if err := f.ctrl.Amend(ctx, order, owner, 10, 40, 8); !errors.Is(err, types.ErrOrderAlreadyCancelled) {
		t.Fatalf("cancelled: err = %v, want ErrOrderAlreadyCancelled", err)
	}
}

func TestCancelRefundsLeaves(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)

	if err := f.ctrl.Cancel(context.Background(), order, owner); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if order.Status != types.OrdStatusCancelled {
		t.Fatalf("status = %v, want Cancelled", order.Status)
	}
	if order.BaseLeavesQty != 0 || order.QuoteLeavesQty != 0 {
		t.Error("cancelled order must carry zero leaves")
	}
	if got := balance(t, f.bank, clientQuoteW); got != 1000 {
		t.Errorf("client quote wallet = %d, want full refund of 1000", got)
	}
	checkInvariants(t, order)
}

func TestCancelTwiceFails(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)
	ctx := context.Background()

	if err := f.ctrl.Cancel(ctx, order, owner); err != nil {
		t.Fatalf("first cancel: %v", err)
	}

	snapshot := *order
	err := f.ctrl.Cancel(ctx, order, owner)
	if !errors.Is(err, types.ErrOrderAlreadyCancelled) {
		t.Fatalf("second cancel: err = %v, want ErrOrderAlreadyCancelled", err)
	}
	if *order != snapshot {
		t.Error("repeated cancel must be a no-op on the ledger")
	}
}

func TestCancelAuthorization(t *testing.T) {
	f := newFixture(t)
	order := f.createBuy(t, 100, 1000, 10)

	err := f.ctrl.Cancel(context.Background(), order, provider)
	if !errors.Is(err, types.ErrIncorrectAmendAuthority) {
		t.Fatalf("err = %v, want ErrIncorrectAmendAuthority", err)
	}
}

func TestConcat(t *testing.T) {
	tests := []struct {
		elems []uint64
		want  uint64
	}{
		{[]uint64{7, 0}, 70},
		{[]uint64{7, 1}, 71},
		{[]uint64{12, 3}, 123},
		{[]uint64{0, 0}, 0},
	}
	for _, tt := range tests {
		if got := concat(tt.elems...); got != tt.want {
			t.Errorf("concat(%v) = %d, want %d", tt.elems, got, tt.want)
		}
	}
}

func TestFillPriceString(t *testing.T) {
	if got := fillPriceString(50, 500); got != "0.1" {
		t.Errorf("fillPriceString(50, 500) = %q, want 0.1", got)
	}
	if got := fillPriceString(0, 0); got != "0" {
		t.Errorf("fillPriceString(0, 0) = %q, want 0", got)
	}
	if got := fillPriceString(100, 100); got != "1" {
		t.Errorf("fillPriceString(100, 100) = %q, want 1", got)
	}
}
