package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/ockhamtrading/stoploss/internal/ledger"
	"github.com/ockhamtrading/stoploss/internal/types"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{db: db}

	if err := repo.Migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return repo, nil
}

// Migrate runs database migrations.
//
// Quantities and prices are stored as TEXT: they are uint64 native units
// and SQLite INTEGER is signed 64-bit.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			own_address TEXT PRIMARY KEY,
			market TEXT NOT NULL,
			routing_record TEXT NOT NULL,
			base_vault TEXT NOT NULL,
			quote_vault TEXT NOT NULL,
			client_base_wallet TEXT NOT NULL,
			client_quote_wallet TEXT NOT NULL,
			client_paying_wallet TEXT NOT NULL,
			signal_provider TEXT NOT NULL,
			amend_authority TEXT NOT NULL,
			side INTEGER NOT NULL,
			limit_price TEXT NOT NULL,
			trigger_price TEXT NOT NULL,
			client_order_id TEXT NOT NULL,
			should_create_routing_record INTEGER NOT NULL DEFAULT 0,
			max_base_qty TEXT NOT NULL,
			max_quote_qty TEXT NOT NULL,
			base_leaves_qty TEXT NOT NULL,
			quote_leaves_qty TEXT NOT NULL,
			base_cum_qty TEXT NOT NULL,
			quote_cum_qty TEXT NOT NULL,
			last_price TEXT NOT NULL DEFAULT '0',
			avg_price TEXT NOT NULL DEFAULT '0',
			child_order_count TEXT NOT NULL DEFAULT '0',
			status INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_market ON orders(market)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// SaveOrder inserts or replaces an order record.
func (r *SQLiteRepository) SaveOrder(ctx context.Context, order *ledger.Order) error {
	query := `INSERT OR REPLACE INTO orders (
		own_address, market, routing_record, base_vault, quote_vault,
		client_base_wallet, client_quote_wallet, client_paying_wallet,
		signal_provider, amend_authority,
		side, limit_price, trigger_price, client_order_id, should_create_routing_record,
		max_base_qty, max_quote_qty, base_leaves_qty, quote_leaves_qty,
		base_cum_qty, quote_cum_qty, last_price, avg_price,
		child_order_count, status, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, orderArgs(order)...)
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

// GetOrder loads the order with the given own address.
func (r *SQLiteRepository) GetOrder(ctx context.Context, ownAddress types.Address) (*ledger.Order, error) {
	query := selectColumns + ` FROM orders WHERE own_address = ?`

	row := r.db.QueryRowContext(ctx, query, string(ownAddress))
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ListOpenOrders returns all non-terminal orders.
func (r *SQLiteRepository) ListOpenOrders(ctx context.Context) ([]*ledger.Order, error) {
	query := selectColumns + ` FROM orders WHERE status NOT IN (?, ?, ?) ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query,
		int(types.OrdStatusFilled), int(types.OrdStatusCancelled), int(types.OrdStatusRejected))
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}
	defer rows.Close()

	var orders []*ledger.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const selectColumns = `SELECT
	own_address, market, routing_record, base_vault, quote_vault,
	client_base_wallet, client_quote_wallet, client_paying_wallet,
	signal_provider, amend_authority,
	side, limit_price, trigger_price, client_order_id, should_create_routing_record,
	max_base_qty, max_quote_qty, base_leaves_qty, quote_leaves_qty,
	base_cum_qty, quote_cum_qty, last_price, avg_price,
	child_order_count, status, created_at, updated_at`

func orderArgs(o *ledger.Order) []any {
	return []any{
		string(o.OwnAddress), string(o.Market), string(o.RoutingRecord),
		string(o.BaseVault), string(o.QuoteVault),
		string(o.ClientBaseWallet), string(o.ClientQuoteWallet), string(o.ClientPayingWallet),
		string(o.SignalProvider), string(o.AmendAuthority),
		int(o.Side), u64(o.LimitPrice), u64(o.TriggerPrice), u64(o.ClientOrderID),
		o.ShouldCreateRoutingRecord,
		u64(o.MaxBaseQty), u64(o.MaxQuoteQty), u64(o.BaseLeavesQty), u64(o.QuoteLeavesQty),
		u64(o.BaseCumQty), u64(o.QuoteCumQty), u64(o.LastPrice), u64(o.AvgPrice),
		u64(o.ChildOrderCount), int(o.Status), o.CreatedAt.UTC(), o.UpdatedAt.UTC(),
	}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanOrder(row scannable) (*ledger.Order, error) {
	var (
		o                                             ledger.Order
		ownAddr, market, routing, baseVault, qVault   string
		baseWallet, quoteWallet, payingWallet         string
		signalProvider, amendAuthority                string
		side, status                                  int
		limitPrice, triggerPrice, clientOrderID       string
		maxBase, maxQuote, baseLeaves, quoteLeaves    string
		baseCum, quoteCum, lastPrice, avgPrice, count string
		createdAt, updatedAt                          time.Time
	)

	err := row.Scan(
		&ownAddr, &market, &routing, &baseVault, &qVault,
		&baseWallet, &quoteWallet, &payingWallet,
		&signalProvider, &amendAuthority,
		&side, &limitPrice, &triggerPrice, &clientOrderID, &o.ShouldCreateRoutingRecord,
		&maxBase, &maxQuote, &baseLeaves, &quoteLeaves,
		&baseCum, &quoteCum, &lastPrice, &avgPrice,
		&count, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.OwnAddress = types.Address(ownAddr)
	o.Market = types.Address(market)
	o.RoutingRecord = types.Address(routing)
	o.BaseVault = types.Address(baseVault)
	o.QuoteVault = types.Address(qVault)
	o.ClientBaseWallet = types.Address(baseWallet)
	o.ClientQuoteWallet = types.Address(quoteWallet)
	o.ClientPayingWallet = types.Address(payingWallet)
	o.SignalProvider = types.Address(signalProvider)
	o.AmendAuthority = types.Address(amendAuthority)
	o.Side = types.Side(side)
	o.Status = types.OrdStatus(status)
	o.CreatedAt = createdAt
	o.UpdatedAt = updatedAt

	fields := []struct {
		dst *uint64
		src string
	}{
		{&o.LimitPrice, limitPrice},
		{&o.TriggerPrice, triggerPrice},
		{&o.ClientOrderID, clientOrderID},
		{&o.MaxBaseQty, maxBase},
		{&o.MaxQuoteQty, maxQuote},
		{&o.BaseLeavesQty, baseLeaves},
		{&o.QuoteLeavesQty, quoteLeaves},
		{&o.BaseCumQty, baseCum},
		{&o.QuoteCumQty, quoteCum},
		{&o.LastPrice, lastPrice},
		{&o.AvgPrice, avgPrice},
		{&o.ChildOrderCount, count},
	}
	for _, f := range fields {
		v, err := strconv.ParseUint(f.src, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse quantity %q: %w", f.src, err)
		}
		*f.dst = v
	}

	return &o, nil
}

func u64(v uint64) string {
	return strconv.FormatUint(v, 10)
}
