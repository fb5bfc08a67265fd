package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ockhamtrading/stoploss/internal/ledger"
	"github.com/ockhamtrading/stoploss/internal/types"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &PostgresRepository{db: db}

	if err := repo.Migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return repo, nil
}

// Migrate runs database migrations. Quantities and prices are stored as
// TEXT, same as the SQLite schema, since they are uint64 native units.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
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
			should_create_routing_record BOOLEAN NOT NULL DEFAULT FALSE,
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
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
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

// SaveOrder inserts or updates an order record.
func (r *PostgresRepository) SaveOrder(ctx context.Context, order *ledger.Order) error {
	query := `INSERT INTO orders (
		own_address, market, routing_record, base_vault, quote_vault,
		client_base_wallet, client_quote_wallet, client_paying_wallet,
		signal_provider, amend_authority,
		side, limit_price, trigger_price, client_order_id, should_create_routing_record,
		max_base_qty, max_quote_qty, base_leaves_qty, quote_leaves_qty,
		base_cum_qty, quote_cum_qty, last_price, avg_price,
		child_order_count, status, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
	ON CONFLICT (own_address) DO UPDATE SET
		routing_record=EXCLUDED.routing_record,
		signal_provider=EXCLUDED.signal_provider,
		amend_authority=EXCLUDED.amend_authority,
		max_base_qty=EXCLUDED.max_base_qty,
		max_quote_qty=EXCLUDED.max_quote_qty,
		base_leaves_qty=EXCLUDED.base_leaves_qty,
		quote_leaves_qty=EXCLUDED.quote_leaves_qty,
		base_cum_qty=EXCLUDED.base_cum_qty,
		quote_cum_qty=EXCLUDED.quote_cum_qty,
		last_price=EXCLUDED.last_price,
		avg_price=EXCLUDED.avg_price,
		child_order_count=EXCLUDED.child_order_count,
		status=EXCLUDED.status,
		updated_at=EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query, orderArgs(order)...)
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

// GetOrder loads the order with the given own address.
func (r *PostgresRepository) GetOrder(ctx context.Context, ownAddress types.Address) (*ledger.Order, error) {
	query := selectColumns + ` FROM orders WHERE own_address = $1`

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
func (r *PostgresRepository) ListOpenOrders(ctx context.Context) ([]*ledger.Order, error) {
	query := selectColumns + ` FROM orders WHERE status NOT IN ($1, $2, $3) ORDER BY created_at`

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
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
