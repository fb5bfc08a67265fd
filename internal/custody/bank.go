package custody

import (
	"context"
	"fmt"
	"sync"

	"github.com/ockhamtrading/stoploss/internal/types"
)

// Bank is an in-memory FundMover. The paper venue, the demo command and
// the package tests run against it.
type Bank struct {
	mu       sync.RWMutex
	balances map[types.Address]uint64
}

// NewBank creates an empty in-memory bank.
func NewBank() *Bank {
	return &Bank{balances: make(map[types.Address]uint64)}
}

// Deposit credits an account directly, bypassing transfer authorization.
// Test and simulation setup only.
func (b *Bank) Deposit(account types.Address, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] += amount
}

// Transfer moves amount between accounts. The debit and credit are applied
// under one lock so no intermediate state is observable.
func (b *Bank) Transfer(ctx context.Context, from, to, authority types.Address, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if from.IsUnset() || to.IsUnset() {
		return fmt.Errorf("%w: unset account", types.ErrTransferFailed)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.balances[from] < amount {
		return fmt.Errorf("%w: %s has %d, need %d", types.ErrInsufficientFunds, from, b.balances[from], amount)
	}

	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}

// Balance returns the balance of an account. Unknown accounts are zero.
func (b *Bank) Balance(ctx context.Context, account types.Address) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[account], nil
}
