// Package custody provides the atomic fund transfer primitive the
// controller uses to move committed quantity between client wallets and
// custody vaults.
package custody

import (
	"context"

	"github.com/ockhamtrading/stoploss/internal/types"
)

// FundMover is the atomic transfer primitive. A transfer either fully
// succeeds or fails with no observable effect; a failure aborts the
// operation that requested it.
type FundMover interface {
	// Transfer moves amount from one account to another under the given
	// authorizing principal.
	Transfer(ctx context.Context, from, to, authority types.Address, amount uint64) error

	// Balance returns the current balance of an account.
	Balance(ctx context.Context, account types.Address) (uint64, error)
}
