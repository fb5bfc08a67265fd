// Package reconcile infers the effect of an opaque venue call by diffing
// account balances observed before and after it. The venue does not report
// fill quantities directly; the execution engine derives them from these
// deltas.
package reconcile

import "github.com/ockhamtrading/stoploss/internal/types"

// BalanceDeltas records the four relevant balances around an execution
// attempt: the client's base and quote wallets and the custody base and
// quote vaults. Deltas are unsigned absolute differences; direction is
// always inferable from the order side.
type BalanceDeltas struct {
	side types.Side

	clientBaseBefore   uint64
	clientQuoteBefore  uint64
	custodyBaseBefore  uint64
	custodyQuoteBefore uint64

	clientBaseAfter   uint64
	clientQuoteAfter  uint64
	custodyBaseAfter  uint64
	custodyQuoteAfter uint64
}

// RecordBefore snapshots the balances prior to the venue call.
func (d *BalanceDeltas) RecordBefore(side types.Side, clientBase, clientQuote, custodyBase, custodyQuote uint64) {
	d.side = side
	d.clientBaseBefore = clientBase
	d.clientQuoteBefore = clientQuote
	d.custodyBaseBefore = custodyBase
	d.custodyQuoteBefore = custodyQuote
}

// RecordAfter snapshots the balances after the venue call has settled.
func (d *BalanceDeltas) RecordAfter(clientBase, clientQuote, custodyBase, custodyQuote uint64) {
	d.clientBaseAfter = clientBase
	d.clientQuoteAfter = clientQuote
	d.custodyBaseAfter = custodyBase
	d.custodyQuoteAfter = custodyQuote
}

// Side returns the order side recorded with the before snapshot.
func (d *BalanceDeltas) Side() types.Side {
	return d.side
}

// ClientBaseDelta returns the movement on the client's base wallet.
func (d *BalanceDeltas) ClientBaseDelta() uint64 {
	return delta(d.clientBaseBefore, d.clientBaseAfter)
}

// ClientQuoteDelta returns the movement on the client's quote wallet.
func (d *BalanceDeltas) ClientQuoteDelta() uint64 {
	return delta(d.clientQuoteBefore, d.clientQuoteAfter)
}

// CustodyBaseDelta returns the movement on the custody base vault.
func (d *BalanceDeltas) CustodyBaseDelta() uint64 {
	return delta(d.custodyBaseBefore, d.custodyBaseAfter)
}

// CustodyQuoteDelta returns the movement on the custody quote vault.
func (d *BalanceDeltas) CustodyQuoteDelta() uint64 {
	return delta(d.custodyQuoteBefore, d.custodyQuoteAfter)
}

func delta(before, after uint64) uint64 {
	if before >= after {
		return before - after
	}
	return after - before
}
