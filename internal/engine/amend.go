package engine

import (
	"context"
	"fmt"

	"github.com/ockhamtrading/stoploss/internal/ledger"
	"github.com/ockhamtrading/stoploss/internal/types"
)

// Amend adjusts the outstanding quantity and the limit/trigger prices of
// a live order. The size delta moves between the custody vault and the
// client wallet on the committed leg; the transfer happens before the
// ledger is touched, so a failed transfer leaves the record unchanged.
// newQuantity is the new total for the committed leg and may not fall
// below what is already filled.
func (c *Controller) Amend(ctx context.Context, order *ledger.Order, caller types.Address, limitPrice, newQuantity, triggerPrice uint64) error {
	err := c.amend(ctx, order, caller, limitPrice, newQuantity, triggerPrice)
	c.recorder.RecordOperation("amend", err)
	return err
}

func (c *Controller) amend(ctx context.Context, order *ledger.Order, caller types.Address, limitPrice, newQuantity, triggerPrice uint64) error {
	if caller != order.AmendAuthority {
		c.logger.Warn("amend not sent by owner",
			"order", order.OwnAddress, "owner", order.AmendAuthority, "sender", caller)
		return types.ErrIncorrectAmendAuthority
	}
	if order.Status == types.OrdStatusFilled {
		return types.ErrOrderAlreadyFilled
	}
	if order.Status == types.OrdStatusCancelled {
		return types.ErrOrderAlreadyCancelled
	}

	if newQuantity < order.PrimaryCum() {
		c.logger.Warn("amend below already filled quantity",
			"order", order.OwnAddress, "new_quantity", newQuantity, "filled", order.PrimaryCum())
		return types.ErrAmendBelowFilledQty
	}

	vault := order.CommittedVault()
	wallet := order.CommittedWallet()
	max := order.PrimaryMax()

	switch {
	case max > newQuantity:
		// Reducing size: refund the difference to the client.
		delta := max - newQuantity
		if err := c.funds.Transfer(ctx, vault, wallet, c.authority, delta); err != nil {
			c.recorder.RecordTransferFailure()
			return fmt.Errorf("refund reduced quantity: %w", err)
		}
		order.AdjustPrimary(newQuantity)
		c.logger.Info("order size reduced",
			"order", order.OwnAddress, "refund", delta, "new_quantity", newQuantity)

	case max < newQuantity:
		// Increasing size: commit the difference from the client.
		delta := newQuantity - max
		if err := c.funds.Transfer(ctx, wallet, vault, caller, delta); err != nil {
			c.recorder.RecordTransferFailure()
			return fmt.Errorf("commit increased quantity: %w", err)
		}
		order.AdjustPrimary(newQuantity)
		c.logger.Info("order size increased",
			"order", order.OwnAddress, "committed", delta, "new_quantity", newQuantity)
	}

	order.LimitPrice = limitPrice
	order.TriggerPrice = triggerPrice

	if order.BaseLeavesQty == 0 && order.QuoteLeavesQty == 0 {
		order.Status = types.OrdStatusFilled
	}
	order.UpdatedAt = c.clock()

	return c.saveAndNotify(ctx, order)
}

// Cancel terminates a live order, refunding the committed leg's remaining
// quantity to the client. Terminal and irreversible.
func (c *Controller) Cancel(ctx context.Context, order *ledger.Order, caller types.Address) error {
	err := c.cancel(ctx, order, caller)
	c.recorder.RecordOperation("cancel", err)
	return err
}

func (c *Controller) cancel(ctx context.Context, order *ledger.Order, caller types.Address) error {
	if caller != order.AmendAuthority {
		c.logger.Warn("cancel not sent by owner",
			"order", order.OwnAddress, "owner", order.AmendAuthority, "sender", caller)
		return types.ErrIncorrectAmendAuthority
	}
	if order.Status == types.OrdStatusFilled {
		return types.ErrOrderAlreadyFilled
	}
	if order.Status == types.OrdStatusCancelled {
		return types.ErrOrderAlreadyCancelled
	}

	refund := order.PrimaryLeaves()
	if err := c.funds.Transfer(ctx, order.CommittedVault(), order.CommittedWallet(), c.authority, refund); err != nil {
		c.recorder.RecordTransferFailure()
		return fmt.Errorf("refund remaining quantity: %w", err)
	}

	c.logger.Info("order cancelled", "order", order.OwnAddress, "refund", refund)

	order.Status = types.OrdStatusCancelled
	order.Terminate()
	order.UpdatedAt = c.clock()

	return c.saveAndNotify(ctx, order)
}
