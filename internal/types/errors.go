package types

import "errors"

// Sentinel errors for the stoploss controller. Every failure an operation
// can surface maps to exactly one of these; callers discriminate with
// errors.Is.
var (
	// State conflicts
	ErrExecuteCancelledOrder = errors.New("order is cancelled: cannot execute")
	ErrExecuteFilledOrder    = errors.New("order is fully filled: cannot execute")
	ErrOrderAlreadyFilled    = errors.New("order already filled")
	ErrOrderAlreadyCancelled = errors.New("order already cancelled")
	ErrAlreadyInitialised    = errors.New("routing record already initialised")

	// Authorization
	ErrMissingSignalProviderSignature = errors.New("signal provider signature is required")
	ErrIncorrectSignalProvider        = errors.New("incorrect signal provider account")
	ErrIncorrectAmendAuthority        = errors.New("incorrect amend authority account")

	// Limit and quantity conflicts
	ErrOutsideParentLimit  = errors.New("execute limit is outside parent limit price")
	ErrAmendBelowFilledQty = errors.New("already filled more than requested amend size")

	// Fund movement
	ErrTransferFailed    = errors.New("transfer failed")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// Arithmetic faults. Unreachable under sane venue behavior; treated as
	// fatal rather than user-recoverable.
	ErrQuantityUnderflow = errors.New("fill quantity exceeds remaining quantity")
	ErrQuantityOverflow  = errors.New("cumulative quantity overflow")
)
