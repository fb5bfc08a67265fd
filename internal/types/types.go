// Package types defines shared types used across the stoploss controller.
package types

// Address identifies an account or principal. Vaults, client wallets,
// markets, routing records and authorization principals are all addresses.
type Address string

// UnsetAddress is the well-known sentinel for an address that has not been
// assigned yet, e.g. a routing record that still needs to be provisioned.
const UnsetAddress Address = "11111111111111111111111111111111"

// IsUnset reports whether the address is empty or the unset sentinel.
func (a Address) IsUnset() bool {
	return a == "" || a == UnsetAddress
}

func (a Address) String() string {
	return string(a)
}

// Signer is a principal presented to a privileged operation, together with
// whether its signature was verified by the transport that delivered it.
type Signer struct {
	Address Address
	Signed  bool
}

// Side represents the direction of a parent order.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// OrdStatus represents the state of a parent order. The numeric values
// follow FIX tag 39 and are stable across persistence and notifications.
type OrdStatus int

const (
	OrdStatusNew             OrdStatus = 0
	OrdStatusPartiallyFilled OrdStatus = 1
	OrdStatusFilled          OrdStatus = 2
	OrdStatusCancelled       OrdStatus = 4
	OrdStatusRejected        OrdStatus = 7
	OrdStatusSuspended       OrdStatus = 9
	OrdStatusPendingInit     OrdStatus = 10
)

func (s OrdStatus) String() string {
	switch s {
	case OrdStatusNew:
		return "NEW"
	case OrdStatusPartiallyFilled:
		return "PARTIALLY_FILLED"
	case OrdStatusFilled:
		return "FILLED"
	case OrdStatusCancelled:
		return "CANCELLED"
	case OrdStatusRejected:
		return "REJECTED"
	case OrdStatusSuspended:
		return "SUSPENDED"
	case OrdStatusPendingInit:
		return "PENDING_INIT"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal returns true if no further execution, amendment or cancellation
// is permitted against the order.
func (s OrdStatus) IsTerminal() bool {
	return s == OrdStatusFilled || s == OrdStatusCancelled
}

// OrderType represents the venue order type of a child order.
type OrderType int

const (
	OrderTypeLimit             OrderType = 0
	OrderTypeImmediateOrCancel OrderType = 1
	OrderTypePostOnly          OrderType = 2
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeLimit:
		return "LIMIT"
	case OrderTypeImmediateOrCancel:
		return "IOC"
	case OrderTypePostOnly:
		return "POST_ONLY"
	default:
		return "UNKNOWN"
	}
}
