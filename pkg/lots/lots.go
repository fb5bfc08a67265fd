// Package lots provides price and quantity scaling over venue lot-size
// metadata. All functions are pure integer arithmetic; prices and
// quantities are expressed in the venue's native units.
package lots

// Price derives the fill price from a quote quantity and a base quantity,
// scaled by the market's base lot size. Division truncates. A zero base
// quantity yields a price of zero rather than a fault.
func Price(quoteQty, baseQty, baseLotSize uint64) uint64 {
	if baseQty == 0 {
		return 0
	}
	return quoteQty * baseLotSize / baseQty
}

// ToLots converts a raw base quantity into venue lot units, truncating.
// A zero lot size yields zero.
func ToLots(rawQty, lotSize uint64) uint64 {
	if lotSize == 0 {
		return 0
	}
	return rawQty / lotSize
}
