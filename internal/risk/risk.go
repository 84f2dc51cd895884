// Package risk holds the admission gate that keeps the funding account able to pay fees.
package risk

// Reserve is the minimum balance, in lamports, the account must keep after a trade.
type Reserve uint64

// Allow reports whether balance covers amount plus the reserve.
func (r Reserve) Allow(balance, amount uint64) bool {
	if amount > balance {
		return false
	}
	return balance-amount >= uint64(r)
}
