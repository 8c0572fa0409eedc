// Package cash tracks the money collected by the machine.
package cash

import (
	"math"

	"coffeemachine/pkg/fault"
)

// Ledger holds a non-negative balance in whole dollars.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	balance int
}

// New opens a ledger with the given balance.
func New(balance int) (*Ledger, error) {
	if balance < 0 {
		return nil, fault.InvalidArgumentf("new cash ledger: balance cannot be negative (got %d)", balance)
	}
	return &Ledger{balance: balance}, nil
}

// CanCredit reports whether Credit(amount) would succeed.
func (l *Ledger) CanCredit(amount int) error {
	if amount < 0 {
		return fault.InvalidArgumentf("credit: amount cannot be negative (got %d)", amount)
	}
	if amount > math.MaxInt-l.balance {
		return fault.InvalidArgumentf("credit: balance would overflow (have %d, adding %d)", l.balance, amount)
	}
	return nil
}

// Credit adds sale proceeds. The balance is unchanged on error.
func (l *Ledger) Credit(amount int) error {
	if err := l.CanCredit(amount); err != nil {
		return err
	}
	l.balance += amount
	return nil
}

// WithdrawAll hands over the whole balance and leaves the ledger empty.
func (l *Ledger) WithdrawAll() int {
	amount := l.balance
	l.balance = 0
	return amount
}

// Balance returns the current balance.
func (l *Ledger) Balance() int {
	return l.balance
}
