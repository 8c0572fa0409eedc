// Package machine runs sale attempts against the supply store and the cash
// ledger, and tracks when the machine needs cleaning.
package machine

import (
	"fmt"

	"coffeemachine/pkg/cash"
	"coffeemachine/pkg/recipe"
	"coffeemachine/pkg/supply"
)

// CleaningThreshold is the number of drinks after which sales stop until Clean.
const CleaningThreshold = 10

// Machine owns one supply store, one cash ledger and the cleaning counter.
// It is not safe for concurrent use: gate check, debit and credit must run
// as one step. Use Service when more than one goroutine needs the machine.
type Machine struct {
	store             *supply.Store
	ledger            *cash.Ledger
	coffeesSinceClean int
}

// New wires a machine around existing stock and cash.
func New(store *supply.Store, ledger *cash.Ledger) *Machine {
	return &Machine{store: store, ledger: ledger}
}

// Sell attempts to make one drink. Shortages and the cleaning gate are
// reported through the Outcome; the error is only set for a malformed recipe.
func (m *Machine) Sell(r recipe.Recipe) (Outcome, error) {
	if m.NeedsCleaning() {
		return Outcome{Kind: NeedsCleaning, Recipe: r}, nil
	}
	if err := r.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("sell: %w", err)
	}
	if err := m.ledger.CanCredit(r.Price); err != nil {
		return Outcome{}, fmt.Errorf("sell: %w", err)
	}

	availability := m.store.TrySell(r)
	if !availability.Sufficient {
		return Outcome{Kind: Rejected, Recipe: r, Missing: availability.Missing}, nil
	}

	// CanCredit passed above, so Credit cannot fail
	if err := m.ledger.Credit(r.Price); err != nil {
		return Outcome{}, fmt.Errorf("sell: %w", err)
	}
	m.coffeesSinceClean++
	return Outcome{Kind: Sold, Recipe: r}, nil
}

// Clean resets the cleaning counter.
func (m *Machine) Clean() {
	m.coffeesSinceClean = 0
}

// NeedsCleaning reports whether the cleaning gate is closed.
func (m *Machine) NeedsCleaning() bool {
	return m.coffeesSinceClean >= CleaningThreshold
}

// Fill replenishes the supply store.
func (m *Machine) Fill(water, milk, coffeeBeans, disposableCups int) error {
	if err := m.store.Replenish(water, milk, coffeeBeans, disposableCups); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	return nil
}

// Take hands over all collected money.
func (m *Machine) Take() int {
	return m.ledger.WithdrawAll()
}

// MaxCupsFor reports how many drinks of r the current stock allows.
func (m *Machine) MaxCupsFor(r recipe.Recipe) int {
	return m.store.MaxCupsFor(r)
}

// Status returns the current stock, balance and cleaning state.
func (m *Machine) Status() Status {
	return Status{
		Levels:            m.store.Levels(),
		Balance:           m.ledger.Balance(),
		CoffeesSinceClean: m.coffeesSinceClean,
		NeedsCleaning:     m.NeedsCleaning(),
	}
}
