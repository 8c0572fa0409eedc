package machine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeemachine/pkg/cash"
	"coffeemachine/pkg/fault"
	"coffeemachine/pkg/recipe"
	"coffeemachine/pkg/supply"
)

func newMachine(t *testing.T, water, milk, beans, cups, money int) *Machine {
	t.Helper()
	store, err := supply.New(water, milk, beans, cups)
	require.NoError(t, err)
	ledger, err := cash.New(money)
	require.NoError(t, err)
	return New(store, ledger)
}

func mustRecipe(t *testing.T, s recipe.Selector) recipe.Recipe {
	t.Helper()
	r, err := recipe.DefaultCatalog().Get(s)
	require.NoError(t, err)
	return r
}

func TestSell_debitsStockAndCreditsCash(t *testing.T) {
	m := newMachine(t, 400, 540, 120, 9, 550)

	out, err := m.Sell(mustRecipe(t, recipe.Espresso))

	require.NoError(t, err)
	assert.Equal(t, Sold, out.Kind)
	st := m.Status()
	assert.Equal(t, supply.Levels{Water: 150, Milk: 540, CoffeeBeans: 104, DisposableCups: 8}, st.Levels)
	assert.Equal(t, 554, st.Balance)
	assert.Equal(t, 1, st.CoffeesSinceClean)
}

func TestSell_rejectedLeavesEverythingUntouched(t *testing.T) {
	m := newMachine(t, 100, 100, 100, 10, 550)
	before := m.Status()

	out, err := m.Sell(mustRecipe(t, recipe.Latte))

	require.NoError(t, err)
	assert.Equal(t, Rejected, out.Kind)
	assert.Equal(t, supply.Water, out.Missing)
	assert.Equal(t, before, m.Status())
}

func TestSell_cleaningGate(t *testing.T) {
	m := newMachine(t, 10000, 10000, 10000, 100, 0)
	espresso := mustRecipe(t, recipe.Espresso)

	for i := 0; i < CleaningThreshold; i++ {
		out, err := m.Sell(espresso)
		require.NoError(t, err)
		require.Equal(t, Sold, out.Kind, "sale %d", i+1)
	}
	require.True(t, m.NeedsCleaning())
	before := m.Status()

	out, err := m.Sell(espresso)
	require.NoError(t, err)
	assert.Equal(t, NeedsCleaning, out.Kind)
	assert.Equal(t, before, m.Status())

	m.Clean()
	assert.False(t, m.NeedsCleaning())
	out, err = m.Sell(espresso)
	require.NoError(t, err)
	assert.Equal(t, Sold, out.Kind)
}

func TestSell_gateSkipsAffordabilityCheck(t *testing.T) {
	m := newMachine(t, 0, 0, 0, 0, 0)
	m.coffeesSinceClean = CleaningThreshold

	out, err := m.Sell(mustRecipe(t, recipe.Latte))

	require.NoError(t, err)
	assert.Equal(t, NeedsCleaning, out.Kind)
	assert.Equal(t, supply.Resource(0), out.Missing)
}

func TestSell_invalidRecipeIsAnError(t *testing.T) {
	m := newMachine(t, 1000, 1000, 1000, 10, 0)
	bad := recipe.Recipe{Name: "refund", Water: 10, DisposableCups: 1, Price: -5}
	before := m.Status()

	_, err := m.Sell(bad)

	require.Error(t, err)
	assert.True(t, fault.IsInvalidArgument(err))
	assert.Equal(t, before, m.Status())
}

func TestSell_rejectionsDoNotCountTowardCleaning(t *testing.T) {
	m := newMachine(t, 0, 0, 0, 0, 0)
	for i := 0; i < CleaningThreshold+2; i++ {
		out, err := m.Sell(mustRecipe(t, recipe.Cappuccino))
		require.NoError(t, err)
		assert.Equal(t, Rejected, out.Kind)
	}
	assert.False(t, m.NeedsCleaning())
}

func TestFill_andTake(t *testing.T) {
	m := newMachine(t, 0, 0, 0, 0, 30)

	require.NoError(t, m.Fill(2000, 500, 100, 10))
	assert.Equal(t, supply.Levels{Water: 2000, Milk: 500, CoffeeBeans: 100, DisposableCups: 10}, m.Status().Levels)

	err := m.Fill(-1, 0, 0, 0)
	assert.True(t, fault.IsInvalidArgument(err))

	assert.Equal(t, 30, m.Take())
	assert.Equal(t, 0, m.Take())
}

func TestMachines_doNotShareCleaningState(t *testing.T) {
	a := newMachine(t, 10000, 10000, 10000, 100, 0)
	b := newMachine(t, 10000, 10000, 10000, 100, 0)
	espresso := mustRecipe(t, recipe.Espresso)

	for i := 0; i < CleaningThreshold; i++ {
		_, err := a.Sell(espresso)
		require.NoError(t, err)
	}
	assert.True(t, a.NeedsCleaning())
	assert.False(t, b.NeedsCleaning())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "sold", Sold.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "needs_cleaning", NeedsCleaning.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestSell_fullRegisterKeepsStock(t *testing.T) {
	m := newMachine(t, 400, 540, 120, 9, math.MaxInt-1)
	before := m.Status()

	_, err := m.Sell(mustRecipe(t, recipe.Espresso))

	assert.True(t, fault.IsInvalidArgument(err))
	assert.Equal(t, before, m.Status())
}

func TestFill_rejectsOverflow(t *testing.T) {
	m := newMachine(t, 1, 0, 0, 0, 0)

	err := m.Fill(math.MaxInt, 0, 0, 0)

	assert.True(t, fault.IsInvalidArgument(err))
	assert.Equal(t, 1, m.Status().Levels.Water)
}
