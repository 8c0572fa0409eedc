// Package supply tracks the machine's consumables and decides whether a
// recipe can be made from them.
package supply

import (
	"math"

	"coffeemachine/pkg/fault"
	"coffeemachine/pkg/recipe"
)

// Resource identifies one consumable. The declaration order is the order
// shortages are reported in.
type Resource int

const (
	Water Resource = iota + 1
	Milk
	CoffeeBeans
	DisposableCups
)

func (r Resource) String() string {
	switch r {
	case Water:
		return "water"
	case Milk:
		return "milk"
	case CoffeeBeans:
		return "coffee beans"
	case DisposableCups:
		return "disposable cups"
	default:
		return "none"
	}
}

// Resources lists every consumable in shortage priority order.
var Resources = []Resource{Water, Milk, CoffeeBeans, DisposableCups}

var argNames = []string{"water", "milk", "coffee beans", "disposable cups"}

// Levels is a read-only snapshot of the store.
type Levels struct {
	Water          int `json:"water"`
	Milk           int `json:"milk"`
	CoffeeBeans    int `json:"coffee_beans"`
	DisposableCups int `json:"disposable_cups"`
}

// Of returns the level for a single resource.
func (l Levels) Of(r Resource) int {
	switch r {
	case Water:
		return l.Water
	case Milk:
		return l.Milk
	case CoffeeBeans:
		return l.CoffeeBeans
	case DisposableCups:
		return l.DisposableCups
	default:
		return 0
	}
}

// Availability is the result of TrySell. Missing is zero when Sufficient is true.
type Availability struct {
	Sufficient bool
	Missing    Resource
}

// Store holds the four consumable counters. Every counter stays >= 0.
// A Store is not safe for concurrent use.
type Store struct {
	levels Levels
}

// New creates a store with the given opening stock.
func New(water, milk, coffeeBeans, disposableCups int) (*Store, error) {
	if err := fault.NonNegative("new supply store", argNames, water, milk, coffeeBeans, disposableCups); err != nil {
		return nil, err
	}
	return &Store{levels: Levels{
		Water:          water,
		Milk:           milk,
		CoffeeBeans:    coffeeBeans,
		DisposableCups: disposableCups,
	}}, nil
}

// Replenish adds stock. There is no capacity limit beyond what an int
// holds; an addition that would overflow any counter changes nothing.
func (s *Store) Replenish(water, milk, coffeeBeans, disposableCups int) error {
	if err := fault.NonNegative("replenish", argNames, water, milk, coffeeBeans, disposableCups); err != nil {
		return err
	}
	add := Levels{Water: water, Milk: milk, CoffeeBeans: coffeeBeans, DisposableCups: disposableCups}
	for i, res := range Resources {
		if add.Of(res) > math.MaxInt-s.levels.Of(res) {
			return fault.InvalidArgumentf("replenish: %s would overflow (have %d, adding %d)",
				argNames[i], s.levels.Of(res), add.Of(res))
		}
	}
	s.levels.Water += water
	s.levels.Milk += milk
	s.levels.CoffeeBeans += coffeeBeans
	s.levels.DisposableCups += disposableCups
	return nil
}

// Levels returns the current stock.
func (s *Store) Levels() Levels {
	return s.levels
}

// MaxCupsFor returns how many drinks of r the current stock allows.
// A resource the recipe does not use never limits the result, and a
// negative requirement makes the recipe unsellable.
func (s *Store) MaxCupsFor(r recipe.Recipe) int {
	need := requirements(r)
	cups := math.MaxInt
	for _, res := range Resources {
		required := need.Of(res)
		if required < 0 {
			return 0
		}
		if required == 0 {
			continue
		}
		if n := s.levels.Of(res) / required; n < cups {
			cups = n
		}
	}
	return cups
}

// TrySell debits one drink's worth of stock when there is enough of
// everything. Otherwise it reports the first short resource and leaves the
// store untouched.
func (s *Store) TrySell(r recipe.Recipe) Availability {
	if s.MaxCupsFor(r) > 0 {
		s.levels.Water -= r.Water
		s.levels.Milk -= r.Milk
		s.levels.CoffeeBeans -= r.CoffeeBeans
		s.levels.DisposableCups -= r.DisposableCups
		return Availability{Sufficient: true}
	}
	return Availability{Missing: s.firstShortage(r)}
}

func (s *Store) firstShortage(r recipe.Recipe) Resource {
	need := requirements(r)
	for _, res := range Resources {
		if need.Of(res) < 0 || s.levels.Of(res) < need.Of(res) {
			return res
		}
	}
	// unreachable while MaxCupsFor is 0; report cups, the last in order
	return DisposableCups
}

func requirements(r recipe.Recipe) Levels {
	return Levels{
		Water:          r.Water,
		Milk:           r.Milk,
		CoffeeBeans:    r.CoffeeBeans,
		DisposableCups: r.DisposableCups,
	}
}
