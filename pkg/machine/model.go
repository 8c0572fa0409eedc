package machine

import (
	"coffeemachine/pkg/recipe"
	"coffeemachine/pkg/supply"
)

// Kind classifies the result of a sale attempt.
type Kind int

const (
	Sold Kind = iota + 1
	Rejected
	NeedsCleaning
)

func (k Kind) String() string {
	switch k {
	case Sold:
		return "sold"
	case Rejected:
		return "rejected"
	case NeedsCleaning:
		return "needs_cleaning"
	default:
		return "unknown"
	}
}

// Outcome is what a sale attempt produced. Missing is set only for Rejected.
type Outcome struct {
	Kind    Kind
	Recipe  recipe.Recipe
	Missing supply.Resource
}

// Status is a read-only view of the whole machine.
type Status struct {
	Levels            supply.Levels `json:"levels"`
	Balance           int           `json:"balance"`
	CoffeesSinceClean int           `json:"coffees_since_clean"`
	NeedsCleaning     bool          `json:"needs_cleaning"`
}
