// Package recipe holds the drink recipes the machine can sell and the
// catalog that maps a menu selection to one of them.
package recipe

import (
	"strings"

	"coffeemachine/pkg/fault"
)

// Selector names a drink on the menu.
type Selector int

const (
	Espresso Selector = iota + 1
	Latte
	Cappuccino
)

func (s Selector) String() string {
	switch s {
	case Espresso:
		return "espresso"
	case Latte:
		return "latte"
	case Cappuccino:
		return "cappuccino"
	default:
		return "unknown"
	}
}

// Code is the menu digit the console shows for the selector.
func (s Selector) Code() string {
	switch s {
	case Espresso:
		return "1"
	case Latte:
		return "2"
	case Cappuccino:
		return "3"
	default:
		return ""
	}
}

// ParseSelector accepts either the menu code ("1".."3") or the drink name.
func ParseSelector(input string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "1", "espresso":
		return Espresso, nil
	case "2", "latte":
		return Latte, nil
	case "3", "cappuccino":
		return Cappuccino, nil
	default:
		return 0, fault.UnknownSelector(input)
	}
}

// Catalog maps selectors to recipes. It is read-only after construction.
type Catalog struct {
	order   []Selector
	recipes map[Selector]Recipe
}

// DefaultCatalog returns the three preset drinks.
func DefaultCatalog() *Catalog {
	return &Catalog{
		order: []Selector{Espresso, Latte, Cappuccino},
		recipes: map[Selector]Recipe{
			Espresso:   espresso,
			Latte:      latte,
			Cappuccino: cappuccino,
		},
	}
}

// Get returns the recipe for selector or an UnknownSelector error.
func (c *Catalog) Get(selector Selector) (Recipe, error) {
	r, ok := c.recipes[selector]
	if !ok {
		return Recipe{}, fault.UnknownSelector(selector.String())
	}
	return r, nil
}

// Lookup parses input and resolves it in one step.
func (c *Catalog) Lookup(input string) (Recipe, error) {
	selector, err := ParseSelector(input)
	if err != nil {
		return Recipe{}, err
	}
	return c.Get(selector)
}

// Entry pairs a selector with its recipe for menu rendering.
type Entry struct {
	Selector Selector
	Recipe   Recipe
}

// List returns the catalog in menu order.
func (c *Catalog) List() []Entry {
	entries := make([]Entry, 0, len(c.order))
	for _, s := range c.order {
		entries = append(entries, Entry{Selector: s, Recipe: c.recipes[s]})
	}
	return entries
}
