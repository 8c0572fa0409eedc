package recipe

import "coffeemachine/pkg/fault"

// CupsPerDrink is the number of disposable cups every drink consumes.
const CupsPerDrink = 1

// Recipe lists what one drink takes from the machine and what it costs.
// Quantities are in ml (water, milk), grams (beans) and cups; Price is in whole dollars.
type Recipe struct {
	Name           string `json:"name" yaml:"name"`
	Water          int    `json:"water" yaml:"water"`
	Milk           int    `json:"milk" yaml:"milk"`
	CoffeeBeans    int    `json:"coffee_beans" yaml:"coffee_beans"`
	DisposableCups int    `json:"disposable_cups" yaml:"disposable_cups"`
	Price          int    `json:"price" yaml:"price"`
}

// New builds a custom recipe. Only negative quantities are refused.
func New(name string, water, milk, coffeeBeans, price int) (Recipe, error) {
	err := fault.NonNegative("new recipe",
		[]string{"water", "milk", "coffee beans", "price"},
		water, milk, coffeeBeans, price)
	if err != nil {
		return Recipe{}, err
	}
	return Recipe{
		Name:           name,
		Water:          water,
		Milk:           milk,
		CoffeeBeans:    coffeeBeans,
		DisposableCups: CupsPerDrink,
		Price:          price,
	}, nil
}

// Validate rejects recipes built by hand with negative fields.
func (r Recipe) Validate() error {
	return fault.NonNegative("recipe "+r.Name,
		[]string{"water", "milk", "coffee beans", "disposable cups", "price"},
		r.Water, r.Milk, r.CoffeeBeans, r.DisposableCups, r.Price)
}

func preset(name string, water, milk, coffeeBeans, price int) Recipe {
	return Recipe{
		Name:           name,
		Water:          water,
		Milk:           milk,
		CoffeeBeans:    coffeeBeans,
		DisposableCups: CupsPerDrink,
		Price:          price,
	}
}

var (
	espresso   = preset("espresso", 250, 0, 16, 4)
	latte      = preset("latte", 350, 75, 20, 7)
	cappuccino = preset("cappuccino", 200, 100, 12, 6)
)
