// Package console is the interactive text menu in front of the machine.
// It owns all prompting and rendering; the machine never does I/O.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"coffeemachine/pkg/fault"
	"coffeemachine/pkg/machine"
	"coffeemachine/pkg/recipe"
	"coffeemachine/pkg/supply"
)

// Machine is the subset of machine.Service the menu drives.
type Machine interface {
	Buy(ctx context.Context, r recipe.Recipe) (machine.Outcome, error)
	Fill(ctx context.Context, add supply.Levels) (machine.Status, error)
	Take(ctx context.Context) (int, error)
	Clean(ctx context.Context) error
	Remaining(ctx context.Context) (machine.Status, error)
}

const backCode = "back"

// errInputClosed ends the loop when the input runs out mid-dialog.
var errInputClosed = errors.New("input closed")

// Console reads one command per line and writes the machine's replies.
type Console struct {
	machine Machine
	catalog *recipe.Catalog
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger
}

// New builds a console. A nil logger is replaced by a no-op logger.
func New(m Machine, catalog *recipe.Catalog, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		machine: m,
		catalog: catalog,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

// Run loops until "exit", end of input, or a machine failure.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.println("Write action (buy, fill, take, clean, remaining, exit):")
		line, err := c.readLine()
		if err != nil {
			return ignoreClosed(err)
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			c.printf("Unknown action %q.\n\n", line)
			continue
		}
		if cmd == CommandExit {
			return nil
		}
		if err := c.dispatch(ctx, cmd); err != nil {
			return ignoreClosed(err)
		}
	}
}

func (c *Console) dispatch(ctx context.Context, cmd Command) error {
	switch cmd {
	case CommandBuy:
		return c.buy(ctx)
	case CommandFill:
		return c.fill(ctx)
	case CommandTake:
		amount, err := c.machine.Take(ctx)
		if err != nil {
			return err
		}
		c.printf("I gave you $%d\n\n", amount)
	case CommandClean:
		if err := c.machine.Clean(ctx); err != nil {
			return err
		}
		c.println("I have been cleaned!")
	case CommandRemaining:
		st, err := c.machine.Remaining(ctx)
		if err != nil {
			return err
		}
		c.printStatus(st)
	}
	return nil
}

func (c *Console) buy(ctx context.Context) error {
	st, err := c.machine.Remaining(ctx)
	if err != nil {
		return err
	}
	if st.NeedsCleaning {
		c.println("I need cleaning!")
		return nil
	}

	c.printf("What do you want to buy? %s:\n", c.drinkMenu())
	line, err := c.readLine()
	if err != nil {
		return err
	}
	if strings.EqualFold(line, backCode) {
		return nil
	}

	r, err := c.catalog.Lookup(line)
	if err != nil {
		c.logger.Debug("unknown drink selection", zap.String("input", line))
		c.printf("Unknown drink %q.\n\n", line)
		return nil
	}

	out, err := c.machine.Buy(ctx, r)
	if err != nil {
		if fault.IsInvalidArgument(err) {
			c.printf("Cannot sell %s: %v\n\n", r.Name, err)
			return nil
		}
		return err
	}
	c.printOutcome(out)
	return nil
}

func (c *Console) fill(ctx context.Context) error {
	prompts := []string{
		"Write how many ml of water you want to add:",
		"Write how many ml of milk you want to add:",
		"Write how many grams of coffee beans you want to add:",
		"Write how many disposable cups you want to add:",
	}
	amounts := make([]int, len(prompts))
	for i, prompt := range prompts {
		n, err := c.readAmount(prompt)
		if err != nil {
			return err
		}
		amounts[i] = n
	}

	_, err := c.machine.Fill(ctx, supply.Levels{
		Water:          amounts[0],
		Milk:           amounts[1],
		CoffeeBeans:    amounts[2],
		DisposableCups: amounts[3],
	})
	if err != nil {
		if fault.IsInvalidArgument(err) {
			c.printf("Cannot fill: %v\n\n", err)
			return nil
		}
		return err
	}
	c.println("")
	return nil
}

// readAmount prompts until it gets a non-negative whole number.
func (c *Console) readAmount(prompt string) (int, error) {
	for {
		c.println(prompt)
		line, err := c.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 0 {
			return n, nil
		}
		c.println("Please enter a non-negative whole number.")
	}
}

func (c *Console) printOutcome(out machine.Outcome) {
	switch out.Kind {
	case machine.Sold:
		c.println("I have enough resources, making you a coffee!")
		c.println("")
	case machine.Rejected:
		c.printf("Sorry, not enough %s!\n", out.Missing)
	case machine.NeedsCleaning:
		c.println("I need cleaning!")
	}
}

func (c *Console) printStatus(st machine.Status) {
	c.println("The coffee machine has:")
	c.printf("%d ml of water\n", st.Levels.Water)
	c.printf("%d ml of milk\n", st.Levels.Milk)
	c.printf("%d g of coffee beans\n", st.Levels.CoffeeBeans)
	c.printf("%d disposable cups\n", st.Levels.DisposableCups)
	c.printf("$%d of money\n\n", st.Balance)
}

func (c *Console) drinkMenu() string {
	entries := c.catalog.List()
	parts := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s - %s", e.Selector.Code(), e.Recipe.Name))
	}
	parts = append(parts, backCode+" - to main menu")
	return strings.Join(parts, ", ")
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func ignoreClosed(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}
