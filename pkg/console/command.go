package console

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand is returned by ParseCommand for input that names no action.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one main-menu action.
type Command string

const (
	CommandBuy       Command = "buy"
	CommandFill      Command = "fill"
	CommandTake      Command = "take"
	CommandClean     Command = "clean"
	CommandRemaining Command = "remaining"
	CommandExit      Command = "exit"
)

var commands = []Command{CommandBuy, CommandFill, CommandTake, CommandClean, CommandRemaining, CommandExit}

// ParseCommand matches input case-insensitively.
func ParseCommand(input string) (Command, error) {
	for _, c := range commands {
		if strings.EqualFold(strings.TrimSpace(input), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, input)
}
