// Package fault defines the two error kinds the machine engine can raise.
// Sale outcomes such as a shortage or a dirty machine are not errors and
// never pass through this package.
package fault

import (
	"errors"
	"fmt"
)

// Code categorizes an engine error.
type Code int

const (
	CodeInvalidArgument Code = iota
	CodeUnknownSelector
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case CodeUnknownSelector:
		return "UNKNOWN_SELECTOR"
	default:
		return "UNKNOWN"
	}
}

// Error is returned when a caller passes input the engine refuses.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same code, so errors.Is(err, ErrInvalidArgument)
// works regardless of the message.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

var (
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrUnknownSelector = &Error{Code: CodeUnknownSelector, Message: "unknown selector"}
)

// InvalidArgument creates an error for a negative or otherwise unusable quantity.
func InvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

// InvalidArgumentf creates an InvalidArgument error with a formatted message.
func InvalidArgumentf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// UnknownSelector creates an error for a recipe lookup miss.
func UnknownSelector(selector string) *Error {
	return &Error{Code: CodeUnknownSelector, Message: fmt.Sprintf("unknown recipe selector %q", selector)}
}

// IsInvalidArgument reports whether err carries the InvalidArgument code.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsUnknownSelector reports whether err carries the UnknownSelector code.
func IsUnknownSelector(err error) bool {
	return errors.Is(err, ErrUnknownSelector)
}

// NonNegative returns an InvalidArgument error naming the first negative value.
// names and values are matched by position.
func NonNegative(op string, names []string, values ...int) error {
	for i, v := range values {
		if v < 0 {
			name := "value"
			if i < len(names) {
				name = names[i]
			}
			return InvalidArgumentf("%s: %s cannot be negative (got %d)", op, name, v)
		}
	}
	return nil
}
