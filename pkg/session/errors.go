package session

import (
	"errors"
	"fmt"

	"github.com/dd0wney/mazewalk/pkg/protocol"
	"github.com/dd0wney/mazewalk/pkg/transport"
	"github.com/dd0wney/mazewalk/pkg/validation"
)

// Category tells a caller what kind of failure ended a session.
type Category string

const (
	CategoryConfig    Category = "config"
	CategoryProtocol  Category = "protocol"
	CategoryTransport Category = "transport"
	CategoryInternal  Category = "internal"
)

// Error is a failed session.
type Error struct {
	Category Category
	Stage    string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Stage, e.Category, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func fail(stage string, err error) error {
	return &Error{Category: Classify(err), Stage: stage, Err: err}
}

// Classify maps err to a Category. A nil error is CategoryInternal.
func Classify(err error) Category {
	var sessionErr *Error
	var transportErr *transport.Error
	switch {
	case errors.As(err, &sessionErr):
		return sessionErr.Category
	case errors.Is(err, validation.ErrInvalid), errors.Is(err, errConfig):
		return CategoryConfig
	case errors.Is(err, protocol.ErrProtocol):
		return CategoryProtocol
	case errors.As(err, &transportErr):
		return CategoryTransport
	default:
		return CategoryInternal
	}
}

var errConfig = errors.New("configuration")

func configError(err error) error {
	return fmt.Errorf("%w: %w", errConfig, err)
}
