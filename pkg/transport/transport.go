// Package transport carries text commands to the maze authority and brings back
// its responses.
package transport

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned for operations on a closed transport.
var ErrClosed = errors.New("transport closed")

// Transport is a strictly sequential, line-oriented exchange with the authority:
// every Send is answered by exactly one message obtained with Receive.
type Transport interface {
	Send(ctx context.Context, text string) error
	Receive(ctx context.Context) (string, error)
	Close() error
}

// Error wraps a failure of the underlying connection. Transport errors are fatal
// to a session; nothing reconnects.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
