package protocol

import (
	"errors"
	"fmt"
)

// ErrProtocol is wrapped by every ProtocolError.
var ErrProtocol = errors.New("protocol error")

// maxQuoted bounds how much of an offending message is echoed back in errors.
const maxQuoted = 120

// ProtocolError reports text that does not follow the message grammar. It is
// fatal to a session.
type ProtocolError struct {
	Text   string
	Reason string
	Cause  error
}

func (e *ProtocolError) Error() string {
	text := e.Text
	if len(text) > maxQuoted {
		text = text[:maxQuoted] + "..."
	}
	if e.Cause != nil {
		return fmt.Sprintf("protocol: %s: %v (message %q)", e.Reason, e.Cause, text)
	}
	return fmt.Sprintf("protocol: %s (message %q)", e.Reason, text)
}

// Unwrap returns the underlying cause and ErrProtocol.
func (e *ProtocolError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrProtocol, e.Cause}
	}
	return []error{ErrProtocol}
}
