package navigator

import (
	"errors"
	"fmt"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

// ErrInvalidMove is wrapped by every InvalidMoveError.
var ErrInvalidMove = errors.New("move rejected by authority")

// InvalidMoveError reports a move the authority refused. It is recoverable: the
// agent has not moved and the caller should treat the target as unreachable.
type InvalidMoveError struct {
	From     maze.VertexID
	To       maze.VertexID
	Response string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("move %d -> %d rejected: %s", e.From, e.To, e.Response)
}

// Unwrap returns ErrInvalidMove.
func (e *InvalidMoveError) Unwrap() error {
	return ErrInvalidMove
}

// IsInvalidMove reports whether err is a rejected move.
func IsInvalidMove(err error) bool {
	return errors.Is(err, ErrInvalidMove)
}
