package maze

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrInvalidRole   = errors.New("invalid vertex role")
	ErrUnknownVertex = errors.New("vertex not visited")
	ErrBrokenPath    = errors.New("path uses an unknown edge")
)

// RoleError reports a role representation that is neither numeric nor named.
type RoleError struct {
	Value string
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("invalid vertex role %q", e.Value)
}

// Unwrap returns ErrInvalidRole.
func (e *RoleError) Unwrap() error {
	return ErrInvalidRole
}

// UnknownVertexError is returned when the adjacency of a vertex that was never
// visited is requested. Callers are expected to check IsVisited first.
type UnknownVertexError struct {
	Vertex VertexID
}

func (e *UnknownVertexError) Error() string {
	return fmt.Sprintf("vertex %d has not been visited", e.Vertex)
}

// Unwrap returns ErrUnknownVertex.
func (e *UnknownVertexError) Unwrap() error {
	return ErrUnknownVertex
}
