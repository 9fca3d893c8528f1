package maze

import (
	"strings"
)

// Role is the part a vertex plays in the maze.
type Role int

const (
	// RoleNormal is an ordinary vertex
	RoleNormal Role = iota
	// RoleEntry is the vertex a session starts on
	RoleEntry
	// RoleExit is a goal vertex
	RoleExit
)

var roleNames = map[string]Role{
	"0":       RoleNormal,
	"1":       RoleEntry,
	"2":       RoleExit,
	"normal":  RoleNormal,
	"entrada": RoleEntry,
	"saida":   RoleExit,
}

// ParseRole accepts both the numeric and the named form used by the authority.
func ParseRole(s string) (Role, error) {
	if r, ok := roleNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r, nil
	}
	return 0, &RoleError{Value: s}
}

// String returns the named form.
func (r Role) String() string {
	switch r {
	case RoleNormal:
		return "normal"
	case RoleEntry:
		return "entrada"
	case RoleExit:
		return "saida"
	default:
		return "unknown"
	}
}

// Code returns the numeric wire form.
func (r Role) Code() string {
	switch r {
	case RoleNormal:
		return "0"
	case RoleEntry:
		return "1"
	case RoleExit:
		return "2"
	default:
		return "?"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if r < RoleNormal || r > RoleExit {
		return nil, &RoleError{Value: r.Code()}
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
