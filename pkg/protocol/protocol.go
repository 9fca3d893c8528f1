// Package protocol encodes and decodes the line-oriented text messages
// exchanged with the maze authority.
package protocol

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dd0wney/mazewalk/pkg/maze"
)

// Rejection markers sent by the authority instead of a position message.
const (
	InvalidCommandMarker = "Comando inválido"
	InvalidVertexMarker  = "Vértice inválido"
)

const movePrefix = "ir:"

var (
	messagePattern   = regexp.MustCompile(`^Vértice atual: (\d+), Tipo: (\d+|normal|saida|entrada), Adjacentes\(Vertice, Peso\): \[(.*?)\]`)
	adjacencyPattern = regexp.MustCompile(`\((\d+),\s*(\d+(?:\.\d+)?)\)`)
	// adjacencyList accepts nothing but a comma-separated run of pairs.
	adjacencyList = regexp.MustCompile(`^\s*(?:\(\d+,\s*\d+(?:\.\d+)?\)(?:\s*,\s*\(\d+,\s*\d+(?:\.\d+)?\))*)?\s*$`)
)

// Message is a parsed position report: where the agent stands, what role the
// vertex has and its out-edges as reported (duplicates included).
type Message struct {
	Vertex    maze.VertexID
	Role      maze.Role
	Adjacency []maze.Neighbor
}

// ParseMessage decodes a position report.
func ParseMessage(text string) (Message, error) {
	match := messagePattern.FindStringSubmatch(text)
	if match == nil {
		return Message{}, &ProtocolError{Text: text, Reason: "message does not match the position grammar"}
	}

	id, err := strconv.ParseUint(match[1], 10, 64)
	if err != nil {
		return Message{}, &ProtocolError{Text: text, Reason: "vertex id out of range", Cause: err}
	}

	role, err := maze.ParseRole(match[2])
	if err != nil {
		return Message{}, &ProtocolError{Text: text, Reason: "unknown vertex role", Cause: err}
	}

	if !adjacencyList.MatchString(match[3]) {
		return Message{}, &ProtocolError{Text: text, Reason: "malformed adjacency"}
	}

	var adjacency []maze.Neighbor
	for _, pair := range adjacencyPattern.FindAllStringSubmatch(match[3], -1) {
		dest, err := strconv.ParseUint(pair[1], 10, 64)
		if err != nil {
			return Message{}, &ProtocolError{Text: text, Reason: "neighbor id out of range", Cause: err}
		}
		weight, err := strconv.ParseFloat(pair[2], 64)
		if err != nil {
			return Message{}, &ProtocolError{Text: text, Reason: "invalid edge weight", Cause: err}
		}
		adjacency = append(adjacency, maze.Neighbor{ID: maze.VertexID(dest), Weight: weight})
	}

	return Message{Vertex: maze.VertexID(id), Role: role, Adjacency: adjacency}, nil
}

// FormatMessage is the inverse of ParseMessage.
func FormatMessage(m Message) string {
	pairs := make([]string, len(m.Adjacency))
	for i, n := range m.Adjacency {
		pairs[i] = fmt.Sprintf("(%d, %s)", n.ID, strconv.FormatFloat(n.Weight, 'f', -1, 64))
	}
	return fmt.Sprintf("Vértice atual: %d, Tipo: %s, Adjacentes(Vertice, Peso): [%s]",
		m.Vertex, m.Role.Code(), strings.Join(pairs, ", "))
}

// MoveCommand builds the command that asks the authority to move the agent to v.
func MoveCommand(v maze.VertexID) string {
	return fmt.Sprintf("%s %d", movePrefix, v)
}

// ParseMoveCommand decodes a command built by MoveCommand.
func ParseMoveCommand(text string) (maze.VertexID, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(text), movePrefix)
	if !ok {
		return 0, &ProtocolError{Text: text, Reason: "not a move command"}
	}
	id, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 64)
	if err != nil {
		return 0, &ProtocolError{Text: text, Reason: "invalid move target", Cause: err}
	}
	return maze.VertexID(id), nil
}

// IsInvalidMove reports whether a response is a rejection rather than a
// position report.
func IsInvalidMove(text string) bool {
	return strings.Contains(text, InvalidCommandMarker) || strings.Contains(text, InvalidVertexMarker)
}
