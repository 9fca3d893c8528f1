package authority

import (
	"context"
	"errors"
	"sync"

	"github.com/dd0wney/mazewalk/pkg/maze"
	"github.com/dd0wney/mazewalk/pkg/metrics"
	"github.com/dd0wney/mazewalk/pkg/protocol"
	"github.com/dd0wney/mazewalk/pkg/transport"
)

// Responses for refused commands, as the real authority words them.
const (
	InvalidCommandResponse = "Erro: " + protocol.InvalidCommandMarker + ". Use 'ir: <id>'"
	InvalidVertexResponse  = "Erro: " + protocol.InvalidVertexMarker
)

// Command results, used as metric labels.
const (
	ResultMoved     = "moved"
	ResultRejected  = "rejected"
	ResultMalformed = "malformed"
)

// ErrNoResponse is returned by Receive when nothing has been sent to answer.
var ErrNoResponse = errors.New("no response pending")

// Faults injects authority-side misbehaviour.
type Faults struct {
	// Reject lists vertices the authority refuses to move the agent into even
	// when they are adjacent.
	Reject map[maze.VertexID]bool
	// GarbleAfter answers with unparsable text once this many commands have been
	// handled. Zero disables it.
	GarbleAfter int
}

// Session is one agent's conversation with the authority. It implements
// transport.Transport in process, which makes it usable directly by the
// navigator in tests and by the websocket server.
type Session struct {
	maze    *Maze
	faults  Faults
	metrics *metrics.Registry

	mu      sync.Mutex
	current maze.VertexID
	pending []string
	handled int
	closed  bool
	visited []maze.VertexID
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithFaults injects authority-side faults.
func WithFaults(f Faults) SessionOption {
	return func(s *Session) { s.faults = f }
}

// WithMetrics counts handled commands.
func WithMetrics(r *metrics.Registry) SessionOption {
	return func(s *Session) { s.metrics = r }
}

// NewSession places a new agent on the entry and queues the initial position report.
func NewSession(m *Maze, opts ...SessionOption) (*Session, error) {
	entry, err := m.Entry()
	if err != nil {
		return nil, err
	}
	msg, err := m.Message(entry)
	if err != nil {
		return nil, err
	}

	s := &Session{maze: m, current: entry, visited: []maze.VertexID{entry}}
	for _, opt := range opts {
		opt(s)
	}
	s.pending = append(s.pending, protocol.FormatMessage(msg))
	return s, nil
}

// Handle applies one command and returns the response text.
func (s *Session) Handle(command string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle(command)
}

func (s *Session) handle(command string) string {
	s.handled++
	response, result := s.step(command)
	if s.metrics != nil {
		s.metrics.RecordAuthorityCommand(result)
	}
	return response
}

func (s *Session) step(command string) (string, string) {
	if s.faults.GarbleAfter > 0 && s.handled > s.faults.GarbleAfter {
		return "\x00garbled", ResultMalformed
	}

	target, err := protocol.ParseMoveCommand(command)
	if err != nil {
		return InvalidCommandResponse, ResultMalformed
	}
	if s.faults.Reject[target] || !s.maze.Adjacent(s.current, target) {
		return InvalidVertexResponse, ResultRejected
	}

	msg, err := s.maze.Message(target)
	if err != nil {
		return InvalidVertexResponse, ResultRejected
	}
	s.current = target
	s.visited = append(s.visited, target)
	return protocol.FormatMessage(msg), ResultMoved
}

// Send handles a command and queues its response.
func (s *Session) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return &transport.Error{Op: "send", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &transport.Error{Op: "send", Err: transport.ErrClosed}
	}
	s.pending = append(s.pending, s.handle(text))
	return nil
}

// Receive returns the oldest queued response.
func (s *Session) Receive(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &transport.Error{Op: "receive", Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", &transport.Error{Op: "receive", Err: transport.ErrClosed}
	}
	if len(s.pending) == 0 {
		return "", &transport.Error{Op: "receive", Err: ErrNoResponse}
	}
	text := s.pending[0]
	s.pending = s.pending[1:]
	return text, nil
}

// Close ends the session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Position returns where the authority believes the agent is.
func (s *Session) Position() maze.VertexID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Visited returns every position the authority has placed the agent on.
func (s *Session) Visited() []maze.VertexID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]maze.VertexID, len(s.visited))
	copy(out, s.visited)
	return out
}
