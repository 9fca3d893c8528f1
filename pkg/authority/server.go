package authority

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/dd0wney/mazewalk/pkg/logging"
	"github.com/dd0wney/mazewalk/pkg/metrics"
)

// ErrMazeNotFound is returned by a Resolver for unknown mazes.
var ErrMazeNotFound = errors.New("maze not found")

// Resolver maps the group and maze identifiers of a connection URL to a maze.
type Resolver func(group, mazeID string) (*Maze, error)

// Static resolves every identifier to the same maze.
func Static(m *Maze) Resolver {
	return func(string, string) (*Maze, error) { return m, nil }
}

// ServerOptions configures Server.
type ServerOptions struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
	Faults  Faults
}

// Server serves authority sessions over websocket at /<group>/<maze>.
type Server struct {
	resolve  Resolver
	logger   logging.Logger
	metrics  *metrics.Registry
	faults   Faults
	upgrader websocket.Upgrader
	active   atomic.Int64
}

// NewServer creates a websocket authority.
func NewServer(resolve Resolver, opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Server{
		resolve: resolve,
		logger:  logger.With(logging.Component("authority")),
		metrics: opts.Metrics,
		faults:  opts.Faults,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func splitSessionPath(path string) (group, mazeID string, err error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("expected /<group>/<maze>, got %q", path)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// Active returns the number of connected agents.
func (s *Server) Active() int {
	return int(s.active.Load())
}

// ServeHTTP upgrades the connection and runs one session until the agent leaves.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	group, mazeID, err := splitSessionPath(r.URL.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	m, err := s.resolve(group, mazeID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrMazeNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	opts := []SessionOption{WithFaults(s.faults)}
	if s.metrics != nil {
		opts = append(opts, WithMetrics(s.metrics))
	}
	session, err := NewSession(m, opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade the websocket", logging.Error(err))
		return
	}
	defer conn.Close()

	s.active.Add(1)
	defer s.active.Add(-1)
	if s.metrics != nil {
		s.metrics.AgentConnected()
		defer s.metrics.AgentDisconnected()
	}

	logger := s.logger.With(logging.String("group", group), logging.MazeID(mazeID))
	logger.Info("agent connected", logging.String("remote", r.RemoteAddr))

	initial, err := session.Receive(r.Context())
	if err != nil {
		logger.Error("no initial position", logging.Error(err))
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(initial)); err != nil {
		logger.Warn("failed to send initial position", logging.Error(err))
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			logger.Info("agent disconnected", logging.Count(len(session.Visited())), logging.Error(err))
			return
		}
		response := session.Handle(string(data))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(response)); err != nil {
			logger.Warn("failed to write response", logging.Error(err))
			return
		}
	}
}
