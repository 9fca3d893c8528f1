package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultHandshakeTimeout bounds the websocket opening handshake.
const DefaultHandshakeTimeout = 10 * time.Second

// DialOptions configures Dial.
type DialOptions struct {
	HandshakeTimeout time.Duration
	Header           http.Header
}

// WebSocket is a Transport over a websocket connection using text frames.
type WebSocket struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

// Dial opens a websocket connection to url.
func Dial(ctx context.Context, url string, opts DialOptions) (*WebSocket, error) {
	timeout := opts.HandshakeTimeout
	if timeout <= 0 {
		timeout = DefaultHandshakeTimeout
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: timeout,
	}

	conn, resp, err := dialer.DialContext(ctx, url, opts.Header)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (status %s)", err, resp.Status)
		}
		return nil, &Error{Op: "dial", Err: err}
	}

	return &WebSocket{conn: conn}, nil
}

// NewWebSocket wraps an established connection.
func NewWebSocket(conn *websocket.Conn) *WebSocket {
	return &WebSocket{conn: conn}
}

// Send writes text as a single text frame.
func (w *WebSocket) Send(ctx context.Context, text string) error {
	if w.isClosed() {
		return &Error{Op: "send", Err: ErrClosed}
	}
	if err := w.conn.SetWriteDeadline(deadline(ctx)); err != nil {
		return &Error{Op: "send", Err: err}
	}
	if err := w.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return &Error{Op: "send", Err: err}
	}
	return nil
}

// Receive blocks until the next text frame arrives or ctx is done.
func (w *WebSocket) Receive(ctx context.Context) (string, error) {
	if w.isClosed() {
		return "", &Error{Op: "receive", Err: ErrClosed}
	}

	if err := ctx.Err(); err != nil {
		return "", &Error{Op: "receive", Err: err}
	}
	if err := w.conn.SetReadDeadline(deadline(ctx)); err != nil {
		return "", &Error{Op: "receive", Err: err}
	}

	// gorilla reads are not context aware; a cancelled context expires the
	// read deadline so the blocked ReadMessage returns.
	stop := context.AfterFunc(ctx, func() {
		_ = w.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	_, data, err := w.conn.ReadMessage()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &Error{Op: "receive", Err: err}
	}
	return string(data), nil
}

// Close sends a close frame and closes the connection.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return w.conn.Close()
}

func (w *WebSocket) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Time{}
}
