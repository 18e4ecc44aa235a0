package room

import (
	"sync"

	"github.com/google/uuid"
)

// One connected participant. The room owns the display metadata
// (guarded by the room's mutex once joined); the transport owns the
// connection and drains the outbound queue. A session never moves
// between rooms.
type Session struct {
	ID string

	displayName string
	color       string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession creates a session with a process-unique id and an
// outbound queue of the given capacity.
func NewSession(displayName, color string, buffer int) *Session {
	return &Session{
		ID:          uuid.NewString(),
		displayName: displayName,
		color:       color,
		send:        make(chan []byte, buffer),
		done:        make(chan struct{}),
	}
}

// Send enqueues data without blocking. It reports false when the
// session is closed or its queue is full; the caller decides what a
// failed delivery means.
func (s *Session) Send(data []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

// Close marks the session failed or disconnected. It reports true only
// on the first call, so cleanup triggered from multiple signals runs
// once.
func (s *Session) Close() bool {
	closed := false
	s.closeOnce.Do(func() {
		close(s.done)
		closed = true
	})
	return closed
}

// Done is closed when the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Outbound is the queue the transport drains.
func (s *Session) Outbound() <-chan []byte {
	return s.send
}
