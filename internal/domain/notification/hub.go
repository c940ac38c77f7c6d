package notification

import (
	"sync"

	"github.com/whazzastream/backend/internal/domain/notification/event"
)

// Hub fans out events to registered sessions. A single goroutine consumes
// the event channel, so all clients observe events for one message in the
// order it was authorized. Delivery is best-effort: a session whose buffer
// is full misses the event rather than stalling everyone else.
type Hub struct {
	sessions map[string]*Session
	c        chan *event.EventRequest

	mutex sync.RWMutex
}

func NewHub() *Hub {
	h := &Hub{
		sessions: make(map[string]*Session),
		c:        make(chan *event.EventRequest, 64),
	}

	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		ev, ok := <-h.c
		if !ok {
			break
		}

		h.mutex.RLock()
		if to := ev.Metadata.To; to != "" {
			if s, ok := h.sessions[to]; ok {
				s.deliver(ev)
			}
		} else {
			for _, s := range h.sessions {
				s.deliver(ev)
			}
		}
		h.mutex.RUnlock()
	}
}

func (s *Session) deliver(ev *event.EventRequest) {
	select {
	case s.C <- ev:
	default:
	}
}

// Emit queues an event for fan-out. It is safe to call from any goroutine.
func (h *Hub) Emit(ev *event.EventRequest) {
	h.c <- ev
}

func (h *Hub) Register(session *Session) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.sessions[session.id] = session
}

func (h *Hub) Unregister(session *Session) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.sessions[session.id]; ok {
		delete(h.sessions, session.id)
		close(session.C)
	}
}

func (h *Hub) Close() {
	close(h.c)
}
