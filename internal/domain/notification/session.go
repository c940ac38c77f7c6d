package notification

import (
	"github.com/google/uuid"
	"github.com/whazzastream/backend/internal/domain/notification/event"
)

// Session is the hub-facing side of one websocket connection. Events routed
// to it arrive on C in the order the hub processed them.
type Session struct {
	C chan *event.EventRequest

	id string
}

func NewSession() *Session {
	return &Session{
		C:  make(chan *event.EventRequest, 16),
		id: uuid.NewString(),
	}
}

func (s *Session) ID() string {
	return s.id
}
