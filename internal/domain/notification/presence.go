package notification

import (
	"context"
	"sync"

	"github.com/whazzastream/backend/internal/domain/notification/event"
	"github.com/whazzastream/backend/internal/model"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/xcontext"
)

// PresenceTracker owns the connection-to-username mapping. It is process
// local: a restart clears all presence, which is correct because the state
// is derivable from the live connections alone. All mutations go through a
// single mutex, and multiple simultaneous connections per user are legal.
type PresenceTracker struct {
	hub      *Hub
	userRepo repository.UserRepository

	mutex sync.Mutex
	conns map[string]string // connection id -> username
}

func NewPresenceTracker(hub *Hub, userRepo repository.UserRepository) *PresenceTracker {
	return &PresenceTracker{
		hub:      hub,
		userRepo: userRepo,
		conns:    make(map[string]string),
	}
}

// MarkOnline is idempotent; announcing twice from the same connection just
// overwrites the mapping.
func (t *PresenceTracker) MarkOnline(ctx context.Context, connID, username string) {
	t.mutex.Lock()
	t.conns[connID] = username
	t.mutex.Unlock()

	t.BroadcastOnlineUsers(ctx)
}

// MarkOffline is a no-op for a connection that never announced itself.
func (t *PresenceTracker) MarkOffline(ctx context.Context, connID string) {
	t.mutex.Lock()
	_, announced := t.conns[connID]
	delete(t.conns, connID)
	t.mutex.Unlock()

	if announced {
		t.BroadcastOnlineUsers(ctx)
	}
}

func (t *PresenceTracker) IsOnline(username string) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for _, u := range t.conns {
		if u == username {
			return true
		}
	}

	return false
}

// ForceDisconnect sends a directed logout to every connection of the user
// and drops their presence entries.
func (t *PresenceTracker) ForceDisconnect(ctx context.Context, username string) {
	t.mutex.Lock()
	var dropped []string
	for connID, u := range t.conns {
		if u == username {
			dropped = append(dropped, connID)
			delete(t.conns, connID)
		}
	}
	t.mutex.Unlock()

	for _, connID := range dropped {
		t.hub.Emit(event.New(&event.ForceLogoutEvent{}, &event.Metadata{To: connID}))
	}

	if len(dropped) > 0 {
		t.BroadcastOnlineUsers(ctx)
	}
}

func (t *PresenceTracker) onlineSet() map[string]bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	online := make(map[string]bool, len(t.conns))
	for _, u := range t.conns {
		online[u] = true
	}

	return online
}

// BroadcastOnlineUsers emits the full user list with per-user online flags.
func (t *PresenceTracker) BroadcastOnlineUsers(ctx context.Context) {
	users, err := t.userRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users for the online list: %v", err)
		return
	}

	online := t.onlineSet()
	list := make([]model.OnlineUser, 0, len(users))
	for _, u := range users {
		list = append(list, model.OnlineUser{
			Username: u.Username,
			Online:   online[u.Username],
			Color:    u.Color,
		})
	}

	t.hub.Emit(event.New(&event.OnlineUsersEvent{Users: list}, nil))
}
