package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/whazzastream/backend/internal/domain/notification/event"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/testutil"
)

func nextEvent(t *testing.T, s *Session) *event.EventRequest {
	t.Helper()

	select {
	case ev := <-s.C:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func onlineByName(t *testing.T, ev *event.EventRequest) map[string]bool {
	t.Helper()

	require.Equal(t, "online_users", ev.Op)
	users := ev.Data.(*event.OnlineUsersEvent).Users

	online := map[string]bool{}
	for _, u := range users {
		online[u.Username] = u.Online
	}

	return online
}

func Test_presenceTracker_MultipleConnections(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()

	hub := NewHub()
	defer hub.Close()
	tracker := NewPresenceTracker(hub, userRepo)

	watcher := NewSession()
	hub.Register(watcher)

	// Alice opens two tabs.
	tracker.MarkOnline(ctx, "conn-1", "alice")
	require.True(t, onlineByName(t, nextEvent(t, watcher))["alice"])

	tracker.MarkOnline(ctx, "conn-2", "alice")
	require.True(t, onlineByName(t, nextEvent(t, watcher))["alice"])
	require.True(t, tracker.IsOnline("alice"))

	// Closing one tab keeps her online.
	tracker.MarkOffline(ctx, "conn-1")
	require.True(t, onlineByName(t, nextEvent(t, watcher))["alice"])
	require.True(t, tracker.IsOnline("alice"))

	// Closing the last one takes her offline; the list still names her.
	tracker.MarkOffline(ctx, "conn-2")
	online := onlineByName(t, nextEvent(t, watcher))
	require.False(t, online["alice"])
	require.Contains(t, online, "alice")
	require.False(t, tracker.IsOnline("alice"))
}

func Test_presenceTracker_OfflineForUnannouncedConnection(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)

	hub := NewHub()
	defer hub.Close()
	tracker := NewPresenceTracker(hub, repository.NewUserRepository())

	watcher := NewSession()
	hub.Register(watcher)

	// A connection that never announced produces no broadcast on close.
	tracker.MarkOffline(ctx, "ghost-conn")

	select {
	case ev := <-watcher.C:
		t.Fatalf("unexpected event %s", ev.Op)
	case <-time.After(50 * time.Millisecond):
	}
}

func Test_presenceTracker_ForceDisconnect(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)

	hub := NewHub()
	defer hub.Close()
	tracker := NewPresenceTracker(hub, repository.NewUserRepository())

	tab1 := NewSession()
	tab2 := NewSession()
	hub.Register(tab1)
	hub.Register(tab2)

	tracker.MarkOnline(ctx, tab1.ID(), "alice")
	nextEvent(t, tab1)
	nextEvent(t, tab2)
	tracker.MarkOnline(ctx, tab2.ID(), "alice")
	nextEvent(t, tab1)
	nextEvent(t, tab2)

	tracker.ForceDisconnect(ctx, "alice")

	// Both of alice's connections get the directed logout, then everyone
	// sees the refreshed list.
	require.Equal(t, "force_logout", nextEvent(t, tab1).Op)
	require.Equal(t, "force_logout", nextEvent(t, tab2).Op)
	require.False(t, onlineByName(t, nextEvent(t, tab1))["alice"])
	require.False(t, tracker.IsOnline("alice"))
}
