package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/whazzastream/backend/internal/domain/notification"
	"github.com/whazzastream/backend/internal/domain/notification/event"
	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/testutil"
	"github.com/whazzastream/backend/pkg/xcontext"
)

func nextEvent(t *testing.T, s *notification.Session) *event.EventRequest {
	t.Helper()

	select {
	case ev := <-s.C:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func requireNoEvent(t *testing.T, s *notification.Session) {
	t.Helper()

	// The hub fans out asynchronously; give it a moment to prove silence.
	select {
	case ev := <-s.C:
		t.Fatalf("unexpected event %s", ev.Op)
	case <-time.After(50 * time.Millisecond):
	}
}

func Test_chatDomain_SendMessage(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	messageRepo := repository.NewMessageRepository()
	settingRepo := repository.NewSettingRepository()

	path := xcontext.Configs(ctx).File.SmiliePath
	writeSmilieFile(t, path, map[string]int{"melting": 50, "rainbow": 100})

	hub := notification.NewHub()
	defer hub.Close()

	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(path, settingRepo)
	economy := NewEconomyEngine(userRepo, settingRepo, smilies)
	d := NewChatDomain(userRepo, messageRepo, economy, hub, presence)

	session := notification.NewSession()
	hub.Register(session)

	d.handleSendMessage(ctx, session.ID(), map[string]any{
		"username": "alice",
		"text":     "hello <b>world</b> :melting:",
	})

	// The broadcast text is escaped, the visible smilies resolved.
	ev := nextEvent(t, session)
	require.Equal(t, "receive_message", ev.Op)
	msg := ev.Data.(*event.ReceiveMessageEvent)
	require.Equal(t, "alice", msg.Username)
	require.Equal(t, "hello &lt;b&gt;world&lt;/b&gt; :melting:", msg.Text)
	require.Equal(t, []string{"melting"}, msg.VisibleSmilies)
	require.Nil(t, msg.Effect)

	ev = nextEvent(t, session)
	require.Equal(t, "user_data_changed", ev.Op)

	// The stored message keeps the raw text.
	stored, err := messageRepo.GetLast(ctx, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "hello <b>world</b> :melting:", stored[0].Text)
}

func Test_chatDomain_SendMessage_SilentNoOps(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	messageRepo := repository.NewMessageRepository()
	settingRepo := repository.NewSettingRepository()

	hub := notification.NewHub()
	defer hub.Close()

	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(xcontext.Configs(ctx).File.SmiliePath, settingRepo)
	economy := NewEconomyEngine(userRepo, settingRepo, smilies)
	d := NewChatDomain(userRepo, messageRepo, economy, hub, presence)

	session := notification.NewSession()
	hub.Register(session)

	// Whitespace-only text, missing username, and an unknown sender all
	// drop the event without any response.
	d.handleSendMessage(ctx, session.ID(), map[string]any{"username": "alice", "text": "   "})
	d.handleSendMessage(ctx, session.ID(), map[string]any{"text": "hello"})
	d.handleSendMessage(ctx, session.ID(), map[string]any{"username": "nobody", "text": "hello"})
	requireNoEvent(t, session)

	stored, err := messageRepo.GetLast(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func Test_chatDomain_SendMessage_LockedSmilie(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	messageRepo := repository.NewMessageRepository()
	settingRepo := repository.NewSettingRepository()

	path := xcontext.Configs(ctx).File.SmiliePath
	writeSmilieFile(t, path, map[string]int{"melting": 50, "rainbow": 100})

	hub := notification.NewHub()
	defer hub.Close()

	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(path, settingRepo)
	economy := NewEconomyEngine(userRepo, settingRepo, smilies)
	d := NewChatDomain(userRepo, messageRepo, economy, hub, presence)

	sender := notification.NewSession()
	other := notification.NewSession()
	hub.Register(sender)
	hub.Register(other)

	d.handleSendMessage(ctx, sender.ID(), map[string]any{
		"username": "alice",
		"text":     "look at :rainbow:",
	})

	// Only the sender sees the denial, nobody sees a message.
	ev := nextEvent(t, sender)
	require.Equal(t, "smilie_error", ev.Op)
	require.Contains(t, ev.Data.(*event.SmilieErrorEvent).Message, ":rainbow:")
	requireNoEvent(t, other)

	stored, err := messageRepo.GetLast(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func Test_chatDomain_SendMessage_LockedSmilieKeepsEffect(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	messageRepo := repository.NewMessageRepository()
	settingRepo := repository.NewSettingRepository()

	path := xcontext.Configs(ctx).File.SmiliePath
	writeSmilieFile(t, path, map[string]int{"melting": 50, "rainbow": 100})

	hub := notification.NewHub()
	defer hub.Close()

	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(path, settingRepo)
	economy := NewEconomyEngine(userRepo, settingRepo, smilies)
	d := NewChatDomain(userRepo, messageRepo, economy, hub, presence)

	err := userRepo.UpdateByUsername(ctx, "alice", map[string]any{
		"effect_inventory": entity.IntMap{"fire": 2},
	})
	require.NoError(t, err)

	session := notification.NewSession()
	hub.Register(session)

	d.handleSendMessage(ctx, session.ID(), map[string]any{
		"username": "alice", "text": "burn :rainbow:", "effect": "fire",
	})

	ev := nextEvent(t, session)
	require.Equal(t, "smilie_error", ev.Op)
	requireNoEvent(t, session)

	stored, err := messageRepo.GetLast(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, stored)

	// The denial rolls back the whole send, including the effect decrement.
	user, err := userRepo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 2, user.EffectInventory["fire"])
}

func Test_chatDomain_SendMessage_ConsumesEffect(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	messageRepo := repository.NewMessageRepository()
	settingRepo := repository.NewSettingRepository()

	hub := notification.NewHub()
	defer hub.Close()

	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(xcontext.Configs(ctx).File.SmiliePath, settingRepo)
	economy := NewEconomyEngine(userRepo, settingRepo, smilies)
	d := NewChatDomain(userRepo, messageRepo, economy, hub, presence)

	err := userRepo.UpdateByUsername(ctx, "alice", map[string]any{
		"effect_inventory": entity.IntMap{"fire": 1},
	})
	require.NoError(t, err)

	session := notification.NewSession()
	hub.Register(session)

	d.handleSendMessage(ctx, session.ID(), map[string]any{
		"username": "alice", "text": "burn", "effect": "fire",
	})

	ev := nextEvent(t, session)
	require.Equal(t, "receive_message", ev.Op)
	msg := ev.Data.(*event.ReceiveMessageEvent)
	require.NotNil(t, msg.Effect)
	require.Equal(t, "fire", *msg.Effect)

	ev = nextEvent(t, session)
	require.Equal(t, "user_data_changed", ev.Op)
	data := ev.Data.(*event.UserDataChangedEvent)
	require.Equal(t, 0, data.Effects["fire"])

	// The second send with an empty inventory still goes through, only the
	// effect is gone.
	d.handleSendMessage(ctx, session.ID(), map[string]any{
		"username": "alice", "text": "burn again", "effect": "fire",
	})

	ev = nextEvent(t, session)
	require.Equal(t, "receive_message", ev.Op)
	require.Nil(t, ev.Data.(*event.ReceiveMessageEvent).Effect)
}

func Test_chatDomain_History(t *testing.T) {
	ctx := testutil.MockContext(t)
	testutil.InsertUsers(t, ctx)
	userRepo := repository.NewUserRepository()
	messageRepo := repository.NewMessageRepository()
	settingRepo := repository.NewSettingRepository()

	hub := notification.NewHub()
	defer hub.Close()

	presence := notification.NewPresenceTracker(hub, userRepo)
	smilies := NewSmilieCatalogue(xcontext.Configs(ctx).File.SmiliePath, settingRepo)
	economy := NewEconomyEngine(userRepo, settingRepo, smilies)
	d := NewChatDomain(userRepo, messageRepo, economy, hub, presence)

	for i := 1; i <= 60; i++ {
		err := messageRepo.Create(ctx, &entity.Message{
			Username: "alice",
			Text:     fmt.Sprintf("M%d", i),
			Color:    "#00ff00",
		})
		require.NoError(t, err)
	}

	session := notification.NewSession()
	hub.Register(session)

	d.sendHistory(ctx, session.ID())

	ev := nextEvent(t, session)
	require.Equal(t, "chat_history", ev.Op)

	history := ev.Data.(*event.ChatHistoryEvent)
	require.Len(t, history.Messages, 50)
	require.Equal(t, "M11", history.Messages[0].Text)
	require.Equal(t, "M60", history.Messages[49].Text)
}
