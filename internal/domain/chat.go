package domain

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
	"github.com/whazzastream/backend/internal/domain/notification"
	"github.com/whazzastream/backend/internal/domain/notification/event"
	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/internal/model"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/ws"
	"github.com/whazzastream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const historyLimit = 50

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type ChatDomain interface {
	ServeChannel(ctx context.Context)
}

type chatDomain struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	economy     *EconomyEngine
	hub         *notification.Hub
	presence    *notification.PresenceTracker
}

func NewChatDomain(
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	economy *EconomyEngine,
	hub *notification.Hub,
	presence *notification.PresenceTracker,
) *chatDomain {
	return &chatDomain{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		economy:     economy,
		hub:         hub,
		presence:    presence,
	}
}

// envelope is the wire format of inbound events: an op name and a payload.
type envelope struct {
	Op   string         `json:"o"`
	Data map[string]any `json:"d"`
}

// ServeChannel upgrades the request and runs the connection until the peer
// goes away. The connection walks Unidentified -> Announced -> Disconnected;
// events without a username are silently ignored.
func (d *chatDomain) ServeChannel(ctx context.Context) {
	w := xcontext.HTTPWriter(ctx)
	conn, err := upgrader.Upgrade(w, xcontext.HTTPRequest(ctx), nil)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot upgrade connection: %v", err)
		return
	}

	client := ws.NewClient(conn)
	session := notification.NewSession()
	d.hub.Register(session)

	go func() {
		for ev := range session.C {
			b, err := json.Marshal(ev)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot marshal event: %v", err)
				continue
			}

			if err := client.Write(b); err != nil {
				return
			}
		}
	}()

	d.sendHistory(ctx, session.ID())

	for raw := range client.R {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot parse inbound event: %v", err)
			continue
		}

		switch env.Op {
		case "send_message":
			d.handleSendMessage(ctx, session.ID(), env.Data)
		case "user_online":
			d.handleUserOnline(ctx, session.ID(), env.Data)
		default:
			xcontext.Logger(ctx).Debugf("Unknown event op %s", env.Op)
		}
	}

	d.presence.MarkOffline(ctx, session.ID())
	d.hub.Unregister(session)
	client.Close()
}

// sendHistory replays the most recent messages, oldest first, to the new
// connection only.
func (d *chatDomain) sendHistory(ctx context.Context, connID string) {
	records, err := d.messageRepo.GetLast(ctx, historyLimit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load chat history: %v", err)
		return
	}

	messages := make([]model.ChatMessage, 0, len(records))
	for _, m := range records {
		messages = append(messages, model.ChatMessage{
			ID:       m.ID,
			Username: m.Username,
			Color:    m.Color,
			Font:     m.Font,
			Effect:   m.Effect,
			Text:     html.EscapeString(m.Text),
		})
	}

	d.hub.Emit(event.New(
		&event.ChatHistoryEvent{Messages: messages},
		&event.Metadata{To: connID},
	))
}

func (d *chatDomain) handleUserOnline(ctx context.Context, connID string, data map[string]any) {
	var req model.UserOnlineEvent
	if err := mapstructure.Decode(data, &req); err != nil || req.Username == "" {
		return
	}

	d.presence.MarkOnline(ctx, connID, req.Username)
}

// handleSendMessage runs the full send pipeline: validate, authorize against
// the economy, persist, then fan out. The economy check and the message
// insert share one transaction, so a denial has no side effects at all.
func (d *chatDomain) handleSendMessage(ctx context.Context, connID string, data map[string]any) {
	var req model.SendMessageEvent
	if err := mapstructure.Decode(data, &req); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot decode send_message payload: %v", err)
		return
	}

	text := strings.TrimSpace(req.Text)
	if req.Username == "" || text == "" {
		return
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get sender: %v", err)
		}
		return
	}

	auth, err := d.economy.AuthorizeMessage(ctx, user, req.Effect, text)
	if err != nil {
		var locked SmilieLockedError
		if errors.As(err, &locked) {
			d.hub.Emit(event.New(
				&event.SmilieErrorEvent{
					Message: "You have not unlocked the smilie :" + locked.Tag + ": yet.",
				},
				&event.Metadata{To: connID},
			))
			return
		}

		xcontext.Logger(ctx).Errorf("Cannot authorize message: %v", err)
		return
	}

	msg := &entity.Message{
		Username: user.Username,
		Text:     text,
		Color:    user.Color,
		Font:     user.Font,
		Effect:   auth.Effect,
	}
	if err := d.messageRepo.Create(ctx, msg); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot persist message: %v", err)
		return
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.hub.Emit(event.New(
		(*event.ReceiveMessageEvent)(&model.ChatMessage{
			ID:             msg.ID,
			Username:       user.Username,
			Color:          user.Color,
			Font:           user.Font,
			Effect:         auth.Effect,
			Text:           html.EscapeString(text),
			VisibleSmilies: auth.VisibleSmilies,
		}),
		nil,
	))

	points := user.Points
	d.hub.Emit(event.New(
		(*event.UserDataChangedEvent)(&model.UserData{
			Username: user.Username,
			Points:   &points,
			Color:    user.Color,
			Effects:  user.EffectInventory,
		}),
		nil,
	))
}
