package middleware

import (
	"context"

	"github.com/whazzastream/backend/pkg/router"
	"github.com/whazzastream/backend/pkg/xcontext"
)

// SessionResponse is implemented by responses that establish a cookie
// session, currently only the login response.
type SessionResponse interface {
	SessionInfo() map[string]any
}

// HandleSaveSession persists session values exposed by the response. It
// runs as an after middleware so a failed handler never touches the cookie.
func HandleSaveSession() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		resp, ok := xcontext.Response(ctx).(SessionResponse)
		if !ok {
			return ctx, nil
		}

		store := xcontext.SessionStore(ctx)
		session, err := store.New(xcontext.HTTPRequest(ctx))
		if err != nil {
			return nil, err
		}

		for key, value := range resp.SessionInfo() {
			session.Values[key] = value
		}

		return ctx, store.Save(xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx), session)
	}
}
