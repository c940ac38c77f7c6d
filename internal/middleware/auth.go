package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/whazzastream/backend/internal/model"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/errorx"
	"github.com/whazzastream/backend/pkg/router"
	"github.com/whazzastream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// AuthVerifier resolves the requesting user from the access token, falling
// back to the cookie session. The resolved username lands in the context;
// an optional verifier lets anonymous requests through instead of failing.
type AuthVerifier struct {
	optional bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithOptional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		username, err := a.resolve(ctx)
		if err != nil {
			if a.optional {
				return ctx, nil
			}

			return nil, err
		}

		return xcontext.WithRequestUsername(ctx, username), nil
	}
}

func (a *AuthVerifier) resolve(ctx context.Context) (string, error) {
	req := xcontext.HTTPRequest(ctx)

	if token := extractToken(ctx, req); token != "" {
		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			return "", errorx.New(errorx.TokenExpired, "Invalid or expired access token")
		}

		return accessToken.Username, nil
	}

	session, err := xcontext.SessionStore(ctx).Get(req)
	if err == nil {
		if username, ok := session.Values["username"].(string); ok && username != "" {
			return username, nil
		}
	}

	return "", errorx.New(errorx.Unauthenticated, "You need to authenticate first")
}

func extractToken(ctx context.Context, req *http.Request) string {
	if auth := req.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}

// NewOnlyAdmin gates a router branch to admin accounts. The flag is read
// from the database on every request, so demoting an admin takes effect
// immediately rather than at token expiry.
func NewOnlyAdmin(userRepo repository.UserRepository) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		username := xcontext.RequestUsername(ctx)
		if username == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate first")
		}

		user, err := userRepo.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate first")
			}

			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		if !user.IsAdmin {
			return nil, errorx.New(errorx.PermissionDenied, "Only admins can do this")
		}

		return ctx, nil
	}
}
