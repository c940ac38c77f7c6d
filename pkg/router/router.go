package router

import (
	"context"
	"net/http"

	"github.com/whazzastream/backend/config"
	"github.com/whazzastream/backend/pkg/authenticator"
	"github.com/whazzastream/backend/pkg/logger"
	"github.com/whazzastream/backend/pkg/session"
	"github.com/whazzastream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// HandlerFunc is an application endpoint. The request is bound from the query
// string on GET and from the JSON body on POST.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before (or after) a handler. It may derive a new
// context; returning an error aborts the request with that error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been written, regardless of outcome.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux

	db           *gorm.DB
	cfg          config.Configs
	logger       logger.Logger
	tokenEngine  authenticator.TokenEngine
	sessionStore *session.Store

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:          http.NewServeMux(),
		db:           db,
		cfg:          cfg,
		logger:       logger,
		tokenEngine:  authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
		sessionStore: session.NewCookieStore(cfg.Session.Name, []byte(cfg.Session.Secret)),
	}
}

// Branch returns a router sharing the same mux but with its own middleware
// chains, seeded from the current ones.
func (r *Router) Branch() *Router {
	branch := *r
	branch.befores = append([]MiddlewareFunc{}, r.befores...)
	branch.afters = append([]MiddlewareFunc{}, r.afters...)
	branch.closers = append([]CloserFunc{}, r.closers...)
	return &branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.StripPrefix(pattern, http.FileServer(http.Dir(root))))
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

// Raw registers a handler that writes to the response itself, bypassing the
// JSON envelope. Used for the websocket upgrade and reverse-proxy endpoints.
func Raw(r *Router, pattern string, handler func(ctx context.Context)) {
	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx, err := r.setup(w, req)
		if err != nil {
			xcontext.SetError(ctx, err)
			writeError(ctx, w, err)
			r.finish(ctx)
			return
		}

		handler(ctx)
		r.finish(ctx)
	})
}

func (r *Router) setup(w http.ResponseWriter, req *http.Request) (context.Context, error) {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
	ctx = xcontext.WithSessionStore(ctx, r.sessionStore)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	ctx = xcontext.WithResult(ctx)

	for _, middleware := range r.befores {
		newCtx, err := middleware(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}

func (r *Router) finish(ctx context.Context) {
	for _, closer := range r.closers {
		closer(ctx)
	}
}
