package middleware

import (
	"context"

	"github.com/whazzastream/backend/pkg/router"
	"github.com/whazzastream/backend/pkg/xcontext"
)

// Logger records every finished request with its outcome.
func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		if err := xcontext.Error(ctx); err != nil {
			xcontext.Logger(ctx).Warnf("%s %s failed: %v", req.Method, req.URL.Path, err)
			return
		}

		xcontext.Logger(ctx).Debugf("%s %s", req.Method, req.URL.Path)
	}
}
