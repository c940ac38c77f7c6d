package middleware

import (
	"context"

	"github.com/whazzastream/backend/pkg/router"
	"github.com/whazzastream/backend/pkg/xcontext"
)

func AllowCors() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		header := xcontext.HTTPWriter(ctx).Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		return ctx, nil
	}
}
