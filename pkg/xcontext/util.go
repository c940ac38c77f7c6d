package xcontext

import "context"

type resultHolder struct {
	err      error
	response any
}

// WithResult must be attached by the router before any middleware or handler
// runs, so that SetError and SetResponse mutate a holder visible to closers.
func WithResult(ctx context.Context) context.Context {
	return context.WithValue(ctx, errorKey{}, &resultHolder{})
}

func SetError(ctx context.Context, err error) {
	if holder, ok := ctx.Value(errorKey{}).(*resultHolder); ok {
		holder.err = err
	}
}

func Error(ctx context.Context) error {
	if holder, ok := ctx.Value(errorKey{}).(*resultHolder); ok {
		return holder.err
	}

	return nil
}

func SetResponse(ctx context.Context, resp any) {
	if holder, ok := ctx.Value(errorKey{}).(*resultHolder); ok {
		holder.response = resp
	}
}

func Response(ctx context.Context) any {
	if holder, ok := ctx.Value(errorKey{}).(*resultHolder); ok {
		return holder.response
	}

	return nil
}
