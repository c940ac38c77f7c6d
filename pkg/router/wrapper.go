package router

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"

	"github.com/whazzastream/backend/pkg/errorx"
	"github.com/whazzastream/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx, err := r.setup(w, req)
		if err != nil {
			xcontext.SetError(ctx, err)
			writeError(ctx, w, err)
			r.finish(ctx)
			return
		}

		var request Request
		switch method {
		case http.MethodGet:
			err = bindQuery(req, &request)
		case http.MethodPost:
			err = json.NewDecoder(req.Body).Decode(&request)
		}
		if err != nil {
			err = errorx.New(errorx.BadRequest, "Cannot bind the request")
			xcontext.SetError(ctx, err)
			writeError(ctx, w, err)
			r.finish(ctx)
			return
		}

		resp, err := handler(ctx, &request)
		if err != nil {
			xcontext.SetError(ctx, err)
			writeError(ctx, w, err)
			r.finish(ctx)
			return
		}

		xcontext.SetResponse(ctx, resp)
		runAfters(ctx, r)
		writeData(ctx, w, resp)
		r.finish(ctx)
	}
}

func runAfters(ctx context.Context, r *Router) {
	for _, middleware := range r.afters {
		if _, err := middleware(ctx); err != nil {
			xcontext.Logger(ctx).Errorf("After middleware failed: %v", err)
		}
	}
}

// bindQuery fills the request struct from URL query parameters, matching
// fields by their json tag. Only flat string, int, and bool fields are
// supported, which covers every GET request of this service.
func bindQuery(req *http.Request, out any) error {
	v := reflect.ValueOf(out).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("json")
		if name == "" || name == "-" {
			continue
		}

		queryVal := req.URL.Query().Get(name)
		if queryVal == "" {
			continue
		}

		switch v.Field(i).Kind() {
		case reflect.String:
			v.Field(i).SetString(queryVal)

		case reflect.Int, reflect.Int64:
			parsed, err := strconv.ParseInt(queryVal, 10, 64)
			if err != nil {
				return err
			}
			v.Field(i).SetInt(parsed)

		case reflect.Bool:
			parsed, err := strconv.ParseBool(queryVal)
			if err != nil {
				return err
			}
			v.Field(i).SetBool(parsed)
		}
	}

	return nil
}
