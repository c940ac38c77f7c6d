package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/whazzastream/backend/pkg/errorx"
	"github.com/whazzastream/backend/pkg/xcontext"
)

type response struct {
	Code  errorx.Code `json:"code"`
	Error string      `json:"error,omitempty"`
	Data  any         `json:"data,omitempty"`
}

func writeData(ctx context.Context, w http.ResponseWriter, data any) {
	writeJSON(ctx, w, response{Code: 0, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	writeJSON(ctx, w, response{Code: errx.Code, Error: errx.Message})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, resp response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}
