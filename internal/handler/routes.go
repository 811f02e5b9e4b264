package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-explorer/internal/auth"
	"github.com/pkordes/trip-explorer/internal/handler/gen"
)

// NewRouter registers every API operation of srv on base and returns it.
// Operations the OpenAPI document marks as secured pass through
// RequireSession(guard) before their request body is read.
// A nil base gets a fresh chi router.
func NewRouter(base chi.Router, srv *Server, guard auth.Guard) http.Handler {
	strict := gen.NewStrictHandlerWithOptions(srv, nil, gen.StrictHTTPServerOptions{
		RequestErrorHandlerFunc:  writeRequestError,
		ResponseErrorHandlerFunc: writeResponseError,
	})
	return gen.HandlerWithOptions(strict, gen.ChiServerOptions{
		BaseRouter:       base,
		Middlewares:      []gen.MiddlewareFunc{RequireSession(guard)},
		ErrorHandlerFunc: writeRequestError,
	})
}

// writeRequestError renders failures to bind a request (malformed JSON,
// bad query parameter) before it reaches a handler.
func writeRequestError(w http.ResponseWriter, _ *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("payload_too_large", "request body too large"))
		return
	}
	writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
}

// writeResponseError renders any error a handler returned instead of a
// typed response. Those are unexpected by definition, so the detail is
// logged and the client only sees a generic 500.
func writeResponseError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
}
