package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkordes/trip-explorer/internal/domain"
	"github.com/pkordes/trip-explorer/internal/handler/gen"
)

// Client-facing messages. The duplicate and acknowledgement texts are shown
// verbatim by the web client.
const (
	msgUnauthorized = "Unauthorized"
	msgDuplicate    = "Trip already saved."
	msgNotesUpdated = "Notes updated."
	msgTripDeleted  = "Trip deleted."
)

func errorBody(code, message string) gen.ErrorResponse {
	return gen.ErrorResponse{Error: gen.ErrorDetail{Code: code, Message: message}}
}

func unauthorizedBody() gen.ErrorResponse {
	return errorBody("unauthorized", msgUnauthorized)
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "trip not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) gen.ErrorResponse {
	return errorBody("not_found", message)
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) gen.ErrorResponse {
	return errorBody("validation_error", unwrapMessage(err))
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) gen.ErrorResponse {
	return errorBody("validation_error", message)
}

// unwrapMessage extracts the human-readable part from a wrapped validation error.
// e.g. "service.TripService.Create: validation error: name is required" becomes "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

// writeJSON is used outside the strict handlers, where no typed response
// object exists (middleware and binding errors).
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
