package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/clipdeck/internal/core/services"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	// the status line is already out; an encode failure can only be logged
	// by the caller, never reported to the client
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeServiceError maps the service sentinels onto HTTP statuses. Anything
// unrecognized is a 500; the original error goes to the log, not the client.
func writeServiceError(logger *log.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrVideoNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrEmptyComment),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrVideoTooLarge),
		errors.Is(err, services.ErrVideoTooLong),
		errors.Is(err, services.ErrNoSpeechDetected),
		errors.Is(err, services.ErrNotEducational),
		errors.Is(err, services.ErrObjectNotUploaded):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed", "err", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func parsePagination(r *http.Request) (limit, offset int) {
	// invalid values fall through as zero; the services clamp from there
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
