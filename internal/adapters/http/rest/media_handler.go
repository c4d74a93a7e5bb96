package rest

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/clipdeck/internal/core/services"
)

// MediaHandler serves media objects over the server's own /media endpoints.
// It backs the filesystem storage adapter; with S3 the presigned and
// CloudFront URLs bypass the server and these routes are not mounted.
type MediaHandler struct {
	media    services.MediaStorage
	maxBytes int64
	logger   *log.Logger
}

func NewMediaHandler(media services.MediaStorage, maxBytes int64, logger *log.Logger) *MediaHandler {
	return &MediaHandler{media: media, maxBytes: maxBytes, logger: logger}
}

func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/media/")
	if key == "" {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, key)
	case http.MethodPut:
		h.put(w, r, key)
	default:
		methodNotAllowed(w)
	}
}

func (h *MediaHandler) get(w http.ResponseWriter, r *http.Request, key string) {
	info, err := h.media.Head(r.Context(), key)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	if info == nil {
		writeMessage(w, http.StatusNotFound, "media not found")
		return
	}
	data, err := h.media.Load(r.Context(), key)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (h *MediaHandler) put(w http.ResponseWriter, r *http.Request, key string) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "could not read body")
		return
	}
	if err := h.media.Store(r.Context(), key, r.Header.Get("Content-Type"), data); err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
