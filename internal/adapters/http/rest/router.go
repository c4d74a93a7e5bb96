package rest

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/clipdeck/internal/core/services"
)

// RouterConfig carries the services the HTTP surface is built from.
// ServeMedia mounts the /media endpoints that back filesystem storage.
type RouterConfig struct {
	Logger         *log.Logger
	Auth           *services.AuthService
	Feed           *services.FeedService
	Upload         *services.VideoUploadService
	Engagement     *services.EngagementService
	Social         *services.SocialService
	Media          services.MediaStorage
	ServeMedia     bool
	MaxUploadBytes int64
	RepoBackend    string
	MediaBackend   string
}

// NewRouter assembles the API behind the session, recover and access-log
// middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.Auth, cfg.Logger)
	userHandler := NewUserHandler(cfg.Social, cfg.Feed, cfg.Logger)
	videoHandler := NewVideoHandler(cfg.Upload, cfg.Feed, cfg.Engagement, cfg.MaxUploadBytes, cfg.Logger)

	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authHandler)
	mux.Handle("/api/users/", userHandler)
	mux.Handle("/api/videos", videoHandler)
	mux.Handle("/api/videos/", videoHandler)
	if cfg.ServeMedia {
		mux.Handle("/media/", NewMediaHandler(cfg.Media, cfg.MaxUploadBytes, cfg.Logger))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"repo":   cfg.RepoBackend,
			"media":  cfg.MediaBackend,
		})
	})

	var handler http.Handler = mux
	handler = WithSession(cfg.Auth)(handler)
	handler = WithRecover(cfg.Logger)(handler)
	handler = WithAccessLog(cfg.Logger)(handler)
	return handler
}
