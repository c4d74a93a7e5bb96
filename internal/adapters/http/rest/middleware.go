package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clipdeck/internal/core/domain"
	"github.com/clipdeck/internal/core/services"
)

// SessionCookie names the cookie that carries the session ID.
const SessionCookie = "clipdeck_session"

type Middleware func(http.Handler) http.Handler

type ctxKeyUser struct{}

func withUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser{}, user)
}

// CurrentUser returns the user resolved by WithSession, or nil for an
// anonymous request.
func CurrentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(ctxKeyUser{}).(*domain.User)
	return user
}

func viewerID(r *http.Request) string {
	if user := CurrentUser(r.Context()); user != nil {
		return user.ID
	}
	return ""
}

// requireUser writes a 401 and returns nil when the request is anonymous.
func requireUser(w http.ResponseWriter, r *http.Request) *domain.User {
	user := CurrentUser(r.Context())
	if user == nil {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
		return nil
	}
	return user
}

// WithSession resolves the session cookie into a user and puts it on the
// request context. Requests without a valid session continue anonymously;
// handlers that need a user reject those themselves.
func WithSession(auth *services.AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				if user, err := auth.UserFromSession(r.Context(), cookie.Value); err == nil && user != nil {
					r = r.WithContext(withUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func WithAccessLog(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration", time.Since(start).Truncate(time.Millisecond),
			)
		})
	}
}

// WithRecover turns a handler panic into a 500 instead of killing the
// connection.
func WithRecover(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic serving request",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
					)
					writeMessage(w, http.StatusInternalServerError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
