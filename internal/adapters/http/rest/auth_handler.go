package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/clipdeck/internal/core/services"
)

const stateCookie = "clipdeck_oauth_state"

type AuthHandler struct {
	auth   *services.AuthService
	logger *log.Logger
}

func NewAuthHandler(auth *services.AuthService, logger *log.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch strings.TrimPrefix(r.URL.Path, "/api/auth/") {
	case "login":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.login(w, r)
	case "callback":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.callback(w, r)
	case "logout":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.logout(w, r)
	case "me":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.me(w, r)
	default:
		writeMessage(w, http.StatusNotFound, "not found")
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.auth.LoginURL(state), http.StatusFound)
}

func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != state {
		writeMessage(w, http.StatusBadRequest, "oauth state mismatch")
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		writeMessage(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	session, err := h.auth.CompleteLogin(r.Context(), code)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}

	// the state cookie is single use
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		sessionID = cookie.Value
	}
	if err := h.auth.Logout(r.Context(), sessionID); err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeMessage(w, http.StatusOK, "logged out")
}

type currentUserResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	Provider        string    `json:"provider"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	writeJSON(w, http.StatusOK, currentUserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		ProfileImageURL: user.ProfileImageURL,
		Provider:        user.Provider,
		CreatedAt:       user.CreatedAt,
	})
}
