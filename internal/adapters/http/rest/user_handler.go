package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clipdeck/internal/core/services"
)

type UserHandler struct {
	social *services.SocialService
	feed   *services.FeedService
	logger *log.Logger
}

func NewUserHandler(social *services.SocialService, feed *services.FeedService, logger *log.Logger) *UserHandler {
	return &UserHandler{social: social, feed: feed, logger: logger}
}

func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, action, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/api/users/"), "/")
	if userID == "" {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	switch action {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.profile(w, r, userID)
	case "videos":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.videos(w, r, userID)
	case "follow":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.follow(w, r, userID)
	default:
		writeMessage(w, http.StatusNotFound, "not found")
	}
}

type profileResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	FollowerCount   int64     `json:"followerCount"`
	FollowingCount  int64     `json:"followingCount"`
	VideoCount      int64     `json:"videoCount"`
	FollowedByMe    bool      `json:"followedByMe"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (h *UserHandler) profile(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := h.social.Profile(r.Context(), viewerID(r), userID)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		ID:              profile.User.ID,
		Name:            profile.User.Name,
		ProfileImageURL: profile.User.ProfileImageURL,
		FollowerCount:   profile.FollowerCount,
		FollowingCount:  profile.FollowingCount,
		VideoCount:      profile.VideoCount,
		FollowedByMe:    profile.FollowedByMe,
		CreatedAt:       profile.User.CreatedAt,
	})
}

func (h *UserHandler) videos(w http.ResponseWriter, r *http.Request, userID string) {
	limit, offset := parsePagination(r)
	items, err := h.feed.UserVideos(r.Context(), viewerID(r), userID, limit, offset)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedResponse(items))
}

func (h *UserHandler) follow(w http.ResponseWriter, r *http.Request, userID string) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	result, err := h.social.ToggleFollow(r.Context(), user.ID, userID)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
