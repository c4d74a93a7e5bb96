package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clipdeck/internal/core/services"
)

type VideoHandler struct {
	upload         *services.VideoUploadService
	feed           *services.FeedService
	engagement     *services.EngagementService
	maxUploadBytes int64
	logger         *log.Logger
}

func NewVideoHandler(
	upload *services.VideoUploadService,
	feed *services.FeedService,
	engagement *services.EngagementService,
	maxUploadBytes int64,
	logger *log.Logger,
) *VideoHandler {
	return &VideoHandler{
		upload:         upload,
		feed:           feed,
		engagement:     engagement,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (h *VideoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/videos"), "/")
	videoID, action, _ := strings.Cut(rest, "/")

	switch {
	case rest == "":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			methodNotAllowed(w)
		}
	case rest == "presign-upload":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.presign(w, r)
	case action == "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.get(w, r, videoID)
	case action == "comments":
		switch r.Method {
		case http.MethodGet:
			h.listComments(w, r, videoID)
		case http.MethodPost:
			h.createComment(w, r, videoID)
		default:
			methodNotAllowed(w)
		}
	case action == "like":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.like(w, r, videoID)
	case action == "view":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.view(w, r, videoID)
	case action == "share":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.share(w, r, videoID)
	default:
		writeMessage(w, http.StatusNotFound, "not found")
	}
}

type videoResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	MediaURL        string    `json:"mediaUrl"`
	ContentType     string    `json:"contentType,omitempty"`
	SizeBytes       int64     `json:"sizeBytes"`
	DurationSeconds float64   `json:"durationSeconds"`
	Transcript      string    `json:"transcript,omitempty"`
	ViewCount       int64     `json:"viewCount"`
	LikeCount       int64     `json:"likeCount"`
	CommentCount    int64     `json:"commentCount"`
	ShareCount      int64     `json:"shareCount"`
	Public          bool      `json:"public"`
	LikedByMe       bool      `json:"likedByMe"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toVideoResponse(item *services.FeedItem) videoResponse {
	video := item.Video
	return videoResponse{
		ID:              video.ID,
		UserID:          video.UserID,
		Title:           video.Title,
		Description:     video.Description,
		MediaURL:        item.MediaURL,
		ContentType:     video.ContentType,
		SizeBytes:       video.SizeBytes,
		DurationSeconds: video.DurationSeconds,
		Transcript:      video.Transcript,
		ViewCount:       video.ViewCount,
		LikeCount:       video.LikeCount,
		CommentCount:    video.CommentCount,
		ShareCount:      video.ShareCount,
		Public:          video.Public,
		LikedByMe:       item.LikedByMe,
		CreatedAt:       video.CreatedAt,
	}
}

func feedResponse(items []*services.FeedItem) []videoResponse {
	responses := make([]videoResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toVideoResponse(item))
	}
	return responses
}

func (h *VideoHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	items, err := h.feed.Feed(r.Context(), viewerID(r), limit, offset)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedResponse(items))
}

func (h *VideoHandler) get(w http.ResponseWriter, r *http.Request, videoID string) {
	item, err := h.feed.Get(r.Context(), viewerID(r), videoID)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVideoResponse(item))
}

func (h *VideoHandler) create(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req services.VideoUploadRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		parsed, ok := h.parseMultipartUpload(w, r)
		if !ok {
			return
		}
		req = parsed
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ObjectKey == "" {
			writeMessage(w, http.StatusBadRequest, "objectKey is required")
			return
		}
	}
	req.UserID = user.ID

	video, err := h.upload.ProcessUpload(r.Context(), req)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}

	// reread through the feed service so the response carries the media URL
	item, err := h.feed.Get(r.Context(), user.ID, video.ID)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVideoResponse(item))
}

func (h *VideoHandler) parseMultipartUpload(w http.ResponseWriter, r *http.Request) (services.VideoUploadRequest, bool) {
	// generous cap over the upload policy; the exact size check is the
	// service's job
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "could not parse multipart form")
		return services.VideoUploadRequest{}, false
	}

	req := services.VideoUploadRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	req.Public, _ = strconv.ParseBool(r.FormValue("public"))
	if value := r.FormValue("durationSeconds"); value != "" {
		duration, err := strconv.ParseFloat(value, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid durationSeconds")
			return services.VideoUploadRequest{}, false
		}
		req.DurationSeconds = duration
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "missing file")
		return services.VideoUploadRequest{}, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "could not read file")
		return services.VideoUploadRequest{}, false
	}
	req.Data = data
	req.FileName = header.Filename
	req.ContentType = header.Header.Get("Content-Type")
	return req, true
}

type presignResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *VideoHandler) presign(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}

	var req services.PresignUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = user.ID

	key, upload, err := h.upload.PresignUpload(r.Context(), req)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, presignResponse{
		UploadURL: upload.URL,
		ObjectKey: key,
		ExpiresAt: upload.ExpiresAt,
	})
}

type commentResponse struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	UserID    string    `json:"userId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *VideoHandler) listComments(w http.ResponseWriter, r *http.Request, videoID string) {
	limit, offset := parsePagination(r)
	comments, err := h.engagement.Comments(r.Context(), videoID, limit, offset)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	responses := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, commentResponse{
			ID:        comment.ID,
			VideoID:   comment.VideoID,
			UserID:    comment.UserID,
			Body:      comment.Body,
			CreatedAt: comment.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *VideoHandler) createComment(w http.ResponseWriter, r *http.Request, videoID string) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	comment, err := h.engagement.AddComment(r.Context(), user.ID, videoID, req.Body)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		UserID:    comment.UserID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	})
}

func (h *VideoHandler) like(w http.ResponseWriter, r *http.Request, videoID string) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	result, err := h.engagement.ToggleLike(r.Context(), user.ID, videoID)
	if err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *VideoHandler) view(w http.ResponseWriter, r *http.Request, videoID string) {
	if err := h.engagement.RecordView(r.Context(), videoID); err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "view recorded")
}

func (h *VideoHandler) share(w http.ResponseWriter, r *http.Request, videoID string) {
	if err := h.engagement.RecordShare(r.Context(), videoID); err != nil {
		writeServiceError(h.logger, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "share recorded")
}
