package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/clipdeck/internal/core/domain"
)

var (
	ErrTitleRequired     = errors.New("title is required")
	ErrVideoTooLarge     = errors.New("video exceeds the maximum upload size")
	ErrVideoTooLong      = errors.New("video exceeds the maximum duration")
	ErrNoSpeechDetected  = errors.New("no speech detected in video")
	ErrNotEducational    = errors.New("video was not classified as educational content")
	ErrObjectNotUploaded = errors.New("object has not been uploaded")
)

type UploadPolicy struct {
	GateEnabled        bool
	MaxSizeBytes       int64
	MaxDurationSeconds float64
}

type VideoUploadRequest struct {
	UserID          string  `json:"-"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	FileName        string  `json:"fileName"`
	ContentType     string  `json:"contentType"`
	DurationSeconds float64 `json:"durationSeconds"`
	Public          bool    `json:"public"`
	ObjectKey       string  `json:"objectKey"`
	Data            []byte  `json:"-"`
}

type PresignUploadRequest struct {
	UserID      string `json:"-"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type VideoUploadService struct {
	videoRepo   VideoRepository
	media       MediaStorage
	transcriber Transcriber
	classifier  Classifier
	policy      UploadPolicy
	clock       Clock
}

func NewVideoUploadService(
	videoRepo VideoRepository,
	media MediaStorage,
	transcriber Transcriber,
	classifier Classifier,
	policy UploadPolicy,
	clock Clock,
) *VideoUploadService {
	return &VideoUploadService{
		videoRepo:   videoRepo,
		media:       media,
		transcriber: transcriber,
		classifier:  classifier,
		policy:      policy,
		clock:       clock,
	}
}

// ProcessUpload runs the upload pipeline: size and duration checks, then the
// educational gate when enabled (transcribe, classify), then media storage
// and the video row. Each step blocks; a failed step fails the whole request
// and the client may resubmit.
func (s *VideoUploadService) ProcessUpload(ctx context.Context, req VideoUploadRequest) (*domain.Video, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}

	sizeBytes := int64(len(req.Data))
	contentType := req.ContentType
	if req.ObjectKey != "" {
		// staged upload: the client already PUT the object via a presigned URL
		info, err := s.media.Head(ctx, req.ObjectKey)
		if err != nil {
			return nil, err
		}
		if info == nil {
			return nil, ErrObjectNotUploaded
		}
		sizeBytes = info.SizeBytes
		if contentType == "" {
			contentType = info.ContentType
		}
	}

	if sizeBytes > s.policy.MaxSizeBytes {
		return nil, ErrVideoTooLarge
	}
	if req.DurationSeconds > s.policy.MaxDurationSeconds {
		return nil, ErrVideoTooLong
	}

	var transcript string
	if s.policy.GateEnabled {
		media := req.Data
		if media == nil {
			loaded, err := s.media.Load(ctx, req.ObjectKey)
			if err != nil {
				return nil, err
			}
			media = loaded
		}
		text, err := s.transcriber.Transcribe(ctx, media, contentType)
		if err != nil {
			return nil, err
		}
		transcript = strings.TrimSpace(text)
		if transcript == "" {
			return nil, ErrNoSpeechDetected
		}
		verdict, err := s.classifier.Classify(ctx, transcript)
		if err != nil {
			return nil, err
		}
		if !verdict.Educational {
			return nil, ErrNotEducational
		}
	}

	now := s.clock.Now()
	video := &domain.Video{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		ContentType:     contentType,
		SizeBytes:       sizeBytes,
		DurationSeconds: req.DurationSeconds,
		Transcript:      transcript,
		Public:          req.Public,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	key := req.ObjectKey
	if key == "" {
		key = mediaKey(req.UserID, video.ID, req.FileName)
		if err := s.media.Store(ctx, key, contentType, req.Data); err != nil {
			return nil, err
		}
	}
	video.StorageKey = key

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// PresignUpload hands out a time-limited PUT URL so the client can upload
// straight to object storage, then finalize with the returned object key.
func (s *VideoUploadService) PresignUpload(ctx context.Context, req PresignUploadRequest) (string, *PresignedUpload, error) {
	if req.SizeBytes > s.policy.MaxSizeBytes {
		return "", nil, ErrVideoTooLarge
	}
	key := mediaKey(req.UserID, uuid.NewString(), req.FileName)
	upload, err := s.media.PresignPut(ctx, key, req.ContentType)
	if err != nil {
		return "", nil, err
	}
	return key, upload, nil
}

func mediaKey(userID, id, fileName string) string {
	key := fmt.Sprintf("videos/%s/%s", userID, id)
	if ext := path.Ext(fileName); ext != "" {
		key += ext
	}
	return key
}
