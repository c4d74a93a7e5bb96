package fs

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clipdeck/internal/core/services"
)

var ErrInvalidKey = errors.New("invalid media key")

// MediaStorage keeps media objects on the local filesystem. It stands in for
// object storage in development and tests; presigned URLs point back at the
// server's own /media endpoints.
type MediaStorage struct {
	dir        string
	baseURL    string
	presignTTL time.Duration
	clock      services.Clock
}

func NewMediaStorage(dir, baseURL string, presignTTL time.Duration, clock services.Clock) *MediaStorage {
	return &MediaStorage{
		dir:        dir,
		baseURL:    baseURL,
		presignTTL: presignTTL,
		clock:      clock,
	}
}

func (s *MediaStorage) Store(ctx context.Context, key, contentType string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating media directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing media file: %w", err)
	}
	return nil
}

func (s *MediaStorage) Load(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading media file: %w", err)
	}
	return data, nil
}

func (s *MediaStorage) Head(ctx context.Context, key string) (*services.MediaInfo, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking media file: %w", err)
	}
	return &services.MediaInfo{
		SizeBytes:   info.Size(),
		ContentType: contentTypeForKey(key),
	}, nil
}

func (s *MediaStorage) PresignPut(ctx context.Context, key, contentType string) (*services.PresignedUpload, error) {
	if _, err := s.path(key); err != nil {
		return nil, err
	}
	return &services.PresignedUpload{
		URL:       s.baseURL + "/media/" + key,
		ExpiresAt: s.clock.Now().Add(s.presignTTL),
	}, nil
}

func (s *MediaStorage) PublicURL(ctx context.Context, key string) (string, error) {
	if _, err := s.path(key); err != nil {
		return "", err
	}
	return s.baseURL + "/media/" + key, nil
}

// path rejects keys that would escape the media directory.
func (s *MediaStorage) path(key string) (string, error) {
	if key == "" || !filepath.IsLocal(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, key), nil
}

// mediaContentTypes covers the formats clients actually upload; the system
// mime table is not guaranteed to know them.
var mediaContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
}

func contentTypeForKey(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	if ct, ok := mediaContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
