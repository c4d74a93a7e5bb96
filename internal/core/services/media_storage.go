package services

import (
	"context"
	"time"
)

type MediaInfo struct {
	SizeBytes   int64
	ContentType string
}

type PresignedUpload struct {
	URL       string
	ExpiresAt time.Time
}

type MediaStorage interface {
	Store(ctx context.Context, key, contentType string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	// Head returns nil when the key does not exist.
	Head(ctx context.Context, key string) (*MediaInfo, error)
	PresignPut(ctx context.Context, key, contentType string) (*PresignedUpload, error)
	PublicURL(ctx context.Context, key string) (string, error)
}
