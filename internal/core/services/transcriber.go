package services

import "context"

type Transcriber interface {
	Transcribe(ctx context.Context, media []byte, contentType string) (string, error)
}
