package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/clipdeck/internal/core/services"
)

// MediaStorage keeps media objects in an S3 bucket. Reads are served through
// CloudFront when a distribution domain is configured, otherwise through
// presigned GET URLs.
type MediaStorage struct {
	client           *awss3.Client
	presigner        *awss3.PresignClient
	bucket           string
	cloudFrontDomain string
	presignTTL       time.Duration
	clock            services.Clock
}

func NewMediaStorage(client *awss3.Client, bucket, cloudFrontDomain string, presignTTL time.Duration, clock services.Clock) *MediaStorage {
	return &MediaStorage{
		client:           client,
		presigner:        awss3.NewPresignClient(client),
		bucket:           bucket,
		cloudFrontDomain: cloudFrontDomain,
		presignTTL:       presignTTL,
		clock:            clock,
	}
}

// NewClient builds an S3 client. A non-empty endpoint points the client at a
// MinIO-style store, which needs path-style addressing.
func NewClient(ctx context.Context, region, endpoint string) (*awss3.Client, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *MediaStorage) Store(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("putting s3 object %s: %w", key, err)
	}
	return nil
}

func (s *MediaStorage) Load(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting s3 object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3 object %s: %w", key, err)
	}
	return data, nil
}

func (s *MediaStorage) Head(ctx context.Context, key string) (*services.MediaInfo, error) {
	out, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("heading s3 object %s: %w", key, err)
	}

	info := &services.MediaInfo{}
	if out.ContentLength != nil {
		info.SizeBytes = *out.ContentLength
	}
	if out.ContentType != nil {
		info.ContentType = *out.ContentType
	}
	return info, nil
}

func (s *MediaStorage) PresignPut(ctx context.Context, key, contentType string) (*services.PresignedUpload, error) {
	req, err := s.presigner.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, awss3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return nil, fmt.Errorf("presigning put for %s: %w", key, err)
	}
	return &services.PresignedUpload{
		URL:       req.URL,
		ExpiresAt: s.clock.Now().Add(s.presignTTL),
	}, nil
}

func (s *MediaStorage) PublicURL(ctx context.Context, key string) (string, error) {
	if s.cloudFrontDomain != "" {
		return "https://" + s.cloudFrontDomain + "/" + key, nil
	}

	req, err := s.presigner.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("presigning get for %s: %w", key, err)
	}
	return req.URL, nil
}
