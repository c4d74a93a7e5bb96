package services

import "context"

type Classification struct {
	Educational bool
	Reason      string
}

type Classifier interface {
	Classify(ctx context.Context, transcript string) (*Classification, error)
}
