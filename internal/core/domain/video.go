package domain

import "time"

type Video struct {
	ID              string
	UserID          string
	Title           string
	Description     string
	StorageKey      string
	ContentType     string
	SizeBytes       int64
	DurationSeconds float64
	Transcript      string
	ViewCount       int64
	LikeCount       int64
	CommentCount    int64
	ShareCount      int64
	Public          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
