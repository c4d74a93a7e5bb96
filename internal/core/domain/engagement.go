package domain

import "time"

type Like struct {
	ID        string
	UserID    string
	VideoID   string
	CreatedAt time.Time
}

type Comment struct {
	ID        string
	UserID    string
	VideoID   string
	Body      string
	CreatedAt time.Time
}

type Follow struct {
	ID         string
	FollowerID string
	FolloweeID string
	CreatedAt  time.Time
}
