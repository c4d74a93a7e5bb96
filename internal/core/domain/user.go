package domain

import "time"

type User struct {
	ID              string
	Email           string
	Name            string
	ProfileImageURL string
	Provider        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
