package services

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrVideoNotFound = errors.New("video not found")
	ErrUnauthorized  = errors.New("authentication required")
)
