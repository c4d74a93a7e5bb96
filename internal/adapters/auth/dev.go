package auth

import (
	"context"
	"net/url"

	"github.com/clipdeck/internal/core/services"
)

// DevStrategy logs everyone in as a fixed local user without leaving the
// server. Development and tests only; never configure it in production.
type DevStrategy struct {
	callbackURL string
}

func NewDevStrategy(baseURL string) *DevStrategy {
	return &DevStrategy{callbackURL: baseURL + "/api/auth/callback"}
}

// AuthURL skips the provider round trip and sends the browser straight to
// the callback with a placeholder code.
func (s *DevStrategy) AuthURL(state string) string {
	query := url.Values{
		"code":  []string{"dev-login"},
		"state": []string{state},
	}
	return s.callbackURL + "?" + query.Encode()
}

func (s *DevStrategy) Exchange(ctx context.Context, code string) (*services.Identity, error) {
	return &services.Identity{
		Email:    "dev@localhost",
		Name:     "Local Developer",
		Provider: "dev",
	}, nil
}
