package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/clipdeck/internal/core/services"
)

// oidcStrategy is the shared OAuth2 code flow: redirect to the provider,
// exchange the code, read the userinfo endpoint. Google and Replit differ
// only in endpoints and claim names.
type oidcStrategy struct {
	provider    string
	config      *oauth2.Config
	userInfoURL string
}

func (s *oidcStrategy) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

func (s *oidcStrategy) Exchange(ctx context.Context, code string) (*services.Identity, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging %s code: %w", s.provider, err)
	}

	client := s.config.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s userinfo: %w", s.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s userinfo returned status %d", s.provider, resp.StatusCode)
	}

	// claim names differ between providers; decode the superset
	var info struct {
		Email           string `json:"email"`
		Name            string `json:"name"`
		Username        string `json:"username"`
		Picture         string `json:"picture"`
		ProfileImageURL string `json:"profile_image_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding %s userinfo: %w", s.provider, err)
	}

	name := info.Name
	if name == "" {
		name = info.Username
	}
	image := info.Picture
	if image == "" {
		image = info.ProfileImageURL
	}

	return &services.Identity{
		Email:           info.Email,
		Name:            name,
		ProfileImageURL: image,
		Provider:        s.provider,
	}, nil
}
