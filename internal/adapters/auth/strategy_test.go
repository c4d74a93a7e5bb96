package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func TestOIDCExchange_FetchesIdentity(t *testing.T) {
	var gotGrant, gotCode, gotBearer string

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			r.ParseForm()
			gotGrant = r.FormValue("grant_type")
			gotCode = r.FormValue("code")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`)
		case "/userinfo":
			gotBearer = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"email":"ada@example.com","name":"Ada","picture":"https://img.example/ada.png"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer provider.Close()

	strategy := &oidcStrategy{
		provider: "google",
		config: &oauth2.Config{
			ClientID:     "cid",
			ClientSecret: "secret",
			RedirectURL:  "http://localhost:8080/api/auth/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:  provider.URL + "/auth",
				TokenURL: provider.URL + "/token",
			},
		},
		userInfoURL: provider.URL + "/userinfo",
	}

	identity, err := strategy.Exchange(context.Background(), "code-1")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if identity.Email != "ada@example.com" || identity.Name != "Ada" {
		t.Errorf("unexpected identity: %+v", identity)
	}
	if identity.ProfileImageURL != "https://img.example/ada.png" {
		t.Errorf("picture claim should map to the profile image, got %q", identity.ProfileImageURL)
	}
	if identity.Provider != "google" {
		t.Errorf("provider: got %q", identity.Provider)
	}

	if gotGrant != "authorization_code" || gotCode != "code-1" {
		t.Errorf("token request: grant=%q code=%q", gotGrant, gotCode)
	}
	if !strings.HasPrefix(gotBearer, "Bearer ") {
		t.Errorf("userinfo should be called with the bearer token, got %q", gotBearer)
	}
}

func TestOIDCExchange_ReplitClaimNames(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"at-2","token_type":"Bearer"}`)
		case "/userinfo":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"email":"repl@example.com","username":"replkid","profile_image_url":"https://img.example/r.png"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer provider.Close()

	strategy := &oidcStrategy{
		provider: "replit",
		config: &oauth2.Config{
			ClientID: "cid",
			Endpoint: oauth2.Endpoint{
				AuthURL:  provider.URL + "/auth",
				TokenURL: provider.URL + "/token",
			},
		},
		userInfoURL: provider.URL + "/userinfo",
	}

	identity, err := strategy.Exchange(context.Background(), "code-2")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if identity.Name != "replkid" {
		t.Errorf("username claim should back-fill the name, got %q", identity.Name)
	}
	if identity.ProfileImageURL != "https://img.example/r.png" {
		t.Errorf("profile_image_url claim should map, got %q", identity.ProfileImageURL)
	}
}

func TestOIDCExchange_SurfacesUserInfoFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"at-3","token_type":"Bearer"}`)
			return
		}
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer provider.Close()

	strategy := &oidcStrategy{
		provider: "google",
		config: &oauth2.Config{
			Endpoint: oauth2.Endpoint{TokenURL: provider.URL + "/token"},
		},
		userInfoURL: provider.URL + "/userinfo",
	}

	if _, err := strategy.Exchange(context.Background(), "code-3"); err == nil {
		t.Error("userinfo failure should surface as an error")
	}
}

func TestAuthURL_CarriesState(t *testing.T) {
	google := NewGoogleStrategy("cid", "secret", "http://localhost:8080/api/auth/callback")
	url := google.AuthURL("state-123")
	if !strings.Contains(url, "state=state-123") || !strings.Contains(url, "client_id=cid") {
		t.Errorf("google auth URL missing parameters: %q", url)
	}

	replit := NewReplitStrategy("cid", "secret", "http://localhost:8080/api/auth/callback")
	if !strings.Contains(replit.AuthURL("s"), "replit.com/oidc/auth") {
		t.Errorf("replit auth URL should target the replit OIDC endpoint: %q", replit.AuthURL("s"))
	}
}

func TestDevStrategy_LogsInImmediately(t *testing.T) {
	dev := NewDevStrategy("http://localhost:8080")

	url := dev.AuthURL("state-1")
	if !strings.HasPrefix(url, "http://localhost:8080/api/auth/callback?") {
		t.Errorf("dev auth URL should point at the callback, got %q", url)
	}
	if !strings.Contains(url, "state=state-1") {
		t.Errorf("dev auth URL should carry the state, got %q", url)
	}

	identity, err := dev.Exchange(context.Background(), "dev-login")
	if err != nil {
		t.Fatalf("dev exchange failed: %v", err)
	}
	if identity.Email == "" || identity.Provider != "dev" {
		t.Errorf("dev identity incomplete: %+v", identity)
	}
}
