package auth

import "golang.org/x/oauth2"

const (
	replitAuthURL     = "https://replit.com/oidc/auth"
	replitTokenURL    = "https://replit.com/oidc/token"
	replitUserInfoURL = "https://replit.com/oidc/userinfo"
)

// NewReplitStrategy wires Replit's OIDC login.
func NewReplitStrategy(clientID, clientSecret, redirectURL string) *oidcStrategy {
	return &oidcStrategy{
		provider: "replit",
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  replitAuthURL,
				TokenURL: replitTokenURL,
			},
		},
		userInfoURL: replitUserInfoURL,
	}
}
