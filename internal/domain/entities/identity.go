package entities

import "encoding/json"

// Identity is an authenticated identity-provider user.
type Identity struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// Session is the result of a password-grant login at the identity provider.
type Session struct {
	AccessToken string          `json:"access_token"`
	User        json.RawMessage `json:"user"`
}

// Credentials are the email/password pair posted to the login endpoints.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult composes an identity-provider session with the site's GitHub token.
type LoginResult struct {
	AccessToken string          `json:"access_token"`
	GitHubToken string          `json:"github_token"`
	User        json.RawMessage `json:"user,omitempty"`
	Site        string          `json:"site"`
}

// IdentityGrant is returned by /identity/token to the CMS.
type IdentityGrant struct {
	Login       string `json:"login"`
	ID          string `json:"id"`
	Token       string `json:"token"`
	BackendName string `json:"backendName"`
}

// OAuthGrant is the outcome of a completed GitHub OAuth handshake.
type OAuthGrant struct {
	Origin string
	Token  string
}
