package repositories

import (
	"context"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

// OAuthRepository abstracts the GitHub OAuth web application flow.
type OAuthRepository interface {
	// AuthCodeURL builds the authorize URL carrying state.
	AuthCodeURL(settings entities.OAuthSettings, state string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, settings entities.OAuthSettings, code string) (string, error)
}
