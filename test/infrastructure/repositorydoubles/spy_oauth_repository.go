//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"net/url"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

// SpyOAuthRepository implements repositories.OAuthRepository as a configurable spy.
type SpyOAuthRepository struct {
	// --- AuthCodeURL ---
	AuthorizeURL string
	// spy: states encoded into redirect URLs
	States []string

	// --- Exchange ---
	Token       string
	ExchangeErr error
	// spy: codes exchanged
	ExchangeCodes []string
}

var _ repositories.OAuthRepository = (*SpyOAuthRepository)(nil)

func (r *SpyOAuthRepository) AuthCodeURL(settings entities.OAuthSettings, state string) string {
	r.States = append(r.States, state)
	base := r.AuthorizeURL
	if base == "" {
		base = "https://github.com/login/oauth/authorize"
	}
	query := url.Values{}
	query.Set("client_id", settings.ClientID)
	query.Set("state", state)
	return base + "?" + query.Encode()
}

func (r *SpyOAuthRepository) Exchange(
	_ context.Context,
	_ entities.OAuthSettings,
	code string,
) (string, error) {
	r.ExchangeCodes = append(r.ExchangeCodes, code)
	return r.Token, r.ExchangeErr
}
