//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"net/http"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

// SpyIdentityRepository implements repositories.IdentityRepository as a configurable spy.
type SpyIdentityRepository struct {
	// --- GetUser ---
	Users      map[string]*entities.Identity // access token -> user
	GetUserErr error
	// spy: tokens that were looked up
	GetUserTokens []string

	// --- SignInWithPassword ---
	Session   *entities.Session
	SignInErr error
	// spy: credentials received
	SignInCredentials []entities.Credentials
}

var _ repositories.IdentityRepository = (*SpyIdentityRepository)(nil)

func (r *SpyIdentityRepository) GetUser(
	_ context.Context,
	_ entities.IdentitySettings,
	accessToken string,
) (*entities.Identity, error) {
	r.GetUserTokens = append(r.GetUserTokens, accessToken)
	if r.GetUserErr != nil {
		return nil, r.GetUserErr
	}
	if user, ok := r.Users[accessToken]; ok {
		return user, nil
	}
	return nil, &entities.UpstreamError{
		Reason:     entities.ErrUpstreamRejected,
		Operation:  "spy user lookup",
		StatusCode: http.StatusUnauthorized,
		Body:       `{"msg":"invalid JWT"}`,
	}
}

func (r *SpyIdentityRepository) SignInWithPassword(
	_ context.Context,
	_ entities.IdentitySettings,
	credentials entities.Credentials,
) (*entities.Session, error) {
	r.SignInCredentials = append(r.SignInCredentials, credentials)
	return r.Session, r.SignInErr
}

// UserCalls is the number of user lookups made.
func (r *SpyIdentityRepository) UserCalls() int { return len(r.GetUserTokens) }
