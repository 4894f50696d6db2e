package repositories

import (
	"context"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

// IdentityRepository abstracts the identity provider (Supabase auth API).
// Failures are returned as *entities.UpstreamError whose Reason tells a
// rejected call from a malformed or unreachable one.
type IdentityRepository interface {
	// GetUser resolves the user owning accessToken.
	GetUser(ctx context.Context, settings entities.IdentitySettings, accessToken string) (*entities.Identity, error)

	// SignInWithPassword performs a password-grant login.
	SignInWithPassword(
		ctx context.Context,
		settings entities.IdentitySettings,
		credentials entities.Credentials,
	) (*entities.Session, error)
}
