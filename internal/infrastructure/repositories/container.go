package repositories

import (
	"net/http"

	"go.uber.org/dig"

	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
	ghRepo "github.com/rios0rios0/decapgateway/internal/infrastructure/repositories/github"
	oauthRepo "github.com/rios0rios0/decapgateway/internal/infrastructure/repositories/oauth"
	siteRepo "github.com/rios0rios0/decapgateway/internal/infrastructure/repositories/sitetokens"
	sbRepo "github.com/rios0rios0/decapgateway/internal/infrastructure/repositories/supabase"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Shared outbound client for every upstream
	if err := container.Provide(NewHTTPClient); err != nil {
		return err
	}

	if err := container.Provide(func(client *http.Client) repositories.IdentityRepository {
		return sbRepo.NewIdentityRepository(client)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(client *http.Client) repositories.GitHubRepository {
		return ghRepo.NewGitHubRepository(client)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(client *http.Client) repositories.OAuthRepository {
		return oauthRepo.NewGitHubOAuthRepository(client)
	}); err != nil {
		return err
	}
	if err := container.Provide(siteRepo.NewFileSiteTokenRepository); err != nil {
		return err
	}

	return nil
}
