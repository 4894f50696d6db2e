package commands

import (
	"context"
	"errors"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

const githubBackendName = "github"

// Credential is the interface for resolving who a caller is and which GitHub
// token acts on their behalf.
type Credential interface {
	// ValidateSession resolves the identity behind an "Authorization: Bearer" header.
	ValidateSession(ctx context.Context, settings *entities.Settings, authorization string) (*entities.Identity, error)

	// CurrentUser is ValidateSession that additionally requires an email.
	CurrentUser(ctx context.Context, settings *entities.Settings, authorization string) (*entities.Identity, error)

	// ResolveSiteToken normalizes site and looks up its GitHub token.
	ResolveSiteToken(ctx context.Context, settings *entities.Settings, site string) (string, string, error)

	// PasswordLogin signs in at the identity provider and pairs the session
	// with the site's GitHub token.
	PasswordLogin(
		ctx context.Context,
		settings *entities.Settings,
		credentials entities.Credentials,
		site string,
	) (*entities.LoginResult, error)

	// IssueSiteToken returns the site's GitHub token to a caller holding a valid session.
	IssueSiteToken(ctx context.Context, settings *entities.Settings, authorization, site string) (string, error)

	// IdentityToken returns the CMS identity grant for a caller holding a valid session.
	IdentityToken(
		ctx context.Context,
		settings *entities.Settings,
		authorization, site string,
	) (*entities.IdentityGrant, error)
}

// CredentialCommand validates identity-provider sessions and resolves
// per-site fine-grained GitHub tokens.
type CredentialCommand struct {
	identity   repositories.IdentityRepository
	siteTokens repositories.SiteTokenRepository
}

// NewCredentialCommand creates a new CredentialCommand.
func NewCredentialCommand(
	identity repositories.IdentityRepository,
	siteTokens repositories.SiteTokenRepository,
) *CredentialCommand {
	return &CredentialCommand{
		identity:   identity,
		siteTokens: siteTokens,
	}
}

// ValidateSession succeeds only when the identity provider knows the token
// and returns a user id.
func (it *CredentialCommand) ValidateSession(
	ctx context.Context,
	settings *entities.Settings,
	authorization string,
) (*entities.Identity, error) {
	token, err := bearerToken(authorization)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := upstreamContext(ctx, settings)
	defer cancel()

	identity, err := it.identity.GetUser(callCtx, settings.Identity, token)
	switch {
	case err == nil:
	case errors.Is(err, entities.ErrUpstreamRejected), errors.Is(err, entities.ErrMalformedResponse):
		logger.Debugf("Session rejected by identity provider: %v", err)
		return nil, entities.NewGatewayError(entities.KindUnauthorized, "Invalid session token").Wrap(err)
	case errors.Is(err, entities.ErrUpstreamUnavailable):
		return nil, entities.NewGatewayError(entities.KindUpstream, "Identity provider unavailable").Wrap(err)
	default:
		return nil, err
	}

	if identity == nil || identity.ID == "" {
		return nil, entities.NewGatewayError(entities.KindUnauthorized, "Invalid session token")
	}
	return identity, nil
}

// CurrentUser backs /identity/user, where a user without email is not usable by the CMS.
func (it *CredentialCommand) CurrentUser(
	ctx context.Context,
	settings *entities.Settings,
	authorization string,
) (*entities.Identity, error) {
	identity, err := it.ValidateSession(ctx, settings, authorization)
	if err != nil {
		return nil, err
	}
	if identity.Email == "" {
		return nil, entities.NewGatewayError(entities.KindUnauthorized, "User not found")
	}
	if identity.UserMetadata == nil {
		identity.UserMetadata = map[string]any{}
	}
	return identity, nil
}

// ResolveSiteToken returns the normalized site key and its token.
func (it *CredentialCommand) ResolveSiteToken(
	ctx context.Context,
	settings *entities.Settings,
	site string,
) (string, string, error) {
	siteKey := entities.NormalizeSiteKey(site)

	token, err := it.siteTokens.Lookup(ctx, settings.SiteTokens, siteKey)
	switch {
	case err == nil && token != "":
		return siteKey, token, nil
	case err == nil, errors.Is(err, entities.ErrSiteTokenNotFound):
		logger.Warnf("No GitHub token configured for site %q", siteKey)
		return siteKey, "", entities.NewGatewayError(
			entities.KindForbidden, "No GitHub token found for site: "+siteKey,
		)
	default:
		return siteKey, "", entities.NewGatewayError(entities.KindInternal, "Site token store unavailable").Wrap(err)
	}
}

// PasswordLogin forwards credentials to the password-grant endpoint, then
// resolves the site token. Either step failing fails the login.
func (it *CredentialCommand) PasswordLogin(
	ctx context.Context,
	settings *entities.Settings,
	credentials entities.Credentials,
	site string,
) (*entities.LoginResult, error) {
	if strings.TrimSpace(credentials.Email) == "" || credentials.Password == "" {
		return nil, entities.NewGatewayError(entities.KindBadRequest, "Missing credentials")
	}

	callCtx, cancel := upstreamContext(ctx, settings)
	defer cancel()

	session, err := it.identity.SignInWithPassword(callCtx, settings.Identity, credentials)
	switch {
	case err == nil:
	case errors.Is(err, entities.ErrUpstreamRejected), errors.Is(err, entities.ErrMalformedResponse):
		return nil, entities.NewGatewayError(entities.KindUnauthorized, "Authentication failed").Wrap(err)
	case errors.Is(err, entities.ErrUpstreamUnavailable):
		return nil, entities.NewGatewayError(entities.KindUpstream, "Identity provider unavailable").Wrap(err)
	default:
		return nil, err
	}

	if session == nil || session.AccessToken == "" {
		return nil, entities.NewGatewayError(entities.KindUnauthorized, "Authentication failed")
	}

	siteKey, githubToken, err := it.ResolveSiteToken(ctx, settings, site)
	if err != nil {
		return nil, err
	}

	logger.Infof("Issued session and GitHub token for site %q", siteKey)
	return &entities.LoginResult{
		AccessToken: session.AccessToken,
		GitHubToken: githubToken,
		User:        session.User,
		Site:        siteKey,
	}, nil
}

// IssueSiteToken re-issues the site token to an already signed-in caller.
func (it *CredentialCommand) IssueSiteToken(
	ctx context.Context,
	settings *entities.Settings,
	authorization, site string,
) (string, error) {
	if _, err := it.ValidateSession(ctx, settings, authorization); err != nil {
		return "", err
	}

	_, token, err := it.ResolveSiteToken(ctx, settings, site)
	return token, err
}

// IdentityToken answers the CMS identity widget with the caller's login and
// the site's GitHub token.
func (it *CredentialCommand) IdentityToken(
	ctx context.Context,
	settings *entities.Settings,
	authorization, site string,
) (*entities.IdentityGrant, error) {
	identity, err := it.ValidateSession(ctx, settings, authorization)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(site) == "" {
		return nil, entities.NewGatewayError(entities.KindBadRequest, "Missing site parameter")
	}

	_, token, err := it.ResolveSiteToken(ctx, settings, site)
	if err != nil {
		return nil, err
	}

	return &entities.IdentityGrant{
		Login:       identity.Email,
		ID:          identity.ID,
		Token:       token,
		BackendName: githubBackendName,
	}, nil
}
