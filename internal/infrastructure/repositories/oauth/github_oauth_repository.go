package oauth

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

const operation = "github oauth code exchange"

// GitHubOAuthRepository implements repositories.OAuthRepository with the
// golang.org/x/oauth2 web application flow.
type GitHubOAuthRepository struct {
	httpClient *http.Client
}

// NewGitHubOAuthRepository creates a new GitHub OAuth repository.
func NewGitHubOAuthRepository(httpClient *http.Client) repositories.OAuthRepository {
	return &GitHubOAuthRepository{httpClient: httpClient}
}

// AuthCodeURL builds the github.com/login/oauth/authorize redirect.
func (r *GitHubOAuthRepository) AuthCodeURL(settings entities.OAuthSettings, state string) string {
	return config(settings).AuthCodeURL(state)
}

// Exchange posts the code to the token endpoint. A response without an access
// token is reported as rejected, carrying GitHub's raw error body.
func (r *GitHubOAuthRepository) Exchange(
	ctx context.Context,
	settings entities.OAuthSettings,
	code string,
) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)

	token, err := config(settings).Exchange(ctx, code)
	if err != nil {
		return "", classify(err)
	}
	if token.AccessToken == "" {
		return "", &entities.UpstreamError{Reason: entities.ErrUpstreamRejected, Operation: operation}
	}
	return token.AccessToken, nil
}

func config(settings entities.OAuthSettings) *oauth2.Config {
	endpoint := githuboauth.Endpoint
	if settings.AuthorizeURL != "" {
		endpoint.AuthURL = settings.AuthorizeURL
	}
	if settings.TokenURL != "" {
		endpoint.TokenURL = settings.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	return &oauth2.Config{
		ClientID:     settings.ClientID,
		ClientSecret: settings.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  settings.RedirectURL,
		Scopes:       settings.Scopes,
	}
}

func classify(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		upstreamErr := &entities.UpstreamError{
			Reason:    entities.ErrUpstreamRejected,
			Operation: operation,
			Body:      string(retrieveErr.Body),
			Cause:     err,
		}
		if retrieveErr.Response != nil {
			upstreamErr.StatusCode = retrieveErr.Response.StatusCode
		}
		return upstreamErr
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &entities.UpstreamError{Reason: entities.ErrUpstreamUnavailable, Operation: operation, Cause: err}
	}

	// e.g. "server response missing access_token"
	return &entities.UpstreamError{Reason: entities.ErrUpstreamRejected, Operation: operation, Cause: err}
}
