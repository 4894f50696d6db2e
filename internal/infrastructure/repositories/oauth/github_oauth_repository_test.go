//go:build unit

package oauth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/infrastructure/repositories/oauth"
)

func oauthSettings(tokenURL string) entities.OAuthSettings {
	return entities.OAuthSettings{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://gateway.example.com/callback",
		Scopes:       []string{"repo", "user"},
		TokenURL:     tokenURL,
	}
}

func TestGitHubOAuthRepositoryAuthCodeURL(t *testing.T) {
	t.Parallel()

	t.Run("should point at the GitHub authorize endpoint", func(t *testing.T) {
		t.Parallel()

		// given
		repo := oauth.NewGitHubOAuthRepository(http.DefaultClient)

		// when
		target := repo.AuthCodeURL(oauthSettings(""), "c3RhdGU")

		// then
		parsed, err := url.Parse(target)
		require.NoError(t, err)
		assert.Equal(t, "github.com", parsed.Host)
		assert.Equal(t, "/login/oauth/authorize", parsed.Path)
		query := parsed.Query()
		assert.Equal(t, "client-id", query.Get("client_id"))
		assert.Equal(t, "https://gateway.example.com/callback", query.Get("redirect_uri"))
		assert.Equal(t, "repo user", query.Get("scope"))
		assert.Equal(t, "c3RhdGU", query.Get("state"))
	})
}

func TestGitHubOAuthRepositoryExchange(t *testing.T) {
	t.Parallel()

	t.Run("should exchange the code for an access token", func(t *testing.T) {
		t.Parallel()

		// given
		var gotCode, gotClientID string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			gotCode = r.PostForm.Get("code")
			gotClientID = r.PostForm.Get("client_id")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"T","token_type":"bearer","scope":"repo,user"}`))
		}))
		t.Cleanup(server.Close)
		repo := oauth.NewGitHubOAuthRepository(http.DefaultClient)

		// when
		token, err := repo.Exchange(context.Background(), oauthSettings(server.URL), "code-1")

		// then
		require.NoError(t, err)
		assert.Equal(t, "T", token)
		assert.Equal(t, "code-1", gotCode)
		assert.Equal(t, "client-id", gotClientID)
	})

	t.Run("should carry the raw body of a rejected exchange", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
		}))
		t.Cleanup(server.Close)
		repo := oauth.NewGitHubOAuthRepository(http.DefaultClient)

		// when
		_, err := repo.Exchange(context.Background(), oauthSettings(server.URL), "code-1")

		// then
		require.ErrorIs(t, err, entities.ErrUpstreamRejected)
		assert.JSONEq(t, `{"error":"bad_verification_code"}`, entities.UpstreamBody(err))
	})

	t.Run("should classify an unreachable endpoint as unavailable", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.NotFoundHandler())
		unreachable := server.URL
		server.Close()
		repo := oauth.NewGitHubOAuthRepository(http.DefaultClient)

		// when
		_, err := repo.Exchange(context.Background(), oauthSettings(unreachable), "code-1")

		// then
		require.ErrorIs(t, err, entities.ErrUpstreamUnavailable)
	})
}
