//go:build unit

package commands_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/decapgateway/internal/domain/commands"
	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/decapgateway/test/infrastructure/repositorydoubles"
)

func TestProxyCommandForward(t *testing.T) {
	t.Parallel()

	settings := entitybuilders.NewSettingsBuilder().BuildSettings()

	t.Run("should return a non-success upstream answer verbatim", func(t *testing.T) {
		t.Parallel()

		// given
		githubSpy := &doubles.SpyGitHubRepository{
			ForwardResponse: &entities.ProxyResponse{
				StatusCode:  http.StatusUnprocessableEntity,
				ContentType: "application/json",
				Body:        []byte(`{"message":"bad"}`),
			},
		}
		cmd := commands.NewProxyCommand(githubSpy)

		// when
		response, err := cmd.Forward(context.Background(), settings, "site-token", entities.ProxyRequest{
			Method: http.MethodPost,
			Path:   "/repos/acme/website/git/refs",
			Body:   []byte(`{"ref":"x"}`),
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, response.StatusCode)
		assert.Equal(t, `{"message":"bad"}`, string(response.Body))
		require.Len(t, githubSpy.ForwardRequests, 1)
		assert.Equal(t, "repos/acme/website/git/refs", githubSpy.ForwardRequests[0].Path)
		assert.Equal(t, `{"ref":"x"}`, string(githubSpy.ForwardRequests[0].Body))
		assert.Equal(t, []string{"site-token"}, githubSpy.ForwardTokens)
	})

	t.Run("should drop the body of a GET request", func(t *testing.T) {
		t.Parallel()

		// given
		githubSpy := &doubles.SpyGitHubRepository{}
		cmd := commands.NewProxyCommand(githubSpy)

		// when
		_, err := cmd.Forward(context.Background(), settings, "site-token", entities.ProxyRequest{
			Path: "user",
			Body: []byte("ignored"),
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, githubSpy.ForwardRequests[0].Method)
		assert.Nil(t, githubSpy.ForwardRequests[0].Body)
	})

	t.Run("should report a call that never completed as upstream failure", func(t *testing.T) {
		t.Parallel()

		// given
		githubSpy := &doubles.SpyGitHubRepository{
			ForwardErr: &entities.UpstreamError{Reason: entities.ErrUpstreamUnavailable, Operation: "github passthrough"},
		}
		cmd := commands.NewProxyCommand(githubSpy)

		// when
		_, err := cmd.Forward(context.Background(), settings, "site-token", entities.ProxyRequest{Path: "user"})

		// then
		gatewayErr := assertKind(t, err, entities.KindUpstream)
		assert.Equal(t, "GitHub did not answer in time", gatewayErr.Details)
	})
}

func TestProxyCommandRepositoryCalls(t *testing.T) {
	t.Parallel()

	settings := entitybuilders.NewSettingsBuilder().WithBranch("content/main").BuildSettings()

	t.Run("should fetch a blob of the configured repository", func(t *testing.T) {
		t.Parallel()

		// given
		githubSpy := &doubles.SpyGitHubRepository{}
		cmd := commands.NewProxyCommand(githubSpy)

		// when
		_, err := cmd.Blob(context.Background(), settings, "site-token", "B1")

		// then
		require.NoError(t, err)
		assert.Equal(t, "repos/acme/website/git/blobs/B1", githubSpy.ForwardRequests[0].Path)
	})

	t.Run("should refuse a blob request without sha", func(t *testing.T) {
		t.Parallel()

		// given
		githubSpy := &doubles.SpyGitHubRepository{}
		cmd := commands.NewProxyCommand(githubSpy)

		// when
		_, err := cmd.Blob(context.Background(), settings, "site-token", "")

		// then
		assertKind(t, err, entities.KindBadRequest)
		assert.Zero(t, githubSpy.Calls())
	})

	t.Run("should default the commit sha to the configured branch", func(t *testing.T) {
		t.Parallel()

		// given
		githubSpy := &doubles.SpyGitHubRepository{}
		cmd := commands.NewProxyCommand(githubSpy)

		// when
		_, err := cmd.Commits(context.Background(), settings, "site-token", "content/a.md", "")

		// then
		require.NoError(t, err)
		request := githubSpy.ForwardRequests[0]
		assert.Equal(t, "repos/acme/website/commits", request.Path)
		assert.Equal(t, "path=content%2Fa.md&sha=content%2Fmain", request.RawQuery)
	})

	t.Run("should refuse a commit history request without path", func(t *testing.T) {
		t.Parallel()

		// given
		githubSpy := &doubles.SpyGitHubRepository{}
		cmd := commands.NewProxyCommand(githubSpy)

		// when
		_, err := cmd.Commits(context.Background(), settings, "site-token", "", "abc")

		// then
		gatewayErr := assertKind(t, err, entities.KindBadRequest)
		assert.Equal(t, "Missing file path", gatewayErr.Message)
		assert.Zero(t, githubSpy.Calls())
	})

	t.Run("should default the branch name and keep its slashes", func(t *testing.T) {
		t.Parallel()

		// given
		githubSpy := &doubles.SpyGitHubRepository{}
		cmd := commands.NewProxyCommand(githubSpy)

		// when
		_, err := cmd.Branch(context.Background(), settings, "site-token", "")

		// then
		require.NoError(t, err)
		assert.Equal(t, "repos/acme/website/branches/content/main", githubSpy.ForwardRequests[0].Path)
	})

	t.Run("should fail on an invalid repository setting", func(t *testing.T) {
		t.Parallel()

		// given
		invalid := entitybuilders.NewSettingsBuilder().WithRepository("website").BuildSettings()
		githubSpy := &doubles.SpyGitHubRepository{}
		cmd := commands.NewProxyCommand(githubSpy)

		// when
		_, err := cmd.Branch(context.Background(), invalid, "site-token", "main")

		// then
		assertKind(t, err, entities.KindConfig)
		assert.Zero(t, githubSpy.Calls())
	})
}
