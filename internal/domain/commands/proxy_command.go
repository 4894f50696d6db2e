package commands

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

// Proxy is the interface for forwarding CMS calls to GitHub.
type Proxy interface {
	// Forward passes request through verbatim with token injected.
	Forward(
		ctx context.Context,
		settings *entities.Settings,
		token string,
		request entities.ProxyRequest,
	) (*entities.ProxyResponse, error)

	// Blob fetches a blob of the configured repository.
	Blob(ctx context.Context, settings *entities.Settings, token, sha string) (*entities.ProxyResponse, error)

	// Commits lists the commit history of a file of the configured repository.
	Commits(ctx context.Context, settings *entities.Settings, token, path, sha string) (*entities.ProxyResponse, error)

	// Branch returns branch metadata of the configured repository.
	Branch(ctx context.Context, settings *entities.Settings, token, name string) (*entities.ProxyResponse, error)
}

// ProxyCommand forwards GitHub API calls without interpreting their payloads.
type ProxyCommand struct {
	github repositories.GitHubRepository
}

// NewProxyCommand creates a new ProxyCommand.
func NewProxyCommand(github repositories.GitHubRepository) *ProxyCommand {
	return &ProxyCommand{github: github}
}

// Forward returns the upstream status and body unchanged. Only a call that
// never completes is turned into an error.
func (it *ProxyCommand) Forward(
	ctx context.Context,
	settings *entities.Settings,
	token string,
	request entities.ProxyRequest,
) (*entities.ProxyResponse, error) {
	request.Path = strings.TrimPrefix(request.Path, "/")
	if request.Method == "" {
		request.Method = http.MethodGet
	}
	if request.Method == http.MethodGet {
		request.Body = nil
	}

	callCtx, cancel := upstreamContext(ctx, settings)
	defer cancel()

	response, err := it.github.Forward(callCtx, settings.GitHub, token, request)
	if err != nil {
		if errors.Is(err, entities.ErrUpstreamUnavailable) {
			logger.Warnf("GitHub call %s %s did not complete: %v", request.Method, request.Path, err)
		}
		return nil, upstreamFailure("GitHub API error", err)
	}

	logger.Debugf("GitHub %s %s -> %d", request.Method, request.Path, response.StatusCode)
	return response, nil
}

// Blob fetches repos/{repo}/git/blobs/{sha}.
func (it *ProxyCommand) Blob(
	ctx context.Context,
	settings *entities.Settings,
	token, sha string,
) (*entities.ProxyResponse, error) {
	if sha == "" {
		return nil, entities.NewGatewayError(entities.KindBadRequest, "Missing blob sha")
	}

	path, err := repositoryPath(settings, "git", "blobs", sha)
	if err != nil {
		return nil, err
	}
	return it.Forward(ctx, settings, token, entities.ProxyRequest{Method: http.MethodGet, Path: path})
}

// Commits fetches repos/{repo}/commits?path=&sha=, defaulting sha to the
// configured branch.
func (it *ProxyCommand) Commits(
	ctx context.Context,
	settings *entities.Settings,
	token, path, sha string,
) (*entities.ProxyResponse, error) {
	if path == "" {
		return nil, entities.NewGatewayError(entities.KindBadRequest, "Missing file path")
	}
	if sha == "" {
		sha = settings.GitHub.Branch
	}

	commitsPath, err := repositoryPath(settings, "commits")
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("path", path)
	query.Set("sha", sha)

	return it.Forward(ctx, settings, token, entities.ProxyRequest{
		Method:   http.MethodGet,
		Path:     commitsPath,
		RawQuery: query.Encode(),
	})
}

// Branch fetches repos/{repo}/branches/{name}, defaulting to the configured branch.
func (it *ProxyCommand) Branch(
	ctx context.Context,
	settings *entities.Settings,
	token, name string,
) (*entities.ProxyResponse, error) {
	if name == "" {
		name = settings.GitHub.Branch
	}

	path, err := repositoryPath(settings, "branches", name)
	if err != nil {
		return nil, err
	}
	return it.Forward(ctx, settings, token, entities.ProxyRequest{Method: http.MethodGet, Path: path})
}

// repositoryPath builds "repos/{owner}/{repo}/<segments...>". Segments are
// escaped per "/"-separated part so branch names like "feature/x" survive.
func repositoryPath(settings *entities.Settings, segments ...string) (string, error) {
	repo, err := settings.GitHub.Repo()
	if err != nil {
		return "", entities.NewGatewayError(entities.KindConfig, "Invalid repository configuration").Wrap(err)
	}

	parts := []string{"repos", url.PathEscape(repo.Owner), url.PathEscape(repo.Name)}
	for _, segment := range segments {
		for _, part := range strings.Split(segment, "/") {
			parts = append(parts, url.PathEscape(part))
		}
	}
	return strings.Join(parts, "/"), nil
}
