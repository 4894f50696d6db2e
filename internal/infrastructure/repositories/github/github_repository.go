package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

const (
	// UserAgent is sent on every GitHub call.
	UserAgent = "decap-gateway"
	acceptV3  = "application/vnd.github.v3+json"
)

// GitHubRepository implements repositories.GitHubRepository. Typed calls go
// through go-github; passthrough calls use the raw HTTP client so the
// upstream body reaches the caller untouched.
type GitHubRepository struct {
	httpClient *http.Client
}

// NewGitHubRepository creates a new GitHub repository.
func NewGitHubRepository(httpClient *http.Client) repositories.GitHubRepository {
	return &GitHubRepository{httpClient: httpClient}
}

// Forward sends the request to {api_url}/{path}?{query}.
func (r *GitHubRepository) Forward(
	ctx context.Context,
	settings entities.GitHubSettings,
	token string,
	request entities.ProxyRequest,
) (*entities.ProxyResponse, error) {
	const operation = "github passthrough"

	target := strings.TrimSuffix(settings.APIURL, "/") + "/" + strings.TrimPrefix(request.Path, "/")
	if request.RawQuery != "" {
		target += "?" + request.RawQuery
	}

	var body io.Reader
	if request.Method != http.MethodGet && len(request.Body) > 0 {
		body = bytes.NewReader(request.Body)
	}

	req, err := http.NewRequestWithContext(ctx, request.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	contentType := request.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", acceptV3)
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Content-Type", contentType)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &entities.UpstreamError{Reason: entities.ErrUpstreamUnavailable, Operation: operation, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &entities.UpstreamError{Reason: entities.ErrUpstreamUnavailable, Operation: operation, Cause: err}
	}

	return &entities.ProxyResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

// GetBranchTreeSHA reads commit.commit.tree.sha of the branch.
func (r *GitHubRepository) GetBranchTreeSHA(
	ctx context.Context,
	settings entities.GitHubSettings,
	token, branch string,
) (string, error) {
	const operation = "github branch lookup"

	client, repo, err := r.client(settings, token)
	if err != nil {
		return "", err
	}

	// Repositories.GetBranch reports error statuses without the body, so the
	// request goes through Do and CheckResponse instead.
	path := fmt.Sprintf("repos/%s/%s/branches/%s",
		url.PathEscape(repo.Owner), url.PathEscape(repo.Name), url.PathEscape(branch))
	req, err := client.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build branch request: %w", err)
	}

	result := new(gh.Branch)
	if resp, doErr := client.Do(ctx, req, result); doErr != nil {
		return "", classify(operation, resp, doErr)
	}

	sha := result.GetCommit().GetCommit().GetTree().GetSHA()
	if sha == "" {
		return "", &entities.UpstreamError{
			Reason:    entities.ErrMalformedResponse,
			Operation: operation,
			Body:      "branch response has no commit.commit.tree.sha",
		}
	}
	return sha, nil
}

// GetTree reads git/trees/{sha}?recursive=1.
func (r *GitHubRepository) GetTree(
	ctx context.Context,
	settings entities.GitHubSettings,
	token, sha string,
) (*entities.TreeListing, error) {
	const operation = "github tree listing"

	client, repo, err := r.client(settings, token)
	if err != nil {
		return nil, err
	}

	// Git.GetTree drops the listing's own url, so the payload is decoded here.
	path := fmt.Sprintf("repos/%s/%s/git/trees/%s?recursive=1",
		url.PathEscape(repo.Owner), url.PathEscape(repo.Name), url.PathEscape(sha))
	req, err := client.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree request: %w", err)
	}

	tree := new(treeResponse)
	if resp, doErr := client.Do(ctx, req, tree); doErr != nil {
		return nil, classify(operation, resp, doErr)
	}
	if tree.Entries == nil {
		return nil, &entities.UpstreamError{
			Reason:    entities.ErrMalformedResponse,
			Operation: operation,
			Body:      "tree response has no tree array",
		}
	}

	listing := &entities.TreeListing{
		SHA:       tree.GetSHA(),
		URL:       tree.URL,
		Tree:      make([]entities.TreeNode, 0, len(tree.Entries)),
		Truncated: tree.GetTruncated(),
	}
	for _, entry := range tree.Entries {
		listing.Tree = append(listing.Tree, entities.TreeNode{
			Path: entry.GetPath(),
			Mode: entry.GetMode(),
			Type: entry.GetType(),
			SHA:  entry.GetSHA(),
			Size: entry.Size,
			URL:  entry.GetURL(),
		})
	}
	return listing, nil
}

// GetDefaultBranch reads the repository's default_branch.
func (r *GitHubRepository) GetDefaultBranch(
	ctx context.Context,
	settings entities.GitHubSettings,
	token string,
) (string, error) {
	const operation = "github repository lookup"

	client, repo, err := r.client(settings, token)
	if err != nil {
		return "", err
	}

	result, resp, err := client.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		return "", classify(operation, resp, err)
	}
	return result.GetDefaultBranch(), nil
}

func (r *GitHubRepository) client(
	settings entities.GitHubSettings,
	token string,
) (*gh.Client, entities.RepositoryRef, error) {
	repo, err := settings.Repo()
	if err != nil {
		return nil, entities.RepositoryRef{}, err
	}

	baseURL, err := url.Parse(strings.TrimSuffix(settings.APIURL, "/") + "/")
	if err != nil {
		return nil, entities.RepositoryRef{}, fmt.Errorf("invalid GitHub API URL %q: %w", settings.APIURL, err)
	}

	client := gh.NewClient(r.httpClient).WithAuthToken(token)
	client.BaseURL = baseURL
	client.UserAgent = UserAgent
	return client, repo, nil
}

// treeResponse is a Git Trees payload together with its url.
type treeResponse struct {
	gh.Tree
	URL string `json:"url"`
}

// classify maps a go-github error onto the upstream outcome it represents.
// resp may be nil when no answer was received.
func classify(operation string, resp *gh.Response, err error) error {
	var errorResponse *gh.ErrorResponse
	if errors.As(err, &errorResponse) {
		upstreamErr := &entities.UpstreamError{
			Reason:    entities.ErrUpstreamRejected,
			Operation: operation,
			Body:      errorBody(errorResponse),
			Cause:     err,
		}
		if errorResponse.Response != nil {
			upstreamErr.StatusCode = errorResponse.Response.StatusCode
		}
		return upstreamErr
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &entities.UpstreamError{
			Reason:     entities.ErrUpstreamRejected,
			Operation:  operation,
			StatusCode: http.StatusForbidden,
			Body:       rateLimitErr.Message,
			Cause:      err,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &entities.UpstreamError{
			Reason:     entities.ErrUpstreamRejected,
			Operation:  operation,
			StatusCode: http.StatusForbidden,
			Body:       abuseErr.Message,
			Cause:      err,
		}
	}

	if resp != nil && resp.Response != nil &&
		(resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices) {
		return &entities.UpstreamError{
			Reason:     entities.ErrUpstreamRejected,
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &entities.UpstreamError{Reason: entities.ErrMalformedResponse, Operation: operation, Cause: err}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &entities.UpstreamError{Reason: entities.ErrUpstreamUnavailable, Operation: operation, Cause: err}
	}

	return &entities.UpstreamError{Reason: entities.ErrMalformedResponse, Operation: operation, Cause: err}
}

func errorBody(errorResponse *gh.ErrorResponse) string {
	body, err := json.Marshal(errorResponse)
	if err != nil {
		return errorResponse.Message
	}
	return string(body)
}
