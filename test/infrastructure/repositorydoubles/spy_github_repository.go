//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

// SpyGitHubRepository implements repositories.GitHubRepository as a configurable spy.
type SpyGitHubRepository struct {
	// --- Forward ---
	ForwardResponse *entities.ProxyResponse
	ForwardErr      error
	// spy: requests and tokens received
	ForwardRequests []entities.ProxyRequest
	ForwardTokens   []string

	// --- GetBranchTreeSHA ---
	BranchTreeSHA string
	BranchErr     error
	// spy: branch names looked up
	BranchCalls []string

	// --- GetTree ---
	Trees    map[string]*entities.TreeListing // sha -> listing
	TreeErrs map[string]error                 // sha -> failure
	// spy: tree SHAs fetched
	TreeCalls []string

	// --- GetDefaultBranch ---
	DefaultBranch    string
	DefaultBranchErr error
	// spy: tokens used for repository lookups
	DefaultBranchTokens []string
}

var _ repositories.GitHubRepository = (*SpyGitHubRepository)(nil)

func (r *SpyGitHubRepository) Forward(
	_ context.Context,
	_ entities.GitHubSettings,
	token string,
	request entities.ProxyRequest,
) (*entities.ProxyResponse, error) {
	r.ForwardRequests = append(r.ForwardRequests, request)
	r.ForwardTokens = append(r.ForwardTokens, token)
	if r.ForwardErr != nil {
		return nil, r.ForwardErr
	}
	if r.ForwardResponse != nil {
		return r.ForwardResponse, nil
	}
	return &entities.ProxyResponse{StatusCode: 200, ContentType: "application/json", Body: []byte(`{}`)}, nil
}

func (r *SpyGitHubRepository) GetBranchTreeSHA(
	_ context.Context,
	_ entities.GitHubSettings,
	_, branch string,
) (string, error) {
	r.BranchCalls = append(r.BranchCalls, branch)
	return r.BranchTreeSHA, r.BranchErr
}

func (r *SpyGitHubRepository) GetTree(
	_ context.Context,
	_ entities.GitHubSettings,
	_, sha string,
) (*entities.TreeListing, error) {
	r.TreeCalls = append(r.TreeCalls, sha)
	if err, ok := r.TreeErrs[sha]; ok {
		return nil, err
	}
	if listing, ok := r.Trees[sha]; ok {
		return listing, nil
	}
	return nil, &entities.UpstreamError{
		Reason:     entities.ErrUpstreamRejected,
		Operation:  "spy tree listing",
		StatusCode: 404,
		Body:       `{"message":"Not Found"}`,
	}
}

func (r *SpyGitHubRepository) GetDefaultBranch(
	_ context.Context,
	_ entities.GitHubSettings,
	token string,
) (string, error) {
	r.DefaultBranchTokens = append(r.DefaultBranchTokens, token)
	return r.DefaultBranch, r.DefaultBranchErr
}

// Calls is the total number of GitHub calls made.
func (r *SpyGitHubRepository) Calls() int {
	return len(r.ForwardRequests) + len(r.BranchCalls) + len(r.TreeCalls) + len(r.DefaultBranchTokens)
}
