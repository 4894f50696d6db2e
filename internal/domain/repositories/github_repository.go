package repositories

import (
	"context"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

// GitHubRepository abstracts the GitHub REST/Git API.
type GitHubRepository interface {
	// Forward sends request as-is with token injected and returns the upstream
	// status and body without interpreting them.
	Forward(
		ctx context.Context,
		settings entities.GitHubSettings,
		token string,
		request entities.ProxyRequest,
	) (*entities.ProxyResponse, error)

	// GetBranchTreeSHA returns the root tree SHA of the branch head commit.
	GetBranchTreeSHA(ctx context.Context, settings entities.GitHubSettings, token, branch string) (string, error)

	// GetTree returns the recursive listing of the tree identified by sha.
	GetTree(ctx context.Context, settings entities.GitHubSettings, token, sha string) (*entities.TreeListing, error)

	// GetDefaultBranch returns the default branch of the configured repository.
	GetDefaultBranch(ctx context.Context, settings entities.GitHubSettings, token string) (string, error)
}
