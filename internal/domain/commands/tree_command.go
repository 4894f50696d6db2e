package commands

import (
	"context"
	"net/url"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

// Tree is the interface for exposing a repository directory to the CMS.
type Tree interface {
	// GetDirectory resolves rawPath ("<branch>:<dir>", percent-encoded) to the
	// recursive listing of that directory, with blob URLs pointing at publicBaseURL.
	GetDirectory(
		ctx context.Context,
		settings *entities.Settings,
		token, rawPath, publicBaseURL string,
	) (*entities.TreeListing, error)
}

// TreeCommand performs the branch -> root tree -> subtree lookup.
type TreeCommand struct {
	github repositories.GitHubRepository
}

// NewTreeCommand creates a new TreeCommand.
func NewTreeCommand(github repositories.GitHubRepository) *TreeCommand {
	return &TreeCommand{github: github}
}

// GetDirectory runs the lookup strictly in order, each step depending on the
// previous one, and stops at the first failure.
func (it *TreeCommand) GetDirectory(
	ctx context.Context,
	settings *entities.Settings,
	token, rawPath, publicBaseURL string,
) (*entities.TreeListing, error) {
	requestedPath, err := decodeTreePath(rawPath, settings.GitHub.Branch)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Resolving directory %q on branch %q", requestedPath, settings.GitHub.Branch)

	rootSHA, err := it.branchTreeSHA(ctx, settings, token)
	if err != nil {
		return nil, err
	}

	rootTree, err := it.tree(ctx, settings, token, rootSHA)
	if err != nil {
		return nil, upstreamFailure("Failed to fetch tree data", err)
	}

	directory, found := rootTree.FindDirectory(requestedPath)
	if !found {
		return nil, entities.NewGatewayError(entities.KindNotFound, "Requested directory not found").
			WithDetails(requestedPath)
	}

	subTree, err := it.tree(ctx, settings, token, directory.SHA)
	if err != nil {
		return nil, upstreamFailure("Failed to fetch requested tree", err)
	}

	return subTree.WithBlobURLs(publicBaseURL), nil
}

func (it *TreeCommand) branchTreeSHA(
	ctx context.Context,
	settings *entities.Settings,
	token string,
) (string, error) {
	callCtx, cancel := upstreamContext(ctx, settings)
	defer cancel()

	sha, err := it.github.GetBranchTreeSHA(callCtx, settings.GitHub, token, settings.GitHub.Branch)
	if err != nil {
		return "", upstreamFailure("Failed to fetch branch info", err)
	}
	return sha, nil
}

func (it *TreeCommand) tree(
	ctx context.Context,
	settings *entities.Settings,
	token, sha string,
) (*entities.TreeListing, error) {
	callCtx, cancel := upstreamContext(ctx, settings)
	defer cancel()

	return it.github.GetTree(callCtx, settings.GitHub, token, sha)
}

// decodeTreePath percent-decodes rawPath and strips the "<branch>:" marker.
func decodeTreePath(rawPath, branch string) (string, error) {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", entities.NewGatewayError(entities.KindBadRequest, "Invalid tree path").Wrap(err)
	}
	decoded = strings.TrimPrefix(decoded, branch+":")
	if decoded == "" {
		return "", entities.NewGatewayError(entities.KindBadRequest, "Missing tree path")
	}
	return decoded, nil
}
