package commands

import (
	"context"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

// Check is the interface for the configuration check command.
type Check interface {
	Execute(ctx context.Context, settings *entities.Settings) (*CheckReport, error)
}

// CheckReport summarizes what the check found.
type CheckReport struct {
	Missing       []string
	Repository    string
	DefaultBranch string
	BranchMatches bool
}

// CheckCommand verifies the settings and that the configured repository is
// reachable with the repo-wide token.
type CheckCommand struct {
	github repositories.GitHubRepository
}

// NewCheckCommand creates a new CheckCommand.
func NewCheckCommand(github repositories.GitHubRepository) *CheckCommand {
	return &CheckCommand{github: github}
}

// Execute stops at missing keys before making any GitHub call.
func (it *CheckCommand) Execute(ctx context.Context, settings *entities.Settings) (*CheckReport, error) {
	report := &CheckReport{
		Missing:    settings.Missing(),
		Repository: settings.GitHub.Repository,
	}
	if len(report.Missing) > 0 {
		return report, entities.NewGatewayError(entities.KindConfig, "missing configuration").
			WithDetails(strings.Join(report.Missing, ", "))
	}

	if _, err := settings.GitHub.Repo(); err != nil {
		return report, entities.NewGatewayError(entities.KindConfig, "invalid repository").Wrap(err)
	}

	callCtx, cancel := upstreamContext(ctx, settings)
	defer cancel()

	defaultBranch, err := it.github.GetDefaultBranch(callCtx, settings.GitHub, settings.GitHub.Token)
	if err != nil {
		return report, upstreamFailure("Failed to fetch repository", err)
	}

	report.DefaultBranch = defaultBranch
	report.BranchMatches = defaultBranch == settings.GitHub.Branch
	if !report.BranchMatches {
		logger.Warnf("Configured branch %q differs from the repository default %q",
			settings.GitHub.Branch, defaultBranch)
	}
	return report, nil
}
