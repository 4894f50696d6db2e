package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/decapgateway/internal/domain/commands"
	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

// CheckController handles the "check" subcommand.
type CheckController struct {
	command commands.Check
}

// NewCheckController creates a new CheckController.
func NewCheckController(command commands.Check) *CheckController {
	return &CheckController{command: command}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check",
		Short: "Verify the gateway configuration",
		Long: `Load the settings, report every missing required value and verify
that the configured repository is reachable with the repo-wide GitHub token.`,
	}
}

// Execute exits non-zero when the configuration is unusable.
func (it *CheckController) Execute(cmd *cobra.Command, _ []string) {
	settings, err := loadSettings(configFlag(cmd))
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	report, err := it.command.Execute(context.Background(), settings)
	if err != nil {
		logger.Fatalf("Configuration check failed: %v", err)
	}

	logger.Infof("Repository %s is reachable, default branch %q", report.Repository, report.DefaultBranch)
	if report.BranchMatches {
		logger.Infof("Configured branch %q matches the default branch", settings.GitHub.Branch)
	}
}
