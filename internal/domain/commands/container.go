package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	if err := container.Provide(NewCredentialCommand); err != nil {
		return err
	}
	if err := container.Provide(NewProxyCommand); err != nil {
		return err
	}
	if err := container.Provide(NewTreeCommand); err != nil {
		return err
	}
	if err := container.Provide(NewOAuthCommand); err != nil {
		return err
	}
	if err := container.Provide(NewCheckCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *CredentialCommand) Credential {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ProxyCommand) Proxy {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *TreeCommand) Tree {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *OAuthCommand) OAuth {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *CheckCommand) Check {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
