package internal

import "github.com/rios0rios0/decapgateway/internal/domain/entities"

// AppInternal exposes the controllers bound to Cobra subcommands.
type AppInternal struct {
	controllers []entities.Controller
}

// NewAppInternal creates a new AppInternal.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

// GetControllers returns every registered controller.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}
