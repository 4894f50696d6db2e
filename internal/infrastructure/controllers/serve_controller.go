package controllers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// ServeController handles the "serve" subcommand.
type ServeController struct {
	router *Router
}

// NewServeController creates a new ServeController.
func NewServeController(router *Router) *ServeController {
	return &ServeController{router: router}
}

// GetBind returns the Cobra command metadata for the serve controller.
func (it *ServeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		Long: `Start the gateway between Decap CMS, the identity provider and GitHub.

Settings are read from --config, from the first decapgateway.yaml found in
the default locations, or from environment variables. Send SIGHUP to reload
them without restarting.`,
	}
}

// AddFlags registers the serve-specific flags.
func (it *ServeController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("address", "", "Listen address (overrides server.address)")
}

// Execute starts the server and blocks until SIGINT or SIGTERM.
func (it *ServeController) Execute(cmd *cobra.Command, _ []string) {
	configPath := configFlag(cmd)
	address, _ := cmd.Flags().GetString("address")

	loader := func() (*entities.Settings, error) {
		settings, err := loadSettings(configPath)
		if err != nil {
			return nil, err
		}
		if address != "" {
			settings.Server.Address = address
		}
		return settings, nil
	}

	settings, err := loader()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	store := entities.NewSettingsStore(settings, loader)

	server := &http.Server{
		Addr:              settings.Server.Address,
		Handler:           it.router.Handler(store),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go watchReload(ctx, store)

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Decap gateway listening on %s", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err = server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Graceful shutdown failed: %v", err)
		}
	}

	logger.Info("Server stopped")
}

// watchReload reloads the settings on every SIGHUP until ctx is done.
func watchReload(ctx context.Context, store *entities.SettingsStore) {
	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)
	defer signal.Stop(hangup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hangup:
			logger.Info("SIGHUP received, reloading settings")
			_ = store.Reload()
		}
	}
}
