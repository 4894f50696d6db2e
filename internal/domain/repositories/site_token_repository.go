package repositories

import (
	"context"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

// SiteTokenRepository is the read-only site -> fine-grained GitHub token mapping.
type SiteTokenRepository interface {
	// Lookup returns the token stored under siteKey, or entities.ErrSiteTokenNotFound.
	Lookup(ctx context.Context, settings entities.SiteTokenSettings, siteKey string) (string, error)
}
