//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

// SpySiteTokenRepository implements repositories.SiteTokenRepository as a configurable spy.
type SpySiteTokenRepository struct {
	Tokens    map[string]string // site key -> token
	LookupErr error
	// spy: site keys that were looked up
	LookupKeys []string
}

var _ repositories.SiteTokenRepository = (*SpySiteTokenRepository)(nil)

func (r *SpySiteTokenRepository) Lookup(
	_ context.Context,
	_ entities.SiteTokenSettings,
	siteKey string,
) (string, error) {
	r.LookupKeys = append(r.LookupKeys, siteKey)
	if r.LookupErr != nil {
		return "", r.LookupErr
	}
	if token, ok := r.Tokens[siteKey]; ok {
		return token, nil
	}
	return "", entities.ErrSiteTokenNotFound
}
