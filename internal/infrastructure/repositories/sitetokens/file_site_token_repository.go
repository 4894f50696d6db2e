package sitetokens

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

// FileSiteTokenRepository implements repositories.SiteTokenRepository over
// inline settings entries and a YAML file of "site: token" pairs. The file is
// owned by operators and read on every lookup, so edits apply without restart.
type FileSiteTokenRepository struct{}

// NewFileSiteTokenRepository creates a new site token repository.
func NewFileSiteTokenRepository() repositories.SiteTokenRepository {
	return &FileSiteTokenRepository{}
}

// Lookup checks inline entries first, then the file.
func (r *FileSiteTokenRepository) Lookup(
	_ context.Context,
	settings entities.SiteTokenSettings,
	siteKey string,
) (string, error) {
	if token := strings.TrimSpace(settings.Entries[siteKey]); token != "" {
		return token, nil
	}
	if settings.File == "" {
		return "", entities.ErrSiteTokenNotFound
	}

	tokens, err := readTokenFile(settings.File)
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(tokens[siteKey])
	if token == "" {
		return "", entities.ErrSiteTokenNotFound
	}
	return token, nil
}

func readTokenFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warnf("Site token file %q does not exist", path)
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read site token file %q: %w", path, err)
	}

	tokens := map[string]string{}
	if unmarshalErr := yaml.Unmarshal(data, &tokens); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse site token file %q: %w", path, unmarshalErr)
	}
	return tokens, nil
}
