//go:build unit

package sitetokens_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/infrastructure/repositories/sitetokens"
)

func writeTokens(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site_tokens.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSiteTokenRepositoryLookup(t *testing.T) {
	t.Parallel()

	t.Run("should prefer inline entries over the file", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.SiteTokenSettings{
			File:    writeTokens(t, "localhost: from-file\n"),
			Entries: map[string]string{"localhost": "inline"},
		}
		repo := sitetokens.NewFileSiteTokenRepository()

		// when
		token, err := repo.Lookup(context.Background(), settings, "localhost")

		// then
		require.NoError(t, err)
		assert.Equal(t, "inline", token)
	})

	t.Run("should read the token from the file", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.SiteTokenSettings{
			File: writeTokens(t, "\"https://www.example.com\": github_pat_site\nlocalhost: github_pat_local\n"),
		}
		repo := sitetokens.NewFileSiteTokenRepository()

		// when
		token, err := repo.Lookup(context.Background(), settings, "https://www.example.com")

		// then
		require.NoError(t, err)
		assert.Equal(t, "github_pat_site", token)
	})

	t.Run("should report an unknown site as not found", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.SiteTokenSettings{File: writeTokens(t, "localhost: github_pat_local\n")}
		repo := sitetokens.NewFileSiteTokenRepository()

		// when
		_, err := repo.Lookup(context.Background(), settings, "https://other.example.com")

		// then
		require.ErrorIs(t, err, entities.ErrSiteTokenNotFound)
	})

	t.Run("should treat a missing file as empty", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.SiteTokenSettings{File: filepath.Join(t.TempDir(), "absent.yaml")}
		repo := sitetokens.NewFileSiteTokenRepository()

		// when
		_, err := repo.Lookup(context.Background(), settings, "localhost")

		// then
		require.ErrorIs(t, err, entities.ErrSiteTokenNotFound)
	})

	t.Run("should fail on a file that is not a mapping", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.SiteTokenSettings{File: writeTokens(t, "- just\n- a list\n")}
		repo := sitetokens.NewFileSiteTokenRepository()

		// when
		_, err := repo.Lookup(context.Background(), settings, "localhost")

		// then
		require.Error(t, err)
		assert.NotErrorIs(t, err, entities.ErrSiteTokenNotFound)
	})
}
