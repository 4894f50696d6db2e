//go:build unit

package repositories_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/decapgateway/internal/infrastructure/repositories"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	t.Run("should hand redirects back to the caller", func(t *testing.T) {
		t.Parallel()

		// given
		followed := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/target" {
				followed = true
				return
			}
			http.Redirect(w, r, "/target", http.StatusMovedPermanently)
		}))
		t.Cleanup(server.Close)
		client := repositories.NewHTTPClient()

		// when
		resp, err := client.Get(server.URL + "/source")

		// then
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
		assert.False(t, followed)
	})
}
