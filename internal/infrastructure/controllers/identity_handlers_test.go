//go:build unit

package controllers_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/decapgateway/test/domain/entitybuilders"
)

func stringsReader(body string) io.Reader {
	return strings.NewReader(body)
}

func TestIdentityRoutes(t *testing.T) {
	t.Parallel()

	settings := entitybuilders.NewSettingsBuilder().BuildSettings()

	t.Run("should grant the site token for the site named in the body", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)
		request := authorized(http.MethodPost, "/identity/token", `{"site":"http://localhost:8080"}`)
		request.Header.Set("Origin", publicOrigin)

		// when
		recorder := g.serve(request)

		// then
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
		assert.JSONEq(t,
			`{"login":"editor@example.com","id":"user-1","token":"site-token","backendName":"github"}`,
			recorder.Body.String())
	})

	t.Run("should fall back to the Origin header when the body names no site", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)

		// when
		recorder := g.serve(authorized(http.MethodPost, "/identity/token", ""))

		// then
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, []string{"localhost"}, g.sites.LookupKeys)
	})

	t.Run("should refuse a request naming no site", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)
		request := authorized(http.MethodPost, "/identity/token", `{}`)
		request.Header.Del("Origin")

		// when
		recorder := g.serve(request)

		// then
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "Missing site parameter", decodeBody(t, recorder)["error"])
		assert.Empty(t, g.sites.LookupKeys)
	})

	t.Run("should refuse an unknown session", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)
		request := authorized(http.MethodPost, "/identity/token", "")
		request.Header.Set("Authorization", "Bearer forged")

		// when
		recorder := g.serve(request)

		// then
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Invalid session token", decodeBody(t, recorder)["error"])
		assert.Empty(t, g.sites.LookupKeys)
	})

	t.Run("should describe the signed-in user", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)

		// when
		recorder := g.serve(authorized(http.MethodGet, "/identity/user", ""))

		// then
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"id":"user-1","email":"editor@example.com","user_metadata":{}}`, recorder.Body.String())
	})
}
