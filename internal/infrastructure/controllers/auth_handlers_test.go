//go:build unit

package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/decapgateway/internal/domain/commands"
	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/test/domain/entitybuilders"
)

func TestPasswordLoginRoutes(t *testing.T) {
	t.Parallel()

	settings := entitybuilders.NewSettingsBuilder().BuildSettings()

	for _, path := range []string{"/auth", "/auth/login"} {
		t.Run("should pair the session with the site token on POST "+path, func(t *testing.T) {
			t.Parallel()

			// given
			g := newGateway(settings)
			request := httptest.NewRequest(http.MethodPost, path,
				stringsReader(`{"email":"editor@example.com","password":"secret"}`))
			request.Header.Set("Origin", localOrigin)

			// when
			recorder := g.serve(request)

			// then
			require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
			assert.JSONEq(t,
				`{"access_token":"session","github_token":"site-token","user":{"id":"user-1"},"site":"localhost"}`,
				recorder.Body.String())
			assert.Equal(t, []entities.Credentials{{Email: "editor@example.com", Password: "secret"}},
				g.identity.SignInCredentials)
		})
	}

	t.Run("should refuse a body that is not JSON", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)
		request := httptest.NewRequest(http.MethodPost, "/auth/login", stringsReader(`email=a&password=b`))

		// when
		recorder := g.serve(request)

		// then
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "Invalid JSON body", decodeBody(t, recorder)["error"])
		assert.Empty(t, g.identity.SignInCredentials)
	})

	t.Run("should fail the login when the site has no token", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)
		request := httptest.NewRequest(http.MethodPost, "/auth/login",
			stringsReader(`{"email":"editor@example.com","password":"secret"}`))
		request.Header.Set("Origin", publicOrigin)

		// when
		recorder := g.serve(request)

		// then
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("should issue the site token to a signed-in caller", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)

		// when
		recorder := g.serve(authorized(http.MethodPost, "/auth/token", ""))

		// then
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"token":"site-token"}`, recorder.Body.String())
	})
}

func TestOAuthRoutes(t *testing.T) {
	t.Parallel()

	settings := entitybuilders.NewSettingsBuilder().BuildSettings()

	t.Run("should redirect to GitHub with the origin packed into state", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)
		request := httptest.NewRequest(http.MethodGet, "/auth", nil)
		request.Header.Set("Referer", publicOrigin+"/admin/")

		// when
		recorder := g.serve(request)

		// then
		require.Equal(t, http.StatusFound, recorder.Code)
		location, err := url.Parse(recorder.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "github.com", location.Host)
		assert.Equal(t, "client-id", location.Query().Get("client_id"))
		assert.Equal(t, commands.EncodeState(publicOrigin), location.Query().Get("state"))
	})

	t.Run("should refuse a callback without state before exchanging the code", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)

		// when
		recorder := g.serve(httptest.NewRequest(http.MethodGet, "/callback?code=abc", nil))

		// then
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Empty(t, g.oauth.ExchangeCodes)
	})

	t.Run("should render the page that hands the token to the CMS window", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)
		target := "/callback?code=abc&state=" + commands.EncodeState(publicOrigin)

		// when
		recorder := g.serve(httptest.NewRequest(http.MethodGet, target, nil))

		// then
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
		assert.Equal(t, "text/html; charset=utf-8", recorder.Header().Get("Content-Type"))
		page := recorder.Body.String()
		assert.Contains(t, page, `authorization:github:success:{"token":"T","provider":"github"}`)
		assert.Contains(t, page, `var origin = 'https://www.example.com';`)
		assert.Contains(t, page, `postMessage('authorizing:github', origin)`)
		assert.Equal(t, []string{"abc"}, g.oauth.ExchangeCodes)
	})

	t.Run("should answer 401 with GitHub's body when the exchange is rejected", func(t *testing.T) {
		t.Parallel()

		// given
		g := newGateway(settings)
		g.oauth.ExchangeErr = &entities.UpstreamError{
			Reason:     entities.ErrUpstreamRejected,
			Operation:  "oauth code exchange",
			StatusCode: http.StatusOK,
			Body:       `{"error":"bad_verification_code"}`,
		}
		target := "/callback?code=abc&state=" + commands.EncodeState(publicOrigin)

		// when
		recorder := g.serve(httptest.NewRequest(http.MethodGet, target, nil))

		// then
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, `{"error":"bad_verification_code"}`, recorder.Body.String())
	})
}
