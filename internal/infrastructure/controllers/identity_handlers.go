package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

type identityTokenRequest struct {
	Site string `json:"site"`
}

type identitySettingsResponse struct {
	Enabled bool     `json:"enabled"`
	Roles   []string `json:"roles"`
}

// identityToken answers POST /identity/token. The site comes from the JSON
// body and falls back to the Origin header only; a request naming neither is
// refused.
func (it *Router) identityToken(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error {
	var body identityTokenRequest
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	site := body.Site
	if site == "" {
		site = r.Header.Get("Origin")
	}

	grant, err := it.credential.IdentityToken(r.Context(), settings, r.Header.Get("Authorization"), site)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, grant)
	return nil
}

func (it *Router) identityUser(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error {
	identity, err := it.credential.CurrentUser(r.Context(), settings, r.Header.Get("Authorization"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, identity)
	return nil
}

// identitySettings is the static capability document the CMS identity widget expects.
func (it *Router) identitySettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, identitySettingsResponse{Enabled: true, Roles: []string{}})
}

// decodeJSON decodes an optional JSON body. An empty body leaves target untouched.
func decodeJSON(r *http.Request, target any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return entities.NewGatewayError(entities.KindBadRequest, "Invalid JSON body").Wrap(err)
}
