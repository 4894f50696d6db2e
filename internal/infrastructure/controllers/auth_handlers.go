package controllers

import (
	"net/http"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

type tokenResponse struct {
	Token string `json:"token"`
}

// login answers POST /auth and POST /auth/login with a session paired with
// the site's GitHub token.
func (it *Router) login(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error {
	var credentials entities.Credentials
	if err := decodeJSON(r, &credentials); err != nil {
		return err
	}

	result, err := it.credential.PasswordLogin(r.Context(), settings, credentials, requestSite(r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (it *Router) issueToken(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error {
	token, err := it.credential.IssueSiteToken(r.Context(), settings, r.Header.Get("Authorization"), requestSite(r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
	return nil
}

func (it *Router) beginOAuth(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error {
	target, err := it.oauth.Begin(settings, r.Header.Get("Origin"), r.Header.Get("Referer"))
	if err != nil {
		return err
	}
	http.Redirect(w, r, target, http.StatusFound)
	return nil
}

// completeOAuth renders the page that hands the token to the CMS window. A
// rejected exchange answers 401 with GitHub's own error body.
func (it *Router) completeOAuth(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error {
	query := r.URL.Query()
	grant, err := it.oauth.Complete(r.Context(), settings, query.Get("code"), query.Get("state"))
	if err != nil {
		gatewayErr := entities.AsGatewayError(err)
		if gatewayErr.Kind == entities.KindUnauthorized && gatewayErr.Details != "" {
			writeRaw(w, http.StatusUnauthorized, contentTypeText, []byte(gatewayErr.Details))
			return nil
		}
		return err
	}

	page, err := renderCallbackPage(grant)
	if err != nil {
		return entities.NewGatewayError(entities.KindInternal, "Failed to render callback page").Wrap(err)
	}
	writeRaw(w, http.StatusOK, contentTypeHTML, page)
	return nil
}
