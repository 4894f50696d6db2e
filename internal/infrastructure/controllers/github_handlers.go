package controllers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

const (
	githubPrefix   = "/github"
	treesPrefix    = "/github/git/trees/"
	blobsPrefix    = "/github/git/blobs/"
	branchesPrefix = "/github/branches"
	maxRequestBody = 32 << 20
)

// siteToken validates the caller's session and resolves the GitHub token of
// the caller's site. Every /github route goes through it.
func (it *Router) siteToken(r *http.Request, settings *entities.Settings) (string, error) {
	if _, err := it.credential.ValidateSession(r.Context(), settings, r.Header.Get("Authorization")); err != nil {
		return "", err
	}
	_, token, err := it.credential.ResolveSiteToken(r.Context(), settings, requestSite(r))
	return token, err
}

func (it *Router) getTree(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error {
	token, err := it.siteToken(r, settings)
	if err != nil {
		return err
	}

	rawPath := strings.TrimPrefix(r.URL.EscapedPath(), treesPrefix)
	listing, err := it.tree.GetDirectory(r.Context(), settings, token, rawPath, publicBaseURL(r, settings))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, listing)
	return nil
}

func (it *Router) getBlob(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error {
	token, err := it.siteToken(r, settings)
	if err != nil {
		return err
	}

	sha, err := unescapeSegment(strings.TrimPrefix(r.URL.EscapedPath(), blobsPrefix))
	if err != nil {
		return err
	}
	return writeProxyResponse(w)(it.proxy.Blob(r.Context(), settings, token, sha))
}

func (it *Router) getCommits(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error {
	token, err := it.siteToken(r, settings)
	if err != nil {
		return err
	}

	query := r.URL.Query()
	return writeProxyResponse(w)(it.proxy.Commits(r.Context(), settings, token, query.Get("path"), query.Get("sha")))
}

func (it *Router) getBranch(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error {
	token, err := it.siteToken(r, settings)
	if err != nil {
		return err
	}

	rest := strings.TrimPrefix(strings.TrimPrefix(r.URL.EscapedPath(), branchesPrefix), "/")
	name, err := unescapeSegment(rest)
	if err != nil {
		return err
	}
	return writeProxyResponse(w)(it.proxy.Branch(r.Context(), settings, token, name))
}

// forward passes any other /github call through with the site token injected.
func (it *Router) forward(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error {
	token, err := it.siteToken(r, settings)
	if err != nil {
		return err
	}

	var body []byte
	if r.Method != http.MethodGet && r.Body != nil {
		body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return entities.NewGatewayError(entities.KindBadRequest, "Request body too large")
			}
			return entities.NewGatewayError(entities.KindBadRequest, "Failed to read request body").Wrap(err)
		}
	}

	return writeProxyResponse(w)(it.proxy.Forward(r.Context(), settings, token, entities.ProxyRequest{
		Method:      r.Method,
		Path:        strings.TrimPrefix(r.URL.EscapedPath(), githubPrefix),
		RawQuery:    r.URL.RawQuery,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	}))
}

// writeProxyResponse relays the upstream status and body unchanged.
func writeProxyResponse(w http.ResponseWriter) func(*entities.ProxyResponse, error) error {
	return func(response *entities.ProxyResponse, err error) error {
		if err != nil {
			return err
		}
		writeRaw(w, response.StatusCode, response.ContentType, response.Body)
		return nil
	}
}

func unescapeSegment(raw string) (string, error) {
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", entities.NewGatewayError(entities.KindBadRequest, "Invalid path").Wrap(err)
	}
	return value, nil
}
