package commands

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

// OAuth is the interface for the GitHub OAuth browser handshake.
type OAuth interface {
	// Begin returns the GitHub authorize URL for a caller identified by its
	// Origin (or, failing that, Referer) header.
	Begin(settings *entities.Settings, origin, referer string) (string, error)

	// Complete exchanges the authorization code and recovers the caller origin from state.
	Complete(ctx context.Context, settings *entities.Settings, code, state string) (*entities.OAuthGrant, error)
}

// OAuthCommand carries the caller's origin through the OAuth state parameter.
type OAuthCommand struct {
	oauth repositories.OAuthRepository
}

// NewOAuthCommand creates a new OAuthCommand.
func NewOAuthCommand(oauth repositories.OAuthRepository) *OAuthCommand {
	return &OAuthCommand{oauth: oauth}
}

// Begin encodes the caller origin into state and builds the redirect target.
func (it *OAuthCommand) Begin(settings *entities.Settings, origin, referer string) (string, error) {
	callerOrigin := origin
	if callerOrigin == "" {
		callerOrigin = originOf(referer)
	}
	if callerOrigin == "" {
		return "", entities.NewGatewayError(entities.KindBadRequest, "Missing Origin or Referer header")
	}
	if originOf(callerOrigin) == "" {
		return "", entities.NewGatewayError(entities.KindBadRequest, "Invalid origin").WithDetails(callerOrigin)
	}

	return it.oauth.AuthCodeURL(settings.OAuth, EncodeState(originOf(callerOrigin))), nil
}

// Complete requires both code and state before contacting GitHub.
func (it *OAuthCommand) Complete(
	ctx context.Context,
	settings *entities.Settings,
	code, state string,
) (*entities.OAuthGrant, error) {
	if code == "" || state == "" {
		return nil, entities.NewGatewayError(entities.KindBadRequest, "Missing code or state")
	}

	origin, err := DecodeState(state)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := upstreamContext(ctx, settings)
	defer cancel()

	token, err := it.oauth.Exchange(callCtx, settings.OAuth, code)
	switch {
	case err == nil:
	case errors.Is(err, entities.ErrUpstreamUnavailable):
		return nil, entities.NewGatewayError(entities.KindUpstream, "GitHub OAuth unavailable").Wrap(err)
	default:
		logger.Warnf("OAuth code exchange failed for origin %q: %v", origin, err)
		return nil, entities.NewGatewayError(entities.KindUnauthorized, "Token exchange failed").
			WithDetails(entities.UpstreamBody(err)).
			Wrap(err)
	}

	return &entities.OAuthGrant{Origin: origin, Token: token}, nil
}

// EncodeState packs an origin into the OAuth state parameter.
func EncodeState(origin string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(origin))
}

// DecodeState recovers the origin packed by EncodeState. The result must be
// a bare http(s) origin.
func DecodeState(state string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		return "", entities.NewGatewayError(entities.KindBadRequest, "Invalid state").Wrap(err)
	}
	origin := originOf(string(raw))
	if origin == "" || origin != string(raw) {
		return "", entities.NewGatewayError(entities.KindBadRequest, "Invalid state")
	}
	return origin, nil
}

// originOf reduces an absolute http(s) URL to scheme://host, or "" when raw
// is not one.
func originOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
