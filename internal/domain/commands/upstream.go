package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

const bearerPrefix = "Bearer "

// upstreamContext bounds a single outbound call by the configured timeout.
func upstreamContext(ctx context.Context, settings *entities.Settings) (context.Context, context.CancelFunc) {
	timeout := settings.Server.UpstreamTimeout
	if timeout <= 0 {
		timeout = entities.DefaultUpstreamTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(authorization string) (string, error) {
	token, found := strings.CutPrefix(authorization, bearerPrefix)
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", entities.NewGatewayError(entities.KindUnauthorized, "Unauthorized").
			WithDetails("missing bearer token")
	}
	return token, nil
}

// upstreamFailure converts a failed GitHub call into the error returned to the
// caller, keeping the failing step in the message.
func upstreamFailure(message string, err error) error {
	gatewayErr := entities.NewGatewayError(entities.KindUpstream, message).Wrap(err)
	if errors.Is(err, entities.ErrUpstreamUnavailable) {
		return gatewayErr.WithDetails("GitHub did not answer in time")
	}
	if body := entities.UpstreamBody(err); body != "" {
		return gatewayErr.WithDetails(body)
	}
	return gatewayErr.WithDetails(err.Error())
}
