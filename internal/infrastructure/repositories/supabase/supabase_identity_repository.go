package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
	"github.com/rios0rios0/decapgateway/internal/domain/repositories"
)

const (
	userEndpoint          = "/auth/v1/user"
	passwordGrantEndpoint = "/auth/v1/token?grant_type=password"
	maxResponseBytes      = 1 << 20
)

// IdentityRepository implements repositories.IdentityRepository against the
// Supabase auth REST API.
type IdentityRepository struct {
	httpClient *http.Client
}

// NewIdentityRepository creates a Supabase identity repository.
func NewIdentityRepository(httpClient *http.Client) repositories.IdentityRepository {
	return &IdentityRepository{httpClient: httpClient}
}

// userResponse is the subset of GET /auth/v1/user the gateway reads.
type userResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// tokenResponse is the subset of POST /auth/v1/token the gateway reads.
type tokenResponse struct {
	AccessToken string          `json:"access_token"`
	User        json.RawMessage `json:"user"`
}

// GetUser calls GET /auth/v1/user with the caller's token.
func (r *IdentityRepository) GetUser(
	ctx context.Context,
	settings entities.IdentitySettings,
	accessToken string,
) (*entities.Identity, error) {
	const operation = "identity user lookup"

	body, err := r.doRequest(ctx, operation, settings, http.MethodGet, userEndpoint, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var user userResponse
	if unmarshalErr := json.Unmarshal(body, &user); unmarshalErr != nil {
		return nil, &entities.UpstreamError{
			Reason: entities.ErrMalformedResponse, Operation: operation, Body: string(body), Cause: unmarshalErr,
		}
	}
	if user.ID == "" {
		return nil, &entities.UpstreamError{
			Reason: entities.ErrMalformedResponse, Operation: operation, Body: string(body),
		}
	}

	return &entities.Identity{
		ID:           user.ID,
		Email:        user.Email,
		UserMetadata: user.UserMetadata,
	}, nil
}

// SignInWithPassword calls POST /auth/v1/token?grant_type=password.
func (r *IdentityRepository) SignInWithPassword(
	ctx context.Context,
	settings entities.IdentitySettings,
	credentials entities.Credentials,
) (*entities.Session, error) {
	const operation = "identity password grant"

	body, err := r.doRequest(ctx, operation, settings, http.MethodPost, passwordGrantEndpoint, "", credentials)
	if err != nil {
		return nil, err
	}

	var token tokenResponse
	if unmarshalErr := json.Unmarshal(body, &token); unmarshalErr != nil {
		return nil, &entities.UpstreamError{
			Reason: entities.ErrMalformedResponse, Operation: operation, Body: string(body), Cause: unmarshalErr,
		}
	}
	if token.AccessToken == "" {
		return nil, &entities.UpstreamError{
			Reason: entities.ErrMalformedResponse, Operation: operation, Body: string(body),
		}
	}

	return &entities.Session{AccessToken: token.AccessToken, User: token.User}, nil
}

func (r *IdentityRepository) doRequest(
	ctx context.Context,
	operation string,
	settings entities.IdentitySettings,
	method, endpoint, bearer string,
	payload any,
) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, settings.URL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", settings.ServiceKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &entities.UpstreamError{
			Reason: entities.ErrUpstreamUnavailable, Operation: operation, Cause: err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		reason := entities.ErrMalformedResponse
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			reason = entities.ErrUpstreamUnavailable
		}
		return nil, &entities.UpstreamError{Reason: reason, Operation: operation, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &entities.UpstreamError{
			Reason:     entities.ErrUpstreamRejected,
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}
