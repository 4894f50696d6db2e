package repositories

import (
	"net/http"
	"time"
)

// NewHTTPClient creates the client shared by every outbound repository.
// It has no overall timeout: each call is bounded by its own context.
// Redirects are returned to the caller instead of being followed.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
