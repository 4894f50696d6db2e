package entities

import "strings"

const (
	// LocalSiteKey is the single key shared by every local development origin.
	LocalSiteKey = "localhost"
	// UnknownSiteKey is used when a request carries neither Origin nor Host.
	UnknownSiteKey = "unknown"
)

// SiteFromHeaders picks the raw site identifier of a request: Origin first,
// then Host.
func SiteFromHeaders(origin, host string) string {
	if origin != "" {
		return origin
	}
	if host != "" {
		return host
	}
	return UnknownSiteKey
}

// NormalizeSiteKey collapses local development origins (anything containing
// "localhost", or starting with "127." or "192.") to LocalSiteKey. Any other
// value is returned unchanged.
func NormalizeSiteKey(site string) string {
	if strings.Contains(site, LocalSiteKey) || strings.HasPrefix(site, "127.") || strings.HasPrefix(site, "192.") {
		return LocalSiteKey
	}
	return site
}
