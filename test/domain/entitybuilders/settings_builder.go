//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"time"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

// SettingsBuilder helps create complete gateway settings with a fluent interface.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	settings entities.Settings
}

// NewSettingsBuilder creates a new settings builder where every required value is set.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		settings:    defaultSettings(),
	}
}

func defaultSettings() entities.Settings {
	return entities.Settings{
		Server: entities.ServerSettings{
			Address:         entities.DefaultAddress,
			UpstreamTimeout: 2 * time.Second,
		},
		Identity: entities.IdentitySettings{
			URL:        "https://project.supabase.co",
			ServiceKey: "service-role-key",
		},
		GitHub: entities.GitHubSettings{
			Repository: "acme/website",
			Token:      "repo-wide-token",
			Branch:     entities.DefaultBranch,
			APIURL:     entities.DefaultGitHubAPIURL,
		},
		OAuth: entities.OAuthSettings{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "https://gateway.example.com/callback",
			Scopes:       []string{"repo", "user"},
		},
	}
}

// WithIdentityURL sets the identity provider base URL.
func (b *SettingsBuilder) WithIdentityURL(url string) *SettingsBuilder {
	b.settings.Identity.URL = url
	return b
}

// WithServiceKey sets the identity provider service key.
func (b *SettingsBuilder) WithServiceKey(key string) *SettingsBuilder {
	b.settings.Identity.ServiceKey = key
	return b
}

// WithRepository sets the "owner/repo" identifier.
func (b *SettingsBuilder) WithRepository(repository string) *SettingsBuilder {
	b.settings.GitHub.Repository = repository
	return b
}

// WithGitHubToken sets the repo-wide token.
func (b *SettingsBuilder) WithGitHubToken(token string) *SettingsBuilder {
	b.settings.GitHub.Token = token
	return b
}

// WithBranch sets the content branch.
func (b *SettingsBuilder) WithBranch(branch string) *SettingsBuilder {
	b.settings.GitHub.Branch = branch
	return b
}

// WithGitHubAPIURL sets the GitHub API root.
func (b *SettingsBuilder) WithGitHubAPIURL(url string) *SettingsBuilder {
	b.settings.GitHub.APIURL = url
	return b
}

// WithOAuthClient sets the OAuth application credentials.
func (b *SettingsBuilder) WithOAuthClient(id, secret string) *SettingsBuilder {
	b.settings.OAuth.ClientID = id
	b.settings.OAuth.ClientSecret = secret
	return b
}

// WithOAuthEndpoints overrides the authorize and token URLs.
func (b *SettingsBuilder) WithOAuthEndpoints(authorizeURL, tokenURL string) *SettingsBuilder {
	b.settings.OAuth.AuthorizeURL = authorizeURL
	b.settings.OAuth.TokenURL = tokenURL
	return b
}

// WithPublicURL sets the externally visible base URL.
func (b *SettingsBuilder) WithPublicURL(url string) *SettingsBuilder {
	b.settings.Server.PublicURL = url
	return b
}

// WithUpstreamTimeout sets the per-call upstream timeout.
func (b *SettingsBuilder) WithUpstreamTimeout(timeout time.Duration) *SettingsBuilder {
	b.settings.Server.UpstreamTimeout = timeout
	return b
}

// WithSiteTokenFile sets the site token file path.
func (b *SettingsBuilder) WithSiteTokenFile(path string) *SettingsBuilder {
	b.settings.SiteTokens.File = path
	return b
}

// WithSiteToken adds an inline site token entry.
func (b *SettingsBuilder) WithSiteToken(site, token string) *SettingsBuilder {
	if b.settings.SiteTokens.Entries == nil {
		b.settings.SiteTokens.Entries = map[string]string{}
	}
	b.settings.SiteTokens.Entries[site] = token
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	settings := b.settings
	settings.OAuth.Scopes = append([]string(nil), b.settings.OAuth.Scopes...)
	if b.settings.SiteTokens.Entries != nil {
		settings.SiteTokens.Entries = make(map[string]string, len(b.settings.SiteTokens.Entries))
		for site, token := range b.settings.SiteTokens.Entries {
			settings.SiteTokens.Entries[site] = token
		}
	}
	return &settings
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.settings = defaultSettings()
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	return &SettingsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		settings:    *b.BuildSettings(),
	}
}
