package entities

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddress         = ":8787"
	DefaultBranch          = "main"
	DefaultGitHubAPIURL    = "https://api.github.com"
	DefaultUpstreamTimeout = 10 * time.Second
)

// Settings is the top-level configuration for the gateway.
type Settings struct {
	Server     ServerSettings    `yaml:"server"`
	Identity   IdentitySettings  `yaml:"identity"`
	GitHub     GitHubSettings    `yaml:"github"`
	OAuth      OAuthSettings     `yaml:"oauth"`
	SiteTokens SiteTokenSettings `yaml:"site_tokens"`
}

// ServerSettings controls the inbound listener.
type ServerSettings struct {
	Address         string        `yaml:"address"`
	PublicURL       string        `yaml:"public_url"` // base used when rewriting blob URLs
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
}

// IdentitySettings points at the identity provider (Supabase auth API).
type IdentitySettings struct {
	URL        string `yaml:"url"`
	ServiceKey string `yaml:"service_key"`
}

// GitHubSettings describes the single repository served by the gateway.
type GitHubSettings struct {
	Repository string `yaml:"repository"` // "owner/repo"
	Token      string `yaml:"token"`      // repo-wide token, inline, ${ENV_VAR}, or file path
	Branch     string `yaml:"branch"`
	APIURL     string `yaml:"api_url"`
}

// OAuthSettings holds the GitHub OAuth application used by /auth and /callback.
type OAuthSettings struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURL  string   `yaml:"redirect_url"`
	Scopes       []string `yaml:"scopes"`
	AuthorizeURL string   `yaml:"authorize_url"` // empty means github.com
	TokenURL     string   `yaml:"token_url"`     // empty means github.com
}

// SiteTokenSettings locates the site -> fine-grained token mapping.
type SiteTokenSettings struct {
	File    string            `yaml:"file"`
	Entries map[string]string `yaml:"entries"`
}

// Repo splits the configured "owner/repo" identifier.
func (it GitHubSettings) Repo() (RepositoryRef, error) {
	return ParseRepositoryRef(it.Repository)
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// environmentTemplate is used when no configuration file exists, so the
// gateway can run purely from environment variables.
const environmentTemplate = `
server:
  address: "${DECAP_GATEWAY_ADDRESS}"
  public_url: "${DECAP_GATEWAY_PUBLIC_URL}"
identity:
  url: "${SUPABASE_URL}"
  service_key: "${SUPABASE_SERVICE_ROLE_KEY}"
github:
  repository: "${GITHUB_REPO}"
  token: "${GITHUB_TOKEN}"
  branch: "${GITHUB_BRANCH}"
oauth:
  client_id: "${GITHUB_CLIENT_ID}"
  client_secret: "${GITHUB_CLIENT_SECRET}"
  redirect_url: "${GITHUB_OAUTH_REDIRECT_URL}"
site_tokens:
  file: "${SITE_TOKENS_FILE}"
`

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving secret file paths. A ".env" file in the working
// directory is loaded first when present.
func NewSettings(path string) (*Settings, error) {
	loadDotEnv()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return parseSettings(data)
}

// NewSettingsFromEnvironment builds settings from well-known environment
// variables only.
func NewSettingsFromEnvironment() (*Settings, error) {
	loadDotEnv()
	return parseSettings([]byte(environmentTemplate))
}

func parseSettings(data []byte) (*Settings, error) {
	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.resolveSecrets()
	settings.applyDefaults()

	if missing := settings.Missing(); len(missing) > 0 {
		logger.Warnf("Configuration is incomplete, requests will be refused: missing %s",
			strings.Join(missing, ", "))
	}

	return &settings, nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warnf("Failed to load .env file: %v", err)
	}
}

func (it *Settings) resolveSecrets() {
	it.Server.Address = expandEnv(it.Server.Address)
	it.Server.PublicURL = expandEnv(it.Server.PublicURL)
	it.Identity.URL = expandEnv(it.Identity.URL)
	it.Identity.ServiceKey = resolveValue(it.Identity.ServiceKey)
	it.GitHub.Repository = expandEnv(it.GitHub.Repository)
	it.GitHub.Token = resolveValue(it.GitHub.Token)
	it.GitHub.Branch = expandEnv(it.GitHub.Branch)
	it.GitHub.APIURL = expandEnv(it.GitHub.APIURL)
	it.OAuth.ClientID = resolveValue(it.OAuth.ClientID)
	it.OAuth.ClientSecret = resolveValue(it.OAuth.ClientSecret)
	it.OAuth.RedirectURL = expandEnv(it.OAuth.RedirectURL)
	it.OAuth.AuthorizeURL = expandEnv(it.OAuth.AuthorizeURL)
	it.OAuth.TokenURL = expandEnv(it.OAuth.TokenURL)
	it.SiteTokens.File = expandEnv(it.SiteTokens.File)
	for site, token := range it.SiteTokens.Entries {
		it.SiteTokens.Entries[site] = resolveValue(token)
	}
}

func (it *Settings) applyDefaults() {
	if it.Server.Address == "" {
		it.Server.Address = DefaultAddress
	}
	if it.Server.UpstreamTimeout <= 0 {
		it.Server.UpstreamTimeout = DefaultUpstreamTimeout
	}
	it.Server.PublicURL = strings.TrimSuffix(it.Server.PublicURL, "/")
	it.Identity.URL = strings.TrimSuffix(it.Identity.URL, "/")
	if it.GitHub.Branch == "" {
		it.GitHub.Branch = DefaultBranch
	}
	if it.GitHub.APIURL == "" {
		it.GitHub.APIURL = DefaultGitHubAPIURL
	}
	it.GitHub.APIURL = strings.TrimSuffix(it.GitHub.APIURL, "/")
	if len(it.OAuth.Scopes) == 0 {
		it.OAuth.Scopes = []string{"repo", "user"}
	}
}

// Missing returns the dotted names of every required value that is empty.
// The gateway refuses to serve requests while this list is not empty.
func (it *Settings) Missing() []string {
	required := []struct {
		name  string
		value string
	}{
		{"identity.url", it.Identity.URL},
		{"identity.service_key", it.Identity.ServiceKey},
		{"github.repository", it.GitHub.Repository},
		{"github.token", it.GitHub.Token},
		{"oauth.client_id", it.OAuth.ClientID},
		{"oauth.client_secret", it.OAuth.ClientSecret},
	}

	var missing []string
	for _, entry := range required {
		if strings.TrimSpace(entry.value) == "" {
			missing = append(missing, entry.name)
		}
	}
	return missing
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".decapgateway.yaml",
		".decapgateway.yml",
		"decapgateway.yaml",
		"decapgateway.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// expandEnv replaces ${VAR} references with the variable's value.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Debugf("Environment variable %q is not set", varName)
		return ""
	})
}

// resolveValue expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the value from the file.
func resolveValue(raw string) string {
	resolved := expandEnv(raw)
	if resolved == "" {
		return resolved
	}

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}
