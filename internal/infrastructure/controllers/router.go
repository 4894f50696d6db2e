package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rios0rios0/decapgateway/internal/domain/commands"
	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

const healthPath = "/healthz"

// gatewayHandler serves one route against the settings snapshot of the request.
type gatewayHandler func(w http.ResponseWriter, r *http.Request, settings *entities.Settings) error

// Router owns the inbound HTTP surface of the gateway.
type Router struct {
	credential commands.Credential
	proxy      commands.Proxy
	tree       commands.Tree
	oauth      commands.OAuth
}

// NewRouter creates a new Router.
func NewRouter(
	credential commands.Credential,
	proxy commands.Proxy,
	tree commands.Tree,
	oauth commands.OAuth,
) *Router {
	return &Router{
		credential: credential,
		proxy:      proxy,
		tree:       tree,
		oauth:      oauth,
	}
}

// Handler builds the chi mux. Routes are matched most-specific first, and a
// route registered for one method falls through to a broader any-method route.
func (it *Router) Handler(store *entities.SettingsStore) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(cors)
	r.Use(recoverer)
	r.Use(requireSettings(store))

	r.Get(healthPath, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/identity/token", it.handle(it.identityToken))
	r.Get("/identity/user", it.handle(it.identityUser))
	r.HandleFunc("/identity", it.identitySettings)
	r.HandleFunc("/identity/*", it.identitySettings)

	r.Get("/github/git/trees/*", it.handle(it.getTree))
	r.Get("/github/git/blobs/*", it.handle(it.getBlob))
	r.Get("/github/commits", it.handle(it.getCommits))
	r.Get("/github/commits/*", it.handle(it.getCommits))
	r.Get("/github/branches", it.handle(it.getBranch))
	r.Get("/github/branches/*", it.handle(it.getBranch))
	r.HandleFunc("/github/*", it.handle(it.forward))

	r.Post("/auth", it.handle(it.login))
	r.Get("/auth", it.handle(it.beginOAuth))
	r.Post("/auth/login", it.handle(it.login))
	r.Post("/auth/token", it.handle(it.issueToken))
	r.Get("/callback", it.handle(it.completeOAuth))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	return r
}

func (it *Router) handle(handler gatewayHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handler(w, r, settingsFromContext(r.Context())); err != nil {
			writeError(w, err)
		}
	}
}

// requestSite is the raw site identifier of the caller.
func requestSite(r *http.Request) string {
	return entities.SiteFromHeaders(r.Header.Get("Origin"), r.Host)
}

// publicBaseURL is the externally visible base of the gateway.
func publicBaseURL(r *http.Request, settings *entities.Settings) string {
	if settings.Server.PublicURL != "" {
		return settings.Server.PublicURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		scheme = strings.TrimSpace(first)
	}
	return scheme + "://" + r.Host
}
