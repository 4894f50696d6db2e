package controllers

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

var (
	corsAllowMethods = "GET, POST, PATCH, PUT, DELETE"
	corsAllowHeaders = strings.Join([]string{
		"Authorization",
		"Content-Type",
		"If-Match",
		"If-Modified-Since",
		"If-None-Match",
		"If-Unmodified-Since",
		"Accept-Encoding",
		"X-GitHub-OTP",
		"X-Requested-With",
		"User-Agent",
		"GraphQL-Features",
		"X-Github-Next-Global-ID",
		"X-GitHub-Api-Version",
	}, ", ")
)

type settingsContextKey struct{}

// cors stamps the CORS headers on every response and answers preflight
// requests before any other logic runs.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request through logrus.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.WithFields(logger.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     status,
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
			}).Info("Request handled")
		}()

		next.ServeHTTP(ww, r)
	})
}

// recoverer answers a panicking handler with the JSON error body every other
// failure uses.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel re-panicked as net/http expects
				panic(rec)
			}
			logger.WithField("request_id", middleware.GetReqID(r.Context())).
				Errorf("Panic while serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		}()

		next.ServeHTTP(w, r)
	})
}

// requireSettings takes one settings snapshot per request and refuses to
// dispatch while required values are missing. Health checks included, so an
// unconfigured gateway reports itself as not ready.
func requireSettings(store *entities.SettingsStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			settings := store.Current()
			if settings == nil {
				writeError(w, entities.NewGatewayError(entities.KindConfig, "missing configuration"))
				return
			}
			if missing := settings.Missing(); len(missing) > 0 {
				writeError(w, entities.NewGatewayError(entities.KindConfig, "missing configuration").
					WithDetails(strings.Join(missing, ", ")))
				return
			}

			ctx := context.WithValue(r.Context(), settingsContextKey{}, settings)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func settingsFromContext(ctx context.Context) *entities.Settings {
	settings, _ := ctx.Value(settingsContextKey{}).(*entities.Settings)
	return settings
}
