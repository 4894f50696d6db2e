package controllers

import (
	"encoding/json"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

const (
	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warnf("Failed to write response body: %v", err)
	}
}

// writeError renders err as {"error", "details"} with the status of its kind.
func writeError(w http.ResponseWriter, err error) {
	gatewayErr := entities.AsGatewayError(err)
	if gatewayErr.Kind == entities.KindInternal {
		logger.Errorf("Request failed: %v", err)
	}
	writeJSON(w, gatewayErr.Kind.StatusCode(), errorBody{
		Error:   gatewayErr.Message,
		Details: gatewayErr.Details,
	})
}

func writeRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = contentTypeJSON
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Warnf("Failed to write response body: %v", err)
	}
}
