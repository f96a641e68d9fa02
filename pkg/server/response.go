package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

// apiMessage is the error body GitHub's REST API returns.
type apiMessage struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url,omitempty"`
}

// paramErrorBody is returned for rejected query parameters.
type paramErrorBody struct {
	Error string `json:"error"`
}

var (
	notFoundBody = apiMessage{
		Message:          "Not Found",
		DocumentationURL: "https://docs.github.com/rest/users/users#get-a-user",
	}
	badGatewayBody = apiMessage{Message: "Bad Gateway"}
	internalBody   = apiMessage{Message: "Internal Server Error"}
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// writeError maps a scraping error to its HTTP status and body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *profile.ParamError
	switch {
	case errors.As(err, &pe):
		writeJSON(w, http.StatusBadRequest, paramErrorBody{Error: pe.Message})
	case errors.Is(err, profile.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody)
	case errors.Is(err, profile.ErrUpstream):
		s.logger.WarnContext(r.Context(), "upstream unavailable", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadGateway, badGatewayBody)
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, internalBody)
	}
}
