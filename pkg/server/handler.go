package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUser serves GET /users/{username}.
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	u, err := s.scraper.User(r.Context(), username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleRepos serves GET /users/{username}/repos.
func (s *Server) handleRepos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	opts, err := profile.ParseListOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	repos, err := s.scraper.Repositories(r.Context(), username, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if repos == nil {
		repos = []*profile.Repository{}
	}
	writeJSON(w, http.StatusOK, repos)
}
