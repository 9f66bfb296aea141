package api

import (
	"net/http"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	items, err := service.ListExercises(r.Context(), s.db)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, items)
}

func (s *Server) handleWellness(w http.ResponseWriter, r *http.Request) {
	items, err := service.ListWellnessVideos(r.Context(), s.db)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, items)
}
