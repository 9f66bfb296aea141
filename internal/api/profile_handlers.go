package api

import (
	"net/http"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

type recordWeightRequest struct {
	Weight *float64 `json:"weight"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	view, err := service.GetProfile(r.Context(), s.db, s.clock, userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var u service.ProfileUpdate
	if err := decodeJSON(r, &u); err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := service.UpdateProfile(r.Context(), s.db, s.clock, userID(r), u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleWeightHistory(w http.ResponseWriter, r *http.Request) {
	items, err := service.WeightHistory(r.Context(), s.db, userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, items)
}

func (s *Server) handleRecordWeight(w http.ResponseWriter, r *http.Request) {
	var req recordWeightRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Weight == nil {
		s.writeError(w, r, badRequestf("weight is required"))
		return
	}
	changed, err := service.RecordWeightIfChanged(r.Context(), s.db, s.clock, userID(r), *req.Weight)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"weight": *req.Weight, "changed": changed})
}
