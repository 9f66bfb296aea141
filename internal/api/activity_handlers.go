package api

import (
	"net/http"
	"strings"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

type addActivityRequest struct {
	ActivityID      int64   `json:"activity_id"`
	DurationMinutes float64 `json:"duration_minutes"`
	CaloriesBurnt   float64 `json:"calories_burnt"`
	ActivityDate    string  `json:"activity_date"`
}

func (s *Server) handleActivityTypes(w http.ResponseWriter, r *http.Request) {
	types, err := service.ListActivityTypes(r.Context(), s.db)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, types)
}

// handleDeriveActivity uses the weight query parameter when present and the
// caller's profile weight otherwise.
func (s *Server) handleDeriveActivity(w http.ResponseWriter, r *http.Request) {
	activityID, err := queryInt64(r, "activity_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	minutes, err := queryFloat(r, "minutes")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var weight *float64
	if strings.TrimSpace(r.URL.Query().Get("weight")) != "" {
		v, err := queryFloat(r, "weight")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		weight = &v
	}
	calories, err := service.DeriveActivityCaloriesForUser(r.Context(), s.db, userID(r), activityID, minutes, weight)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]float64{"calories_burnt": calories})
}

func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	var req addActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ActivityDate == "" {
		req.ActivityDate = service.FormatDate(s.clock.Now())
	}
	entry, err := service.CreateActivityEntry(r.Context(), s.db, s.clock, service.CreateActivityInput{
		UserID:          userID(r),
		ActivityID:      req.ActivityID,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurnt:   req.CaloriesBurnt,
		ActivityDate:    req.ActivityDate,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, entry)
}

func (s *Server) handleActivitySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := service.ActivityDailySummary(r.Context(), s.db, userID(r), s.queryDate(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var u service.ActivityUpdate
	if err := decodeJSON(r, &u); err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := service.UpdateActivityEntry(r.Context(), s.db, userID(r), id, u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, entry)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := service.DeleteActivityEntry(r.Context(), s.db, userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
