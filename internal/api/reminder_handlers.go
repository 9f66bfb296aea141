package api

import (
	"net/http"
	"time"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

type reminderResponse struct {
	ID            int64      `json:"id"`
	Type          string     `json:"type"`
	Frequency     *int       `json:"frequency"`
	TimeOfDay     *string    `json:"time_of_day"`
	IsActive      bool       `json:"is_active"`
	LastTriggered *time.Time `json:"last_triggered"`
	NextDue       time.Time  `json:"next_due"`
}

type toggleRequest struct {
	IsActive *bool `json:"is_active"`
}

func toReminderResponse(rem model.Reminder, now time.Time) reminderResponse {
	out := reminderResponse{
		ID:            rem.ID,
		Type:          string(rem.Type()),
		IsActive:      rem.Active,
		LastTriggered: rem.LastTriggered,
		NextDue:       rem.NextDue(now),
	}
	switch sch := rem.Schedule.(type) {
	case model.WaterSchedule:
		freq := sch.FrequencyMinutes
		out.Frequency = &freq
	case model.SleepSchedule:
		t := sch.TimeOfDay.String()
		out.TimeOfDay = &t
	case model.WorkoutSchedule:
		t := sch.TimeOfDay.String()
		out.TimeOfDay = &t
	}
	return out
}

func (s *Server) writeReminders(w http.ResponseWriter, r *http.Request, items []model.Reminder) {
	now := s.clock.Now()
	out := make([]reminderResponse, 0, len(items))
	for _, rem := range items {
		out = append(out, toReminderResponse(rem, now))
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	items, err := service.ListReminders(r.Context(), s.db, userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeReminders(w, r, items)
}

func (s *Server) handleDueReminders(w http.ResponseWriter, r *http.Request) {
	items, err := service.DueReminders(r.Context(), s.db, s.clock, userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeReminders(w, r, items)
}

func (s *Server) handleUpsertReminder(w http.ResponseWriter, r *http.Request) {
	var in service.ReminderInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	schedule, err := service.BuildSchedule(in, s.log)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rem, err := service.UpsertReminder(r.Context(), s.db, userID(r), schedule)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toReminderResponse(rem, s.clock.Now()))
}

func (s *Server) handleToggleReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.IsActive == nil {
		s.writeError(w, r, badRequestf("is_active is required"))
		return
	}
	rem, err := service.ToggleReminder(r.Context(), s.db, userID(r), id, *req.IsActive)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toReminderResponse(rem, s.clock.Now()))
}

func (s *Server) handleReminderTriggered(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rem, err := service.MarkReminderTriggered(r.Context(), s.db, s.clock, userID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toReminderResponse(rem, s.clock.Now()))
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := service.DeleteReminder(r.Context(), s.db, userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
