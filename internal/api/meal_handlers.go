package api

import (
	"net/http"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

type addMealRequest struct {
	FoodID   int64   `json:"food_id"`
	Grams    float64 `json:"grams"`
	MealDate string  `json:"meal_date"`
	MealType string  `json:"meal_type"`
}

func (s *Server) handleSearchFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := service.SearchFoods(r.Context(), s.db, r.URL.Query().Get("q"), 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, foods)
}

func (s *Server) handleDeriveMeal(w http.ResponseWriter, r *http.Request) {
	foodID, err := queryInt64(r, "food_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	grams, err := queryFloat(r, "grams")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := service.DeriveMealNutrientsByID(r.Context(), s.db, foodID, grams)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, n)
}

func (s *Server) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	var req addMealRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.MealDate == "" {
		req.MealDate = service.FormatDate(s.clock.Now())
	}
	entry, err := service.CreateMealEntry(r.Context(), s.db, s.clock, service.CreateMealInput{
		UserID:   userID(r),
		FoodID:   req.FoodID,
		Grams:    req.Grams,
		MealDate: req.MealDate,
		MealType: req.MealType,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, entry)
}

func (s *Server) handleMealSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := service.MealDailySummary(r.Context(), s.db, userID(r), s.queryDate(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var u service.MealUpdate
	if err := decodeJSON(r, &u); err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := service.UpdateMealEntry(r.Context(), s.db, userID(r), id, u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, entry)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := service.DeleteMealEntry(r.Context(), s.db, userID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
