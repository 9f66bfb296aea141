package service

import (
	"sort"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
)

// mealTypeOrder is the display order of meal groups; unknown labels follow
// alphabetically.
var mealTypeOrder = map[string]int{
	"Breakfast": 0,
	"Lunch":     1,
	"Dinner":    2,
	"Snack":     3,
}

type MealGroup struct {
	MealType string            `json:"meal_type"`
	Entries  []model.MealEntry `json:"entries"`
	Totals   model.Nutrients   `json:"totals"`
}

type ActivityTotals struct {
	CaloriesBurnt   float64 `json:"calories_burnt"`
	DurationMinutes float64 `json:"duration_minutes"`
}

func SumMeals(entries []model.MealEntry) model.Nutrients {
	var out model.Nutrients
	for _, e := range entries {
		out.Calories += e.Calories
		out.Protein += e.Protein
		out.Carbs += e.Carbs
		out.Fat += e.Fat
	}
	return out
}

func SumActivities(entries []model.ActivityEntry) ActivityTotals {
	var out ActivityTotals
	for _, e := range entries {
		out.CaloriesBurnt += e.CaloriesBurnt
		out.DurationMinutes += e.DurationMinutes
	}
	return out
}

// GroupByMealType keeps entry order within each group.
func GroupByMealType(entries []model.MealEntry) []MealGroup {
	index := make(map[string]int)
	groups := make([]MealGroup, 0)
	for _, e := range entries {
		i, ok := index[e.MealType]
		if !ok {
			i = len(groups)
			index[e.MealType] = i
			groups = append(groups, MealGroup{MealType: e.MealType})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return mealTypeLess(groups[i].MealType, groups[j].MealType)
	})
	for i := range groups {
		groups[i].Totals = SumMeals(groups[i].Entries)
	}
	return groups
}

func mealTypeLess(a, b string) bool {
	ra, aKnown := mealTypeOrder[a]
	rb, bKnown := mealTypeOrder[b]
	switch {
	case aKnown && bKnown:
		return ra < rb
	case aKnown:
		return true
	case bKnown:
		return false
	default:
		return a < b
	}
}
