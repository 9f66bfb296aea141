package service_test

import (
	"reflect"
	"testing"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

func meal(id int64, mealType string, calories float64) model.MealEntry {
	return model.MealEntry{ID: id, MealType: mealType, Nutrients: model.Nutrients{Calories: calories, Protein: 1, Carbs: 2, Fat: 3}}
}

func TestSumMealsExactAndEmpty(t *testing.T) {
	t.Parallel()

	entries := []model.MealEntry{meal(1, "Lunch", 100), meal(2, "Dinner", 250.5), meal(3, "Breakfast", 49.5)}
	before := append([]model.MealEntry(nil), entries...)

	totals := service.SumMeals(entries)
	if totals.Calories != 400.0 {
		t.Fatalf("expected 400 kcal, got %v", totals.Calories)
	}
	if totals.Protein != 3 || totals.Carbs != 6 || totals.Fat != 9 {
		t.Fatalf("unexpected macro totals: %+v", totals)
	}
	if !reflect.DeepEqual(entries, before) {
		t.Fatalf("input entries were mutated")
	}

	if got := service.SumMeals(nil); got != (model.Nutrients{}) {
		t.Fatalf("expected zero totals for no entries, got %+v", got)
	}
	if got := service.SumActivities(nil); got != (service.ActivityTotals{}) {
		t.Fatalf("expected zero activity totals, got %+v", got)
	}
}

func TestSumActivities(t *testing.T) {
	t.Parallel()

	totals := service.SumActivities([]model.ActivityEntry{
		{DurationMinutes: 30, CaloriesBurnt: 210.25},
		{DurationMinutes: 15, CaloriesBurnt: 89.75},
	})
	if totals.CaloriesBurnt != 300 || totals.DurationMinutes != 45 {
		t.Fatalf("unexpected activity totals: %+v", totals)
	}
}

func TestGroupByMealTypeCanonicalOrder(t *testing.T) {
	t.Parallel()

	entries := []model.MealEntry{
		meal(1, "Snack", 10),
		meal(2, "Dinner", 20),
		meal(3, "Brunch", 30),
		meal(4, "Breakfast", 40),
		meal(5, "Dinner", 50),
		meal(6, "Lunch", 60),
		meal(7, "Afternoon Tea", 70),
	}
	groups := service.GroupByMealType(entries)

	var order []string
	for _, g := range groups {
		order = append(order, g.MealType)
	}
	want := []string{"Breakfast", "Lunch", "Dinner", "Snack", "Afternoon Tea", "Brunch"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("expected group order %v, got %v", want, order)
	}

	dinner := groups[2]
	if len(dinner.Entries) != 2 || dinner.Entries[0].ID != 2 || dinner.Entries[1].ID != 5 {
		t.Fatalf("expected dinner entries in input order [2 5], got %+v", dinner.Entries)
	}
	if dinner.Totals.Calories != 70 {
		t.Fatalf("expected dinner total 70, got %v", dinner.Totals.Calories)
	}
}
