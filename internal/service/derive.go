package service

import (
	"context"
	"database/sql"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
)

// DeriveMealNutrients scales a food's per-100g values to grams.
func DeriveMealNutrients(food model.Food, grams float64) (model.Nutrients, error) {
	if !finite(grams) || grams <= 0 {
		return model.Nutrients{}, quantityErrorf("grams must be a positive number")
	}
	return model.Nutrients{
		Calories: food.Calories * grams / 100,
		Protein:  food.Protein * grams / 100,
		Carbs:    food.Carbs * grams / 100,
		Fat:      food.Fat * grams / 100,
	}, nil
}

// DeriveActivityCalories returns rate x minutes x body weight. A missing or
// non-positive weight is an error, never a silent default.
func DeriveActivityCalories(activity model.ActivityType, minutes float64, weightKg *float64) (float64, error) {
	if !finite(minutes) || minutes <= 0 {
		return 0, quantityErrorf("duration must be a positive number")
	}
	if weightKg == nil || !finite(*weightKg) || *weightKg <= 0 {
		return 0, ErrMissingWeight
	}
	return activity.CaloriesPerMinPerKg * minutes * *weightKg, nil
}

func DeriveMealNutrientsByID(ctx context.Context, db *sql.DB, foodID int64, grams float64) (model.Nutrients, error) {
	if !finite(grams) || grams <= 0 {
		return model.Nutrients{}, quantityErrorf("grams must be a positive number")
	}
	food, err := GetFood(ctx, db, foodID)
	if err != nil {
		return model.Nutrients{}, err
	}
	return DeriveMealNutrients(food, grams)
}

func DeriveActivityCaloriesByID(ctx context.Context, db *sql.DB, activityID int64, minutes float64, weightKg *float64) (float64, error) {
	if !finite(minutes) || minutes <= 0 {
		return 0, quantityErrorf("duration must be a positive number")
	}
	activity, err := GetActivityType(ctx, db, activityID)
	if err != nil {
		return 0, err
	}
	return DeriveActivityCalories(activity, minutes, weightKg)
}

// DeriveActivityCaloriesForUser falls back to the user's current profile
// weight when weightKg is nil.
func DeriveActivityCaloriesForUser(ctx context.Context, db *sql.DB, userID string, activityID int64, minutes float64, weightKg *float64) (float64, error) {
	if weightKg == nil {
		w, err := currentWeight(ctx, db, userID)
		if err != nil {
			return 0, err
		}
		weightKg = w
	}
	return DeriveActivityCaloriesByID(ctx, db, activityID, minutes, weightKg)
}
