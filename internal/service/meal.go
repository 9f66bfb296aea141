package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
)

var MealTypes = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

type CreateMealInput struct {
	UserID   string
	FoodID   int64
	Grams    float64
	MealDate string
	MealType string
}

// MealUpdate holds the optional fields of a meal edit. Nil means unchanged.
type MealUpdate struct {
	Grams    *float64 `json:"grams"`
	MealType *string  `json:"meal_type"`
	FoodID   *int64   `json:"food_id"`
}

func (u MealUpdate) empty() bool {
	return u.Grams == nil && u.MealType == nil && u.FoodID == nil
}

type MealSummary struct {
	Date    string            `json:"date"`
	Entries []model.MealEntry `json:"entries"`
	Groups  []MealGroup       `json:"groups"`
	Totals  model.Nutrients   `json:"totals"`
}

func parseMealType(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, t := range MealTypes {
		if strings.EqualFold(t, value) {
			return t, nil
		}
	}
	return "", validationErrorf("invalid meal type %q (allowed: %s)", value, strings.Join(MealTypes, ", "))
}

func CreateMealEntry(ctx context.Context, db *sql.DB, clock clockwork.Clock, in CreateMealInput) (model.MealEntry, error) {
	if !finite(in.Grams) || in.Grams <= 0 {
		return model.MealEntry{}, quantityErrorf("grams must be a positive number")
	}
	mealType, err := parseMealType(in.MealType)
	if err != nil {
		return model.MealEntry{}, err
	}
	date, err := validateDate(in.MealDate)
	if err != nil {
		return model.MealEntry{}, err
	}

	food, err := getFood(ctx, db, in.FoodID)
	if err != nil {
		return model.MealEntry{}, err
	}
	n, err := DeriveMealNutrients(food, in.Grams)
	if err != nil {
		return model.MealEntry{}, err
	}

	res, err := db.ExecContext(ctx, `
INSERT INTO user_meals(user_id, food_id, grams, calories, protein, carbs, fat, meal_date, meal_type, created_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, in.UserID, food.ID, in.Grams, n.Calories, n.Protein, n.Carbs, n.Fat, date, mealType, formatStoredTime(clock.Now()))
	if err != nil {
		return model.MealEntry{}, fmt.Errorf("insert meal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.MealEntry{}, fmt.Errorf("resolve inserted meal entry id: %w", err)
	}
	return getMealEntry(ctx, db, in.UserID, id)
}

// UpdateMealEntry applies u inside one transaction. When grams or the food
// changes, all four nutrients are re-derived from the final food and grams.
func UpdateMealEntry(ctx context.Context, db *sql.DB, userID string, id int64, u MealUpdate) (model.MealEntry, error) {
	if u.empty() {
		return model.MealEntry{}, ErrNoFieldsProvided
	}
	if u.Grams != nil && (!finite(*u.Grams) || *u.Grams <= 0) {
		return model.MealEntry{}, quantityErrorf("grams must be a positive number")
	}
	var mealType string
	if u.MealType != nil {
		t, err := parseMealType(*u.MealType)
		if err != nil {
			return model.MealEntry{}, err
		}
		mealType = t
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.MealEntry{}, fmt.Errorf("begin meal update tx: %w", err)
	}
	defer rollback(tx)

	var foodID int64
	var grams float64
	err = tx.QueryRowContext(ctx, `SELECT food_id, grams FROM user_meals WHERE id = ? AND user_id = ?`, id, userID).Scan(&foodID, &grams)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MealEntry{}, fmt.Errorf("%w: meal entry %d", ErrNotFound, id)
		}
		return model.MealEntry{}, fmt.Errorf("lookup meal entry %d: %w", id, err)
	}

	if u.Grams != nil || u.FoodID != nil {
		if u.Grams != nil {
			grams = *u.Grams
		}
		if u.FoodID != nil {
			foodID = *u.FoodID
		}
		food, err := getFood(ctx, tx, foodID)
		if err != nil {
			return model.MealEntry{}, err
		}
		n, err := DeriveMealNutrients(food, grams)
		if err != nil {
			return model.MealEntry{}, err
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE user_meals
SET food_id = ?, grams = ?, calories = ?, protein = ?, carbs = ?, fat = ?
WHERE id = ? AND user_id = ?
`, foodID, grams, n.Calories, n.Protein, n.Carbs, n.Fat, id, userID); err != nil {
			return model.MealEntry{}, fmt.Errorf("update meal entry %d: %w", id, err)
		}
	}
	if u.MealType != nil {
		if _, err := tx.ExecContext(ctx, `UPDATE user_meals SET meal_type = ? WHERE id = ? AND user_id = ?`, mealType, id, userID); err != nil {
			return model.MealEntry{}, fmt.Errorf("update meal type for entry %d: %w", id, err)
		}
	}

	entry, err := getMealEntry(ctx, tx, userID, id)
	if err != nil {
		return model.MealEntry{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.MealEntry{}, fmt.Errorf("commit meal update: %w", err)
	}
	return entry, nil
}

func DeleteMealEntry(ctx context.Context, db *sql.DB, userID string, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM user_meals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete meal entry %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve deleted meal entry rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: meal entry %d", ErrNotFound, id)
	}
	return nil
}

const mealEntryColumns = `
SELECT m.id, m.user_id, m.food_id, f.name, m.grams, m.calories, m.protein, m.carbs, m.fat, m.meal_type, m.meal_date, m.created_at
FROM user_meals m
JOIN foods f ON f.id = m.food_id`

func scanMealEntry(scan func(dest ...any) error) (model.MealEntry, error) {
	var e model.MealEntry
	var createdRaw string
	if err := scan(&e.ID, &e.UserID, &e.FoodID, &e.FoodName, &e.Grams, &e.Calories, &e.Protein, &e.Carbs, &e.Fat, &e.MealType, &e.MealDate, &createdRaw); err != nil {
		return model.MealEntry{}, err
	}
	createdAt, err := parseStoredTime(createdRaw)
	if err != nil {
		return model.MealEntry{}, err
	}
	e.CreatedAt = createdAt
	return e, nil
}

func getMealEntry(ctx context.Context, q queryer, userID string, id int64) (model.MealEntry, error) {
	row := q.QueryRowContext(ctx, mealEntryColumns+` WHERE m.id = ? AND m.user_id = ?`, id, userID)
	e, err := scanMealEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MealEntry{}, fmt.Errorf("%w: meal entry %d", ErrNotFound, id)
		}
		return model.MealEntry{}, fmt.Errorf("load meal entry %d: %w", id, err)
	}
	return e, nil
}

// ListMealEntries returns a user's entries for one day in creation order.
func ListMealEntries(ctx context.Context, db *sql.DB, userID, date string) ([]model.MealEntry, error) {
	date, err := validateDate(date)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, mealEntryColumns+`
WHERE m.user_id = ? AND m.meal_date = ?
ORDER BY m.created_at ASC, m.id ASC
`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list meal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.MealEntry, 0)
	for rows.Next() {
		e, err := scanMealEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan meal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal entries: %w", err)
	}
	return entries, nil
}

func MealDailySummary(ctx context.Context, db *sql.DB, userID, date string) (MealSummary, error) {
	date, err := validateDate(date)
	if err != nil {
		return MealSummary{}, err
	}
	entries, err := ListMealEntries(ctx, db, userID, date)
	if err != nil {
		return MealSummary{}, err
	}
	return MealSummary{
		Date:    date,
		Entries: entries,
		Groups:  GroupByMealType(entries),
		Totals:  SumMeals(entries),
	}, nil
}

func caloriesConsumedOn(ctx context.Context, q queryer, userID, date string) (float64, error) {
	var total float64
	err := q.QueryRowContext(ctx, `SELECT IFNULL(SUM(calories), 0) FROM user_meals WHERE user_id = ? AND meal_date = ?`, userID, date).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum calories consumed: %w", err)
	}
	return total, nil
}
