package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
)

const maxFoodSearchResults = 20

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type AddFoodInput struct {
	Name     string  `yaml:"name"`
	Calories float64 `yaml:"calories"`
	Protein  float64 `yaml:"protein"`
	Carbs    float64 `yaml:"carbs"`
	Fat      float64 `yaml:"fat"`
}

type AddActivityTypeInput struct {
	Name                string  `yaml:"name"`
	CaloriesPerMinPerKg float64 `yaml:"calories_per_min_per_kg"`
}

// CatalogSeed is the YAML document accepted by SeedCatalog.
type CatalogSeed struct {
	Foods          []AddFoodInput         `yaml:"foods"`
	Activities     []AddActivityTypeInput `yaml:"activities"`
	Exercises      []model.Exercise       `yaml:"exercises"`
	WellnessVideos []model.WellnessVideo  `yaml:"wellness_videos"`
}

type SeedResult struct {
	Foods          int
	Activities     int
	Exercises      int
	WellnessVideos int
}

func SearchFoods(ctx context.Context, db *sql.DB, term string, limit int) ([]model.Food, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, validationErrorf("search term is required")
	}
	if limit <= 0 || limit > maxFoodSearchResults {
		limit = maxFoodSearchResults
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, name, calories, protein, carbs, fat
FROM foods
WHERE name LIKE ?
ORDER BY name ASC
LIMIT ?
`, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search foods: %w", err)
	}
	defer rows.Close()

	foods := make([]model.Food, 0)
	for rows.Next() {
		var f model.Food
		if err := rows.Scan(&f.ID, &f.Name, &f.Calories, &f.Protein, &f.Carbs, &f.Fat); err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		foods = append(foods, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foods: %w", err)
	}
	return foods, nil
}

func GetFood(ctx context.Context, db *sql.DB, id int64) (model.Food, error) {
	return getFood(ctx, db, id)
}

func getFood(ctx context.Context, q queryer, id int64) (model.Food, error) {
	var f model.Food
	err := q.QueryRowContext(ctx, `SELECT id, name, calories, protein, carbs, fat FROM foods WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &f.Calories, &f.Protein, &f.Carbs, &f.Fat)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Food{}, fmt.Errorf("%w: food %d does not exist", ErrUnknownReference, id)
		}
		return model.Food{}, fmt.Errorf("lookup food %d: %w", id, err)
	}
	return f, nil
}

func AddFood(ctx context.Context, db *sql.DB, in AddFoodInput) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return 0, validationErrorf("food name is required")
	}
	for _, v := range []struct {
		name  string
		value float64
	}{{"calories", in.Calories}, {"protein", in.Protein}, {"carbs", in.Carbs}, {"fat", in.Fat}} {
		if err := validateNonNegativeFloat(v.name, v.value); err != nil {
			return 0, err
		}
	}
	_, err := db.ExecContext(ctx, `
INSERT INTO foods(name, calories, protein, carbs, fat)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(name) DO NOTHING
`, in.Name, in.Calories, in.Protein, in.Carbs, in.Fat)
	if err != nil {
		return 0, fmt.Errorf("add food %q: %w", in.Name, err)
	}
	var id int64
	if err := db.QueryRowContext(ctx, `SELECT id FROM foods WHERE name = ?`, in.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("resolve food id for %q: %w", in.Name, err)
	}
	return id, nil
}

func ListActivityTypes(ctx context.Context, db *sql.DB) ([]model.ActivityType, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, calories_per_min_per_kg FROM activities ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list activity types: %w", err)
	}
	defer rows.Close()

	items := make([]model.ActivityType, 0)
	for rows.Next() {
		var a model.ActivityType
		if err := rows.Scan(&a.ID, &a.Name, &a.CaloriesPerMinPerKg); err != nil {
			return nil, fmt.Errorf("scan activity type: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity types: %w", err)
	}
	return items, nil
}

func GetActivityType(ctx context.Context, db *sql.DB, id int64) (model.ActivityType, error) {
	return getActivityType(ctx, db, id)
}

func getActivityType(ctx context.Context, q queryer, id int64) (model.ActivityType, error) {
	var a model.ActivityType
	err := q.QueryRowContext(ctx, `SELECT id, name, calories_per_min_per_kg FROM activities WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.CaloriesPerMinPerKg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ActivityType{}, fmt.Errorf("%w: activity type %d does not exist", ErrUnknownReference, id)
		}
		return model.ActivityType{}, fmt.Errorf("lookup activity type %d: %w", id, err)
	}
	return a, nil
}

func addActivityType(ctx context.Context, db *sql.DB, in AddActivityTypeInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return validationErrorf("activity name is required")
	}
	if err := validateNonNegativeFloat("calories_per_min_per_kg", in.CaloriesPerMinPerKg); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO activities(name, calories_per_min_per_kg) VALUES(?, ?)`, in.Name, in.CaloriesPerMinPerKg); err != nil {
		return fmt.Errorf("add activity type %q: %w", in.Name, err)
	}
	return nil
}

func ListExercises(ctx context.Context, db *sql.DB) ([]model.Exercise, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, name, category, level, goal, muscle_group, equipment_needed, common_mistakes, youtube_link
FROM exercises
ORDER BY name ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	items := make([]model.Exercise, 0)
	for rows.Next() {
		var e model.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Level, &e.Goal, &e.MuscleGroup, &e.EquipmentNeeded, &e.CommonMistakes, &e.VideoLink); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}
	return items, nil
}

func ListWellnessVideos(ctx context.Context, db *sql.DB) ([]model.WellnessVideo, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, type, title, description, youtube_link FROM wellness_videos ORDER BY type, title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list wellness videos: %w", err)
	}
	defer rows.Close()

	items := make([]model.WellnessVideo, 0)
	for rows.Next() {
		var v model.WellnessVideo
		if err := rows.Scan(&v.ID, &v.Type, &v.Title, &v.Description, &v.VideoLink); err != nil {
			return nil, fmt.Errorf("scan wellness video: %w", err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wellness videos: %w", err)
	}
	return items, nil
}

func LoadCatalogSeed(path string) (CatalogSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CatalogSeed{}, fmt.Errorf("read catalog seed %s: %w", path, err)
	}
	var seed CatalogSeed
	if err := yaml.UnmarshalStrict(data, &seed); err != nil {
		return CatalogSeed{}, fmt.Errorf("decode catalog seed %s: %w", path, err)
	}
	return seed, nil
}

// SeedCatalog inserts catalog rows, skipping names that already exist.
func SeedCatalog(ctx context.Context, db *sql.DB, seed CatalogSeed) (SeedResult, error) {
	var out SeedResult
	for _, f := range seed.Foods {
		if _, err := AddFood(ctx, db, f); err != nil {
			return out, err
		}
		out.Foods++
	}
	for _, a := range seed.Activities {
		if err := addActivityType(ctx, db, a); err != nil {
			return out, err
		}
		out.Activities++
	}
	for _, e := range seed.Exercises {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return out, validationErrorf("exercise name is required")
		}
		_, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO exercises(name, category, level, goal, muscle_group, equipment_needed, common_mistakes, youtube_link)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, name, e.Category, e.Level, e.Goal, e.MuscleGroup, e.EquipmentNeeded, e.CommonMistakes, e.VideoLink)
		if err != nil {
			return out, fmt.Errorf("seed exercise %q: %w", name, err)
		}
		out.Exercises++
	}
	for _, v := range seed.WellnessVideos {
		title := strings.TrimSpace(v.Title)
		if title == "" || strings.TrimSpace(v.Type) == "" {
			return out, validationErrorf("wellness video type and title are required")
		}
		_, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO wellness_videos(type, title, description, youtube_link)
VALUES(?, ?, ?, ?)
`, strings.TrimSpace(v.Type), title, v.Description, v.VideoLink)
		if err != nil {
			return out, fmt.Errorf("seed wellness video %q: %w", title, err)
		}
		out.WellnessVideos++
	}
	return out, nil
}
