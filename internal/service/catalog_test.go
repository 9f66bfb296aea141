package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

const seedYAML = `
foods:
  - name: Banana
    calories: 89
    protein: 1.1
    carbs: 22.8
    fat: 0.3
  - name: Banana Bread
    calories: 326
    protein: 4.3
    carbs: 54.6
    fat: 10.5
  - name: Chicken Breast
    calories: 165
    protein: 31
    carbs: 0
    fat: 3.6
activities:
  - name: Rowing
    calories_per_min_per_kg: 0.1167
exercises:
  - name: Push-up
    category: Strength
    level: Beginner
    goal: Build upper body strength
    muscle_group: Chest
    equipment_needed: None
    common_mistakes: Sagging hips
    youtube_link: https://example.com/pushup
wellness_videos:
  - type: meditation
    title: Morning Calm
    description: Ten minute breathing session
    youtube_link: https://example.com/calm
`

func TestSeedCatalogFromYAMLIsIdempotent(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	seed, err := service.LoadCatalogSeed(path)
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	for i := 0; i < 2; i++ {
		res, err := service.SeedCatalog(ctx, db, seed)
		if err != nil {
			t.Fatalf("seed catalog pass %d: %v", i, err)
		}
		if res.Foods != 3 || res.Activities != 1 || res.Exercises != 1 || res.WellnessVideos != 1 {
			t.Fatalf("unexpected seed result: %+v", res)
		}
	}

	var foods int
	if err := db.QueryRow(`SELECT COUNT(1) FROM foods`).Scan(&foods); err != nil {
		t.Fatalf("count foods: %v", err)
	}
	if foods != 3 {
		t.Fatalf("expected 3 foods after two seeds, got %d", foods)
	}

	hits, err := service.SearchFoods(ctx, db, "banana", 0)
	if err != nil {
		t.Fatalf("search foods: %v", err)
	}
	if len(hits) != 2 || hits[0].Name != "Banana" || hits[1].Name != "Banana Bread" {
		t.Fatalf("unexpected search hits: %+v", hits)
	}
	if _, err := service.SearchFoods(ctx, db, "  ", 5); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank search, got %v", err)
	}

	types, err := service.ListActivityTypes(ctx, db)
	if err != nil {
		t.Fatalf("list activity types: %v", err)
	}
	var rowing *model.ActivityType
	for i := range types {
		if types[i].Name == "Rowing" {
			rowing = &types[i]
		}
	}
	if rowing == nil || rowing.CaloriesPerMinPerKg != 0.1167 {
		t.Fatalf("expected seeded rowing activity, got %+v", types)
	}

	exercises, err := service.ListExercises(ctx, db)
	if err != nil || len(exercises) != 1 || exercises[0].MuscleGroup != "Chest" {
		t.Fatalf("unexpected exercises %+v err=%v", exercises, err)
	}
	videos, err := service.ListWellnessVideos(ctx, db)
	if err != nil || len(videos) != 1 || videos[0].Title != "Morning Calm" {
		t.Fatalf("unexpected wellness videos %+v err=%v", videos, err)
	}
}

func TestLoadCatalogSeedRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("foods:\n  - name: X\n    kcal: 10\n"), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if _, err := service.LoadCatalogSeed(path); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

type stubLookup struct {
	product model.Product
	err     error
}

func (s stubLookup) LookupBarcode(ctx context.Context, barcode string) (model.Product, error) {
	return s.product, s.err
}

func TestImportFoodFromBarcode(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	lookup := stubLookup{product: model.Product{
		Code:    "3017620422003",
		Name:    "Hazelnut Spread",
		Brand:   "Acme",
		Per100g: model.Nutrients{Calories: 539, Protein: 6.3, Carbs: 57.5, Fat: 30.9},
	}}
	food, err := service.ImportFoodFromBarcode(ctx, db, lookup, "3017620422003")
	if err != nil {
		t.Fatalf("import food: %v", err)
	}
	if food.Name != "Hazelnut Spread (Acme)" || food.Calories != 539 || food.Fat != 30.9 {
		t.Fatalf("unexpected imported food: %+v", food)
	}
	again, err := service.ImportFoodFromBarcode(ctx, db, lookup, "3017620422003")
	if err != nil || again.ID != food.ID {
		t.Fatalf("expected re-import to return the same food, got %+v err=%v", again, err)
	}

	if _, err := service.ImportFoodFromBarcode(ctx, db, stubLookup{err: errors.New("boom")}, "1"); err == nil {
		t.Fatalf("expected lookup failure to propagate")
	}
}

func TestFallbackLookupTriesProvidersInOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	want := model.Product{Name: "Oat Drink", Per100g: model.Nutrients{Calories: 46}}

	chain := service.FallbackLookup{
		{Name: "openfoodfacts", Lookup: stubLookup{err: errors.New("not found")}},
		{Name: "usda", Lookup: stubLookup{product: want}},
	}
	got, err := chain.LookupBarcode(ctx, "12345678")
	if err != nil {
		t.Fatalf("fallback lookup: %v", err)
	}
	if got.Name != want.Name {
		t.Fatalf("expected second provider's product, got %+v", got)
	}

	failing := service.FallbackLookup{
		{Name: "openfoodfacts", Lookup: stubLookup{err: errors.New("offline")}},
		{Name: "usda", Lookup: stubLookup{err: errors.New("missing key")}},
	}
	_, err = failing.LookupBarcode(ctx, "12345678")
	if err == nil || !strings.Contains(err.Error(), "openfoodfacts: offline") || !strings.Contains(err.Error(), "usda: missing key") {
		t.Fatalf("expected both provider errors, got %v", err)
	}

	if _, err := (service.FallbackLookup{}).LookupBarcode(ctx, "12345678"); err == nil {
		t.Fatalf("expected error with no providers")
	}
}
