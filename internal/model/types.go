package model

import (
	"fmt"
	"time"
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Sex          string
	DateOfBirth  string
	CreatedAt    time.Time
}

type Food struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type ActivityType struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	CaloriesPerMinPerKg float64 `json:"calories_per_min_per_kg"`
}

type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type MealEntry struct {
	ID       int64   `json:"id"`
	UserID   string  `json:"-"`
	FoodID   int64   `json:"food_id"`
	FoodName string  `json:"food_name"`
	Grams    float64 `json:"grams"`

	// Derived from the food's per-100g values and Grams.
	Nutrients

	MealType  string    `json:"meal_type"`
	MealDate  string    `json:"meal_date"`
	CreatedAt time.Time `json:"created_at"`
}

type ActivityEntry struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"-"`
	ActivityID      int64     `json:"activity_id"`
	ActivityName    string    `json:"activity_name"`
	DurationMinutes float64   `json:"duration_minutes"`
	CaloriesBurnt   float64   `json:"calories_burnt"`
	ActivityDate    string    `json:"activity_date"`
	CreatedAt       time.Time `json:"created_at"`
}

type Profile struct {
	UserID        string   `json:"-"`
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	Sex           string   `json:"sex"`
	DateOfBirth   string   `json:"date_of_birth"`
	CurrentWeight *float64 `json:"current_weight"`
	Height        *float64 `json:"height"`
	WeightGoal    *float64 `json:"weight_goal"`
	ActivityLevel string   `json:"activity_level"`
}

type WeightRecord struct {
	RecordDate string  `json:"record_date"`
	Weight     float64 `json:"weight"`
}

type Exercise struct {
	ID              int64  `json:"id" yaml:"-"`
	Name            string `json:"name" yaml:"name"`
	Category        string `json:"category" yaml:"category"`
	Level           string `json:"level" yaml:"level"`
	Goal            string `json:"goal" yaml:"goal"`
	MuscleGroup     string `json:"muscle_group" yaml:"muscle_group"`
	EquipmentNeeded string `json:"equipment_needed" yaml:"equipment_needed"`
	CommonMistakes  string `json:"common_mistakes" yaml:"common_mistakes"`
	VideoLink       string `json:"youtube_link" yaml:"youtube_link"`
}

type WellnessVideo struct {
	ID          int64  `json:"id" yaml:"-"`
	Type        string `json:"type" yaml:"type"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	VideoLink   string `json:"youtube_link" yaml:"youtube_link"`
}

// Product is a packaged food from an external database, reduced to its
// per-100g macros.
type Product struct {
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	Brand   string    `json:"brand"`
	Per100g Nutrients `json:"per_100g"`
}

// DisplayName is the product name qualified with its brand, when known.
func (p Product) DisplayName() string {
	if p.Brand == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Brand)
}
