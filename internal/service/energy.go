package service

import (
	"math"
	"strings"
	"time"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
)

const defaultActivityMultiplier = 1.2

// ActivityLevels lists the accepted activity levels in ascending order.
var ActivityLevels = []string{"Sedentary", "Lightly Active", "Moderately Active", "Very Active", "Extra Active"}

var activityMultipliers = map[string]float64{
	"Sedentary":         1.2,
	"Lightly Active":    1.375,
	"Moderately Active": 1.55,
	"Very Active":       1.725,
	"Extra Active":      1.9,
}

var sexes = []string{"Male", "Female", "Other"}

func parseActivityLevel(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, level := range ActivityLevels {
		if strings.EqualFold(level, value) {
			return level, nil
		}
	}
	return "", validationErrorf("invalid activity level %q (allowed: %s)", value, strings.Join(ActivityLevels, ", "))
}

func parseSex(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, s := range sexes {
		if strings.EqualFold(s, value) {
			return s, nil
		}
	}
	return "", validationErrorf("invalid sex %q (allowed: %s)", value, strings.Join(sexes, ", "))
}

// AgeOn returns completed years between dob and today.
func AgeOn(dob, today time.Time) int {
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

// BMR is the Mifflin-St Jeor basal rate in kcal/day. Sexes other than male
// and female yield 0.
func BMR(sex string, weightKg, heightCm float64, age int) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch strings.ToLower(strings.TrimSpace(sex)) {
	case "male":
		return base + 5
	case "female":
		return base - 161
	default:
		return 0
	}
}

// TDEE scales bmr by the multiplier for level, 1.2 when level is unset or
// unknown.
func TDEE(bmr float64, level string) float64 {
	mult, ok := activityMultipliers[strings.TrimSpace(level)]
	if !ok {
		mult = defaultActivityMultiplier
	}
	return bmr * mult
}

// EstimateDailyCalories returns the rounded TDEE for p, or nil when weight,
// height, date of birth or a positive BMR is unavailable.
func EstimateDailyCalories(p model.Profile, today time.Time) *float64 {
	if p.CurrentWeight == nil || p.Height == nil || strings.TrimSpace(p.DateOfBirth) == "" {
		return nil
	}
	dob, err := ParseDate(p.DateOfBirth)
	if err != nil {
		return nil
	}
	bmr := BMR(p.Sex, *p.CurrentWeight, *p.Height, AgeOn(dob, today))
	if bmr <= 0 {
		return nil
	}
	estimate := math.Round(TDEE(bmr, p.ActivityLevel))
	return &estimate
}
