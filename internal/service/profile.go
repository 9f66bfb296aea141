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

type ProfileView struct {
	model.Profile
	Age                    *int     `json:"age"`
	CaloriesConsumedToday  float64  `json:"calories_consumed_today"`
	CaloriesBurntToday     float64  `json:"calories_burnt_today"`
	EstimatedDailyCalories *float64 `json:"estimated_daily_calories"`
}

// ProfileUpdate holds optional profile fields. An empty DateOfBirth or Sex
// clears the stored value.
type ProfileUpdate struct {
	Username      *string  `json:"username"`
	Email         *string  `json:"email"`
	Sex           *string  `json:"sex"`
	DateOfBirth   *string  `json:"date_of_birth"`
	CurrentWeight *float64 `json:"current_weight"`
	Height        *float64 `json:"height"`
	WeightGoal    *float64 `json:"weight_goal"`
	ActivityLevel *string  `json:"activity_level"`
}

func (u ProfileUpdate) empty() bool {
	return u.Username == nil && u.Email == nil && u.Sex == nil && u.DateOfBirth == nil &&
		u.CurrentWeight == nil && u.Height == nil && u.WeightGoal == nil && u.ActivityLevel == nil
}

func loadProfile(ctx context.Context, q queryer, userID string) (model.Profile, error) {
	var p model.Profile
	var sex, dob, level sql.NullString
	var weight, height, goal sql.NullFloat64
	err := q.QueryRowContext(ctx, `
SELECT u.id, u.username, u.email, u.gender, u.date_of_birth,
       p.current_weight, p.height, p.weight_goal, p.activity_level
FROM users u
LEFT JOIN user_profiles p ON p.user_id = u.id
WHERE u.id = ?
`, userID).Scan(&p.UserID, &p.Username, &p.Email, &sex, &dob, &weight, &height, &goal, &level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return model.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	p.Sex = sex.String
	p.DateOfBirth = dob.String
	p.ActivityLevel = level.String
	p.CurrentWeight = nullableFloat(weight)
	p.Height = nullableFloat(height)
	p.WeightGoal = nullableFloat(goal)
	return p, nil
}

func currentWeight(ctx context.Context, q queryer, userID string) (*float64, error) {
	var weight sql.NullFloat64
	err := q.QueryRowContext(ctx, `SELECT current_weight FROM user_profiles WHERE user_id = ?`, userID).Scan(&weight)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup current weight: %w", err)
	}
	return nullableFloat(weight), nil
}

// GetProfile returns the stored profile plus values derived for the clock's
// current day.
func GetProfile(ctx context.Context, db *sql.DB, clock clockwork.Clock, userID string) (ProfileView, error) {
	p, err := loadProfile(ctx, db, userID)
	if err != nil {
		return ProfileView{}, err
	}
	today := clock.Now()
	day := FormatDate(today)

	view := ProfileView{Profile: p}
	if p.DateOfBirth != "" {
		if dob, err := ParseDate(p.DateOfBirth); err == nil {
			age := AgeOn(dob, today)
			view.Age = &age
		}
	}
	if view.CaloriesConsumedToday, err = caloriesConsumedOn(ctx, db, userID, day); err != nil {
		return ProfileView{}, err
	}
	if view.CaloriesBurntToday, err = caloriesBurntOn(ctx, db, userID, day); err != nil {
		return ProfileView{}, err
	}
	view.EstimatedDailyCalories = EstimateDailyCalories(p, today)
	return view, nil
}

// UpdateProfile writes the supplied fields in one transaction. A new current
// weight is also recorded in the weight history for today.
func UpdateProfile(ctx context.Context, db *sql.DB, clock clockwork.Clock, userID string, u ProfileUpdate) (ProfileView, error) {
	if u.empty() {
		return ProfileView{}, ErrNoFieldsProvided
	}

	userSets := make([]string, 0, 4)
	userArgs := make([]any, 0, 5)
	if u.Username != nil {
		name := strings.TrimSpace(*u.Username)
		if name == "" {
			return ProfileView{}, validationErrorf("username cannot be empty")
		}
		userSets = append(userSets, "username = ?")
		userArgs = append(userArgs, name)
		u.Username = &name
	}
	if u.Email != nil {
		userSets = append(userSets, "email = ?")
		userArgs = append(userArgs, strings.TrimSpace(*u.Email))
	}
	if u.Sex != nil {
		var sex any
		if strings.TrimSpace(*u.Sex) != "" {
			v, err := parseSex(*u.Sex)
			if err != nil {
				return ProfileView{}, err
			}
			sex = v
		}
		userSets = append(userSets, "gender = ?")
		userArgs = append(userArgs, sex)
	}
	if u.DateOfBirth != nil {
		var dob any
		if strings.TrimSpace(*u.DateOfBirth) != "" {
			v, err := validateDate(*u.DateOfBirth)
			if err != nil {
				return ProfileView{}, err
			}
			dob = v
		}
		userSets = append(userSets, "date_of_birth = ?")
		userArgs = append(userArgs, dob)
	}

	profileSets := make([]string, 0, 5)
	profileArgs := make([]any, 0, 6)
	for _, f := range []struct {
		column string
		label  string
		value  *float64
	}{
		{"current_weight", "current weight", u.CurrentWeight},
		{"height", "height", u.Height},
		{"weight_goal", "weight goal", u.WeightGoal},
	} {
		if f.value == nil {
			continue
		}
		if err := validatePositiveFloat(f.label, *f.value); err != nil {
			return ProfileView{}, err
		}
		profileSets = append(profileSets, f.column+" = ?")
		profileArgs = append(profileArgs, *f.value)
	}
	if u.ActivityLevel != nil {
		level, err := parseActivityLevel(*u.ActivityLevel)
		if err != nil {
			return ProfileView{}, err
		}
		profileSets = append(profileSets, "activity_level = ?")
		profileArgs = append(profileArgs, level)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ProfileView{}, fmt.Errorf("begin profile update tx: %w", err)
	}
	defer rollback(tx)

	if _, err := loadProfile(ctx, tx, userID); err != nil {
		return ProfileView{}, err
	}
	if u.Username != nil {
		var taken int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ? AND id <> ?`, *u.Username, userID).Scan(&taken)
		if err == nil {
			return ProfileView{}, fmt.Errorf("%w: %s", ErrDuplicateUsername, *u.Username)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return ProfileView{}, fmt.Errorf("check username: %w", err)
		}
	}

	if len(userSets) > 0 {
		userArgs = append(userArgs, userID)
		if _, err := tx.ExecContext(ctx, `UPDATE users SET `+strings.Join(userSets, ", ")+` WHERE id = ?`, userArgs...); err != nil {
			return ProfileView{}, fmt.Errorf("update user: %w", err)
		}
	}

	now := clock.Now()
	if len(profileSets) > 0 {
		if _, err := tx.ExecContext(ctx, `INSERT INTO user_profiles(user_id, updated_at) VALUES(?, ?) ON CONFLICT(user_id) DO NOTHING`, userID, formatStoredTime(now)); err != nil {
			return ProfileView{}, fmt.Errorf("create profile: %w", err)
		}
		profileSets = append(profileSets, "updated_at = ?")
		profileArgs = append(profileArgs, formatStoredTime(now), userID)
		if _, err := tx.ExecContext(ctx, `UPDATE user_profiles SET `+strings.Join(profileSets, ", ")+` WHERE user_id = ?`, profileArgs...); err != nil {
			return ProfileView{}, fmt.Errorf("update profile: %w", err)
		}
	}
	if u.CurrentWeight != nil {
		if err := recordWeight(ctx, tx, userID, FormatDate(now), *u.CurrentWeight); err != nil {
			return ProfileView{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ProfileView{}, fmt.Errorf("commit profile update: %w", err)
	}
	return GetProfile(ctx, db, clock, userID)
}

// RecordWeight stores weight for (user, date), replacing any value already
// recorded for that day.
func RecordWeight(ctx context.Context, db *sql.DB, userID, date string, weight float64) error {
	date, err := validateDate(date)
	if err != nil {
		return err
	}
	if err := validatePositiveFloat("weight", weight); err != nil {
		return err
	}
	return recordWeight(ctx, db, userID, date, weight)
}

func recordWeight(ctx context.Context, q queryer, userID, date string, weight float64) error {
	_, err := q.ExecContext(ctx, `
INSERT INTO weight_history(user_id, record_date, weight)
VALUES(?, ?, ?)
ON CONFLICT(user_id, record_date) DO UPDATE SET
  weight = excluded.weight
`, userID, date, weight)
	if err != nil {
		return fmt.Errorf("record weight for %s: %w", date, err)
	}
	return nil
}

// RecordWeightIfChanged sets the profile's current weight and records it for
// today. It reports false and writes nothing when both already hold weight.
func RecordWeightIfChanged(ctx context.Context, db *sql.DB, clock clockwork.Clock, userID string, weight float64) (bool, error) {
	if err := validatePositiveFloat("weight", weight); err != nil {
		return false, err
	}
	today := FormatDate(clock.Now())

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin weight tx: %w", err)
	}
	defer rollback(tx)

	p, err := loadProfile(ctx, tx, userID)
	if err != nil {
		return false, err
	}
	var recorded sql.NullFloat64
	err = tx.QueryRowContext(ctx, `SELECT weight FROM weight_history WHERE user_id = ? AND record_date = ?`, userID, today).Scan(&recorded)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("lookup weight for %s: %w", today, err)
	}
	if p.CurrentWeight != nil && *p.CurrentWeight == weight && recorded.Valid && recorded.Float64 == weight {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO user_profiles(user_id, current_weight, updated_at)
VALUES(?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
  current_weight = excluded.current_weight,
  updated_at = excluded.updated_at
`, userID, weight, formatStoredTime(clock.Now()))
	if err != nil {
		return false, fmt.Errorf("update current weight: %w", err)
	}
	if err := recordWeight(ctx, tx, userID, today, weight); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit weight: %w", err)
	}
	return true, nil
}

func WeightHistory(ctx context.Context, db *sql.DB, userID string) ([]model.WeightRecord, error) {
	rows, err := db.QueryContext(ctx, `SELECT record_date, weight FROM weight_history WHERE user_id = ? ORDER BY record_date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list weight history: %w", err)
	}
	defer rows.Close()

	items := make([]model.WeightRecord, 0)
	for rows.Next() {
		var r model.WeightRecord
		if err := rows.Scan(&r.RecordDate, &r.Weight); err != nil {
			return nil, fmt.Errorf("scan weight record: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weight history: %w", err)
	}
	return items, nil
}
