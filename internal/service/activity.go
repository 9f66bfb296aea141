package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
)

type CreateActivityInput struct {
	UserID          string
	ActivityID      int64
	DurationMinutes float64
	CaloriesBurnt   float64
	ActivityDate    string
}

// ActivityUpdate holds the optional fields of an activity edit. Nil means
// unchanged.
type ActivityUpdate struct {
	DurationMinutes *float64 `json:"duration_minutes"`
	ActivityID      *int64   `json:"activity_id"`
	CaloriesBurnt   *float64 `json:"calories_burnt"`
}

func (u ActivityUpdate) empty() bool {
	return u.DurationMinutes == nil && u.ActivityID == nil && u.CaloriesBurnt == nil
}

type ActivitySummary struct {
	Date    string                `json:"date"`
	Entries []model.ActivityEntry `json:"entries"`
	Totals  ActivityTotals        `json:"totals"`
}

// CreateActivityEntry stores the caller's calorie figure as given. The
// activity type must exist.
func CreateActivityEntry(ctx context.Context, db *sql.DB, clock clockwork.Clock, in CreateActivityInput) (model.ActivityEntry, error) {
	if !finite(in.DurationMinutes) || in.DurationMinutes <= 0 {
		return model.ActivityEntry{}, quantityErrorf("duration must be a positive number")
	}
	if err := validateNonNegativeFloat("calories burnt", in.CaloriesBurnt); err != nil {
		return model.ActivityEntry{}, err
	}
	date, err := validateDate(in.ActivityDate)
	if err != nil {
		return model.ActivityEntry{}, err
	}
	if _, err := getActivityType(ctx, db, in.ActivityID); err != nil {
		return model.ActivityEntry{}, err
	}

	res, err := db.ExecContext(ctx, `
INSERT INTO user_activities(user_id, activity_id, duration_minutes, calories_burnt, activity_date, created_at)
VALUES(?, ?, ?, ?, ?, ?)
`, in.UserID, in.ActivityID, in.DurationMinutes, in.CaloriesBurnt, date, formatStoredTime(clock.Now()))
	if err != nil {
		return model.ActivityEntry{}, fmt.Errorf("insert activity entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ActivityEntry{}, fmt.Errorf("resolve inserted activity entry id: %w", err)
	}
	return getActivityEntry(ctx, db, in.UserID, id)
}

// UpdateActivityEntry applies u inside one transaction. A change of duration
// or activity type recomputes calories from the profile's current weight and
// overrides any calorie value in u.
func UpdateActivityEntry(ctx context.Context, db *sql.DB, userID string, id int64, u ActivityUpdate) (model.ActivityEntry, error) {
	if u.empty() {
		return model.ActivityEntry{}, ErrNoFieldsProvided
	}
	if u.DurationMinutes != nil && (!finite(*u.DurationMinutes) || *u.DurationMinutes <= 0) {
		return model.ActivityEntry{}, quantityErrorf("duration must be a positive number")
	}
	if u.CaloriesBurnt != nil {
		if err := validateNonNegativeFloat("calories burnt", *u.CaloriesBurnt); err != nil {
			return model.ActivityEntry{}, err
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.ActivityEntry{}, fmt.Errorf("begin activity update tx: %w", err)
	}
	defer rollback(tx)

	var activityID int64
	var minutes float64
	err = tx.QueryRowContext(ctx, `SELECT activity_id, duration_minutes FROM user_activities WHERE id = ? AND user_id = ?`, id, userID).Scan(&activityID, &minutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ActivityEntry{}, fmt.Errorf("%w: activity entry %d", ErrNotFound, id)
		}
		return model.ActivityEntry{}, fmt.Errorf("lookup activity entry %d: %w", id, err)
	}

	switch {
	case u.DurationMinutes != nil || u.ActivityID != nil:
		if u.DurationMinutes != nil {
			minutes = *u.DurationMinutes
		}
		if u.ActivityID != nil {
			activityID = *u.ActivityID
		}
		activity, err := getActivityType(ctx, tx, activityID)
		if err != nil {
			return model.ActivityEntry{}, err
		}
		weight, err := currentWeight(ctx, tx, userID)
		if err != nil {
			return model.ActivityEntry{}, err
		}
		calories, err := DeriveActivityCalories(activity, minutes, weight)
		if err != nil {
			return model.ActivityEntry{}, err
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE user_activities
SET activity_id = ?, duration_minutes = ?, calories_burnt = ?
WHERE id = ? AND user_id = ?
`, activityID, minutes, calories, id, userID); err != nil {
			return model.ActivityEntry{}, fmt.Errorf("update activity entry %d: %w", id, err)
		}
	case u.CaloriesBurnt != nil:
		if _, err := tx.ExecContext(ctx, `UPDATE user_activities SET calories_burnt = ? WHERE id = ? AND user_id = ?`, *u.CaloriesBurnt, id, userID); err != nil {
			return model.ActivityEntry{}, fmt.Errorf("update calories for activity entry %d: %w", id, err)
		}
	}

	entry, err := getActivityEntry(ctx, tx, userID, id)
	if err != nil {
		return model.ActivityEntry{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.ActivityEntry{}, fmt.Errorf("commit activity update: %w", err)
	}
	return entry, nil
}

func DeleteActivityEntry(ctx context.Context, db *sql.DB, userID string, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM user_activities WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete activity entry %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve deleted activity entry rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: activity entry %d", ErrNotFound, id)
	}
	return nil
}

const activityEntryColumns = `
SELECT ua.id, ua.user_id, ua.activity_id, a.name, ua.duration_minutes, ua.calories_burnt, ua.activity_date, ua.created_at
FROM user_activities ua
JOIN activities a ON a.id = ua.activity_id`

func scanActivityEntry(scan func(dest ...any) error) (model.ActivityEntry, error) {
	var e model.ActivityEntry
	var createdRaw string
	if err := scan(&e.ID, &e.UserID, &e.ActivityID, &e.ActivityName, &e.DurationMinutes, &e.CaloriesBurnt, &e.ActivityDate, &createdRaw); err != nil {
		return model.ActivityEntry{}, err
	}
	createdAt, err := parseStoredTime(createdRaw)
	if err != nil {
		return model.ActivityEntry{}, err
	}
	e.CreatedAt = createdAt
	return e, nil
}

func getActivityEntry(ctx context.Context, q queryer, userID string, id int64) (model.ActivityEntry, error) {
	row := q.QueryRowContext(ctx, activityEntryColumns+` WHERE ua.id = ? AND ua.user_id = ?`, id, userID)
	e, err := scanActivityEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ActivityEntry{}, fmt.Errorf("%w: activity entry %d", ErrNotFound, id)
		}
		return model.ActivityEntry{}, fmt.Errorf("load activity entry %d: %w", id, err)
	}
	return e, nil
}

func ListActivityEntries(ctx context.Context, db *sql.DB, userID, date string) ([]model.ActivityEntry, error) {
	date, err := validateDate(date)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, activityEntryColumns+`
WHERE ua.user_id = ? AND ua.activity_date = ?
ORDER BY ua.created_at ASC, ua.id ASC
`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list activity entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.ActivityEntry, 0)
	for rows.Next() {
		e, err := scanActivityEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity entries: %w", err)
	}
	return entries, nil
}

func ActivityDailySummary(ctx context.Context, db *sql.DB, userID, date string) (ActivitySummary, error) {
	date, err := validateDate(date)
	if err != nil {
		return ActivitySummary{}, err
	}
	entries, err := ListActivityEntries(ctx, db, userID, date)
	if err != nil {
		return ActivitySummary{}, err
	}
	return ActivitySummary{
		Date:    date,
		Entries: entries,
		Totals:  SumActivities(entries),
	}, nil
}

func caloriesBurntOn(ctx context.Context, q queryer, userID, date string) (float64, error) {
	var total float64
	err := q.QueryRowContext(ctx, `SELECT IFNULL(SUM(calories_burnt), 0) FROM user_activities WHERE user_id = ? AND activity_date = ?`, userID, date).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum calories burnt: %w", err)
	}
	return total, nil
}
