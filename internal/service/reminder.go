package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
)

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)(?::[0-5]\d)?$`)

// ReminderInput is a reminder submission as received at the boundary, before
// it is narrowed to a schedule.
type ReminderInput struct {
	Type             string  `json:"type"`
	FrequencyMinutes *int    `json:"frequency"`
	TimeOfDay        *string `json:"time_of_day"`
}

// ParseTimeOfDay accepts HH:MM, and HH:MM:SS with the seconds dropped.
func ParseTimeOfDay(value string) (model.TimeOfDay, error) {
	m := timeOfDayPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return model.TimeOfDay{}, validationErrorf("invalid time of day %q, expected HH:MM", value)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return model.TimeOfDay{Hour: hour, Minute: minute}, nil
}

func parseReminderType(value string) (model.ReminderType, error) {
	switch t := model.ReminderType(strings.ToLower(strings.TrimSpace(value))); t {
	case model.ReminderWater, model.ReminderSleep, model.ReminderWorkout:
		return t, nil
	default:
		return "", validationErrorf("invalid reminder type %q (allowed: water, sleep, workout)", value)
	}
}

// MaxWaterFrequencyMinutes is one week.
const MaxWaterFrequencyMinutes = 7 * 24 * 60

// BuildSchedule narrows in to the schedule for its type. A parameter that does
// not belong to the type is logged and dropped rather than rejected.
func BuildSchedule(in ReminderInput, log *zap.Logger) (model.Schedule, error) {
	typ, err := parseReminderType(in.Type)
	if err != nil {
		return nil, err
	}
	hasTime := in.TimeOfDay != nil && strings.TrimSpace(*in.TimeOfDay) != ""

	if typ == model.ReminderWater {
		if in.FrequencyMinutes == nil || *in.FrequencyMinutes <= 0 {
			return nil, validationErrorf("water reminders require a positive frequency in minutes")
		}
		if *in.FrequencyMinutes > MaxWaterFrequencyMinutes {
			return nil, validationErrorf("water reminder frequency must be at most %d minutes", MaxWaterFrequencyMinutes)
		}
		if hasTime {
			log.Warn("ignoring time_of_day on water reminder", zap.String("time_of_day", *in.TimeOfDay))
		}
		return model.WaterSchedule{FrequencyMinutes: *in.FrequencyMinutes}, nil
	}

	if !hasTime {
		return nil, validationErrorf("%s reminders require a time of day", typ)
	}
	tod, err := ParseTimeOfDay(*in.TimeOfDay)
	if err != nil {
		return nil, err
	}
	if in.FrequencyMinutes != nil {
		log.Warn("ignoring frequency on time-of-day reminder",
			zap.String("type", string(typ)),
			zap.Int("frequency", *in.FrequencyMinutes),
		)
	}
	if typ == model.ReminderSleep {
		return model.SleepSchedule{TimeOfDay: tod}, nil
	}
	return model.WorkoutSchedule{TimeOfDay: tod}, nil
}

func scheduleColumns(s model.Schedule) (frequency, timeOfDay any, err error) {
	switch v := s.(type) {
	case model.WaterSchedule:
		if v.FrequencyMinutes <= 0 || v.FrequencyMinutes > MaxWaterFrequencyMinutes {
			return nil, nil, validationErrorf("water reminder frequency must be between 1 and %d minutes", MaxWaterFrequencyMinutes)
		}
		return v.FrequencyMinutes, nil, nil
	case model.SleepSchedule:
		return nil, v.TimeOfDay.String(), nil
	case model.WorkoutSchedule:
		return nil, v.TimeOfDay.String(), nil
	default:
		return nil, nil, validationErrorf("reminder schedule is required")
	}
}

// UpsertReminder creates the user's reminder of the schedule's type, or
// overwrites the existing one. Either way the reminder ends up active.
func UpsertReminder(ctx context.Context, db *sql.DB, userID string, s model.Schedule) (model.Reminder, error) {
	frequency, timeOfDay, err := scheduleColumns(s)
	if err != nil {
		return model.Reminder{}, err
	}
	_, err = db.ExecContext(ctx, `
INSERT INTO reminders(user_id, type, frequency_minutes, time_of_day, is_active)
VALUES(?, ?, ?, ?, 1)
ON CONFLICT(user_id, type) DO UPDATE SET
  frequency_minutes = excluded.frequency_minutes,
  time_of_day = excluded.time_of_day,
  is_active = 1
`, userID, string(s.Type()), frequency, timeOfDay)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("upsert %s reminder: %w", s.Type(), err)
	}

	row := db.QueryRowContext(ctx, reminderColumns+` WHERE user_id = ? AND type = ?`, userID, string(s.Type()))
	r, err := scanReminder(row.Scan)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("load %s reminder: %w", s.Type(), err)
	}
	return r, nil
}

func ListReminders(ctx context.Context, db *sql.DB, userID string) ([]model.Reminder, error) {
	rows, err := db.QueryContext(ctx, reminderColumns+`
WHERE user_id = ?
ORDER BY type, time_of_day, frequency_minutes
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	items := make([]model.Reminder, 0)
	for rows.Next() {
		r, err := scanReminder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminders: %w", err)
	}
	return items, nil
}

// DueReminders returns the user's active reminders whose next due time is not
// after the clock's now.
func DueReminders(ctx context.Context, db *sql.DB, clock clockwork.Clock, userID string) ([]model.Reminder, error) {
	all, err := ListReminders(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	now := clock.Now()
	due := make([]model.Reminder, 0, len(all))
	for _, r := range all {
		if r.Active && !r.NextDue(now).After(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

func ToggleReminder(ctx context.Context, db *sql.DB, userID string, id int64, active bool) (model.Reminder, error) {
	flag := 0
	if active {
		flag = 1
	}
	res, err := db.ExecContext(ctx, `UPDATE reminders SET is_active = ? WHERE id = ? AND user_id = ?`, flag, id, userID)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("toggle reminder %d: %w", id, err)
	}
	if err := requireAffected(res, "reminder", id); err != nil {
		return model.Reminder{}, err
	}
	return getReminder(ctx, db, userID, id)
}

// MarkReminderTriggered stamps the reminder with the clock's now. The active
// flag is left as is.
func MarkReminderTriggered(ctx context.Context, db *sql.DB, clock clockwork.Clock, userID string, id int64) (model.Reminder, error) {
	res, err := db.ExecContext(ctx, `UPDATE reminders SET last_triggered = ? WHERE id = ? AND user_id = ?`, formatStoredTime(clock.Now()), id, userID)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("mark reminder %d triggered: %w", id, err)
	}
	if err := requireAffected(res, "reminder", id); err != nil {
		return model.Reminder{}, err
	}
	return getReminder(ctx, db, userID, id)
}

func DeleteReminder(ctx context.Context, db *sql.DB, userID string, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete reminder %d: %w", id, err)
	}
	return requireAffected(res, "reminder", id)
}

func requireAffected(res sql.Result, noun string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve affected %s rows: %w", noun, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, noun, id)
	}
	return nil
}

const reminderColumns = `
SELECT id, user_id, type, frequency_minutes, time_of_day, is_active, last_triggered
FROM reminders`

func getReminder(ctx context.Context, db *sql.DB, userID string, id int64) (model.Reminder, error) {
	row := db.QueryRowContext(ctx, reminderColumns+` WHERE id = ? AND user_id = ?`, id, userID)
	r, err := scanReminder(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, fmt.Errorf("%w: reminder %d", ErrNotFound, id)
		}
		return model.Reminder{}, fmt.Errorf("load reminder %d: %w", id, err)
	}
	return r, nil
}

func scanReminder(scan func(dest ...any) error) (model.Reminder, error) {
	var r model.Reminder
	var typ string
	var frequency sql.NullInt64
	var timeOfDay, lastTriggered sql.NullString
	var active int
	if err := scan(&r.ID, &r.UserID, &typ, &frequency, &timeOfDay, &active, &lastTriggered); err != nil {
		return model.Reminder{}, err
	}
	r.Active = active != 0

	switch model.ReminderType(typ) {
	case model.ReminderWater:
		r.Schedule = model.WaterSchedule{FrequencyMinutes: int(frequency.Int64)}
	case model.ReminderSleep, model.ReminderWorkout:
		tod, err := ParseTimeOfDay(timeOfDay.String)
		if err != nil {
			return model.Reminder{}, fmt.Errorf("reminder %d: %w", r.ID, err)
		}
		if model.ReminderType(typ) == model.ReminderSleep {
			r.Schedule = model.SleepSchedule{TimeOfDay: tod}
		} else {
			r.Schedule = model.WorkoutSchedule{TimeOfDay: tod}
		}
	default:
		return model.Reminder{}, fmt.Errorf("reminder %d has unknown type %q", r.ID, typ)
	}

	if lastTriggered.Valid {
		t, err := parseStoredTime(lastTriggered.String)
		if err != nil {
			return model.Reminder{}, err
		}
		r.LastTriggered = &t
	}
	return r, nil
}
