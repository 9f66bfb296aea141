package model

import (
	"fmt"
	"time"
)

type ReminderType string

const (
	ReminderWater   ReminderType = "water"
	ReminderSleep   ReminderType = "sleep"
	ReminderWorkout ReminderType = "workout"
)

// Schedule is implemented only by the schedule types in this package, so a
// reminder always carries exactly the parameter its type needs.
type Schedule interface {
	Type() ReminderType
	isSchedule()
}

type WaterSchedule struct {
	FrequencyMinutes int
}

type SleepSchedule struct {
	TimeOfDay TimeOfDay
}

type WorkoutSchedule struct {
	TimeOfDay TimeOfDay
}

func (WaterSchedule) Type() ReminderType   { return ReminderWater }
func (SleepSchedule) Type() ReminderType   { return ReminderSleep }
func (WorkoutSchedule) Type() ReminderType { return ReminderWorkout }

func (WaterSchedule) isSchedule()   {}
func (SleepSchedule) isSchedule()   {}
func (WorkoutSchedule) isSchedule() {}

// TimeOfDay is a wall-clock time without a date, in minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On returns the instant t occurs on the calendar day of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

type Reminder struct {
	ID            int64
	UserID        string
	Schedule      Schedule
	Active        bool
	LastTriggered *time.Time
}

func (r Reminder) Type() ReminderType {
	if r.Schedule == nil {
		return ""
	}
	return r.Schedule.Type()
}

// NextDue reports when r should next fire, given the current instant. Water
// reminders repeat every FrequencyMinutes after the last trigger and are due
// immediately when never triggered. Time-of-day reminders fire at the first
// occurrence of their time after the last trigger, or today when never
// triggered.
func (r Reminder) NextDue(now time.Time) time.Time {
	switch s := r.Schedule.(type) {
	case WaterSchedule:
		if r.LastTriggered == nil {
			return now
		}
		return r.LastTriggered.In(now.Location()).Add(time.Duration(s.FrequencyMinutes) * time.Minute)
	case SleepSchedule:
		return nextOccurrence(s.TimeOfDay, r.LastTriggered, now)
	case WorkoutSchedule:
		return nextOccurrence(s.TimeOfDay, r.LastTriggered, now)
	default:
		return time.Time{}
	}
}

func nextOccurrence(t TimeOfDay, last *time.Time, now time.Time) time.Time {
	if last == nil {
		return t.On(now)
	}
	ref := last.In(now.Location())
	next := t.On(ref)
	if !next.After(ref) {
		next = t.On(ref.AddDate(0, 0, 1))
	}
	return next
}
