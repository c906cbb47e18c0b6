package model

import (
	"fmt"
	"time"

	"homeserve/shared/timeslot"
)

const (
	TableName  = "provider_schedules"
	EntityName = "schedule"

	FieldProviderID = "provider_id"
	FieldDayOfWeek  = "day_of_week"
)

var (
	DefaultStart = timeslot.NewClock(9, 0)
	DefaultEnd   = timeslot.NewClock(17, 0)
)

// Weekdays is the display order of a working week.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// Schedule is a provider's working window for one weekday. At most one row exists per (provider, day).
type Schedule struct {
	ProviderID int64          `db:"provider_id"`
	DayOfWeek  string         `db:"day_of_week"`
	StartTime  timeslot.Clock `db:"start_time"`
	EndTime    timeslot.Clock `db:"end_time"`
	IsActive   bool           `db:"is_active"`
	IsDefault  bool
}

// Default is the schedule assumed when a provider stored nothing for the day.
func Default(providerID int64, day, restDay time.Weekday) Schedule {
	return Schedule{
		ProviderID: providerID,
		DayOfWeek:  day.String(),
		StartTime:  DefaultStart,
		EndTime:    DefaultEnd,
		IsActive:   day != restDay,
		IsDefault:  true,
	}
}

// Admits reports whether [start, start+dur) lies inside an active working window.
func (s Schedule) Admits(start timeslot.Clock, dur time.Duration) bool {
	return s.IsActive && timeslot.Within(start, dur, s.StartTime, s.EndTime)
}

func (s Schedule) Validate() error {
	if _, err := ParseWeekday(s.DayOfWeek); err != nil {
		return err
	}

	if s.StartTime >= s.EndTime {
		return fmt.Errorf("%s: start_time must be before end_time", s.DayOfWeek)
	}

	return nil
}

// ParseWeekday accepts English weekday names in any case.
func ParseWeekday(name string) (time.Weekday, error) {
	day, err := timeslot.ParseWeekday(name)
	if err != nil {
		return time.Sunday, fmt.Errorf("invalid day_of_week %q", name)
	}

	return day, nil
}
