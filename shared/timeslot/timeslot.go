// Package timeslot holds the wall-clock arithmetic used by scheduling and booking.
// Every interval is half-open: [start, start+duration).
package timeslot

import (
	"database/sql/driver"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"

	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// DefaultDuration applies to every booking stored without a duration.
const DefaultDuration = time.Hour

// MaxDuration caps a booking at one full day.
const MaxDuration = 24 * time.Hour

var (
	clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Clock is a time of day in minutes after midnight.
type Clock int

func NewClock(hour, minute int) Clock {
	return Clock(hour*minutesPerHour + minute)
}

// ParseClock accepts exactly "HH:MM".
func ParseClock(value string) (Clock, error) {
	if !clockPattern.MatchString(value) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}

	hour, _ := strconv.Atoi(value[:2])
	minute, _ := strconv.Atoi(value[3:])

	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q, out of range", value)
	}

	return NewClock(hour, minute), nil
}

func (c Clock) Hour() int {
	return int(c) / minutesPerHour
}

func (c Clock) Minute() int {
	return int(c) % minutesPerHour
}

func (c Clock) Add(d time.Duration) Clock {
	return c + Clock(d/time.Minute)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Scan reads postgres TIME columns, which lib/pq hands back as text or time.Time.
func (c *Clock) Scan(src any) error {
	var raw string

	switch v := src.(type) {
	case nil:
		*c = 0

		return nil
	case time.Time:
		*c = NewClock(v.Hour(), v.Minute())

		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into timeslot.Clock", src)
	}

	if len(raw) < 5 {
		return fmt.Errorf("cannot scan %q into timeslot.Clock", raw)
	}

	parsed, err := ParseClock(raw[:5])
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

func (c Clock) Value() (driver.Value, error) {
	return c.String() + ":00", nil
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// ParseDate accepts exactly "YYYY-MM-DD" and rejects impossible calendar dates.
func ParseDate(value string) (time.Time, error) {
	if !datePattern.MatchString(value) {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}

	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}

	return date, nil
}

// ParseWeekday accepts English weekday names in any case, ignoring surrounding space.
func ParseWeekday(name string) (time.Weekday, error) {
	name = strings.TrimSpace(name)

	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), name) {
			return day, nil
		}
	}

	return time.Sunday, fmt.Errorf("invalid weekday %q", name)
}

// EffectiveDuration converts a stored duration in hours, rounded to whole minutes.
// Missing or non-positive values mean DefaultDuration; anything past MaxDuration is capped.
func EffectiveDuration(hours *float64) time.Duration {
	if hours == nil || *hours <= 0 || math.IsNaN(*hours) {
		return DefaultDuration
	}

	if *hours >= MaxDuration.Hours() {
		return MaxDuration
	}

	minutes := math.Round(*hours * minutesPerHour)
	if minutes < 1 {
		return DefaultDuration
	}

	return time.Duration(minutes) * time.Minute
}

// Overlaps reports whether [aStart, aStart+aDur) and [bStart, bStart+bDur) share any instant.
// Touching intervals do not overlap.
func Overlaps(aStart Clock, aDur time.Duration, bStart Clock, bDur time.Duration) bool {
	aEnd := aStart.Add(aDur)
	bEnd := bStart.Add(bDur)

	return aStart < bEnd && bStart < aEnd
}

// Within reports whether [start, start+dur) fits inside [from, to).
func Within(start Clock, dur time.Duration, from, to Clock) bool {
	if start < from {
		return false
	}

	end := start.Add(dur)

	return end <= to && int(end) <= minutesPerDay
}

// SameStart is the hour-grid match used for slot previews.
func SameStart(a, b Clock) bool {
	return a == b
}

// HourGrid returns the whole hours in [startHour, endHour).
func HourGrid(startHour, endHour int) []Clock {
	if endHour <= startHour {
		return []Clock{}
	}

	grid := make([]Clock, 0, endHour-startHour)
	for hour := startHour; hour < endHour; hour++ {
		grid = append(grid, NewClock(hour, 0))
	}

	return grid
}
