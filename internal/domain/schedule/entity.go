package schedule

import (
	"fmt"
	"slices"
	"time"
)

const minutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day stored as minutes since midnight.
type ClockTime int

// ParseClock parses a 24-hour "HH:MM" string.
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return 0, fmt.Errorf("invalid clock time %q, use HH:MM", s)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

// ClockOf returns the wall-clock part of t in t's location.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

// Weekday uses ISO-8601 numbering: 1=Monday ... 7=Sunday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf converts the calendar day of t to ISO numbering.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday())+6)%7 + 1)
}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// TimeWindow is the expected working window of a schedule on one weekday.
type TimeWindow struct {
	Weekday            Weekday
	Entry              ClockTime
	Exit               ClockTime
	GracePeriodMinutes int
}

// IsOvernight reports whether the window ends on the following calendar day.
func (w TimeWindow) IsOvernight() bool {
	return w.Entry > w.Exit
}

// IsNextDayClock reports whether c falls in the part of an overnight window
// that runs past midnight, up to and including the exit.
func (w TimeWindow) IsNextDayClock(c ClockTime) bool {
	return w.IsOvernight() && c <= w.Exit
}

// DurationMinutes is the scheduled length of the window.
func (w TimeWindow) DurationMinutes() int {
	d := int(w.Exit) - int(w.Entry)
	if d <= 0 {
		d += minutesPerDay
	}
	return d
}

type Schedule struct {
	ID                 string
	AgencyID           string
	Name               string
	DaysOfWeek         []Weekday
	EntryTime          ClockTime
	ExitTime           ClockTime
	IsOvernight        bool
	GracePeriodMinutes int
	IsDefault          bool
	AssignedSubjectIDs []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (s Schedule) CoversDay(day Weekday) bool {
	return slices.Contains(s.DaysOfWeek, day)
}

func (s Schedule) IsAssigned(subjectID string) bool {
	return slices.Contains(s.AssignedSubjectIDs, subjectID)
}

// Window returns the schedule's time window for day.
func (s Schedule) Window(day Weekday) TimeWindow {
	return TimeWindow{
		Weekday:            day,
		Entry:              s.EntryTime,
		Exit:               s.ExitTime,
		GracePeriodMinutes: s.GracePeriodMinutes,
	}
}
