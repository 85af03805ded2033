package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
)

func clock(t *testing.T, s string) schedule.ClockTime {
	t.Helper()
	c, err := schedule.ParseClock(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return c
}

// arrival places offset minutes after midnight of the shift's start day on the
// clock, carrying into the following day.
func arrival(offset int) (schedule.ClockTime, bool) {
	if offset >= minutesPerDay {
		return schedule.ClockTime(offset - minutesPerDay), true
	}
	return schedule.ClockTime(offset), false
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		actual   string
		grace    int
		nextDay  bool
		want     Status
		wantLate int
	}{
		{"early arrival", "09:00", "08:30", 10, false, StatusOnTime, 0},
		{"exact entry", "09:00", "09:00", 0, false, StatusOnTime, 0},
		{"within grace", "09:00", "09:08", 10, false, StatusOnTime, 8},
		{"grace boundary is inclusive", "09:00", "09:10", 10, false, StatusOnTime, 10},
		{"one minute past grace", "09:00", "09:11", 10, false, StatusLate, 11},
		{"evening arrival on a day shift", "09:00", "21:01", 10, false, StatusLate, 12*60 + 1},
		{"night before a day shift", "09:00", "00:30", 10, false, StatusOnTime, 0},
		{"overnight shift before midnight", "22:00", "21:55", 5, false, StatusOnTime, 0},
		{"overnight shift after midnight", "23:50", "00:05", 10, true, StatusLate, 15},
		{"overnight grace crossing midnight", "23:55", "00:05", 10, true, StatusOnTime, 10},
		{"overnight shift arrival on start day morning", "23:50", "05:00", 10, false, StatusOnTime, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, actual := clock(t, tt.entry), clock(t, tt.actual)
			assert.Equal(t, tt.want, Classify(entry, actual, tt.grace, tt.nextDay))
			assert.Equal(t, tt.wantLate, LateMinutes(entry, actual, tt.nextDay))
		})
	}
}

func TestClassify_Properties(t *testing.T) {
	for entry := 0; entry < minutesPerDay; entry++ {
		scheduled := schedule.ClockTime(entry)
		for grace := 0; grace <= 60; grace++ {
			if got := Classify(scheduled, scheduled, grace, false); got != StatusOnTime {
				t.Fatalf("entry %s grace %d: exact arrival is %s", scheduled, grace, got)
			}

			atGrace, nextDay := arrival(entry + grace)
			if got := Classify(scheduled, atGrace, grace, nextDay); got != StatusOnTime {
				t.Fatalf("entry %s grace %d: arrival at %s is %s", scheduled, grace, atGrace, got)
			}

			pastGrace, nextDay := arrival(entry + grace + 1)
			if got := Classify(scheduled, pastGrace, grace, nextDay); got != StatusLate {
				t.Fatalf("entry %s grace %d: arrival at %s is %s", scheduled, grace, pastGrace, got)
			}
		}
	}
}

// Every minute from midnight of the start day through the end of the next day
// is swept in order, which covers day shifts and the tail of overnight ones.
func TestClassify_Monotonic(t *testing.T) {
	for entry := 0; entry < minutesPerDay; entry++ {
		scheduled := schedule.ClockTime(entry)
		for grace := 0; grace <= 60; grace++ {
			late := false
			for offset := 0; offset < 2*minutesPerDay; offset++ {
				actual, nextDay := arrival(offset)
				status := Classify(scheduled, actual, grace, nextDay)
				if late && status == StatusOnTime {
					t.Fatalf("entry %s grace %d: %s (next day %v) is on time after a late arrival", scheduled, grace, actual, nextDay)
				}
				late = status == StatusLate
			}
			if !late {
				t.Fatalf("entry %s grace %d: never late", scheduled, grace)
			}
		}
	}
}

func TestEntryDelta(t *testing.T) {
	assert.Equal(t, -30, EntryDelta(clock(t, "09:00"), clock(t, "08:30"), false))
	assert.Equal(t, 750, EntryDelta(clock(t, "09:00"), clock(t, "21:30"), false))
	assert.Equal(t, -1125, EntryDelta(clock(t, "23:50"), clock(t, "05:05"), false))
	assert.Equal(t, 315, EntryDelta(clock(t, "23:50"), clock(t, "05:05"), true))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusOnTime, StatusOf(-600, 0))
	assert.Equal(t, StatusOnTime, StatusOf(15, 15))
	assert.Equal(t, StatusLate, StatusOf(16, 15))
}

func TestEarlyLeaveMinutes(t *testing.T) {
	exit := time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, 15, EarlyLeaveMinutes(exit, exit.Add(-15*time.Minute)))
	assert.Equal(t, 0, EarlyLeaveMinutes(exit, exit))
	assert.Equal(t, 0, EarlyLeaveMinutes(exit, exit.Add(3*time.Hour)))
	assert.Equal(t, 10*60, EarlyLeaveMinutes(exit, exit.Add(-10*time.Hour)))
}

func TestAttendance_ScheduledExitAt(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	day := Attendance{
		Date:              time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		ScheduleEntryTime: clock(t, "09:00"),
		ScheduleExitTime:  clock(t, "18:00"),
	}
	assert.True(t, day.ScheduledExitAt(wib).Equal(time.Date(2024, 6, 3, 18, 0, 0, 0, wib)))

	night := day
	night.ScheduleEntryTime = clock(t, "22:00")
	night.ScheduleExitTime = clock(t, "06:00")
	assert.True(t, night.ScheduledExitAt(time.UTC).Equal(time.Date(2024, 6, 4, 6, 0, 0, 0, time.UTC)))
}
