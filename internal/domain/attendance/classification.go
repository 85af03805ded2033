package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
)

const minutesPerDay = 24 * 60

// EntryDelta returns actual minus scheduled in minutes. nextDay marks a
// check-in made after midnight on the day following the shift's start, which
// only an overnight shift allows. Without it the difference is plain, so a
// day shift never wraps around midnight.
func EntryDelta(scheduled, actual schedule.ClockTime, nextDay bool) int {
	d := int(actual) - int(scheduled)
	if nextDay {
		d += minutesPerDay
	}
	return d
}

// StatusOf maps an entry delta to a status. Arrivals up to and including the
// grace period after the scheduled entry are on time.
func StatusOf(delta, gracePeriodMinutes int) Status {
	if delta <= gracePeriodMinutes {
		return StatusOnTime
	}
	return StatusLate
}

// Classify maps a check-in to its status.
func Classify(scheduledEntry, actualCheckIn schedule.ClockTime, gracePeriodMinutes int, nextDay bool) Status {
	return StatusOf(EntryDelta(scheduledEntry, actualCheckIn, nextDay), gracePeriodMinutes)
}

// LateMinutes is the lateness measured from the scheduled entry, not from the
// end of the grace period.
func LateMinutes(scheduledEntry, actualCheckIn schedule.ClockTime, nextDay bool) int {
	return max(EntryDelta(scheduledEntry, actualCheckIn, nextDay), 0)
}

// EarlyLeaveMinutes is how long before the scheduled exit the subject left.
func EarlyLeaveMinutes(scheduledExit, actualCheckOut time.Time) int {
	return max(int(scheduledExit.Sub(actualCheckOut).Minutes()), 0)
}
