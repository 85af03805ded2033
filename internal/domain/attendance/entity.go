package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/schedule"
)

type Status string

const (
	StatusOnTime Status = "ON_TIME"
	StatusLate   Status = "LATE"
)

type Method string

const (
	MethodManual   Method = "MANUAL"
	MethodQR       Method = "QR"
	MethodNFC      Method = "NFC"
	MethodTelework Method = "TELEWORK"
)

var MethodValues = []string{
	string(MethodManual),
	string(MethodQR),
	string(MethodNFC),
	string(MethodTelework),
}

// EntryType selects the direction of a manually recorded event.
type EntryType string

const (
	EntryCheckIn  EntryType = "check-in"
	EntryCheckOut EntryType = "check-out"
)

// Attendance is one subject's record for one calendar day. The schedule fields
// are a snapshot taken at check-in and are never re-read from the schedule.
type Attendance struct {
	ID        string
	SubjectID string
	AgencyID  string
	Date      time.Time // calendar day, midnight UTC

	CheckInTime  *time.Time
	CheckOutTime *time.Time

	ScheduleID                 *string
	ScheduleEntryTime          schedule.ClockTime
	ScheduleExitTime           schedule.ClockTime
	ScheduleGracePeriodMinutes int

	Status            Status
	LateMinutes       int
	EarlyLeaveMinutes *int
	WorkedMinutes     *int

	MethodIn  *Method
	MethodOut *Method
	Notes     string // check-in and checkout notes, at most MaxRecordNotesLength

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether the record still waits for a checkout.
func (a Attendance) IsOpen() bool {
	return a.CheckInTime != nil && a.CheckOutTime == nil
}

// IsOvernight reports whether the snapshotted shift ends on the next day.
func (a Attendance) IsOvernight() bool {
	return a.ScheduleEntryTime > a.ScheduleExitTime
}

// ScheduledExitAt is the instant the snapshotted shift ends, with the record's
// date read as a calendar day in loc.
func (a Attendance) ScheduledExitAt(loc *time.Location) time.Time {
	y, m, d := a.Date.Date()
	exit := time.Date(y, m, d, int(a.ScheduleExitTime)/60, int(a.ScheduleExitTime)%60, 0, 0, loc)
	if a.IsOvernight() {
		exit = exit.AddDate(0, 0, 1)
	}
	return exit
}

// DateOf returns the calendar day of t (in t's location) as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
