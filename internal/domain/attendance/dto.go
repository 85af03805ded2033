package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const (
	maxNotesLength   = 500
	maxHistoryPeriod = 366 * 24 * time.Hour

	// NotesSeparator joins check-in and checkout notes on the same record.
	NotesSeparator = " | "

	// MaxRecordNotesLength bounds a record's notes once checkout notes are
	// appended to the check-in notes.
	MaxRecordNotesLength = 2*maxNotesLength + len(NotesSeparator)
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	SubjectID string    `json:"-"`
	AgencyID  string    `json:"-"`
	Timestamp time.Time `json:"-"`
	Method    Method    `json:"method"`
	Notes     string    `json:"notes"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SubjectID) {
		errs.Add("userId", "userId is required")
	}
	if validator.IsEmpty(r.AgencyID) {
		errs.Add("agencyId", "agencyId is required")
	}
	validateEvent(&errs, r.Timestamp, r.Method, r.Notes)

	return errs.Err()
}

type CheckOutRequest struct {
	SubjectID string    `json:"-"`
	AgencyID  string    `json:"-"`
	Timestamp time.Time `json:"-"`
	Method    Method    `json:"method"`
	Notes     string    `json:"notes"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SubjectID) {
		errs.Add("userId", "userId is required")
	}
	if validator.IsEmpty(r.AgencyID) {
		errs.Add("agencyId", "agencyId is required")
	}
	validateEvent(&errs, r.Timestamp, r.Method, r.Notes)

	return errs.Err()
}

// ManualRequest is an agency-recorded event for one of its subjects.
type ManualRequest struct {
	SubjectID string    `json:"userId"`
	AgencyID  string    `json:"-"`
	Type      EntryType `json:"type"`
	Notes     string    `json:"notes"`
	// Timestamp is optional ISO-8601; the server clock is used when absent.
	Timestamp *string `json:"timestamp,omitempty"`

	At time.Time `json:"-"`
}

// Validate checks the request and resolves At from Timestamp when given.
func (r *ManualRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SubjectID) {
		errs.Add("userId", "userId is required")
	}
	if r.Type != EntryCheckIn && r.Type != EntryCheckOut {
		errs.Add("type", "type must be one of: check-in, check-out")
	}
	if r.Timestamp != nil && *r.Timestamp != "" {
		at, ok := validator.IsValidDateTime(*r.Timestamp)
		if !ok {
			errs.Add("timestamp", "timestamp must be an ISO-8601 date-time")
		} else {
			r.At = at
		}
	}
	if len(r.Notes) > maxNotesLength {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

func validateEvent(errs *validator.ValidationErrors, ts time.Time, method Method, notes string) {
	if ts.IsZero() {
		errs.Add("timestamp", "timestamp is required")
	}
	if !validator.IsInSlice(string(method), MethodValues) {
		errs.Add("method", "method must be one of: "+strings.Join(MethodValues, ", "))
	}
	if len(notes) > maxNotesLength {
		errs.Add("notes", "notes must not exceed 500 characters")
	}
}

// HistoryQuery is the query string of the attendance history endpoint.
type HistoryQuery struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	UserID    string `json:"userId,omitempty"`
}

// ToFilter validates the query and builds the repository filter.
func (q HistoryQuery) ToFilter(agencyID string) (Filter, error) {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(q.StartDate)
	if !okStart {
		errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
	}
	end, okEnd := validator.IsValidDate(q.EndDate)
	if !okEnd {
		errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
	}
	if okStart && okEnd {
		if end.Before(start) {
			errs.Add("endDate", "endDate must not be before startDate")
		} else if end.Sub(start) > maxHistoryPeriod {
			errs.Add("endDate", "date range must not exceed 366 days")
		}
	}
	if len(errs) > 0 {
		return Filter{}, errs
	}

	filter := Filter{
		AgencyID:  agencyID,
		StartDate: start,
		EndDate:   end,
	}
	if !validator.IsEmpty(q.UserID) {
		userID := q.UserID
		filter.SubjectID = &userID
	}
	return filter, nil
}

type AttendanceResponse struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"userId"`
	AgencyID           string  `json:"agencyId"`
	Date               string  `json:"date"`
	CheckInTime        *string `json:"checkInTime"`
	CheckOutTime       *string `json:"checkOutTime"`
	ScheduleID         *string `json:"scheduleId,omitempty"`
	ScheduleEntryTime  string  `json:"scheduleEntryTime"`
	ScheduleExitTime   string  `json:"scheduleExitTime"`
	GracePeriodMinutes int     `json:"gracePeriodMinutes"`
	Status             Status  `json:"status"`
	LateMinutes        int     `json:"lateMinutes"`
	EarlyLeaveMinutes  *int    `json:"earlyLeaveMinutes,omitempty"`
	WorkedMinutes      *int    `json:"workedMinutes,omitempty"`
	MethodIn           *Method `json:"methodIn"`
	MethodOut          *Method `json:"methodOut"`
	Notes              string  `json:"notes"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// timePtrToString safely converts a *time.Time to an ISO-8601 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                 a.ID,
		UserID:             a.SubjectID,
		AgencyID:           a.AgencyID,
		Date:               a.Date.Format("2006-01-02"),
		CheckInTime:        timePtrToString(a.CheckInTime),
		CheckOutTime:       timePtrToString(a.CheckOutTime),
		ScheduleID:         a.ScheduleID,
		ScheduleEntryTime:  a.ScheduleEntryTime.String(),
		ScheduleExitTime:   a.ScheduleExitTime.String(),
		GracePeriodMinutes: a.ScheduleGracePeriodMinutes,
		Status:             a.Status,
		LateMinutes:        a.LateMinutes,
		EarlyLeaveMinutes:  a.EarlyLeaveMinutes,
		WorkedMinutes:      a.WorkedMinutes,
		MethodIn:           a.MethodIn,
		MethodOut:          a.MethodOut,
		Notes:              a.Notes,
		CreatedAt:          a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          a.UpdatedAt.Format(time.RFC3339),
	}
}

func NewAttendanceResponses(records []Attendance) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		responses = append(responses, NewAttendanceResponse(a))
	}
	return responses
}
