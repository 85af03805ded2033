package schedule

import (
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const MaxGracePeriodMinutes = 60

type CreateScheduleRequest struct {
	Name               string   `json:"name"`
	DaysOfWeek         []int    `json:"daysOfWeek"`
	EntryTime          string   `json:"entryTime"` // HH:MM
	ExitTime           string   `json:"exitTime"`  // HH:MM
	IsOvernight        bool     `json:"isOvernight"`
	GracePeriodMinutes *int     `json:"gracePeriodMinutes"`
	IsDefault          bool     `json:"isDefault"`
	AssignedSubjectIDs []string `json:"assignedUsersIds"`
}

// Validate checks the request and returns the schedule it describes.
func (r *CreateScheduleRequest) Validate() (Schedule, error) {
	var errs validator.ValidationErrors

	entry, err := ParseClock(r.EntryTime)
	if err != nil {
		errs.Add("entryTime", "entryTime must be a valid time in HH:MM format")
	}
	exit, err := ParseClock(r.ExitTime)
	if err != nil {
		errs.Add("exitTime", "exitTime must be a valid time in HH:MM format")
	}
	if r.GracePeriodMinutes == nil {
		errs.Add("gracePeriodMinutes", "gracePeriodMinutes is required")
	}
	if len(errs) > 0 {
		return Schedule{}, errs
	}

	s := Schedule{
		Name:               r.Name,
		DaysOfWeek:         toWeekdays(r.DaysOfWeek),
		EntryTime:          entry,
		ExitTime:           exit,
		IsOvernight:        r.IsOvernight,
		GracePeriodMinutes: *r.GracePeriodMinutes,
		IsDefault:          r.IsDefault,
		AssignedSubjectIDs: dedupe(r.AssignedSubjectIDs),
	}
	if err := ValidateSchedule(s); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// UpdateScheduleRequest is a partial patch; nil fields keep their current value.
type UpdateScheduleRequest struct {
	Name               *string   `json:"name,omitempty"`
	DaysOfWeek         *[]int    `json:"daysOfWeek,omitempty"`
	EntryTime          *string   `json:"entryTime,omitempty"`
	ExitTime           *string   `json:"exitTime,omitempty"`
	IsOvernight        *bool     `json:"isOvernight,omitempty"`
	GracePeriodMinutes *int      `json:"gracePeriodMinutes,omitempty"`
	IsDefault          *bool     `json:"isDefault,omitempty"`
	AssignedSubjectIDs *[]string `json:"assignedUsersIds,omitempty"`
}

// Apply merges the patch into current and validates the merged schedule.
func (r *UpdateScheduleRequest) Apply(current Schedule) (Schedule, error) {
	var errs validator.ValidationErrors
	s := current
	s.DaysOfWeek = slices.Clone(current.DaysOfWeek)
	s.AssignedSubjectIDs = slices.Clone(current.AssignedSubjectIDs)

	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.DaysOfWeek != nil {
		s.DaysOfWeek = toWeekdays(*r.DaysOfWeek)
	}
	if r.EntryTime != nil {
		entry, err := ParseClock(*r.EntryTime)
		if err != nil {
			errs.Add("entryTime", "entryTime must be a valid time in HH:MM format")
		}
		s.EntryTime = entry
	}
	if r.ExitTime != nil {
		exit, err := ParseClock(*r.ExitTime)
		if err != nil {
			errs.Add("exitTime", "exitTime must be a valid time in HH:MM format")
		}
		s.ExitTime = exit
	}
	if r.IsOvernight != nil {
		s.IsOvernight = *r.IsOvernight
	}
	if r.GracePeriodMinutes != nil {
		s.GracePeriodMinutes = *r.GracePeriodMinutes
	}
	if r.IsDefault != nil {
		s.IsDefault = *r.IsDefault
	}
	if r.AssignedSubjectIDs != nil {
		s.AssignedSubjectIDs = dedupe(*r.AssignedSubjectIDs)
	}
	if len(errs) > 0 {
		return Schedule{}, errs
	}

	if err := ValidateSchedule(s); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// ValidateSchedule enforces the invariants every stored schedule must hold.
func ValidateSchedule(s Schedule) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(s.Name) {
		errs.Add("name", "name is required")
	}

	if len(s.DaysOfWeek) == 0 {
		errs.Add("daysOfWeek", "daysOfWeek must contain at least one day")
	} else {
		seen := make(map[Weekday]bool, len(s.DaysOfWeek))
		for _, d := range s.DaysOfWeek {
			if !d.Valid() {
				errs.Add("daysOfWeek", fmt.Sprintf("day %d is invalid: days must be between 1 (Monday) and 7 (Sunday)", d))
				break
			}
			if seen[d] {
				errs.Add("daysOfWeek", fmt.Sprintf("day %d is listed more than once", d))
				break
			}
			seen[d] = true
		}
	}

	switch {
	case !s.EntryTime.Valid():
		errs.Add("entryTime", "entryTime must be a valid time in HH:MM format")
	case !s.ExitTime.Valid():
		errs.Add("exitTime", "exitTime must be a valid time in HH:MM format")
	case s.EntryTime == s.ExitTime:
		errs.Add("exitTime", "exitTime must differ from entryTime")
	case s.EntryTime > s.ExitTime && !s.IsOvernight:
		errs.Add("exitTime", "exitTime is before entryTime; set isOvernight for shifts ending the next day")
	case s.EntryTime < s.ExitTime && s.IsOvernight:
		errs.Add("isOvernight", "isOvernight requires exitTime to be before entryTime")
	}

	if s.GracePeriodMinutes < 0 || s.GracePeriodMinutes > MaxGracePeriodMinutes {
		errs.Add("gracePeriodMinutes", fmt.Sprintf("gracePeriodMinutes must be between 0 and %d", MaxGracePeriodMinutes))
	}

	for _, id := range s.AssignedSubjectIDs {
		if validator.IsEmpty(id) {
			errs.Add("assignedUsersIds", "assigned user ids must not be empty")
			break
		}
	}

	return errs.Err()
}

type ScheduleResponse struct {
	ID                 string   `json:"id"`
	AgencyID           string   `json:"agencyId"`
	Name               string   `json:"name"`
	DaysOfWeek         []int    `json:"daysOfWeek"`
	EntryTime          string   `json:"entryTime"`
	ExitTime           string   `json:"exitTime"`
	IsOvernight        bool     `json:"isOvernight"`
	GracePeriodMinutes int      `json:"gracePeriodMinutes"`
	IsDefault          bool     `json:"isDefault"`
	AssignedSubjectIDs []string `json:"assignedUsersIds"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

func NewScheduleResponse(s Schedule) ScheduleResponse {
	days := make([]int, 0, len(s.DaysOfWeek))
	for _, d := range s.DaysOfWeek {
		days = append(days, int(d))
	}
	slices.Sort(days)

	assigned := s.AssignedSubjectIDs
	if assigned == nil {
		assigned = []string{}
	}

	return ScheduleResponse{
		ID:                 s.ID,
		AgencyID:           s.AgencyID,
		Name:               s.Name,
		DaysOfWeek:         days,
		EntryTime:          s.EntryTime.String(),
		ExitTime:           s.ExitTime.String(),
		IsOvernight:        s.IsOvernight,
		GracePeriodMinutes: s.GracePeriodMinutes,
		IsDefault:          s.IsDefault,
		AssignedSubjectIDs: assigned,
		CreatedAt:          s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
}

// ResolvedScheduleResponse is the schedule governing a subject on one date.
type ResolvedScheduleResponse struct {
	Date            string           `json:"date"`
	Weekday         int              `json:"weekday"`
	EntryTime       string           `json:"entryTime"`
	ExitTime        string           `json:"exitTime"`
	IsOvernight     bool             `json:"isOvernight"`
	DurationMinutes int              `json:"durationMinutes"`
	Schedule        ScheduleResponse `json:"schedule"`
}

func NewResolvedScheduleResponse(s Schedule, date time.Time) ResolvedScheduleResponse {
	day := WeekdayOf(date)
	window := s.Window(day)
	return ResolvedScheduleResponse{
		Date:            date.Format("2006-01-02"),
		Weekday:         int(day),
		EntryTime:       window.Entry.String(),
		ExitTime:        window.Exit.String(),
		IsOvernight:     window.IsOvernight(),
		DurationMinutes: window.DurationMinutes(),
		Schedule:        NewScheduleResponse(s),
	}
}

func toWeekdays(days []int) []Weekday {
	out := make([]Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, Weekday(d))
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
