package subject

import "time"

// Subject is a person whose attendance is tracked. Only the attributes the
// attendance core needs are kept here; the full profile lives elsewhere.
type Subject struct {
	ID        string
	AgencyID  string
	Name      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusActive),
	string(StatusInactive),
}

// CanRecordAttendance reports whether the subject's status allows new events.
func (s Subject) CanRecordAttendance() bool {
	return s.Status == StatusActive
}
