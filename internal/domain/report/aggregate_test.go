package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

func record(date string, status attendance.Status) attendance.Attendance {
	d, _ := time.Parse("2006-01-02", date)
	return attendance.Attendance{Date: d, Status: status}
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, Summary{}, Summarize([]attendance.Attendance{}))
}

func TestSummarize_Rounding(t *testing.T) {
	records := []attendance.Attendance{
		record("2024-06-03", attendance.StatusOnTime),
		record("2024-06-03", attendance.StatusOnTime),
		record("2024-06-04", attendance.StatusLate),
	}
	got := Summarize(records)
	assert.Equal(t, Summary{Total: 3, OnTime: 2, Late: 1, PunctualityRate: 67}, got)
	assert.Equal(t, got.Total, got.OnTime+got.Late)
}

func TestGroupByDate_SortedAndComplete(t *testing.T) {
	records := []attendance.Attendance{
		record("2024-06-05", attendance.StatusLate),
		record("2024-06-03", attendance.StatusOnTime),
		record("2024-06-05", attendance.StatusOnTime),
		record("2024-06-04", attendance.StatusOnTime),
	}

	buckets := GroupByDate(records)

	assert.Equal(t, []DailyBucket{
		{Date: "2024-06-03", OnTime: 1, Total: 1},
		{Date: "2024-06-04", OnTime: 1, Total: 1},
		{Date: "2024-06-05", OnTime: 1, Late: 1, Total: 2},
	}, buckets)

	total := 0
	for _, b := range buckets {
		total += b.Total
	}
	assert.Equal(t, len(records), total)
	assert.Empty(t, GroupByDate(nil))
}

func TestAttendanceRate(t *testing.T) {
	assert.Equal(t, 0, AttendanceRate(10, 0, 5))
	assert.Equal(t, 0, AttendanceRate(10, 5, 0))
	assert.Equal(t, 50, AttendanceRate(5, 2, 5))
	// 5 subjects over a 7 day week working 5 days each.
	assert.Equal(t, 71, AttendanceRate(25, 5, 7))
}

func TestPeriodDays(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, PeriodDays(start, start))
	assert.Equal(t, 30, PeriodDays(start, start.AddDate(0, 0, 29)))
	assert.Equal(t, 0, PeriodDays(start, start.AddDate(0, 0, -1)))
}

func TestDashboardRequest_Validate(t *testing.T) {
	req := DashboardRequest{AgencyID: "a", StartDate: "2024-06-01", EndDate: "2024-06-30"}
	assert.NoError(t, req.Validate())
	assert.Equal(t, 30, PeriodDays(req.Start, req.End))

	bad := DashboardRequest{AgencyID: "a", StartDate: "2024-06-30", EndDate: "2024-06-01"}
	assert.Error(t, bad.Validate())
}
