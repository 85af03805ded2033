package report

import (
	"math"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// Summary counts records by status.
type Summary struct {
	Total           int `json:"total"`
	OnTime          int `json:"onTime"`
	Late            int `json:"late"`
	PunctualityRate int `json:"punctualityRate"`
}

// DailyBucket is the Summary of a single calendar day.
type DailyBucket struct {
	Date   string `json:"date"`
	OnTime int    `json:"onTime"`
	Late   int    `json:"late"`
	Total  int    `json:"total"`
}

// Percentage returns part/whole*100 rounded half away from zero, or 0 when whole is 0.
func Percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// Summarize counts records by status.
func Summarize(records []attendance.Attendance) Summary {
	var s Summary
	for _, r := range records {
		s.Total++
		switch r.Status {
		case attendance.StatusOnTime:
			s.OnTime++
		case attendance.StatusLate:
			s.Late++
		}
	}
	s.PunctualityRate = Percentage(s.OnTime, s.Total)
	return s
}

// GroupByDate buckets records per calendar day, ascending by date.
func GroupByDate(records []attendance.Attendance) []DailyBucket {
	byDate := make(map[time.Time]*DailyBucket)
	for _, r := range records {
		day := attendance.DateOf(r.Date)
		b, ok := byDate[day]
		if !ok {
			b = &DailyBucket{Date: day.Format("2006-01-02")}
			byDate[day] = b
		}
		b.Total++
		switch r.Status {
		case attendance.StatusOnTime:
			b.OnTime++
		case attendance.StatusLate:
			b.Late++
		}
	}

	days := make([]time.Time, 0, len(byDate))
	for day := range byDate {
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	buckets := make([]DailyBucket, 0, len(days))
	for _, day := range days {
		buckets = append(buckets, *byDate[day])
	}
	return buckets
}

// AttendanceRate is totalRecords / (subjectCount * periodDays) as a rounded
// percentage. Every subject is expected once per calendar day, rest days
// included, so subjects with rest days lower the rate.
func AttendanceRate(totalRecords, subjectCount, periodDays int) int {
	if subjectCount <= 0 || periodDays <= 0 {
		return 0
	}
	return Percentage(totalRecords, subjectCount*periodDays)
}

// PeriodDays counts calendar days from start to end, both inclusive.
func PeriodDays(start, end time.Time) int {
	s, e := attendance.DateOf(start), attendance.DateOf(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
