package domain

import (
	"fmt"
	"time"
)

// Completion is the share of products in a slot that were applied, 0-100.
// An empty slot is 0% complete.
func Completion(products []ProductRef, applied []string) float64 {
	if len(products) == 0 {
		return 0
	}
	done := 0
	for _, p := range products {
		if containsID(applied, p.ID) {
			done++
		}
	}
	return 100 * float64(done) / float64(len(products))
}

// DayCompletion holds the completion of each slot for one day.
type DayCompletion struct {
	AM float64 `json:"am"`
	PM float64 `json:"pm"`
}

// ComputeCompletion evaluates a day's status against the routine as it is now,
// not as it was on that day.
func ComputeCompletion(r Routine, s DailyStatus) DayCompletion {
	return DayCompletion{
		AM: Completion(r.Products.AM, s.AM),
		PM: Completion(r.Products.PM, s.PM),
	}
}

// NewStatusReport bundles a day's status with its completion.
func NewStatusReport(date string, r Routine, s DailyStatus) *StatusReport {
	return &StatusReport{
		Date:       date,
		Status:     s,
		Completion: ComputeCompletion(r, s),
	}
}

// DaySummary is one entry of a monthly summary.
type DaySummary = StatusReport

// StatusLookup fetches the status of a date. Absent days should be returned
// as an empty status, not an error.
type StatusLookup func(date string) (DailyStatus, error)

// DaysIn returns the number of days in the month, leap years included.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthlySummary builds one entry per calendar day of the month, ascending.
func MonthlySummary(year, month int, r Routine, lookup StatusLookup) ([]DaySummary, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	n := DaysIn(year, time.Month(month))
	out := make([]DaySummary, 0, n)
	for day := 1; day <= n; day++ {
		date := DateKey(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
		status, err := lookup(date)
		if err != nil {
			return nil, fmt.Errorf("status for %s: %w", date, err)
		}
		out = append(out, *NewStatusReport(date, r, status))
	}
	return out, nil
}
