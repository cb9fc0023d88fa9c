package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for status keys.
const DateLayout = "2006-01-02"

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateKey formats t as its UTC calendar date.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ValidDateKey checks the YYYY-MM-DD shape only. Dates are opaque
// identifiers, so "2024-02-30" passes.
func ValidDateKey(s string) bool {
	return dateKeyPattern.MatchString(s)
}

// ResolveDate returns date when given, or today's UTC date.
func ResolveDate(date string, now time.Time) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return DateKey(now), nil
	}
	if !ValidDateKey(date) {
		return "", ErrInvalidDate
	}
	return date, nil
}

// StatusKey is the document key of a user's status for one day.
func StatusKey(uid, date string) string {
	return uid + "_" + date
}

// DailyStatus lists the product ids applied on one day, per slot.
// Each list behaves as a set.
type DailyStatus struct {
	AM []string `json:"am"`
	PM []string `json:"pm"`
}

// EmptyStatus is the status of a day nothing was recorded on.
func EmptyStatus() DailyStatus {
	return DailyStatus{AM: []string{}, PM: []string{}}
}

// Get returns the applied ids for slot.
func (s DailyStatus) Get(slot Slot) []string {
	switch slot {
	case SlotAM:
		return s.AM
	case SlotPM:
		return s.PM
	}
	return nil
}

func (s *DailyStatus) set(slot Slot, ids []string) {
	switch slot {
	case SlotAM:
		s.AM = ids
	case SlotPM:
		s.PM = ids
	}
}

// Clone copies both slot lists.
func (s DailyStatus) Clone() DailyStatus {
	return DailyStatus{
		AM: append([]string{}, s.AM...),
		PM: append([]string{}, s.PM...),
	}
}

// NormalizeStatus reads a stored status document. Missing slots are empty,
// blank ids are dropped and repeated ids collapse to one.
func NormalizeStatus(raw map[string]any) DailyStatus {
	return DailyStatus{
		AM: cleanIDSet(raw["am"]),
		PM: cleanIDSet(raw["pm"]),
	}
}

func cleanIDSet(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		id, _ := item.(string)
		if id = strings.TrimSpace(id); id != "" && !containsID(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// MarkApplied records productID as applied in slot. Marking twice is a no-op.
func MarkApplied(s DailyStatus, slot Slot, productID string) DailyStatus {
	out := s.Clone()
	if containsID(out.Get(slot), productID) {
		return out
	}
	out.set(slot, append(out.Get(slot), productID))
	return out
}

// UnmarkApplied removes productID from slot. Unmarking an absent id is a no-op.
func UnmarkApplied(s DailyStatus, slot Slot, productID string) DailyStatus {
	out := s.Clone()
	kept := make([]string, 0, len(out.Get(slot)))
	for _, id := range out.Get(slot) {
		if id != productID {
			kept = append(kept, id)
		}
	}
	out.set(slot, kept)
	return out
}

// StatusInput is the body of the mark/unmark endpoints.
type StatusInput struct {
	ProductID string
	Slot      string
	Date      string
}

// StatusReport is one day's status with its completion percentages.
type StatusReport struct {
	Date       string        `json:"date"`
	Status     DailyStatus   `json:"status"`
	Completion DayCompletion `json:"completion"`
}

// StatusRepository persists daily_status documents.
type StatusRepository interface {
	// Get returns ErrNotFound when nothing was recorded for that day.
	Get(ctx context.Context, uid, date string) (DailyStatus, error)
	Save(ctx context.Context, uid, date string, status DailyStatus) error
}
