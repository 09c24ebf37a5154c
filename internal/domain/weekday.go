package domain

import "errors"

// Weekday is the closed set of training-day labels used across plans,
// profiles and generator responses. The Portuguese short labels are the
// storage and wire format.
type Weekday string

const (
	Seg Weekday = "Seg"
	Ter Weekday = "Ter"
	Qua Weekday = "Qua"
	Qui Weekday = "Qui"
	Sex Weekday = "Sex"
	Sab Weekday = "Sab"
	Dom Weekday = "Dom"
)

// WeekdayOrder is the canonical display sequence. Day membership in a
// profile is unordered; this sequence only drives presentation.
var WeekdayOrder = []Weekday{Seg, Ter, Qua, Qui, Sex, Sab, Dom}

var ErrInvalidWeekday = errors.New("invalid weekday label")

// ParseWeekday validates a raw label against the closed set.
func ParseWeekday(s string) (Weekday, error) {
	for _, d := range WeekdayOrder {
		if string(d) == s {
			return d, nil
		}
	}
	return "", ErrInvalidWeekday
}

// SortWeekdays returns the given days ordered by the canonical sequence.
// Unknown labels are dropped.
func SortWeekdays(days []Weekday) []Weekday {
	member := make(map[Weekday]bool, len(days))
	for _, d := range days {
		member[d] = true
	}
	sorted := make([]Weekday, 0, len(days))
	for _, d := range WeekdayOrder {
		if member[d] {
			sorted = append(sorted, d)
		}
	}
	return sorted
}
