package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a short English day label. The week starts on Monday.
type Weekday string

const (
	Mon Weekday = "Mon"
	Tue Weekday = "Tue"
	Wed Weekday = "Wed"
	Thu Weekday = "Thu"
	Fri Weekday = "Fri"
	Sat Weekday = "Sat"
	Sun Weekday = "Sun"
)

// AllWeekdays lists the labels in canonical order.
var AllWeekdays = []Weekday{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

var fullNames = map[Weekday]string{
	Mon: "Monday",
	Tue: "Tuesday",
	Wed: "Wednesday",
	Thu: "Thursday",
	Fri: "Friday",
	Sat: "Saturday",
	Sun: "Sunday",
}

// WeekdayOf maps time.Weekday (Sunday = 0) onto the Monday-first labels.
func WeekdayOf(t time.Time) Weekday {
	return AllWeekdays[(int(t.Weekday())+6)%7]
}

func (d Weekday) Valid() bool {
	_, ok := fullNames[d]
	return ok
}

// FullName returns "Monday" for Mon and so on; unknown labels are returned as is.
func (d Weekday) FullName() string {
	if name, ok := fullNames[d]; ok {
		return name
	}
	return string(d)
}

// ParseWeekday accepts "mon", "Mon" or "Monday" in any case.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range AllWeekdays {
		if s == strings.ToLower(string(d)) || s == strings.ToLower(d.FullName()) {
			return d, nil
		}
	}
	return "", &ValidationError{Field: "weekday", Message: fmt.Sprintf("unknown day %q", s)}
}

// NormalizeWeekdays validates days, drops duplicates and sorts them Monday first.
func NormalizeWeekdays(days []Weekday) ([]Weekday, error) {
	seen := make(map[Weekday]bool, len(days))
	for _, d := range days {
		if !d.Valid() {
			return nil, &ValidationError{Field: "weekday", Message: fmt.Sprintf("unknown day %q", d)}
		}
		seen[d] = true
	}

	out := make([]Weekday, 0, len(seen))
	for _, d := range AllWeekdays {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out, nil
}

func ContainsWeekday(days []Weekday, d Weekday) bool {
	for _, day := range days {
		if day == d {
			return true
		}
	}
	return false
}

// FormatWeekdays joins labels with commas in canonical order.
func FormatWeekdays(days []Weekday) string {
	sorted := make([]Weekday, 0, len(days))
	for _, d := range AllWeekdays {
		if ContainsWeekday(days, d) {
			sorted = append(sorted, d)
		}
	}
	labels := make([]string, len(sorted))
	for i, d := range sorted {
		labels[i] = string(d)
	}
	return strings.Join(labels, ",")
}

// ParseWeekdayList accepts a list like "Mon,Thu" or "mon thu" and the shortcuts
// daily, weekdays and weekend. The result is normalized.
func ParseWeekdayList(text string) ([]Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "daily", "every day", "everyday":
		return append([]Weekday(nil), AllWeekdays...), nil
	case "weekdays":
		return []Weekday{Mon, Tue, Wed, Thu, Fri}, nil
	case "weekend":
		return []Weekday{Sat, Sun}, nil
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(fields) == 0 {
		return nil, &ValidationError{Field: "remindDays", Message: "select at least one day"}
	}

	days := make([]Weekday, 0, len(fields))
	for _, f := range fields {
		day, err := ParseWeekday(f)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return NormalizeWeekdays(days)
}
