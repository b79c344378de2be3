package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for expenses and the digest marker.
const DateLayout = "2006-01-02"

// User - the single profile of an installation
type User struct {
	TelegramID string `json:"telegramId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar,omitempty"`
}

// Task - recurring to-do reminded on the selected weekdays
type Task struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	EstimatedMinutes int       `json:"estimatedMinutes"`
	RemindDays       []Weekday `json:"remindDays"`
}

// Expense - single dated payment
type Expense struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Date        string          `json:"date"`
	PaymentMode string          `json:"mode"`
}

// Schedule - optional weekly notification window
type Schedule struct {
	TelegramID   string    `json:"telegramId"`
	SelectedDays []Weekday `json:"selectedDays"`
	Hour         int       `json:"hour"`
	Minute       int       `json:"minute"`
}

// Allows reports whether a digest may be sent at t.
func (s Schedule) Allows(t time.Time) bool {
	if !ContainsWeekday(s.SelectedDays, WeekdayOf(t)) {
		return false
	}
	return t.Hour() > s.Hour || (t.Hour() == s.Hour && t.Minute() >= s.Minute)
}

// ExpenseDate parses the expense date in loc. ok is false for missing or malformed dates.
func (e Expense) ExpenseDate(loc *time.Location) (time.Time, bool) {
	if e.Date == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, e.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// DayStart truncates t to local midnight.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
