package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxEstimatedMinutes  = 24 * 60
)

// MaxPrice bounds a single expense.
var MaxPrice = decimal.NewFromInt(999_999_999)

// ValidationError describes malformed input caught before persistence.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateTelegramID accepts decimal chat ids; group chats carry a leading minus.
func ValidateTelegramID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return invalid("telegramId", "must not be empty")
	}
	digits := strings.TrimPrefix(id, "-")
	if digits == "" {
		return invalid("telegramId", "must be numeric")
	}
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return invalid("telegramId", "must be numeric")
		}
	}
	return nil
}

func validateRequired(field, value string, max int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalid(field, "must not be empty")
	}
	if utf8.RuneCountInString(value) > max {
		return invalid(field, "too long (max %d characters)", max)
	}
	return nil
}

// ParsePrice parses user input into a non-negative amount.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, invalid("price", "must not be empty")
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid("price", "%q is not a number", s)
	}
	if err := validatePrice(price); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	if price.GreaterThan(MaxPrice) {
		return invalid("price", "must not exceed %s", MaxPrice)
	}
	return nil
}

func (u User) Validate() error {
	if err := ValidateTelegramID(u.TelegramID); err != nil {
		return err
	}
	if err := validateRequired("name", u.Name, MaxTitleLength); err != nil {
		return err
	}
	if err := validateRequired("email", u.Email, MaxTitleLength); err != nil {
		return err
	}
	if !strings.Contains(u.Email, "@") {
		return invalid("email", "%q is not an email address", u.Email)
	}
	return nil
}

func (t Task) Validate() error {
	if err := validateRequired("title", t.Title, MaxTitleLength); err != nil {
		return err
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return invalid("description", "too long (max %d characters)", MaxDescriptionLength)
	}
	if t.EstimatedMinutes < 0 || t.EstimatedMinutes > MaxEstimatedMinutes {
		return invalid("estimatedMinutes", "must be between 0 and %d", MaxEstimatedMinutes)
	}
	if len(t.RemindDays) == 0 {
		return invalid("remindDays", "select at least one day")
	}
	return validateDays("remindDays", t.RemindDays)
}

func (e Expense) Validate() error {
	if err := validateRequired("title", e.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validatePrice(e.Price); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return invalid("date", "%q is not a YYYY-MM-DD date", e.Date)
	}
	return validateRequired("mode", e.PaymentMode, MaxTitleLength)
}

func (s Schedule) Validate() error {
	if err := ValidateTelegramID(s.TelegramID); err != nil {
		return err
	}
	if len(s.SelectedDays) == 0 {
		return invalid("selectedDays", "select at least one day")
	}
	if err := validateDays("selectedDays", s.SelectedDays); err != nil {
		return err
	}
	if s.Hour < 0 || s.Hour > 23 {
		return invalid("hour", "must be between 0 and 23")
	}
	if s.Minute < 0 || s.Minute > 59 {
		return invalid("minute", "must be between 0 and 59")
	}
	return nil
}

func validateDays(field string, days []Weekday) error {
	seen := make(map[Weekday]bool, len(days))
	for _, d := range days {
		if !d.Valid() {
			return invalid(field, "unknown day %q", d)
		}
		if seen[d] {
			return invalid(field, "duplicate day %q", d)
		}
		seen[d] = true
	}
	return nil
}
