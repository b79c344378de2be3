// Package digest renders the daily reminder text sent to Telegram.
//
// Everything here is pure: the same inputs always produce the same bytes.
package digest

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/Lina3386/weekgram/internal/client"
	"github.com/Lina3386/weekgram/internal/models"
)

// MaxMessageLength is the Bot API limit digests are truncated to.
const MaxMessageLength = client.MaxMessageLength

// ExpenseWindowDays is how far back the expense block looks, inclusive of both ends.
const ExpenseWindowDays = 7

const (
	placeholderTitle       = "Untitled"
	placeholderDescription = "no description"
	placeholderMode        = "unknown"
	placeholderDate        = "unknown date"

	truncationMarker = "…"
)

type Options struct {
	Currency string
	Greeting bool
}

func DefaultOptions() Options {
	return Options{Currency: "₹"}
}

// SelectTasks keeps the tasks reminded on the weekday of ref, in their stored order.
func SelectTasks(tasks []models.Task, ref time.Time) []models.Task {
	today := models.WeekdayOf(ref)
	selected := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if models.ContainsWeekday(t.RemindDays, today) {
			selected = append(selected, t)
		}
	}
	return selected
}

// SelectExpenses keeps expenses dated within the trailing window ending on ref's day.
// Undated expenses cannot be placed and are left out.
func SelectExpenses(expenses []models.Expense, ref time.Time) []models.Expense {
	end := models.DayStart(ref)
	start := end.AddDate(0, 0, -ExpenseWindowDays)

	selected := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		d, ok := e.ExpenseDate(ref.Location())
		if !ok {
			continue
		}
		if !d.Before(start) && !d.After(end) {
			selected = append(selected, e)
		}
	}
	return selected
}

func ExpenseTotal(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Price)
	}
	return total
}

// FormatDailyDigest selects what is relevant to ref and renders it. user may be nil.
func FormatDailyDigest(user *models.User, tasks []models.Task, expenses []models.Expense, ref time.Time, opts Options) string {
	today := models.WeekdayOf(ref).FullName()
	todaysTasks := SelectTasks(tasks, ref)
	weekExpenses := SelectExpenses(expenses, ref)

	var blocks []string
	if opts.Greeting && user != nil && strings.TrimSpace(user.Name) != "" {
		blocks = append(blocks, fmt.Sprintf("Hi %s!", escape(strings.TrimSpace(user.Name))))
	}

	if len(todaysTasks) == 0 && len(weekExpenses) == 0 {
		blocks = append(blocks, EmptyMessage(ref))
		return strings.Join(blocks, "\n\n")
	}

	if len(todaysTasks) > 0 {
		blocks = append(blocks, TasksBlock(todaysTasks, today))
	}
	if len(weekExpenses) > 0 {
		blocks = append(blocks, ExpensesBlock(weekExpenses, opts.Currency))
	}
	return strings.Join(blocks, "\n\n")
}

func EmptyMessage(ref time.Time) string {
	return fmt.Sprintf("No items scheduled for *%s*", models.WeekdayOf(ref).FullName())
}

func TasksBlock(tasks []models.Task, dayName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Your Tasks for %s:*", dayName)
	for i, t := range tasks {
		fmt.Fprintf(&b, "\n%d. %s (%s)", i+1,
			escape(orPlaceholder(t.Title, placeholderTitle)),
			escape(orPlaceholder(t.Description, placeholderDescription)))
	}
	return b.String()
}

func ExpensesBlock(expenses []models.Expense, currency string) string {
	var b strings.Builder
	b.WriteString("*Weekly Expense Summary*\n")
	for i, e := range expenses {
		fmt.Fprintf(&b, "\n%d. %s - %s%s on %s (%s)", i+1,
			escape(orPlaceholder(e.Title, placeholderTitle)),
			escape(currency), e.Price.String(),
			escape(orPlaceholder(e.Date, placeholderDate)),
			escape(orPlaceholder(e.PaymentMode, placeholderMode)))
	}
	fmt.Fprintf(&b, "\n\n*Total:* %s%s", escape(currency), ExpenseTotal(expenses).String())
	return b.String()
}

// Truncate cuts text to at most limit characters, marking the cut. The cut never
// splits an escape sequence or leaves a bold or italic entity open.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	marker := []rune(truncationMarker)
	if limit <= len(marker) {
		return string(closeEntities([]rune(text)[:limit]))
	}
	runes := closeEntities([]rune(text)[:limit-len(marker)])
	return string(runes) + truncationMarker
}

// closeEntities drops a trailing lone backslash and, when a '*' or '_' entity is
// left open, everything from its opening marker on.
func closeEntities(runes []rune) []rune {
	open := map[rune]int{'*': -1, '_': -1}
	escaped := false
	for i, r := range runes {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*' || r == '_':
			if open[r] >= 0 {
				open[r] = -1
			} else {
				open[r] = i
			}
		}
	}
	if escaped {
		runes = runes[:len(runes)-1]
	}

	cut := len(runes)
	for _, pos := range open {
		if pos >= 0 && pos < cut {
			cut = pos
		}
	}
	return runes[:cut]
}

// escape keeps user text from being read as Markdown entities.
func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
