package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lina3386/weekgram/internal/digest"
	"github.com/Lina3386/weekgram/internal/models"
)

var ErrExpenseNotFound = errors.New("expense not found")

type ExpenseStore interface {
	ExpenseReader
	SaveExpenses(ctx context.Context, expenses []models.Expense) error
}

// NewExpense is raw form input; Price is parsed and Date defaults to today.
type NewExpense struct {
	Title       string
	Price       string
	Date        string
	PaymentMode string
}

type ExpenseService struct {
	expenses ExpenseStore
	users    UserReader
	sender   MessageSender
	opts     ReminderOptions
}

func NewExpenseService(expenses ExpenseStore, users UserReader, sender MessageSender, opts ReminderOptions) *ExpenseService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ExpenseService{expenses: expenses, users: users, sender: sender, opts: opts}
}

func (s *ExpenseService) Add(ctx context.Context, in NewExpense) (*models.Expense, error) {
	price, err := models.ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = s.opts.Now().In(s.opts.Location).Format(models.DateLayout)
	}

	expense := models.Expense{
		Title:       strings.TrimSpace(in.Title),
		Price:       price,
		Date:        date,
		PaymentMode: strings.TrimSpace(in.PaymentMode),
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate expense id: %w", err)
	}
	expense.ID = id.String()

	expenses, err := s.expenses.GetExpenses(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.expenses.SaveExpenses(ctx, append(expenses, expense)); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *ExpenseService) List(ctx context.Context) ([]models.Expense, error) {
	return s.expenses.GetExpenses(ctx)
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	expenses, err := s.expenses.GetExpenses(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(expenses) {
		return fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
	}
	return s.expenses.SaveExpenses(ctx, kept)
}

// WeeklySummary sends the trailing week's expenses on demand and returns the text sent.
func (s *ExpenseService) WeeklySummary(ctx context.Context) (string, error) {
	user, err := s.users.GetUser(ctx)
	if err != nil {
		return "", err
	}
	if user == nil || user.TelegramID == "" {
		return "", ErrNoUser
	}

	expenses, err := s.expenses.GetExpenses(ctx)
	if err != nil {
		return "", err
	}

	now := s.opts.Now().In(s.opts.Location)
	week := digest.SelectExpenses(expenses, now)

	text := "No expenses recorded this week"
	if len(week) > 0 {
		text = digest.ExpensesBlock(week, s.opts.Digest.Currency)
	}
	text = digest.Truncate(text, digest.MaxMessageLength)

	if _, err := s.sender.SendMessage(ctx, user.TelegramID, text); err != nil {
		return "", err
	}
	return text, nil
}
