package services

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Lina3386/weekgram/internal/models"
)

// memStore is an in-memory stand-in for the repositories.
type memStore struct {
	mu       sync.Mutex
	user     *models.User
	tasks    []models.Task
	expenses []models.Expense
	schedule *models.Schedule
	lastSent string

	readErr  error
	writeErr error
}

func (m *memStore) GetUser(ctx context.Context) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.user == nil {
		return nil, nil
	}
	u := *m.user
	return &u, nil
}

func (m *memStore) SaveUser(ctx context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.user = &user
	return nil
}

func (m *memStore) GetTasks(ctx context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	return append([]models.Task{}, m.tasks...), nil
}

func (m *memStore) SaveTasks(ctx context.Context, tasks []models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.tasks = append([]models.Task{}, tasks...)
	return nil
}

func (m *memStore) GetExpenses(ctx context.Context) ([]models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	return append([]models.Expense{}, m.expenses...), nil
}

func (m *memStore) SaveExpenses(ctx context.Context, expenses []models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.expenses = append([]models.Expense{}, expenses...)
	return nil
}

func (m *memStore) GetSchedule(ctx context.Context) (*models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.schedule == nil {
		return nil, nil
	}
	s := *m.schedule
	return &s, nil
}

func (m *memStore) SaveSchedule(ctx context.Context, schedule models.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.schedule = &schedule
	return nil
}

func (m *memStore) DeleteSchedule(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedule = nil
	return nil
}

func (m *memStore) IsSentOnDate(ctx context.Context, date time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return false, m.readErr
	}
	return m.lastSent == date.Format(models.DateLayout), nil
}

func (m *memStore) MarkSent(ctx context.Context, date time.Time, chatID string, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.lastSent = date.Format(models.DateLayout)
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user, m.tasks, m.expenses, m.schedule, m.lastSent = nil, nil, nil, nil, ""
	return nil
}

type sentMessage struct {
	ChatID string
	Text   string
}

// fakeSender records messages and answers with resp/err.
type fakeSender struct {
	mu    sync.Mutex
	sent  []sentMessage
	resp  *tgbotapi.APIResponse
	err   error
	panic bool
}

func (f *fakeSender) SendMessage(ctx context.Context, chatID, text string) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panic {
		panic("sender exploded")
	}
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}
