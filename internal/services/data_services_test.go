package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Lina3386/weekgram/internal/client"
	"github.com/Lina3386/weekgram/internal/digest"
	"github.com/Lina3386/weekgram/internal/logger"
	"github.com/Lina3386/weekgram/internal/models"
)

func TestUserSetup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &memStore{}
	sender := &fakeSender{}
	svc := NewUserService(store, sender, store, logger.Discard())

	user, err := svc.Setup(ctx, models.User{TelegramID: " 123456789 ", Name: "Asha", Email: "asha@example.com"})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if user.TelegramID != "123456789" {
		t.Errorf("TelegramID = %q, want trimmed id", user.TelegramID)
	}

	msgs := sender.messages()
	if len(msgs) != 1 || msgs[0].Text != "👋 Hello Asha, your setup is almost done!" {
		t.Errorf("unexpected greeting: %+v", msgs)
	}
	if store.user == nil || store.user.Email != "asha@example.com" {
		t.Errorf("user not persisted: %+v", store.user)
	}
}

func TestSetupGreetingEscapesName(t *testing.T) {
	t.Parallel()

	if got := SetupGreeting(" ash_k "); got != "👋 Hello ash\\_k, your setup is almost done!" {
		t.Errorf("SetupGreeting = %q", got)
	}
}

func TestUserSetupRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &memStore{}
	sender := &fakeSender{}
	svc := NewUserService(store, sender, store, logger.Discard())

	_, err := svc.Setup(ctx, models.User{TelegramID: "abc", Name: "Asha", Email: "asha@example.com"})
	var verr *models.ValidationError
	if !errors.As(err, &verr) || verr.Field != "telegramId" {
		t.Errorf("Setup error = %v, want telegramId validation error", err)
	}
	if len(sender.messages()) != 0 || store.user != nil {
		t.Error("Nothing should be sent or stored for invalid input")
	}
}

func TestUserSetupVerificationFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &memStore{}
	sender := &fakeSender{err: &client.DeliveryError{ChatID: "1", Description: "chat not found"}}
	svc := NewUserService(store, sender, store, logger.Discard())

	_, err := svc.Setup(ctx, models.User{TelegramID: "1", Name: "Asha", Email: "a@b.c"})
	var derr *client.DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("Setup error = %v, want DeliveryError", err)
	}
	if store.user != nil {
		t.Error("User must not be stored when verification fails")
	}
}

func TestUserUpdateProfileAndReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &memStore{}
	svc := NewUserService(store, &fakeSender{}, store, logger.Discard())

	name := "Ravi"
	if _, err := svc.UpdateProfile(ctx, ProfileUpdate{Name: &name}); !errors.Is(err, ErrNoUser) {
		t.Errorf("UpdateProfile without user = %v, want ErrNoUser", err)
	}

	store.user = &models.User{TelegramID: "1", Name: "Asha", Email: "a@b.c"}
	updated, err := svc.UpdateProfile(ctx, ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Name != "Ravi" || updated.Email != "a@b.c" {
		t.Errorf("updated = %+v", updated)
	}

	bad := "not-an-email"
	if _, err := svc.UpdateProfile(ctx, ProfileUpdate{Email: &bad}); err == nil {
		t.Error("Expected validation error for bad email")
	}
	if store.user.Email != "a@b.c" {
		t.Error("Invalid update must not be persisted")
	}

	store.tasks = []models.Task{{ID: "1"}}
	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if store.user != nil || store.tasks != nil {
		t.Error("Reset should remove everything")
	}
}

func TestTaskService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &memStore{}
	svc := NewTaskService(store)

	first, err := svc.Add(ctx, NewTask{Title: " Gym ", RemindDays: []models.Weekday{models.Thu, models.Mon, models.Thu}, EstimatedMinutes: 45})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if first.Title != "Gym" || models.FormatWeekdays(first.RemindDays) != "Mon,Thu" || len(first.RemindDays) != 2 {
		t.Errorf("unexpected task: %+v", first)
	}
	if id, err := uuid.Parse(first.ID); err != nil || id.Version() != 7 {
		t.Errorf("ID %q is not a UUIDv7", first.ID)
	}

	second, err := svc.Add(ctx, NewTask{Title: "Read", RemindDays: []models.Weekday{models.Sun}})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if second.ID == first.ID {
		t.Error("Expected unique ids")
	}

	if _, err := svc.Add(ctx, NewTask{Title: "Nothing"}); err == nil {
		t.Error("Expected error for task without days")
	}

	monTasks, err := svc.ListForDay(ctx, models.Mon)
	if err != nil || len(monTasks) != 1 || monTasks[0].ID != first.ID {
		t.Errorf("ListForDay(Mon) = %+v, %v", monTasks, err)
	}

	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, first.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("second Delete = %v, want ErrTaskNotFound", err)
	}

	tasks, _ := svc.List(ctx)
	if len(tasks) != 1 || tasks[0].ID != second.ID {
		t.Errorf("List = %+v", tasks)
	}
}

func TestTaskServiceDoesNotOverwriteOnReadError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &memStore{tasks: []models.Task{{ID: "keep"}}, readErr: errors.New("io")}
	svc := NewTaskService(store)

	if _, err := svc.Add(ctx, NewTask{Title: "Gym", RemindDays: []models.Weekday{models.Mon}}); err == nil {
		t.Fatal("Expected read error")
	}
	if len(store.tasks) != 1 || store.tasks[0].ID != "keep" {
		t.Error("Collection must be left intact")
	}
}

func TestExpenseService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &memStore{}
	svc := NewExpenseService(store, store, &fakeSender{}, ReminderOptions{
		Location: time.UTC,
		Now:      func() time.Time { return monday },
	})

	e, err := svc.Add(ctx, NewExpense{Title: "Lunch", Price: "120.50", PaymentMode: "UPI"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if e.Date != "2024-01-01" || e.Price.String() != "120.5" {
		t.Errorf("unexpected expense: %+v", e)
	}

	for _, price := range []string{"abc", "-3", ""} {
		_, err := svc.Add(ctx, NewExpense{Title: "Bad", Price: price, PaymentMode: "cash"})
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("price %q: error = %v, want ValidationError", price, err)
		}
	}

	expenses, _ := svc.List(ctx)
	if len(expenses) != 1 {
		t.Fatalf("Expected rejected input not to be persisted, got %d expenses", len(expenses))
	}

	if err := svc.Delete(ctx, "missing"); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("Delete(missing) = %v, want ErrExpenseNotFound", err)
	}
	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
}

func TestExpenseWeeklySummary(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &memStore{}
	sender := &fakeSender{}
	svc := NewExpenseService(store, store, sender, ReminderOptions{
		Digest:   digest.DefaultOptions(),
		Location: time.UTC,
		Now:      func() time.Time { return monday },
	})

	if _, err := svc.WeeklySummary(ctx); !errors.Is(err, ErrNoUser) {
		t.Errorf("WeeklySummary without user = %v, want ErrNoUser", err)
	}

	store.user = &models.User{TelegramID: "42"}
	text, err := svc.WeeklySummary(ctx)
	if err != nil {
		t.Fatalf("WeeklySummary failed: %v", err)
	}
	if text != "No expenses recorded this week" {
		t.Errorf("empty summary = %q", text)
	}

	if _, err := svc.Add(ctx, NewExpense{Title: "Taxi", Price: "80", Date: "2023-12-28", PaymentMode: "cash"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := svc.Add(ctx, NewExpense{Title: "Old", Price: "999", Date: "2023-11-01", PaymentMode: "cash"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	text, err = svc.WeeklySummary(ctx)
	if err != nil {
		t.Fatalf("WeeklySummary failed: %v", err)
	}
	if !strings.Contains(text, "1. Taxi - ₹80 on 2023-12-28 (cash)") || strings.Contains(text, "Old") {
		t.Errorf("summary = %q", text)
	}
	if !strings.HasSuffix(text, "*Total:* ₹80") {
		t.Errorf("summary total missing: %q", text)
	}
	if len(sender.messages()) != 2 {
		t.Errorf("Expected 2 sends, got %d", len(sender.messages()))
	}
}

func TestScheduleService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &memStore{}
	svc := NewScheduleService(store, store)

	if _, err := svc.Set(ctx, models.Schedule{SelectedDays: []models.Weekday{models.Mon}}); !errors.Is(err, ErrNoUser) {
		t.Errorf("Set without user = %v, want ErrNoUser", err)
	}

	store.user = &models.User{TelegramID: "42"}
	s, err := svc.Set(ctx, models.Schedule{SelectedDays: []models.Weekday{models.Fri, models.Mon}, Hour: 7, Minute: 30})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if s.TelegramID != "42" || models.FormatWeekdays(s.SelectedDays) != "Mon,Fri" {
		t.Errorf("schedule = %+v", s)
	}

	if _, err := svc.Set(ctx, models.Schedule{SelectedDays: []models.Weekday{models.Mon}, Hour: 24}); err == nil {
		t.Error("Expected error for hour 24")
	}

	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got, _ := svc.Get(ctx); got != nil {
		t.Errorf("Get after Clear = %+v, want nil", got)
	}
}
