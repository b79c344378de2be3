package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/Lina3386/weekgram/internal/client"
	"github.com/Lina3386/weekgram/internal/digest"
	"github.com/Lina3386/weekgram/internal/logger"
	"github.com/Lina3386/weekgram/internal/models"
)

// 2024-01-01 was a Monday.
var monday = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

func newReminder(store *memStore, sender *fakeSender, now time.Time) *ReminderService {
	return NewReminderService(store, store, store, store, store, sender, logger.Discard(), ReminderOptions{
		Digest:   digest.DefaultOptions(),
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})
}

func TestRunDeliversTodaysTasks(t *testing.T) {
	t.Parallel()

	store := &memStore{
		user: &models.User{TelegramID: "123456789", Name: "Asha"},
		tasks: []models.Task{
			{ID: "1", Title: "Gym", Description: "legs", RemindDays: []models.Weekday{models.Mon}},
		},
	}
	sender := &fakeSender{}

	out := newReminder(store, sender, monday).Run(context.Background())
	if out.Status != StatusDelivered {
		t.Fatalf("Status = %s (%s), want delivered", out.Status, out.Description)
	}

	msgs := sender.messages()
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 delivery, got %d", len(msgs))
	}
	if msgs[0].ChatID != "123456789" {
		t.Errorf("ChatID = %s, want 123456789", msgs[0].ChatID)
	}
	if strings.Count(msgs[0].Text, "Gym (legs)") != 1 || strings.Contains(msgs[0].Text, "2.") {
		t.Errorf("Expected exactly the one task in the digest, got %q", msgs[0].Text)
	}
	if store.lastSent != "2024-01-01" {
		t.Errorf("lastSent = %q, want 2024-01-01", store.lastSent)
	}
}

func TestRunWithoutUserIsNoop(t *testing.T) {
	t.Parallel()

	store := &memStore{tasks: []models.Task{{ID: "1", Title: "Gym", RemindDays: models.AllWeekdays}}}
	sender := &fakeSender{}

	out := newReminder(store, sender, monday).Run(context.Background())
	if out.Status != StatusSkipped || out.Reason != ReasonNoUser {
		t.Errorf("Outcome = %+v, want skipped/no user", out)
	}
	if len(sender.messages()) != 0 {
		t.Error("Delivery client must not be invoked without a user")
	}
}

func TestRunReportsDeliveryFailure(t *testing.T) {
	t.Parallel()

	store := &memStore{user: &models.User{TelegramID: "42"}}
	sender := &fakeSender{err: &client.DeliveryError{ChatID: "42", Code: 400, Description: "chat not found"}}

	svc := newReminder(store, sender, monday)
	out := svc.Run(context.Background())
	if out.Status != StatusFailed || out.Description != "chat not found" {
		t.Errorf("Outcome = %+v, want failed/chat not found", out)
	}
	if store.lastSent != "" {
		t.Error("Failed delivery must not set the sent marker")
	}
	if svc.State() != StateIdle {
		t.Errorf("State = %s, want idle", svc.State())
	}
	last, ok := svc.LastOutcome()
	if !ok || last.Status != StatusFailed {
		t.Errorf("LastOutcome = %+v, %v", last, ok)
	}
}

func TestRunReportsNotOkResponse(t *testing.T) {
	t.Parallel()

	store := &memStore{user: &models.User{TelegramID: "42"}}
	sender := &fakeSender{resp: &tgbotapi.APIResponse{Ok: false, Description: "chat not found"}}

	out := newReminder(store, sender, monday).Run(context.Background())
	if out.Status != StatusFailed || out.Description != "chat not found" {
		t.Errorf("Outcome = %+v, want failed/chat not found", out)
	}
}

func TestRunAtMostOncePerDay(t *testing.T) {
	t.Parallel()

	store := &memStore{user: &models.User{TelegramID: "42"}}
	sender := &fakeSender{}
	svc := newReminder(store, sender, monday)

	if out := svc.Run(context.Background()); out.Status != StatusDelivered {
		t.Fatalf("first run = %+v", out)
	}
	out := svc.Run(context.Background())
	if out.Status != StatusSkipped || out.Reason != ReasonAlreadySent {
		t.Errorf("second run = %+v, want skipped/already sent", out)
	}
	if len(sender.messages()) != 1 {
		t.Errorf("Expected 1 delivery, got %d", len(sender.messages()))
	}

	if out := svc.RunForced(context.Background()); out.Status != StatusDelivered {
		t.Errorf("forced run = %+v, want delivered", out)
	}

	tomorrow := newReminder(store, sender, monday.AddDate(0, 0, 1))
	if out := tomorrow.Run(context.Background()); out.Status != StatusDelivered {
		t.Errorf("next day run = %+v, want delivered", out)
	}
}

func TestRunHonoursSchedule(t *testing.T) {
	t.Parallel()

	store := &memStore{
		user:     &models.User{TelegramID: "42"},
		schedule: &models.Schedule{TelegramID: "777", SelectedDays: []models.Weekday{models.Mon}, Hour: 18},
	}
	sender := &fakeSender{}

	out := newReminder(store, sender, monday).Run(context.Background())
	if out.Status != StatusSkipped || out.Reason != ReasonNotScheduled {
		t.Errorf("morning run = %+v, want skipped/not scheduled", out)
	}

	evening := monday.Add(9 * time.Hour)
	out = newReminder(store, sender, evening).Run(context.Background())
	if out.Status != StatusDelivered {
		t.Fatalf("evening run = %+v, want delivered", out)
	}
	if msgs := sender.messages(); len(msgs) != 1 || msgs[0].ChatID != "777" {
		t.Errorf("Expected delivery to the schedule chat, got %+v", msgs)
	}

	tuesday := newReminder(store, sender, monday.AddDate(0, 0, 1).Add(20*time.Hour))
	if out := tuesday.Run(context.Background()); out.Reason != ReasonNotScheduled {
		t.Errorf("tuesday run = %+v, want skipped/not scheduled", out)
	}
}

func TestRunRecoversStorageReadErrors(t *testing.T) {
	t.Parallel()

	store := &memStore{user: &models.User{TelegramID: "42"}, readErr: errors.New("disk on fire")}
	sender := &fakeSender{}

	out := newReminder(store, sender, monday).Run(context.Background())
	if out.Status != StatusSkipped || out.Reason != ReasonNoUser {
		t.Errorf("Outcome = %+v, want user read failure to be treated as absent", out)
	}
	if len(sender.messages()) != 0 {
		t.Error("Expected no delivery")
	}
}

func TestRunEmptyCollections(t *testing.T) {
	t.Parallel()

	store := &memStore{user: &models.User{TelegramID: "42"}}
	sender := &fakeSender{}

	out := newReminder(store, sender, monday).Run(context.Background())
	if out.Status != StatusDelivered {
		t.Fatalf("Outcome = %+v", out)
	}
	if out.Message != "No items scheduled for *Monday*" {
		t.Errorf("Message = %q", out.Message)
	}
}

func TestRunMarkerWriteFailureStillDelivered(t *testing.T) {
	t.Parallel()

	store := &memStore{user: &models.User{TelegramID: "42"}, writeErr: errors.New("read-only")}
	sender := &fakeSender{}

	out := newReminder(store, sender, monday).Run(context.Background())
	if out.Status != StatusDelivered {
		t.Errorf("Outcome = %+v, want delivered", out)
	}
}

func TestRunRecoversPanics(t *testing.T) {
	t.Parallel()

	store := &memStore{user: &models.User{TelegramID: "42"}}
	sender := &fakeSender{panic: true}
	svc := newReminder(store, sender, monday)

	out := svc.Run(context.Background())
	if out.Status != StatusFailed || out.Description != "sender exploded" {
		t.Errorf("Outcome = %+v, want failed/sender exploded", out)
	}
	if svc.State() != StateIdle {
		t.Errorf("State = %s, want idle", svc.State())
	}
}

func TestRunTruncatesLongDigest(t *testing.T) {
	t.Parallel()

	var tasks []models.Task
	for i := 0; i < 400; i++ {
		tasks = append(tasks, models.Task{Title: strings.Repeat("x", 20), Description: "d", RemindDays: []models.Weekday{models.Mon}})
	}
	store := &memStore{user: &models.User{TelegramID: "42"}, tasks: tasks}
	sender := &fakeSender{}

	out := newReminder(store, sender, monday).Run(context.Background())
	if out.Status != StatusDelivered {
		t.Fatalf("Outcome = %+v", out)
	}
	if n := len([]rune(sender.messages()[0].Text)); n > digest.MaxMessageLength {
		t.Errorf("message length = %d, exceeds limit", n)
	}
}

func TestScheduledDeliveryLaterThanDailyFiring(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &memStore{
		user:     &models.User{TelegramID: "42"},
		schedule: &models.Schedule{TelegramID: "42", SelectedDays: models.AllWeekdays, Hour: 9, Minute: 30},
	}
	sender := &fakeSender{}

	var clock time.Time
	svc := NewReminderService(store, store, store, store, store, sender, logger.Discard(), ReminderOptions{
		Digest:   digest.DefaultOptions(),
		Location: time.UTC,
		Now:      func() time.Time { return clock },
	})

	// the process started at 08:00, so the daily trigger always fires before 09:30
	start := monday.Add(-time.Hour)
	const days = 14
	for day := 0; day < days; day++ {
		firing := start.AddDate(0, 0, day)

		clock = firing
		if out := svc.Run(ctx); out.Status != StatusSkipped || out.Reason != ReasonNotScheduled {
			t.Errorf("day %d: daily firing = %+v, want skipped/not scheduled", day, out)
		}

		for tick := firing; tick.Before(firing.Add(24 * time.Hour)); tick = tick.Add(15 * time.Minute) {
			clock = tick
			out := svc.RunScheduled(ctx)
			if out.Status == StatusDelivered && (tick.Hour() != 9 || tick.Minute() != 30) {
				t.Errorf("day %d: delivered at %s, want first check after 09:30", day, tick.Format("15:04"))
			}
		}
	}

	if got := len(sender.messages()); got != days {
		t.Errorf("delivered %d digests in %d days, want one per day", got, days)
	}
}

func TestRunScheduledWithoutSchedule(t *testing.T) {
	t.Parallel()

	store := &memStore{user: &models.User{TelegramID: "42"}}
	sender := &fakeSender{}

	out := newReminder(store, sender, monday).RunScheduled(context.Background())
	if out.Status != StatusSkipped || out.Reason != ReasonNoSchedule {
		t.Errorf("Outcome = %+v, want skipped/no schedule", out)
	}
	if len(sender.messages()) != 0 {
		t.Error("Schedule check must not deliver without a schedule")
	}

	// the daily trigger still covers users without a schedule
	if out := newReminder(store, sender, monday).Run(context.Background()); out.Status != StatusDelivered {
		t.Errorf("daily run = %+v, want delivered", out)
	}
}

func TestRunLogsScheduleChatOverride(t *testing.T) {
	t.Parallel()

	log, hook := logtest.NewNullLogger()
	store := &memStore{
		user:     &models.User{TelegramID: "42"},
		schedule: &models.Schedule{TelegramID: "-100777", SelectedDays: models.AllWeekdays},
	}
	sender := &fakeSender{}
	svc := NewReminderService(store, store, store, store, store, sender, log, ReminderOptions{
		Digest:   digest.DefaultOptions(),
		Location: time.UTC,
		Now:      func() time.Time { return monday },
	})

	if out := svc.Run(context.Background()); out.Status != StatusDelivered || out.ChatID != "-100777" {
		t.Fatalf("Outcome = %+v, want delivered to the schedule chat", out)
	}

	var found bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "schedule overrides delivery chat" {
			found = entry.Data["chat_id"] == "-100777" && entry.Data["user_chat_id"] == "42"
		}
	}
	if !found {
		t.Error("Expected the chat override to be logged with both chat ids")
	}
}
