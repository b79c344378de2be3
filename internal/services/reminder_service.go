package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Lina3386/weekgram/internal/client"
	"github.com/Lina3386/weekgram/internal/digest"
	"github.com/Lina3386/weekgram/internal/models"
)

// DailyReminderTask is the name the daily digest is registered under.
const DailyReminderTask = "SEND_DAILY_TELEGRAM_MESSAGE"

// ScheduleCheckTask delivers the digest once a saved schedule's time has passed.
const ScheduleCheckTask = "CHECK_NOTIFICATION_SCHEDULE"

type UserReader interface {
	GetUser(ctx context.Context) (*models.User, error)
}

type TaskReader interface {
	GetTasks(ctx context.Context) ([]models.Task, error)
}

type ExpenseReader interface {
	GetExpenses(ctx context.Context) ([]models.Expense, error)
}

type ScheduleReader interface {
	GetSchedule(ctx context.Context) (*models.Schedule, error)
}

type DigestMarker interface {
	IsSentOnDate(ctx context.Context, date time.Time) (bool, error)
	MarkSent(ctx context.Context, date time.Time, chatID string, sentAt time.Time) error
}

type MessageSender interface {
	SendMessage(ctx context.Context, chatID, text string) (*tgbotapi.APIResponse, error)
}

type PipelineState string

const (
	StateIdle       PipelineState = "idle"
	StateLoading    PipelineState = "loading"
	StateFormatting PipelineState = "formatting"
	StateDelivering PipelineState = "delivering"
	StateDelivered  PipelineState = "delivered"
	StateFailed     PipelineState = "failed"
)

type Status string

const (
	StatusSkipped   Status = "skipped"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// Skip reasons.
const (
	ReasonNoUser       = "no user"
	ReasonAlreadySent  = "already sent today"
	ReasonNotScheduled = "outside notification schedule"
	ReasonNoSchedule   = "no notification schedule"
)

type runMode int

const (
	modeDaily runMode = iota
	modeScheduled
	modeForced
)

// Outcome is the result of one invocation. It is never accompanied by an error.
type Outcome struct {
	Status      Status
	Reason      string
	Description string
	ChatID      string
	Message     string
	Date        time.Time
}

type ReminderOptions struct {
	Digest   digest.Options
	Location *time.Location
	Now      func() time.Time
}

// ReminderService composes the daily digest and delivers it at most once per day.
type ReminderService struct {
	users     UserReader
	tasks     TaskReader
	expenses  ExpenseReader
	schedules ScheduleReader
	marker    DigestMarker
	sender    MessageSender
	log       logrus.FieldLogger
	opts      ReminderOptions

	// runMu serializes invocations so two triggers cannot both pass the sent marker.
	runMu sync.Mutex

	mu    sync.Mutex
	state PipelineState
	last  *Outcome
}

func NewReminderService(
	users UserReader,
	tasks TaskReader,
	expenses ExpenseReader,
	schedules ScheduleReader,
	marker DigestMarker,
	sender MessageSender,
	log logrus.FieldLogger,
	opts ReminderOptions,
) *ReminderService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ReminderService{
		users:     users,
		tasks:     tasks,
		expenses:  expenses,
		schedules: schedules,
		marker:    marker,
		sender:    sender,
		log:       log.WithField("component", "reminder"),
		opts:      opts,
		state:     StateIdle,
	}
}

// Run performs one scheduled invocation.
func (s *ReminderService) Run(ctx context.Context) Outcome {
	return s.run(ctx, modeDaily)
}

// RunScheduled acts only when a notification schedule is saved. Called at a short
// cadence it delivers on the first check after the schedule's time; the sent
// marker keeps it to once per day.
func (s *ReminderService) RunScheduled(ctx context.Context) Outcome {
	return s.run(ctx, modeScheduled)
}

// RunForced delivers regardless of the schedule and of an earlier delivery today.
func (s *ReminderService) RunForced(ctx context.Context) Outcome {
	return s.run(ctx, modeForced)
}

func (s *ReminderService) State() PipelineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastOutcome returns the result of the most recent invocation, if any.
func (s *ReminderService) LastOutcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Outcome{}, false
	}
	return *s.last, true
}

func (s *ReminderService) run(ctx context.Context, mode runMode) (out Outcome) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	now := s.opts.Now().In(s.opts.Location)
	today := models.DayStart(now)

	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("reminder run panicked")
			out = Outcome{Status: StatusFailed, Description: fmt.Sprint(r), ChatID: out.ChatID, Date: today}
			s.setState(StateFailed)
		}
		s.finish(out, mode)
	}()

	s.setState(StateLoading)
	user := s.loadUser(ctx)
	if user == nil {
		return Outcome{Status: StatusSkipped, Reason: ReasonNoUser, Date: today}
	}
	chatID := strings.TrimSpace(user.TelegramID)

	schedule := s.loadSchedule(ctx)
	if mode == modeScheduled && schedule == nil {
		return Outcome{Status: StatusSkipped, Reason: ReasonNoSchedule, ChatID: chatID, Date: today}
	}
	if schedule != nil {
		if override := strings.TrimSpace(schedule.TelegramID); override != "" && override != chatID {
			s.log.WithFields(logrus.Fields{"chat_id": override, "user_chat_id": chatID}).Info("schedule overrides delivery chat")
			chatID = override
		}
	}

	if mode != modeForced {
		if s.alreadySent(ctx, now) {
			return Outcome{Status: StatusSkipped, Reason: ReasonAlreadySent, ChatID: chatID, Date: today}
		}
		if schedule != nil && !schedule.Allows(now) {
			return Outcome{Status: StatusSkipped, Reason: ReasonNotScheduled, ChatID: chatID, Date: today}
		}
	}

	tasks, err := s.tasks.GetTasks(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to load tasks, using empty collection")
		tasks = nil
	}
	expenses, err := s.expenses.GetExpenses(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to load expenses, using empty collection")
		expenses = nil
	}

	s.setState(StateFormatting)
	text := digest.FormatDailyDigest(user, tasks, expenses, now, s.opts.Digest)
	text = digest.Truncate(text, digest.MaxMessageLength)

	s.setState(StateDelivering)
	resp, err := s.sender.SendMessage(ctx, chatID, text)
	if err != nil {
		s.setState(StateFailed)
		return Outcome{Status: StatusFailed, Description: describe(err), ChatID: chatID, Message: text, Date: today}
	}
	if resp != nil && !resp.Ok {
		s.setState(StateFailed)
		return Outcome{Status: StatusFailed, Description: resp.Description, ChatID: chatID, Message: text, Date: today}
	}

	s.setState(StateDelivered)
	if err := s.marker.MarkSent(ctx, today, chatID, s.opts.Now()); err != nil {
		s.log.WithError(err).Warn("digest delivered but the sent marker was not saved")
	}
	return Outcome{Status: StatusDelivered, ChatID: chatID, Message: text, Date: today}
}

func (s *ReminderService) loadUser(ctx context.Context) *models.User {
	user, err := s.users.GetUser(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to load user, treating as absent")
		return nil
	}
	if user == nil || strings.TrimSpace(user.TelegramID) == "" {
		return nil
	}
	return user
}

func (s *ReminderService) loadSchedule(ctx context.Context) *models.Schedule {
	schedule, err := s.schedules.GetSchedule(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to load schedule, delivering daily")
		return nil
	}
	return schedule
}

func (s *ReminderService) alreadySent(ctx context.Context, now time.Time) bool {
	sent, err := s.marker.IsSentOnDate(ctx, now)
	if err != nil {
		s.log.WithError(err).Warn("failed to read sent marker, treating as unsent")
		return false
	}
	return sent
}

func (s *ReminderService) setState(state PipelineState) {
	s.mu.Lock()
	prev := s.state
	s.state = state
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"from": prev, "to": state}).Debug("pipeline state")
}

func (s *ReminderService) finish(out Outcome, mode runMode) {
	s.mu.Lock()
	s.last = &out
	s.mu.Unlock()
	s.setState(StateIdle)

	entry := s.log.WithFields(logrus.Fields{
		"status":  out.Status,
		"chat_id": out.ChatID,
		"date":    out.Date.Format(models.DateLayout),
	})
	switch out.Status {
	case StatusFailed:
		entry.WithField("description", out.Description).Error("daily digest failed")
	case StatusSkipped:
		// schedule checks repeat every few minutes and mostly skip
		if mode == modeScheduled {
			entry.WithField("reason", out.Reason).Debug("daily digest skipped")
			return
		}
		entry.WithField("reason", out.Reason).Info("daily digest skipped")
	default:
		entry.Info("daily digest delivered")
	}
}

func describe(err error) string {
	var derr *client.DeliveryError
	if errors.As(err, &derr) && derr.Description != "" {
		return derr.Description
	}
	return err.Error()
}
