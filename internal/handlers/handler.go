package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Lina3386/weekgram/internal/models"
	"github.com/Lina3386/weekgram/internal/services"
	"github.com/Lina3386/weekgram/internal/state"
)

// BotAPI is the part of *tgbotapi.BotAPI the handlers talk to.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type DigestRunner interface {
	RunForced(ctx context.Context) services.Outcome
}

type TaskManager interface {
	Add(ctx context.Context, in services.NewTask) (*models.Task, error)
	ListForDay(ctx context.Context, day models.Weekday) ([]models.Task, error)
}

type ExpenseManager interface {
	Add(ctx context.Context, in services.NewExpense) (*models.Expense, error)
	WeeklySummary(ctx context.Context) (string, error)
}

type Options struct {
	Location *time.Location
	Now      func() time.Time
}

type BotHandler struct {
	bot          BotAPI
	users        services.UserReader
	tasks        TaskManager
	expenses     ExpenseManager
	reminder     DigestRunner
	stateManager *state.StateManager
	log          logrus.FieldLogger
	opts         Options
}

func NewBotHandler(
	bot BotAPI,
	users services.UserReader,
	tasks TaskManager,
	expenses ExpenseManager,
	reminder DigestRunner,
	stateManager *state.StateManager,
	log logrus.FieldLogger,
	opts Options,
) *BotHandler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &BotHandler{
		bot:          bot,
		users:        users,
		tasks:        tasks,
		expenses:     expenses,
		reminder:     reminder,
		stateManager: stateManager,
		log:          log,
		opts:         opts,
	}
}

// HandleUpdate routes one update from the long-polling loop.
func (h *BotHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		msg := update.Message
		h.log.WithFields(logrus.Fields{"chat_id": msg.Chat.ID, "text": msg.Text}).Debug("message received")

		if !msg.IsCommand() {
			h.HandleTextMessage(ctx, msg)
			return
		}
		switch msg.Command() {
		case "start":
			h.HandleStart(ctx, msg)
		case "help":
			h.HandleHelp(ctx, msg)
		case "id":
			h.HandleID(ctx, msg)
		case "today":
			h.HandleToday(ctx, msg)
		case "tasks":
			h.HandleTasks(ctx, msg)
		case "addtask":
			h.HandleAddTask(ctx, msg)
		case "addexpense":
			h.HandleAddExpense(ctx, msg)
		case "summary":
			h.HandleSummary(ctx, msg)
		case "cancel":
			h.HandleCancel(ctx, msg)
		default:
			h.HandleUnknownCommand(ctx, msg)
		}
		return
	}

	if update.CallbackQuery != nil {
		h.log.WithFields(logrus.Fields{"from": update.CallbackQuery.From.ID, "data": update.CallbackQuery.Data}).Debug("callback received")
		h.HandleCallback(ctx, update.CallbackQuery)
	}
}

// owner reports whether chatID is the chat of the configured user.
func (h *BotHandler) owner(ctx context.Context, chatID int64) (*models.User, bool) {
	user, err := h.users.GetUser(ctx)
	if err != nil {
		h.log.WithError(err).Warn("failed to load user")
		return nil, false
	}
	if user == nil {
		return nil, false
	}
	return user, user.TelegramID == chatIDString(chatID)
}

func (h *BotHandler) today() time.Time {
	return h.opts.Now().In(h.opts.Location)
}
