package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Lina3386/weekgram/internal/models"
	"github.com/Lina3386/weekgram/internal/services"
	"github.com/Lina3386/weekgram/internal/state"
)

const helpText = `Available commands:
/start - greeting and your chat id
/id - show the chat id to use during setup
/today - send today's digest now
/tasks - list today's tasks
/addtask - add a recurring task
/addexpense - record an expense
/summary - weekly expense summary
/cancel - abort the current dialog
/help - this message`

func (h *BotHandler) HandleStart(ctx context.Context, msg *tgbotapi.Message) {
	name := ""
	if msg.From != nil {
		name = msg.From.FirstName
	}

	text := fmt.Sprintf("👋 Hi %s!\n\nYour chat id is %d.\nUse it to finish the setup, then I will send you a daily digest of your tasks and weekly expenses.", strings.TrimSpace(name), msg.Chat.ID)
	if _, ok := h.owner(ctx, msg.Chat.ID); ok {
		text = fmt.Sprintf("👋 Welcome back %s! Your daily digest is configured for this chat.", strings.TrimSpace(name))
	}
	h.sendMessageWithKeyboard(msg.Chat.ID, text, mainMenu())
}

func (h *BotHandler) HandleHelp(ctx context.Context, msg *tgbotapi.Message) {
	h.sendMessage(msg.Chat.ID, helpText)
}

func (h *BotHandler) HandleID(ctx context.Context, msg *tgbotapi.Message) {
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("Your chat id is %d", msg.Chat.ID))
}

// HandleToday forces a digest run. The digest itself is delivered by the pipeline.
func (h *BotHandler) HandleToday(ctx context.Context, msg *tgbotapi.Message) {
	if !h.requireOwner(ctx, msg.Chat.ID) {
		return
	}

	out := h.reminder.RunForced(ctx)
	switch out.Status {
	case services.StatusDelivered:
		if out.ChatID != "" && out.ChatID != chatIDString(msg.Chat.ID) {
			h.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ Digest sent to chat %s", out.ChatID))
		}
	case services.StatusSkipped:
		h.sendMessage(msg.Chat.ID, "Nothing sent: "+out.Reason)
	default:
		h.sendMessage(msg.Chat.ID, "❌ Failed to send digest: "+out.Description)
	}
}

func (h *BotHandler) HandleTasks(ctx context.Context, msg *tgbotapi.Message) {
	if !h.requireOwner(ctx, msg.Chat.ID) {
		return
	}

	day := models.WeekdayOf(h.today())
	tasks, err := h.tasks.ListForDay(ctx, day)
	if err != nil {
		h.log.WithError(err).Error("failed to list tasks")
		h.sendMessage(msg.Chat.ID, "❌ Failed to load tasks")
		return
	}
	if len(tasks) == 0 {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("No tasks for %s", day.FullName()))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tasks for %s:", day.FullName())
	for i, task := range tasks {
		fmt.Fprintf(&b, "\n%d. %s", i+1, task.Title)
		if task.EstimatedMinutes > 0 {
			fmt.Fprintf(&b, " (%d min)", task.EstimatedMinutes)
		}
	}
	h.sendMessage(msg.Chat.ID, b.String())
}

func (h *BotHandler) HandleAddTask(ctx context.Context, msg *tgbotapi.Message) {
	if !h.requireOwner(ctx, msg.Chat.ID) {
		return
	}
	h.stateManager.ClearState(msg.Chat.ID)
	h.stateManager.SetState(msg.Chat.ID, state.StateAddingTaskTitle)
	h.sendMessage(msg.Chat.ID, "📝 What is the task called?")
}

func (h *BotHandler) HandleAddExpense(ctx context.Context, msg *tgbotapi.Message) {
	if !h.requireOwner(ctx, msg.Chat.ID) {
		return
	}
	h.stateManager.ClearState(msg.Chat.ID)
	h.stateManager.SetState(msg.Chat.ID, state.StateAddingExpenseTitle)
	h.sendMessage(msg.Chat.ID, "💸 What did you spend on?")
}

func (h *BotHandler) HandleSummary(ctx context.Context, msg *tgbotapi.Message) {
	if !h.requireOwner(ctx, msg.Chat.ID) {
		return
	}
	if _, err := h.expenses.WeeklySummary(ctx); err != nil {
		h.log.WithError(err).Error("failed to send weekly summary")
		if errors.Is(err, services.ErrNoUser) {
			h.sendMessage(msg.Chat.ID, "Setup is not complete yet")
			return
		}
		h.sendMessage(msg.Chat.ID, "❌ Failed to send weekly summary")
	}
}

func (h *BotHandler) HandleCancel(ctx context.Context, msg *tgbotapi.Message) {
	h.stateManager.ClearState(msg.Chat.ID)
	h.sendMessageWithKeyboard(msg.Chat.ID, "❌ Cancelled", mainMenu())
}

func (h *BotHandler) HandleUnknownCommand(ctx context.Context, msg *tgbotapi.Message) {
	h.sendMessage(msg.Chat.ID, "❓ Unknown command. Use /help to see what I can do.")
}

// requireOwner answers chats other than the configured one and reports whether to continue.
func (h *BotHandler) requireOwner(ctx context.Context, chatID int64) bool {
	user, ok := h.owner(ctx, chatID)
	if ok {
		return true
	}
	if user == nil {
		h.sendMessage(chatID, fmt.Sprintf("Setup is not complete yet. Use chat id %d when running setup.", chatID))
		return false
	}
	h.sendMessage(chatID, "⛔ This bot is linked to another chat")
	return false
}
