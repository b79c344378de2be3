package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Lina3386/weekgram/internal/models"
	"github.com/Lina3386/weekgram/internal/services"
	"github.com/Lina3386/weekgram/internal/state"
)

const (
	keyTitle       = "title"
	keyDescription = "description"
	keyPrice       = "price"
	skipValue      = "-"
)

func (h *BotHandler) HandleTextMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch h.stateManager.GetState(chatID) {
	case state.StateAddingTaskTitle:
		if text == "" {
			h.sendMessage(chatID, "Title cannot be empty")
			return
		}
		if len([]rune(text)) > models.MaxTitleLength {
			h.sendMessage(chatID, fmt.Sprintf("Title must be at most %d characters", models.MaxTitleLength))
			return
		}
		h.stateManager.SetTempData(chatID, keyTitle, text)
		h.stateManager.SetState(chatID, state.StateAddingTaskDescription)
		h.sendMessage(chatID, "Add a short description, or send - to skip")

	case state.StateAddingTaskDescription:
		if text == skipValue {
			text = ""
		}
		h.stateManager.SetTempData(chatID, keyDescription, text)
		h.stateManager.SetState(chatID, state.StateAddingTaskDays)
		h.sendMessageWithKeyboard(chatID, "Which days? Send e.g. Mon,Thu or pick below", daysKeyboard())

	case state.StateAddingTaskDays:
		h.finishTask(ctx, chatID, text)

	case state.StateAddingExpenseTitle:
		if text == "" {
			h.sendMessage(chatID, "Title cannot be empty")
			return
		}
		h.stateManager.SetTempData(chatID, keyTitle, text)
		h.stateManager.SetState(chatID, state.StateAddingExpensePrice)
		h.sendMessage(chatID, "How much was it?")

	case state.StateAddingExpensePrice:
		if _, err := models.ParsePrice(text); err != nil {
			h.sendMessage(chatID, "❌ "+err.Error()+". Try again:")
			return
		}
		h.stateManager.SetTempData(chatID, keyPrice, text)
		h.stateManager.SetState(chatID, state.StateAddingExpenseMode)
		h.sendMessageWithKeyboard(chatID, "How did you pay?", paymentModeKeyboard())

	case state.StateAddingExpenseMode:
		h.finishExpense(ctx, chatID, text)

	default:
		h.handleMenuButton(ctx, msg, text)
	}
}

func (h *BotHandler) handleMenuButton(ctx context.Context, msg *tgbotapi.Message, text string) {
	switch text {
	case btnToday:
		h.HandleToday(ctx, msg)
	case btnTasks:
		h.HandleTasks(ctx, msg)
	case btnTask:
		h.HandleAddTask(ctx, msg)
	case btnExpense:
		h.HandleAddExpense(ctx, msg)
	case btnSummary:
		h.HandleSummary(ctx, msg)
	default:
		h.sendMessageWithKeyboard(msg.Chat.ID, "Use the menu or /help", mainMenu())
	}
}

func (h *BotHandler) finishTask(ctx context.Context, chatID int64, daysText string) {
	days, err := models.ParseWeekdayList(daysText)
	if err != nil {
		h.sendMessage(chatID, "❌ "+err.Error()+". Try again:")
		return
	}

	task, err := h.tasks.Add(ctx, services.NewTask{
		Title:       h.stateManager.GetTempData(chatID, keyTitle),
		Description: h.stateManager.GetTempData(chatID, keyDescription),
		RemindDays:  days,
	})
	h.stateManager.ClearState(chatID)
	if err != nil {
		h.replyError(chatID, "save task", err)
		return
	}
	h.sendMessageWithKeyboard(chatID, fmt.Sprintf("✅ Task added: %s (%s)", task.Title, models.FormatWeekdays(task.RemindDays)), mainMenu())
}

func (h *BotHandler) finishExpense(ctx context.Context, chatID int64, mode string) {
	if strings.TrimSpace(mode) == "" {
		h.sendMessage(chatID, "Payment mode cannot be empty")
		return
	}

	expense, err := h.expenses.Add(ctx, services.NewExpense{
		Title:       h.stateManager.GetTempData(chatID, keyTitle),
		Price:       h.stateManager.GetTempData(chatID, keyPrice),
		PaymentMode: mode,
	})
	h.stateManager.ClearState(chatID)
	if err != nil {
		h.replyError(chatID, "save expense", err)
		return
	}
	h.sendMessageWithKeyboard(chatID, fmt.Sprintf("✅ Expense saved: %s %s on %s (%s)", expense.Title, expense.Price.String(), expense.Date, expense.PaymentMode), mainMenu())
}

func (h *BotHandler) replyError(chatID int64, action string, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		h.sendMessage(chatID, "❌ "+verr.Error())
		return
	}
	h.log.WithError(err).WithField("chat_id", chatID).Errorf("failed to %s", action)
	h.sendMessage(chatID, "❌ Failed to "+action)
}

// chatIDString keeps chat ids comparable with the stored telegram id.
func chatIDString(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
