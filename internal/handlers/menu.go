package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Lina3386/weekgram/internal/state"
)

const (
	btnToday   = "📅 Today"
	btnTasks   = "📋 Tasks"
	btnTask    = "➕ Task"
	btnExpense = "💸 Expense"
	btnSummary = "📊 Weekly summary"
)

func mainMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnToday),
			tgbotapi.NewKeyboardButton(btnTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnTask),
			tgbotapi.NewKeyboardButton(btnExpense),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSummary),
		),
	)
}

func daysKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Every day", "days_daily"),
			tgbotapi.NewInlineKeyboardButtonData("Weekdays", "days_weekdays"),
			tgbotapi.NewInlineKeyboardButtonData("Weekend", "days_weekend"),
		),
	)
}

func paymentModeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Cash", "mode_cash"),
			tgbotapi.NewInlineKeyboardButtonData("Card", "mode_card"),
			tgbotapi.NewInlineKeyboardButtonData("UPI", "mode_upi"),
		),
	)
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Error("failed to send message")
	}
}

func (h *BotHandler) sendMessageWithKeyboard(chatID int64, text string, keyboard interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Error("failed to send message")
	}
}

func (h *BotHandler) answerCallback(callbackID, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := h.bot.Request(callback); err != nil {
		h.log.WithError(err).Warn("failed to answer callback")
	}
}

// HandleCallback handles inline buttons offered while a dialog is waiting for days or a payment mode.
func (h *BotHandler) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil || query.Message.Chat == nil {
		h.answerCallback(query.ID, "")
		return
	}
	chatID := query.Message.Chat.ID

	kind, value, found := strings.Cut(query.Data, "_")
	if !found {
		h.answerCallback(query.ID, "Unknown action")
		return
	}

	current := h.stateManager.GetState(chatID)
	switch {
	case kind == "days" && current == state.StateAddingTaskDays:
		h.answerCallback(query.ID, "")
		h.finishTask(ctx, chatID, value)
	case kind == "mode" && current == state.StateAddingExpenseMode:
		h.answerCallback(query.ID, "")
		h.finishExpense(ctx, chatID, value)
	default:
		h.answerCallback(query.ID, "This button has expired")
	}
}
