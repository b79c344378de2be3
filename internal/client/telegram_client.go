package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Lina3386/weekgram/internal/models"
)

// MaxMessageLength is the Bot API limit for one text message, in characters.
const MaxMessageLength = 4096

var (
	ErrInvalidChatID  = errors.New("chat id must be a non-empty numeric string")
	ErrEmptyMessage   = errors.New("message text must not be empty")
	ErrMessageTooLong = fmt.Errorf("message text exceeds %d characters", MaxMessageLength)
)

// DeliveryError is returned when the Bot API rejects a message or cannot be reached.
type DeliveryError struct {
	ChatID      string
	Code        int
	Description string
	Err         error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver message to %s: %s", e.ChatID, e.Description)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// TelegramClient sends text messages through the Bot API. It never retries.
type TelegramClient struct {
	bot  *tgbotapi.BotAPI
	http *http.Client
}

// NewTelegramClient builds a client for apiBase (e.g. https://api.telegram.org).
// No request is made until the first message is sent.
func NewTelegramClient(token, apiBase string, timeout time.Duration) *TelegramClient {
	httpClient := &http.Client{Timeout: timeout}

	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: httpClient,
		Buffer: 100,
	}
	bot.SetAPIEndpoint(Endpoint(apiBase))

	return &TelegramClient{bot: bot, http: httpClient}
}

// Endpoint turns an API base URL into the format string used by tgbotapi.
func Endpoint(apiBase string) string {
	return strings.TrimRight(apiBase, "/") + "/bot%s/%s"
}

// SendMessage posts text to chatID with Markdown parse mode. The caller is
// responsible for keeping text within MaxMessageLength.
func (c *TelegramClient) SendMessage(ctx context.Context, chatID, text string) (*tgbotapi.APIResponse, error) {
	id, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}
	if err := ctx.Err(); err != nil {
		return nil, &DeliveryError{ChatID: chatID, Description: err.Error(), Err: err}
	}

	msg := tgbotapi.NewMessage(id, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	// per-call copy so the request carries ctx
	bot := *c.bot
	bot.Client = contextClient{ctx: ctx, client: c.http}

	resp, err := bot.Request(msg)
	if err != nil {
		return resp, deliveryError(chatID, err)
	}
	return resp, nil
}

func parseChatID(chatID string) (int64, error) {
	if models.ValidateTelegramID(chatID) != nil {
		return 0, ErrInvalidChatID
	}
	id, err := strconv.ParseInt(strings.TrimSpace(chatID), 10, 64)
	if err != nil {
		return 0, ErrInvalidChatID
	}
	return id, nil
}

func deliveryError(chatID string, err error) *DeliveryError {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return &DeliveryError{
			ChatID:      chatID,
			Code:        apiErr.Code,
			Description: apiErr.Message,
			Err:         err,
		}
	}
	return &DeliveryError{ChatID: chatID, Description: err.Error(), Err: err}
}

type contextClient struct {
	ctx    context.Context
	client *http.Client
}

func (c contextClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req.WithContext(c.ctx))
}
