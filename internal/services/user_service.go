package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Lina3386/weekgram/internal/models"
)

var ErrNoUser = errors.New("no user profile, run setup first")

type UserStore interface {
	UserReader
	SaveUser(ctx context.Context, user models.User) error
}

// StoreResetter wipes every persisted record.
type StoreResetter interface {
	Clear(ctx context.Context) error
}

// ProfileUpdate carries optional profile edits; nil fields are left unchanged.
type ProfileUpdate struct {
	Name   *string
	Email  *string
	Avatar *string
}

type UserService struct {
	users  UserStore
	sender MessageSender
	reset  StoreResetter
	log    logrus.FieldLogger
}

func NewUserService(users UserStore, sender MessageSender, reset StoreResetter, log logrus.FieldLogger) *UserService {
	return &UserService{
		users:  users,
		sender: sender,
		reset:  reset,
		log:    log.WithField("component", "user"),
	}
}

// SetupGreeting is sent with Markdown parsing, so the name is escaped.
func SetupGreeting(name string) string {
	return fmt.Sprintf("👋 Hello %s, your setup is almost done!", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, strings.TrimSpace(name)))
}

// Setup verifies the chat id by sending a greeting and stores the profile only
// once Telegram has accepted the message.
func (s *UserService) Setup(ctx context.Context, user models.User) (*models.User, error) {
	user = trimUser(user)
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.sender.SendMessage(ctx, user.TelegramID, SetupGreeting(user.Name)); err != nil {
		return nil, fmt.Errorf("failed to verify telegram id: %w", err)
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithField("chat_id", user.TelegramID).Info("user set up")
	return &user, nil
}

func (s *UserService) Profile(ctx context.Context) (*models.User, error) {
	user, err := s.users.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNoUser
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	user, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}

	updated := trimUser(*user)
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.SaveUser(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Reset removes the profile together with all tasks, expenses and schedule.
func (s *UserService) Reset(ctx context.Context) error {
	if err := s.reset.Clear(ctx); err != nil {
		return err
	}
	s.log.Info("all data removed")
	return nil
}

func trimUser(u models.User) models.User {
	u.TelegramID = strings.TrimSpace(u.TelegramID)
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.Avatar = strings.TrimSpace(u.Avatar)
	return u
}
