package app

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Lina3386/weekgram/internal/client"
	"github.com/Lina3386/weekgram/internal/client/db"
	"github.com/Lina3386/weekgram/internal/client/db/pg"
	"github.com/Lina3386/weekgram/internal/client/db/sqlite"
	"github.com/Lina3386/weekgram/internal/closer"
	"github.com/Lina3386/weekgram/internal/config"
	"github.com/Lina3386/weekgram/internal/config/env"
	"github.com/Lina3386/weekgram/internal/digest"
	"github.com/Lina3386/weekgram/internal/handlers"
	"github.com/Lina3386/weekgram/internal/migrations"
	"github.com/Lina3386/weekgram/internal/repository"
	"github.com/Lina3386/weekgram/internal/services"
	"github.com/Lina3386/weekgram/internal/state"
)

// pollTimeout is the long-polling timeout in seconds passed to getUpdates.
const pollTimeout = 60

// ServiceProvider builds dependencies lazily. Configuration and connection
// failures are fatal, the process cannot do anything useful without them.
type ServiceProvider struct {
	log *logrus.Logger

	botConfig      config.BotConfig
	telegramConfig config.TelegramConfig
	storeConfig    config.StoreConfig
	reminderConfig config.ReminderConfig

	dbClient db.Client
	migrated int

	// Repositories
	kvRepo        *repository.KVRepository
	userRepo      *repository.UserRepository
	taskRepo      *repository.TaskRepository
	expenseRepo   *repository.ExpenseRepository
	scheduleRepo  *repository.ScheduleRepository
	digestLogRepo *repository.DigestLogRepository

	// Services
	telegramClient  *client.TelegramClient
	userService     *services.UserService
	taskService     *services.TaskService
	expenseService  *services.ExpenseService
	scheduleService *services.ScheduleService
	reminderService *services.ReminderService
	scheduler       *services.Scheduler

	// Handlers
	botHandler *handlers.BotHandler

	// State
	stateManager *state.StateManager

	// Bot
	bot *tgbotapi.BotAPI
}

func NewServiceProvider(log *logrus.Logger) *ServiceProvider {
	return &ServiceProvider{log: log}
}

func (s *ServiceProvider) Logger() *logrus.Logger {
	return s.log
}

func (s *ServiceProvider) BotConfig() config.BotConfig {
	if s.botConfig == nil {
		botConfig, err := env.NewBotConfig()
		if err != nil {
			s.log.Fatalf("failed to get bot config: %v", err)
		}
		s.botConfig = botConfig
	}
	return s.botConfig
}

func (s *ServiceProvider) TelegramConfig() config.TelegramConfig {
	if s.telegramConfig == nil {
		telegramConfig, err := env.NewTelegramConfig()
		if err != nil {
			s.log.Fatalf("failed to get telegram config: %v", err)
		}
		s.telegramConfig = telegramConfig
	}
	return s.telegramConfig
}

func (s *ServiceProvider) StoreConfig() config.StoreConfig {
	if s.storeConfig == nil {
		storeConfig, err := env.NewStoreConfig()
		if err != nil {
			s.log.Fatalf("failed to get store config: %v", err)
		}
		s.storeConfig = storeConfig
	}
	return s.storeConfig
}

func (s *ServiceProvider) ReminderConfig() config.ReminderConfig {
	if s.reminderConfig == nil {
		reminderConfig, err := env.NewReminderConfig()
		if err != nil {
			s.log.Fatalf("failed to get reminder config: %v", err)
		}
		s.reminderConfig = reminderConfig
	}
	return s.reminderConfig
}

// DBClient opens the configured store and brings its schema up to date.
func (s *ServiceProvider) DBClient(ctx context.Context) db.Client {
	if s.dbClient == nil {
		cfg := s.StoreConfig()

		var (
			cl  db.Client
			err error
		)
		switch cfg.Driver() {
		case config.DriverPostgres:
			cl, err = pg.New(ctx, cfg.DSN())
		default:
			cl, err = sqlite.New(ctx, cfg.DSN())
		}
		if err != nil {
			s.log.Fatalf("failed to get db client: %v", err)
		}
		closer.Add(cl.Close)

		applied, err := migrations.Up(ctx, cl.DB(), cl.Driver())
		if err != nil {
			s.log.Fatalf("failed to apply migrations: %v", err)
		}
		s.log.WithFields(logrus.Fields{"driver": cl.Driver(), "applied": applied}).Info("store ready")

		s.migrated = applied
		s.dbClient = cl
	}
	return s.dbClient
}

// Migrated reports how many migrations DBClient applied.
func (s *ServiceProvider) Migrated() int {
	return s.migrated
}

func (s *ServiceProvider) KVRepository(ctx context.Context) *repository.KVRepository {
	if s.kvRepo == nil {
		s.kvRepo = repository.NewKVRepository(s.DBClient(ctx).DB(), s.log)
	}
	return s.kvRepo
}

func (s *ServiceProvider) UserRepository(ctx context.Context) *repository.UserRepository {
	if s.userRepo == nil {
		s.userRepo = repository.NewUserRepository(s.KVRepository(ctx))
	}
	return s.userRepo
}

func (s *ServiceProvider) TaskRepository(ctx context.Context) *repository.TaskRepository {
	if s.taskRepo == nil {
		s.taskRepo = repository.NewTaskRepository(s.KVRepository(ctx))
	}
	return s.taskRepo
}

func (s *ServiceProvider) ExpenseRepository(ctx context.Context) *repository.ExpenseRepository {
	if s.expenseRepo == nil {
		s.expenseRepo = repository.NewExpenseRepository(s.KVRepository(ctx))
	}
	return s.expenseRepo
}

func (s *ServiceProvider) ScheduleRepository(ctx context.Context) *repository.ScheduleRepository {
	if s.scheduleRepo == nil {
		s.scheduleRepo = repository.NewScheduleRepository(s.KVRepository(ctx))
	}
	return s.scheduleRepo
}

func (s *ServiceProvider) DigestLogRepository(ctx context.Context) *repository.DigestLogRepository {
	if s.digestLogRepo == nil {
		s.digestLogRepo = repository.NewDigestLogRepository(s.KVRepository(ctx))
	}
	return s.digestLogRepo
}

func (s *ServiceProvider) TelegramClient() *client.TelegramClient {
	if s.telegramClient == nil {
		s.telegramClient = client.NewTelegramClient(
			s.BotConfig().Token(),
			s.TelegramConfig().APIBase(),
			s.TelegramConfig().Timeout(),
		)
	}
	return s.telegramClient
}

func (s *ServiceProvider) ReminderOptions() services.ReminderOptions {
	cfg := s.ReminderConfig()
	return services.ReminderOptions{
		Digest: digest.Options{
			Currency: cfg.Currency(),
			Greeting: cfg.Greeting(),
		},
		Location: cfg.Location(),
	}
}

func (s *ServiceProvider) UserService(ctx context.Context) *services.UserService {
	if s.userService == nil {
		s.userService = services.NewUserService(
			s.UserRepository(ctx),
			s.TelegramClient(),
			s.KVRepository(ctx),
			s.log,
		)
	}
	return s.userService
}

func (s *ServiceProvider) TaskService(ctx context.Context) *services.TaskService {
	if s.taskService == nil {
		s.taskService = services.NewTaskService(s.TaskRepository(ctx))
	}
	return s.taskService
}

func (s *ServiceProvider) ExpenseService(ctx context.Context) *services.ExpenseService {
	if s.expenseService == nil {
		s.expenseService = services.NewExpenseService(
			s.ExpenseRepository(ctx),
			s.UserRepository(ctx),
			s.TelegramClient(),
			s.ReminderOptions(),
		)
	}
	return s.expenseService
}

func (s *ServiceProvider) ScheduleService(ctx context.Context) *services.ScheduleService {
	if s.scheduleService == nil {
		s.scheduleService = services.NewScheduleService(s.ScheduleRepository(ctx), s.UserRepository(ctx))
	}
	return s.scheduleService
}

func (s *ServiceProvider) ReminderService(ctx context.Context) *services.ReminderService {
	if s.reminderService == nil {
		s.reminderService = services.NewReminderService(
			s.UserRepository(ctx),
			s.TaskRepository(ctx),
			s.ExpenseRepository(ctx),
			s.ScheduleRepository(ctx),
			s.DigestLogRepository(ctx),
			s.TelegramClient(),
			s.log,
			s.ReminderOptions(),
		)
	}
	return s.reminderService
}

func (s *ServiceProvider) Scheduler(ctx context.Context) *services.Scheduler {
	if s.scheduler == nil {
		scheduler := services.NewScheduler(s.log)
		reminder := s.ReminderService(ctx)

		err := scheduler.Register(services.DailyReminderTask, s.ReminderConfig().Interval(), reminder.Run)
		if err != nil {
			s.log.Fatalf("failed to register %s: %v", services.DailyReminderTask, err)
		}
		err = scheduler.Register(services.ScheduleCheckTask, s.ReminderConfig().CheckInterval(), reminder.RunScheduled)
		if err != nil {
			s.log.Fatalf("failed to register %s: %v", services.ScheduleCheckTask, err)
		}
		s.scheduler = scheduler
	}
	return s.scheduler
}

func (s *ServiceProvider) StateManager() *state.StateManager {
	if s.stateManager == nil {
		s.stateManager = state.NewStateManager()
	}
	return s.stateManager
}

// TelegramBot authorizes the long-polling bot with getMe.
func (s *ServiceProvider) TelegramBot() (*tgbotapi.BotAPI, error) {
	if s.bot == nil {
		httpClient := &http.Client{Timeout: s.TelegramConfig().Timeout() + pollTimeout*time.Second}

		bot, err := tgbotapi.NewBotAPIWithClient(
			s.BotConfig().Token(),
			client.Endpoint(s.TelegramConfig().APIBase()),
			httpClient,
		)
		if err != nil {
			return nil, err
		}
		bot.Debug = s.BotConfig().Debug()
		if err := tgbotapi.SetLogger(s.log.WithField("component", "tgbotapi")); err != nil {
			s.log.WithError(err).Warn("failed to set bot api logger")
		}
		s.log.WithField("username", bot.Self.UserName).Info("bot authorized")
		s.bot = bot
	}
	return s.bot, nil
}

func (s *ServiceProvider) BotHandler(ctx context.Context) *handlers.BotHandler {
	if s.botHandler == nil {
		bot, err := s.TelegramBot()
		if err != nil {
			s.log.Fatalf("failed to authorize bot: %v", err)
		}
		s.botHandler = handlers.NewBotHandler(
			bot,
			s.UserRepository(ctx),
			s.TaskService(ctx),
			s.ExpenseService(ctx),
			s.ReminderService(ctx),
			s.StateManager(),
			s.log,
			handlers.Options{Location: s.ReminderConfig().Location()},
		)
	}
	return s.botHandler
}
