package app

import (
	"context"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Lina3386/weekgram/internal/closer"
)

// App runs the daily reminder schedule next to the bot's update loop.
type App struct {
	serviceProvider *ServiceProvider
	bot             *tgbotapi.BotAPI
}

func NewApp(ctx context.Context, serviceProvider *ServiceProvider) (*App, error) {
	a := &App{serviceProvider: serviceProvider}

	err := a.initDeps(ctx)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Run blocks until ctx is cancelled or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	log := a.serviceProvider.Logger()
	defer func() {
		if err := closer.CloseAll(); err != nil {
			log.WithError(err).Error("failed to release resources")
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)

	scheduler := a.serviceProvider.Scheduler(ctx)
	scheduler.Start(ctx)
	defer func() {
		stop()
		scheduler.Wait()
	}()

	return a.runTelegramBot(ctx)
}

func (a *App) initDeps(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initStore,
		a.initTelegramBot,
	}

	for _, f := range inits {
		err := f(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *App) initStore(ctx context.Context) error {
	a.serviceProvider.DBClient(ctx)
	return nil
}

func (a *App) initTelegramBot(context.Context) error {
	bot, err := a.serviceProvider.TelegramBot()
	if err != nil {
		return err
	}
	a.bot = bot
	return nil
}

func (a *App) runTelegramBot(ctx context.Context) error {
	log := a.serviceProvider.Logger()
	botHandler := a.serviceProvider.BotHandler(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout

	updates := a.bot.GetUpdatesChan(u)
	log.Info("bot is running, press Ctrl+C to stop")

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			a.bot.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			botHandler.HandleUpdate(ctx, update)
		}
	}
}
