package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Lina3386/weekgram/internal/app"
	"github.com/Lina3386/weekgram/internal/config"
	"github.com/Lina3386/weekgram/internal/logger"
)

// cli carries what the subcommands share once flags are parsed.
type cli struct {
	configPath string
	logLevel   string
	provider   *app.ServiceProvider
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "weekgram",
		Short:         "Weekgram - daily Telegram digest of your tasks and weekly expenses",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(c.configPath); err != nil {
				return err
			}
			level := c.logLevel
			if !cmd.Flags().Changed("log-level") {
				if env := os.Getenv("LOG_LEVEL"); env != "" {
					level = env
				}
			}
			log := logger.New(level)
			log.SetOutput(cmd.ErrOrStderr())
			c.provider = app.NewServiceProvider(log)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config-path", ".env", "path to config file")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(c.runCmd())
	rootCmd.AddCommand(c.sendCmd())
	rootCmd.AddCommand(c.migrateCmd())
	rootCmd.AddCommand(c.setupCmd())
	rootCmd.AddCommand(c.profileCmd())
	rootCmd.AddCommand(c.resetCmd())
	rootCmd.AddCommand(c.taskCmd())
	rootCmd.AddCommand(c.expenseCmd())
	rootCmd.AddCommand(c.scheduleCmd())

	return rootCmd
}
