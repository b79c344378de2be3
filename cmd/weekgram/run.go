package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lina3386/weekgram/internal/app"
	"github.com/Lina3386/weekgram/internal/services"
)

func (c *cli) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the bot and the daily digest schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.NewApp(cmd.Context(), c.provider)
			if err != nil {
				return fmt.Errorf("failed to init app: %w", err)
			}
			return a.Run(cmd.Context())
		},
	}
}

func (c *cli) sendCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Run the daily digest once",
		Long: `Run the daily digest pipeline once and print the outcome.

Without --force the digest is skipped when it was already delivered today
or when the notification schedule does not allow this moment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reminder := c.provider.ReminderService(cmd.Context())

			var out services.Outcome
			if force {
				out = reminder.RunForced(cmd.Context())
			} else {
				out = reminder.Run(cmd.Context())
			}

			w := cmd.OutOrStdout()
			switch out.Status {
			case services.StatusDelivered:
				fmt.Fprintf(w, "delivered to %s\n", out.ChatID)
			case services.StatusSkipped:
				fmt.Fprintf(w, "skipped: %s\n", out.Reason)
			default:
				return fmt.Errorf("delivery failed: %s", out.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "send even if already sent today or outside the schedule")

	return cmd
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the store schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := c.provider.DBClient(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "%s store up to date, %d migrations applied\n", db.Driver(), c.provider.Migrated())
			return nil
		},
	}
}
