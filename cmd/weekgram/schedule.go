package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lina3386/weekgram/internal/models"
)

func (c *cli) scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Restrict which days and from what time the digest is sent",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := c.provider.ScheduleService(cmd.Context()).Get(cmd.Context())
			if err != nil {
				return err
			}
			if schedule == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no schedule, the digest is sent on every run")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s from %02d:%02d to chat %s\n",
				models.FormatWeekdays(schedule.SelectedDays), schedule.Hour, schedule.Minute, schedule.TelegramID)
			return nil
		},
	}

	cmd.AddCommand(c.scheduleSetCmd())
	cmd.AddCommand(c.scheduleClearCmd())

	return cmd
}

func (c *cli) scheduleSetCmd() *cobra.Command {
	var days, at, chatID string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set notification days and time",
		Long: `Set notification days and the earliest time of day for the digest.

Examples:
  weekgram schedule set --days weekdays --time 07:30
  weekgram schedule set --days Mon,Fri --time 18:00 --telegram-id -100123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := models.ParseWeekdayList(days)
			if err != nil {
				return err
			}
			clock, err := time.Parse("15:04", at)
			if err != nil {
				return &models.ValidationError{Field: "time", Message: "use HH:MM, e.g. 07:30"}
			}

			schedule, err := c.provider.ScheduleService(cmd.Context()).Set(cmd.Context(), models.Schedule{
				TelegramID:   chatID,
				SelectedDays: selected,
				Hour:         clock.Hour(),
				Minute:       clock.Minute(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "digest scheduled on %s from %02d:%02d\n",
				models.FormatWeekdays(schedule.SelectedDays), schedule.Hour, schedule.Minute)
			return nil
		},
	}

	cmd.Flags().StringVar(&days, "days", "", "days to send on: Mon,Thu or daily, weekdays, weekend")
	cmd.Flags().StringVar(&at, "time", "00:00", "earliest time of day as HH:MM")
	cmd.Flags().StringVar(&chatID, "telegram-id", "", "deliver to this chat instead of the profile's")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func (c *cli) scheduleClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.provider.ScheduleService(cmd.Context()).Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schedule removed")
			return nil
		},
	}
}
