package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Lina3386/weekgram/internal/models"
	"github.com/Lina3386/weekgram/internal/services"
)

func (c *cli) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage recurring tasks",
	}

	cmd.AddCommand(c.taskAddCmd())
	cmd.AddCommand(c.taskListCmd())
	cmd.AddCommand(c.taskDeleteCmd())

	return cmd
}

func (c *cli) taskAddCmd() *cobra.Command {
	var (
		in   services.NewTask
		days string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task reminded on the given days",
		Long: `Add a task reminded on the given days.

Examples:
  weekgram task add --title Gym --description legs --days Mon,Thu
  weekgram task add --title Read --days daily --minutes 30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			remindDays, err := models.ParseWeekdayList(days)
			if err != nil {
				return err
			}
			in.RemindDays = remindDays

			task, err := c.provider.TaskService(cmd.Context()).Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added task %s: %s (%s)\n", task.ID, task.Title, models.FormatWeekdays(task.RemindDays))
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "task title")
	cmd.Flags().StringVarP(&in.Description, "description", "d", "", "task description")
	cmd.Flags().IntVarP(&in.EstimatedMinutes, "minutes", "m", 0, "estimated minutes")
	cmd.Flags().StringVar(&days, "days", "", "days to remind on: Mon,Thu or daily, weekdays, weekend")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func (c *cli) taskListCmd() *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally only those for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.provider.TaskService(cmd.Context())

			var (
				tasks []models.Task
				err   error
			)
			if day != "" {
				weekday, perr := models.ParseWeekday(day)
				if perr != nil {
					return perr
				}
				tasks, err = svc.ListForDay(cmd.Context(), weekday)
			} else {
				tasks, err = svc.List(cmd.Context())
			}
			if err != nil {
				return err
			}

			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no tasks")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tDAYS\tMINUTES\tDESCRIPTION")
			for _, t := range tasks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", t.ID, t.Title, models.FormatWeekdays(t.RemindDays), t.EstimatedMinutes, t.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "only tasks reminded on this day")

	return cmd
}

func (c *cli) taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.provider.TaskService(cmd.Context()).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %s\n", args[0])
			return nil
		},
	}
}
