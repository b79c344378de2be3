package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Lina3386/weekgram/internal/services"
)

func (c *cli) expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and review expenses",
	}

	cmd.AddCommand(c.expenseAddCmd())
	cmd.AddCommand(c.expenseListCmd())
	cmd.AddCommand(c.expenseDeleteCmd())
	cmd.AddCommand(c.expenseSummaryCmd())

	return cmd
}

func (c *cli) expenseAddCmd() *cobra.Command {
	var in services.NewExpense

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Long: `Record an expense. The date defaults to today.

Examples:
  weekgram expense add --title Lunch --price 120.50 --mode UPI
  weekgram expense add --title Taxi --price 80 --mode cash --date 2024-01-05`,
		RunE: func(cmd *cobra.Command, args []string) error {
			expense, err := c.provider.ExpenseService(cmd.Context()).Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added expense %s: %s %s on %s (%s)\n",
				expense.ID, expense.Title, expense.Price.String(), expense.Date, expense.PaymentMode)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "what the money was spent on")
	cmd.Flags().StringVarP(&in.Price, "price", "p", "", "amount, e.g. 120.50")
	cmd.Flags().StringVar(&in.Date, "date", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVarP(&in.PaymentMode, "mode", "m", "", "payment mode, e.g. cash or card")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("mode")

	return cmd
}

func (c *cli) expenseListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			expenses, err := c.provider.ExpenseService(cmd.Context()).List(cmd.Context())
			if err != nil {
				return err
			}
			if len(expenses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no expenses")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTITLE\tPRICE\tMODE")
			for _, e := range expenses {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Title, e.Price.String(), e.PaymentMode)
			}
			return w.Flush()
		},
	}
}

func (c *cli) expenseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.provider.ExpenseService(cmd.Context()).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted expense %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) expenseSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Send the last seven days of expenses to Telegram",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.provider.ExpenseService(cmd.Context()).WeeklySummary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
