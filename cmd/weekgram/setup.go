package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lina3386/weekgram/internal/models"
	"github.com/Lina3386/weekgram/internal/services"
)

func (c *cli) setupCmd() *cobra.Command {
	var user models.User

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Link your Telegram chat and save your profile",
		Long: `Save the user profile after sending a greeting to the chat.

The greeting doubles as a check that the bot can reach the chat id.
Send /id to the bot to find your chat id.

Examples:
  weekgram setup --telegram-id 123456789 --name Asha --email asha@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := c.provider.UserService(cmd.Context()).Setup(cmd.Context(), user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "setup complete for %s (chat %s)\n", saved.Name, saved.TelegramID)
			return nil
		},
	}

	cmd.Flags().StringVar(&user.TelegramID, "telegram-id", "", "chat id reported by /id")
	cmd.Flags().StringVar(&user.Name, "name", "", "your name")
	cmd.Flags().StringVar(&user.Email, "email", "", "your email")
	cmd.Flags().StringVar(&user.Avatar, "avatar", "", "avatar URL")
	_ = cmd.MarkFlagRequired("telegram-id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the saved profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.provider.UserService(cmd.Context()).Profile(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Name:        %s\n", user.Name)
			fmt.Fprintf(w, "Email:       %s\n", user.Email)
			fmt.Fprintf(w, "Telegram ID: %s\n", user.TelegramID)
			if user.Avatar != "" {
				fmt.Fprintf(w, "Avatar:      %s\n", user.Avatar)
			}
			return nil
		},
	}

	cmd.AddCommand(c.profileSetCmd())

	return cmd
}

func (c *cli) profileSetCmd() *cobra.Command {
	var name, email, avatar string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change name, email or avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			var update services.ProfileUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("email") {
				update.Email = &email
			}
			if cmd.Flags().Changed("avatar") {
				update.Avatar = &avatar
			}
			if update.Name == nil && update.Email == nil && update.Avatar == nil {
				return errors.New("nothing to update, pass --name, --email or --avatar")
			}

			user, err := c.provider.UserService(cmd.Context()).UpdateProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "profile updated for %s\n", user.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().StringVar(&avatar, "avatar", "", "new avatar URL")

	return cmd
}

func (c *cli) resetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the profile, tasks, expenses and schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset removes all data, pass --yes to confirm")
			}
			if err := c.provider.UserService(cmd.Context()).Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all data removed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	return cmd
}
