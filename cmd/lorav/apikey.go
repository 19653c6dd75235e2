package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lorastudio/internal/infra/credentials"
)

func apiKeyCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage the stored MagicAPI key",
	}

	setCmd := &cobra.Command{
		Use:   "set <key>",
		Short: "Store the API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.session.SetAPIKey(args[0]); err != nil {
				return err
			}
			if err := e.session.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key stored (%s)\n", credentials.Mask(e.session.APIKey()))
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the masked API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := e.session.APIKey()
			if key == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no API key configured")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), credentials.Mask(key))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.session.ClearAPIKey(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key cleared")
			return nil
		},
	}

	cmd.AddCommand(setCmd, showCmd, clearCmd)
	return cmd
}
