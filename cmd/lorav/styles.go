package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lorastudio/internal/providers/magicapi"
)

func stylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the LoRA style presets",
		Args:  cobra.NoArgs,
		// Presets are static; skip loading config and storage.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range magicapi.Styles() {
				fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.URL)
			}
			return tw.Flush()
		},
	}
}
