package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lorastudio/internal/infra/credentials"
	"lorastudio/internal/providers/magicapi"
)

func curlCmd(e *env) *cobra.Command {
	var (
		params   paramFlags
		imageURL string
		reveal   bool
	)
	cmd := &cobra.Command{
		Use:   "curl",
		Short: "Print the submit request as a curl command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := params.request(cmd.Flags())
			if err != nil {
				return err
			}
			req.ImageURL = imageURL
			key := e.session.APIKey()
			if !reveal {
				key = credentials.Mask(key)
			}
			line, err := magicapi.CurlCommand(e.cfg.RunURL, key, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
	params.register(cmd.Flags())
	cmd.Flags().StringVar(&imageURL, "image-url", "", "hosted image reference returned by an upload")
	cmd.Flags().BoolVar(&reveal, "reveal-key", false, "print the API key instead of a masked placeholder")
	return cmd
}
