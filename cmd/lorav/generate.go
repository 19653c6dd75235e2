package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"lorastudio/internal/domain"
	"lorastudio/internal/lifecycle"
	"lorastudio/internal/providers/magicapi"
)

func generateCmd(e *env) *cobra.Command {
	var (
		params    paramFlags
		imagePath string
	)
	cmd := &cobra.Command{
		Use:   "generate --image <file> --prompt <text>",
		Short: "Upload an image, submit a job and wait for the video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := params.request(cmd.Flags())
			if err != nil {
				return err
			}
			if !e.session.HasAPIKey() {
				return fmt.Errorf("%w: run `lorav apikey set <key>` or set MAGIC_API_KEY", domain.ErrMissingAPIKey)
			}
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			client, err := magicapi.NewClient(magicapi.Options{
				Credentials:    e.session,
				UploadURL:      e.cfg.UploadURL,
				RunURL:         e.cfg.RunURL,
				StatusURL:      e.cfg.StatusURL,
				RequestTimeout: e.cfg.RequestTimeout,
				Logger:         &e.logger,
			})
			if err != nil {
				return err
			}
			ctrl, err := lifecycle.NewController(lifecycle.Options{
				Transport:    client,
				History:      e.session.History(),
				Logger:       &e.logger,
				PollInterval: e.cfg.PollInterval,
				MaxPollTicks: e.cfg.PollMaxTicks,
				BaseContext:  cmd.Context(),
			})
			if err != nil {
				return err
			}
			defer ctrl.Close()

			return runGeneration(cmd, ctrl, imagePath, data, req)
		},
	}
	params.register(cmd.Flags())
	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "source image file")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

// runGeneration walks ctrl through upload, submission and polling, printing
// each state change.
func runGeneration(cmd *cobra.Command, ctrl *lifecycle.Controller, imagePath string, data []byte, req domain.GenerationRequest) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Uploading %s...\n", filepath.Base(imagePath))
	snap, err := ctrl.SelectImage(ctx, filepath.Base(imagePath), http.DetectContentType(data), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Image: %s\n", snap.ImageURL)

	snap, err = ctrl.RequestGeneration(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Job %s queued, checking every %s\n", snap.JobID, ctrl.PollInterval())

	done := make(chan error, 1)
	go func() { done <- ctrl.Wait(ctx) }()

	last := snap
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			if err == nil {
				err = ctx.Err()
			}
			if err != nil {
				return err
			}
			return report(out, ctrl.Snapshot())
		case <-ticker.C:
			cur := ctrl.Snapshot()
			if cur.State != last.State || cur.RemoteStatus != last.RemoteStatus {
				fmt.Fprintf(out, "  %s (%s, check %d/%d)\n", cur.Label, cur.RemoteStatus, cur.Ticks, cur.MaxTicks)
			}
			last = cur
		}
	}
}

func report(out io.Writer, snap lifecycle.Snapshot) error {
	if snap.State == domain.StateCompleted {
		fmt.Fprintf(out, "Done: %s\n", snap.VideoURL)
		return nil
	}
	return errors.New(snap.Label + ": " + snap.Reason)
}
