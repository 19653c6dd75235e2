package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"lorastudio/internal/infra"
	"lorastudio/internal/session"
)

// env is the per-invocation state shared by the subcommands.
type env struct {
	cfg     *infra.Config
	logger  infra.Logger
	session *session.Session
	verbose bool
}

func newRootCmd() (*cobra.Command, *env) {
	e := &env{}
	root := &cobra.Command{
		Use:           "lorav",
		Short:         "Turn an image into a short video with a LoRA style",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.open(cmd.Context(), cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		generateCmd(e),
		historyCmd(e),
		apiKeyCmd(e),
		curlCmd(e),
		stylesCmd(),
	)
	return root, e
}

// execute runs root and closes the session whether or not the command failed;
// cobra skips post-run hooks when RunE returns an error.
func execute(ctx context.Context, root *cobra.Command, e *env) error {
	err := root.ExecuteContext(ctx)
	if cerr := e.close(); err == nil {
		err = cerr
	}
	return err
}

func (e *env) open(ctx context.Context, stderr io.Writer) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	e.cfg = cfg
	if e.verbose {
		e.logger = infra.NewLoggerTo("cli", stderr).With().Str("cmd", "lorav").Logger()
	} else {
		e.logger = *infra.DiscardLogger()
	}
	sess, err := session.Open(ctx, cfg, e.logger)
	if err != nil {
		return err
	}
	e.session = sess
	return nil
}

func (e *env) close() error {
	if e.session == nil {
		return nil
	}
	err := e.session.Close()
	e.session = nil
	return err
}
