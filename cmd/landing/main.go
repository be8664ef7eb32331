package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/latampartners/landing/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "landing",
		Short:        "Lead-capture backend for the partner referral landing page",
		SilenceUsage: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.Serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:       "migrate [up|status|down]",
			Short:     "Apply or inspect database migrations",
			Args:      cobra.MaximumNArgs(1),
			ValidArgs: []string{"up", "status", "down"},
			RunE: func(cmd *cobra.Command, args []string) error {
				command := "up"
				if len(args) > 0 {
					command = args[0]
				}
				return app.Migrate(cmd.Context(), cmd.OutOrStdout(), command)
			},
		},
		&cobra.Command{
			Use:   "seed <name>",
			Short: "Load seeds/<name>_seed.sql",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.Seed(cmd.Context(), cmd.OutOrStdout(), args[0])
			},
		},
	)

	return root
}
