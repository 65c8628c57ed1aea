package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lookpub/internal/template"
	"lookpub/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch template directories and report settled work-file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			registry, err := template.FromConfig(cfg)
			if err != nil {
				return err
			}

			watcher, err := watch.New(cfg, logger)
			if err != nil {
				return err
			}
			defer watcher.Close()

			if err := watcher.AddTemplateDirs(registry); err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			done := make(chan error, 1)
			go func() {
				done <- watcher.Run(runCtx)
			}()

			for {
				select {
				case ev, ok := <-watcher.Events():
					if !ok {
						return <-done
					}
					fmt.Fprintf(out, "%s changed %s\n", ev.Time.Local().Format("15:04:05"), ev.Path)
				case err := <-done:
					if runCtx.Err() != nil {
						return nil
					}
					return err
				}
			}
		},
	}
}
