package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smnshzh/MarketVisit/internal/app"
	"github.com/smnshzh/MarketVisit/internal/logger"
)

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll the configured areas and publish newly listed stores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.setup(); err != nil {
				return err
			}
			logger.InfoObj("watcher starting", "config", c.cfg)

			w, err := app.NewWatcher(cmd.Context(), c.cfg, c.log)
			if err != nil {
				logger.ErrorObj("failed to initialize watcher", "error", err)
				return err
			}
			if err := w.Run(cmd.Context()); err != nil {
				return fmt.Errorf("watcher run: %w", err)
			}
			return nil
		},
	}
}
