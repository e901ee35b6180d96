package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smnshzh/MarketVisit/internal/app"
	"github.com/smnshzh/MarketVisit/internal/config"
	"github.com/smnshzh/MarketVisit/internal/domain"
	"github.com/smnshzh/MarketVisit/internal/logger"
)

// cli holds the state shared by all subcommands. The runtime is opened lazily
// so commands that never talk to the backend (date) do not touch storage.
type cli struct {
	out io.Writer

	loadConfig func() (*config.Config, error)
	initLogger func(*config.Config) (logger.Logger, error)
	newRuntime func(*config.Config, logger.Logger) (*app.Runtime, error)

	cfg *config.Config
	log logger.Logger
	rt  *app.Runtime
}

func newCLI(out io.Writer) *cli {
	return &cli{
		out:        out,
		loadConfig: config.Load,
		initLogger: logger.Init,
		newRuntime: app.NewRuntime,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "marketvisit",
		Short:         "Client for the MarketVisit store directory backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)

	root.AddCommand(
		newAuthCmd(c),
		newStoresCmd(c),
		newCommentsCmd(c),
		newLocationCmd(c),
		newGroupsCmd(c),
		newVisitsCmd(c),
		newDeactivationCmd(c),
		newDateCmd(c),
		newWatchCmd(c),
	)
	return root
}

func (c *cli) setup() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := c.initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.cfg, c.log = cfg, log
	return nil
}

func (c *cli) runtime() (*app.Runtime, error) {
	if c.rt != nil {
		return c.rt, nil
	}
	if err := c.setup(); err != nil {
		return nil, err
	}
	rt, err := c.newRuntime(c.cfg, c.log)
	if err != nil {
		return nil, err
	}
	c.rt = rt
	return rt, nil
}

func (c *cli) close() error {
	if c.rt == nil {
		return nil
	}
	err := c.rt.Close()
	c.rt = nil
	return err
}

// point returns the flag coordinates, or the runtime's location provider
// when neither flag was set.
func (c *cli) point(ctx context.Context, rt *app.Runtime, lat, lng float64) (domain.Coordinates, error) {
	p := domain.Coordinates{Lat: lat, Lng: lng}
	if !p.IsZero() {
		return p, nil
	}
	p, err := rt.Location.Current(ctx)
	if err != nil {
		return p, fmt.Errorf("no position given (use --lat/--lng or default_lat/default_lng): %w", err)
	}
	return p, nil
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func addPointFlags(cmd *cobra.Command, lat, lng *float64) {
	cmd.Flags().Float64Var(lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(lng, "lng", 0, "longitude")
}
