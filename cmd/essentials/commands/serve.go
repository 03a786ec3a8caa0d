package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/marmos91/essentials/internal/cli/timeutil"
	"github.com/marmos91/essentials/internal/logger"
	"github.com/marmos91/essentials/pkg/config"
	"github.com/marmos91/essentials/pkg/metrics"
	"github.com/marmos91/essentials/pkg/router"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the static home and about pages",
	Long: `Start an HTTP server with two routes:

  GET /       Hello World
  GET /about  This is about page

Any other path gets a 404. The server listens on port 3000 by default and
runs until interrupted (Ctrl+C or SIGTERM), then shuts down gracefully.

When metrics are enabled, Prometheus metrics are served on a separate port.
Changes to logging.level in the configuration file apply without a restart.

Examples:
  # Listen on port 3000
  essentials serve

  # Listen on another port with debug logs
  ESSENTIALS_LOGGING_LEVEL=DEBUG essentials serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", router.DefaultPort, "Port to listen on (-1 picks a free port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	srvCfg := env.cfg.Server
	if cmd.Flags().Changed("port") {
		srvCfg.Port = servePort
	}

	table, err := router.NewRouteTable(router.DefaultRoutes()...)
	if err != nil {
		return err
	}
	srv := router.NewServer(srvCfg, table, metrics.NewHTTPMetrics())

	if env.loader.Watch(applyConfigChange) {
		logger.Debug("Watching configuration file for changes")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	if env.metrics.Server != nil {
		logger.Info("Metrics enabled", logger.KeyPort, env.cfg.Metrics.Port)
		g.Go(func() error { return env.metrics.Server.Start(gctx) })
	}

	start := time.Now()
	err = g.Wait()
	logger.Debug("Server exited", "uptime", timeutil.FormatElapsed(time.Since(start)))
	return err
}

// applyConfigChange applies the settings that can change while serving.
// Everything else needs a restart.
func applyConfigChange(cfg *config.Config, err error) {
	if err != nil {
		logger.Warn("Ignoring invalid configuration change", logger.KeyError, err)
		return
	}
	if !strings.EqualFold(cfg.Logging.Level, logger.GetLevel().String()) {
		logger.SetLevel(cfg.Logging.Level)
		logger.Info("Log level updated", "level", cfg.Logging.Level)
	}
}
