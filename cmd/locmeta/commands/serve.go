package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/internal/observability"
	"github.com/Sumatoshi-tech/locmeta/internal/server"
)

// NewServeCommand creates the serve subcommand.
func NewServeCommand() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve <log>",
		Short: "Serve the commit analytics page with live brushing",
		Long: `Load a line-of-code log and serve it over HTTP:

  GET  /              analytics page with brush selection and hover details
  GET  /api/commits   commits as JSON
  GET  /api/summary   summary statistics as JSON
  POST /api/brush     {"event":"start|drag|end|clear","region":{"x0":..,"y0":..,"x1":..,"y1":..},"seq":n}
  GET  /api/tooltip   ?id=<commit>&x=&y= to show, ?x=&y= to move, no query to hide
  GET  /metrics       Prometheus metrics
  GET  /healthz       liveness`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, observability.ModeServe)
			if err != nil {
				return err
			}
			defer a.close()

			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}

			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := loadContext(cmd, a, args[0])
			if err != nil {
				return err
			}

			red, err := observability.NewREDMetrics(a.providers.Meter)
			if err != nil {
				return err
			}

			srv := server.New(c, server.Deps{
				Logger:         a.logger,
				Tracer:         a.providers.Tracer,
				Metrics:        red,
				MetricsHandler: a.providers.MetricsHandler,
			})

			return srv.ListenAndServe(ctx, a.cfg.Server)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")

	return cmd
}
