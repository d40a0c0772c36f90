package cmd

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/maastricht-university/moodtrack/orchestrator"
	"github.com/maastricht-university/moodtrack/server"
)

func newRunCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Capture frames, smooth the mood and serve it over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := o.load()
			if err != nil {
				return err
			}
			log, err := newLogger(c, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			log.WithField("version", c.Pipeline.Version).Infof("%s starting", c.Pipeline.Name)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			p, err := orchestrator.NewPipeline(c, log, reg)
			if err != nil {
				return err
			}
			srv := server.New(p.State(), log, reg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return p.Run(ctx) })
			g.Go(func() error { return srv.ListenAndServe(ctx, c.Server.Addr) })
			return g.Wait()
		},
	}
}
