package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/prop-forecast/internal/api"
	"github.com/yourusername/prop-forecast/internal/health"
	"github.com/yourusername/prop-forecast/internal/history"
	"github.com/yourusername/prop-forecast/internal/metrics"
	"github.com/yourusername/prop-forecast/internal/scenario"
	"github.com/yourusername/prop-forecast/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the forecast API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"archive":     cfg.Archive.Source,
		"mode":        cfg.Engine.Mode,
		"version":     Version,
	}).Info("Forecast server starting")

	c, err := buildComponents(ctx)
	if err != nil {
		return err
	}
	defer c.close()

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	store := scenario.NewStore(cfg.Scenario.MaxScenarios, appLog)
	defer store.Close()

	server := api.NewServer(api.Dependencies{
		Predictor:      c.predictor,
		Finder:         c.finder,
		Runner:         c.scenarios,
		Scenarios:      store,
		Weights:        c.weights,
		Logger:         appLog,
		StreamEnabled:  cfg.Features.ScenarioStreamEnabled,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	checks := map[string]health.Check{
		"archive": func(ctx context.Context) error {
			_, err := c.archive.GetPropositionsByYear(ctx, latestElectionYear())
			return err
		},
	}
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Server.HealthPort,
		Logger:      appLog,
		Checks:      checks,
	}
	if c.db != nil {
		healthCfg.DB = c.db
	}
	healthServer := health.NewServer(healthCfg)
	grpcHealth := health.NewGRPCServer(cfg.App.Name, cfg.Server.GRPCHealthPort, appLog)

	sched := scheduler.NewScheduler(c.archive, appLog)
	if cfg.Schedule.ArchiveWarmup != "" {
		years := func() []int {
			return history.CandidateYears(latestElectionYear()+1, cfg.Schedule.WarmupYears)
		}
		if err := sched.ScheduleArchiveWarmup(cfg.Schedule.ArchiveWarmup, years); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
		go sched.RunWarmup(ctx, years())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return healthServer.Start(gctx) })
	g.Go(func() error { return grpcHealth.Start(gctx) })
	g.Go(func() error {
		return server.ListenAndServe(gctx, cfg.Server.Port, cfg.Server.ReadTimeoutSeconds, cfg.Server.WriteTimeoutSeconds)
	})

	healthServer.SetReady(true)
	grpcHealth.SetServing(true)
	appLog.WithField("port", cfg.Server.Port).Info("Forecast server ready")

	err = g.Wait()
	grpcHealth.SetServing(false)
	healthServer.SetReady(false)
	appLog.Info("Forecast server stopped")
	return err
}

// latestElectionYear is the most recent even year, the cadence of statewide elections
func latestElectionYear() int {
	year := time.Now().Year()
	if year%2 != 0 {
		year--
	}
	return year
}
