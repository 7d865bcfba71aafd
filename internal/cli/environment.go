package cli

import (
	"context"
	"io"
	"time"

	awsnotify "luis-provisioner/internal/common/aws"
	"luis-provisioner/internal/common/config"
	"luis-provisioner/internal/common/database"
	"luis-provisioner/internal/common/logger"
	"luis-provisioner/internal/common/luis"
	"luis-provisioner/internal/common/metrics"
	"luis-provisioner/internal/common/observability"
	"luis-provisioner/internal/pipeline"
)

// environment holds everything a command needs, built from the loaded config.
type environment struct {
	cfg     *config.Config
	log     logger.Logger
	runner  *pipeline.Runner
	closers []func(ctx context.Context)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func newEnvironment(ctx context.Context, out io.Writer) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log := logger.NewStructured(level, cfg.Logging.Format).WithFields(map[string]interface{}{
		"app": cfg.Application.Name,
	})

	env := &environment{cfg: cfg, log: log}

	var obsOpts []observability.Option
	if cfg.Tracing.JaegerEndpoint != "" {
		obsOpts = append(obsOpts, observability.WithJaeger(cfg.Tracing.JaegerEndpoint))
	}
	obs := observability.New(cfg.App.Name, obsOpts...)
	env.onClose(func(ctx context.Context) {
		if err := obs.Shutdown(ctx); err != nil {
			log.Warn("failed to shut down observability", map[string]interface{}{"error": err.Error()})
		}
	})
	env.onClose(func(ctx context.Context) {
		if err := metrics.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			log.Warn("failed to push metrics", map[string]interface{}{"error": err.Error()})
		}
	})

	client := luis.NewAuthoringClient(cfg.Authoring.Endpoint, cfg.Authoring.Key, config.GetDuration(cfg.Authoring.Timeout))
	opts := []pipeline.Option{pipeline.WithObservability(obs)}

	if cfg.State.Redis.Enabled() {
		rdb, err := database.NewRedis(ctx, cfg.State.Redis)
		if err != nil {
			env.close()
			return nil, err
		}
		env.onClose(func(context.Context) { _ = rdb.Close() })
		opts = append(opts, pipeline.WithStateStore(
			database.NewAppStateStore(rdb, time.Duration(cfg.State.TTL)*time.Second)))
	}

	if cfg.Ledger.Postgres.Enabled() {
		pg, err := database.NewPostgres(ctx, cfg.Ledger.Postgres)
		if err != nil {
			env.close()
			return nil, err
		}
		env.onClose(func(context.Context) { _ = pg.Close() })

		ledger := database.NewRunLedger(pg.DB)
		if err := ledger.EnsureSchema(ctx); err != nil {
			env.close()
			return nil, err
		}
		opts = append(opts, pipeline.WithLedger(ledger))
	}

	if cfg.Notifications.SNS.Enabled {
		notifier, err := awsnotify.NewPublishNotifier(ctx, cfg.Notifications.SNS.Region, cfg.Notifications.SNS.TopicARN)
		if err != nil {
			env.close()
			return nil, err
		}
		opts = append(opts, pipeline.WithNotifier(notifier))
	}

	env.runner = pipeline.NewRunner(cfg, client, log, out, opts...)
	log.Debug("environment ready", map[string]interface{}{
		"runId":    env.runner.RunID().String(),
		"endpoint": cfg.Authoring.Endpoint,
		"state":    cfg.State.Redis.Enabled(),
		"ledger":   cfg.Ledger.Postgres.Enabled(),
	})

	return env, nil
}

func (e *environment) onClose(fn func(ctx context.Context)) {
	e.closers = append(e.closers, fn)
}

// close runs the closers in reverse order with a fresh deadline, so metrics
// still flush after the command context was cancelled.
func (e *environment) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i](ctx)
	}
}
