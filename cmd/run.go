package main

import (
	"context"

	"github.com/ericzzh/mattermost-prune/server/app"
	"github.com/ericzzh/mattermost-prune/server/bot"
	"github.com/ericzzh/mattermost-prune/server/config"
	"github.com/ericzzh/mattermost-prune/server/metrics"
	"github.com/ericzzh/mattermost-prune/server/sqlstore"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// openStore is replaced in tests.
var openStore = func(ctx context.Context, cfg config.RetentionConfig) (*sqlstore.SQLStore, error) {
	return sqlstore.Open(ctx, "pgx", cfg.DataSourceName())
}

func runCmdF(command *cobra.Command, v *viper.Viper) error {
	cfg := loadConfig(v)
	if err := cfg.IsValid(); err != nil {
		return err
	}

	logger, err := bot.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	m := metrics.New()
	res, err := runPrune(command.Context(), cfg, logger)
	observe(m, cfg, logger, res, err)
	if err != nil {
		logger.Errorf("Prune: failed. %v", err)
		return err
	}

	out, err := yaml.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "failed to marshal the result")
	}
	_, err = command.OutOrStdout().Write(out)
	return err
}

// runPrune runs one pass on its own connection.
func runPrune(ctx context.Context, cfg config.RetentionConfig, logger *bot.ZapLogger) (*app.Result, error) {
	files, err := app.NewLocalFileBackend(cfg.DataDirectory)
	if err != nil {
		return nil, err
	}

	logger.Tracef("Prune: connecting to %s", cfg.RedactedDataSourceName())
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	service := app.NewPruneService(sqlstore.NewPruneStore(logger, store), files, logger)
	res, err := service.Start(ctx, app.Options{
		RetentionDays: cfg.RetentionDays,
		BatchSize:     cfg.FileBatchSize,
		RemovePosts:   cfg.RemovePosts,
		DryRun:        cfg.DryRun,
		Pagination:    cfg.Pagination,
	})
	if err != nil {
		return res, err
	}

	logger.With("run_id", res.RunId).Infof("Prune: completed. files removed: %d, missing: %d, FileInfo rows: %d, Posts rows: %d",
		res.Stats.FilesRemoved, res.Stats.FilesMissing, res.Stats.FileInfosDeleted, res.Stats.PostsDeleted)
	return res, nil
}

// observe records the pass and refreshes the metrics file. A failed write is only logged.
func observe(m *metrics.Metrics, cfg config.RetentionConfig, logger bot.Logger, res *app.Result, err error) {
	m.Observe(res, err)
	if cfg.MetricsFile == "" {
		return
	}
	if werr := m.WriteTextfile(cfg.MetricsFile); werr != nil {
		logger.Warnf("Prune: %v", werr)
	}
}
