package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ericzzh/mattermost-prune/server/app"
	"github.com/ericzzh/mattermost-prune/server/bot"
	"github.com/ericzzh/mattermost-prune/server/config"
	"github.com/ericzzh/mattermost-prune/server/metrics"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newScheduleCmd(v *viper.Viper) *Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "run prune passes on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, args []string) error {
			return scheduleCmdF(command, v)
		},
	}

	cmd.Flags().String(flagCron, "", "standard cron expression or descriptor, e.g. \"0 3 * * *\" or \"@daily\"")
	bindFlags(v, cmd.Flags())

	return cmd
}

func scheduleCmdF(command *cobra.Command, v *viper.Viper) error {
	cfg := loadConfig(v)
	if err := cfg.IsValid(); err != nil {
		return err
	}

	schedule := v.GetString(flagCron)
	if schedule == "" {
		return errors.Wrapf(config.ErrInvalidInput, "field:%s", flagCron)
	}

	logger, err := bot.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	s := app.NewScheduler(schedule, func(ctx context.Context) (*app.Result, error) {
		res, err := runPrune(ctx, cfg, logger)
		observe(m, cfg, logger, res, err)
		return res, err
	}, logger)

	if err := s.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	s.Stop()

	return nil
}
