package main

import (
	"os"
	"strings"

	"github.com/ericzzh/mattermost-prune/server/config"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	flagDataDir       = "data-dir"
	flagDBName        = "db-name"
	flagDBUser        = "db-user"
	flagDBPassword    = "db-password"
	flagDBHost        = "db-host"
	flagDBPort        = "db-port"
	flagDBSSLMode     = "db-sslmode"
	flagRetentionDays = "retention-days"
	flagFileBatchSize = "file-batch-size"
	flagRemovePosts   = "remove-posts"
	flagDryRun        = "dry-run"
	flagPagination    = "pagination"
	flagLogLevel      = "log-level"
	flagLogFormat     = "log-format"
	flagMetricsFile   = "metrics-file"
	flagEnvFile       = "env-file"
	flagCron          = "cron"
)

// envNames maps each flag to the environment variable it falls back to.
var envNames = map[string]string{
	flagDataDir:       "MATTERMOST_DATA_DIRECTORY",
	flagDBName:        "PGDATABASE",
	flagDBUser:        "PGUSER",
	flagDBPassword:    "PGPASSWORD",
	flagDBHost:        "PGHOST",
	flagDBPort:        "PGPORT",
	flagDBSSLMode:     "PGSSLMODE",
	flagRetentionDays: "RETENTION_DAYS",
	flagFileBatchSize: "FILE_BATCH_SIZE",
	flagRemovePosts:   "REMOVE_POSTS",
	flagDryRun:        "DRY_RUN",
	flagPagination:    "PAGINATION",
	flagLogLevel:      "LOG_LEVEL",
	flagLogFormat:     "LOG_FORMAT",
	flagMetricsFile:   "METRICS_FILE",
	flagCron:          "PRUNE_CRON",
}

func addRetentionFlags(flags *pflag.FlagSet) {
	flags.String(flagDataDir, "", "Mattermost data directory")
	flags.StringP(flagDBName, "n", "", "database name")
	flags.StringP(flagDBUser, "u", "", "database user")
	flags.StringP(flagDBPassword, "p", "", "database password")
	flags.StringP(flagDBHost, "h", "", "database host")
	flags.StringP(flagDBPort, "P", "", "database port")
	flags.String(flagDBSSLMode, "disable", "postgres sslmode")
	flags.IntP(flagRetentionDays, "D", 0, "keep files and posts created in the last N days")
	flags.IntP(flagFileBatchSize, "b", 0, "FileInfo rows fetched per page")
	flags.Bool(flagRemovePosts, false, "also delete posts older than the retention period")
	flags.Bool(flagDryRun, false, "report what would be removed without changing anything")
	flags.String(flagPagination, config.PaginationOffset, "FileInfo paging: offset or keyset")
	flags.String(flagLogLevel, "info", "trace, debug, info, warn or error")
	flags.String(flagLogFormat, "console", "console or json")
	flags.String(flagMetricsFile, "", "write Prometheus metrics of the run to this file")
	flags.String(flagEnvFile, ".env", "dotenv file loaded before reading the environment")
}

// bindFlags makes every flag in flags readable from v, falling back to its environment variable.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		lo.Must0(v.BindPFlag(f.Name, f))
		if env, ok := envNames[f.Name]; ok {
			lo.Must0(v.BindEnv(f.Name, env))
		}
	})
}

// loadDotEnv exports the variables of a dotenv file. A variable already set in the
// environment keeps its value. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	dotenv := viper.New()
	dotenv.SetConfigFile(path)
	dotenv.SetConfigType("env")
	if err := dotenv.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	for _, key := range dotenv.AllKeys() {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, dotenv.GetString(key)); err != nil {
			return errors.Wrapf(err, "failed to export %s", name)
		}
	}

	return nil
}

func loadConfig(v *viper.Viper) config.RetentionConfig {
	return config.RetentionConfig{
		DataDirectory: v.GetString(flagDataDir),
		DB: config.DB{
			Name:     v.GetString(flagDBName),
			User:     v.GetString(flagDBUser),
			Password: v.GetString(flagDBPassword),
			Host:     v.GetString(flagDBHost),
			Port:     v.GetString(flagDBPort),
			SSLMode:  v.GetString(flagDBSSLMode),
		},
		RetentionDays: v.GetInt(flagRetentionDays),
		FileBatchSize: v.GetInt(flagFileBatchSize),
		RemovePosts:   v.GetBool(flagRemovePosts),
		DryRun:        v.GetBool(flagDryRun),
		Pagination:    v.GetString(flagPagination),
		LogLevel:      v.GetString(flagLogLevel),
		LogFormat:     v.GetString(flagLogFormat),
		MetricsFile:   v.GetString(flagMetricsFile),
	}
}
