package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ericzzh/mattermost-prune/server/app"
	"github.com/ericzzh/mattermost-prune/server/config"
	"github.com/ericzzh/mattermost-prune/server/sqlstore"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE FileInfo (
    id            VARCHAR(26) PRIMARY KEY,
    path          TEXT,
    thumbnailpath TEXT,
    previewpath   TEXT,
    createat      BIGINT
);
CREATE TABLE Posts (
    id       VARCHAR(26) PRIMARY KEY,
    createat BIGINT
);
`

type fixture struct {
	dataDir string
	dbPath  string
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		dataDir: t.TempDir(),
		dbPath:  filepath.Join(t.TempDir(), "mattermost.db"),
	}

	for _, name := range []string{"old/a.png", "old/a_thumb.png", "new/b.png"} {
		p := filepath.Join(f.dataDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	ss, err := sqlstore.Open(context.Background(), "sqlite", f.dbPath)
	require.NoError(t, err)
	defer ss.Close()

	now := time.Now()
	old := now.Add(-40 * 24 * time.Hour).UnixMilli()
	db := ss.DB()
	_, err = db.Exec(schema)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO FileInfo VALUES ('f1', 'old/a.png', 'old/a_thumb.png', 'old/a_preview.png', ?)`, old)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO FileInfo VALUES ('f2', 'new/b.png', '', '', ?)`, now.UnixMilli())
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO Posts VALUES ('p1', ?), ('p2', ?)`, old, now.UnixMilli())
	require.NoError(t, err)

	orig := openStore
	openStore = func(ctx context.Context, cfg config.RetentionConfig) (*sqlstore.SQLStore, error) {
		return sqlstore.Open(ctx, "sqlite", f.dbPath)
	}
	t.Cleanup(func() { openStore = orig })

	return f
}

func (f *fixture) args(extra ...string) []string {
	return append([]string{
		"--data-dir", f.dataDir,
		"-n", "mattermost",
		"-u", "mmuser",
		"-h", "localhost",
		"-P", "5432",
		"-D", "30",
		"-b", "1",
		"--env-file", "",
	}, extra...)
}

func (f *fixture) rows(t *testing.T, table string) int {
	ss, err := sqlstore.Open(context.Background(), "sqlite", f.dbPath)
	require.NoError(t, err)
	defer ss.Close()

	var n int
	require.NoError(t, ss.DB().Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func (f *fixture) exists(name string) bool {
	_, err := os.Stat(filepath.Join(f.dataDir, name))
	return err == nil
}

type report struct {
	DryRun bool      `yaml:"dry_run"`
	Stats  app.Stats `yaml:"stats"`
}

func execute(t *testing.T, args []string) (report, error) {
	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs(args)

	err := root.Execute()

	var r report
	if err == nil {
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &r))
	}
	return r, err
}

func TestRun(t *testing.T) {
	t.Run("removes old files and rows", func(t *testing.T) {
		f := newFixture(t)
		metricsFile := filepath.Join(t.TempDir(), "prune.prom")

		r, err := execute(t, f.args("run", "--remove-posts", "--metrics-file", metricsFile))
		require.NoError(t, err)

		assert.False(t, r.DryRun)
		assert.Equal(t, 2, r.Stats.FilesRemoved)
		assert.Equal(t, 1, r.Stats.FilesMissing)
		assert.Equal(t, int64(1), r.Stats.FileInfosDeleted)
		assert.Equal(t, int64(1), r.Stats.PostsDeleted)

		assert.False(t, f.exists("old/a.png"))
		assert.False(t, f.exists("old/a_thumb.png"))
		assert.True(t, f.exists("new/b.png"))
		assert.Equal(t, 1, f.rows(t, "FileInfo"))
		assert.Equal(t, 1, f.rows(t, "Posts"))

		data, err := os.ReadFile(metricsFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `mattermost_prune_runs_total{status="success"} 1`)
	})

	t.Run("posts are kept by default", func(t *testing.T) {
		f := newFixture(t)

		r, err := execute(t, f.args())
		require.NoError(t, err)
		assert.True(t, r.Stats.PostsSkipped)
		assert.Equal(t, 2, f.rows(t, "Posts"))
		assert.Equal(t, 1, f.rows(t, "FileInfo"))
	})

	t.Run("dry run changes nothing", func(t *testing.T) {
		f := newFixture(t)

		r, err := execute(t, f.args("--dry-run", "--remove-posts", "--pagination", "keyset"))
		require.NoError(t, err)

		assert.True(t, r.DryRun)
		assert.Equal(t, 2, r.Stats.FilesRemoved)
		assert.Equal(t, 1, r.Stats.FilesMissing)
		assert.Equal(t, int64(1), r.Stats.FileInfosDeleted)
		assert.Equal(t, int64(1), r.Stats.PostsDeleted)

		assert.True(t, f.exists("old/a.png"))
		assert.True(t, f.exists("old/a_thumb.png"))
		assert.Equal(t, 2, f.rows(t, "FileInfo"))
		assert.Equal(t, 2, f.rows(t, "Posts"))
	})

	t.Run("invalid configuration fails before connecting", func(t *testing.T) {
		f := newFixture(t)
		openStore = func(ctx context.Context, cfg config.RetentionConfig) (*sqlstore.SQLStore, error) {
			t.Fatal("store must not be opened")
			return nil, nil
		}

		_, err := execute(t, f.args("-D", "0"))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrInvalidInput)
		assert.Contains(t, err.Error(), "retention-days")
	})

	t.Run("missing data directory fails before connecting", func(t *testing.T) {
		f := newFixture(t)
		openStore = func(ctx context.Context, cfg config.RetentionConfig) (*sqlstore.SQLStore, error) {
			t.Fatal("store must not be opened")
			return nil, nil
		}

		_, err := execute(t, f.args("--data-dir", filepath.Join(f.dataDir, "missing")))
		assert.Error(t, err)
	})
}

func TestHelp(t *testing.T) {
	for _, args := range [][]string{
		{"--help"},
		{"run", "--help"},
		{"schedule", "--help"},
	} {
		root := NewRootCmd()
		out := &bytes.Buffer{}
		root.SetOut(out)
		root.SetArgs(args)

		require.NotPanics(t, func() {
			require.NoError(t, root.Execute())
		}, "args: %v", args)
		assert.Contains(t, out.String(), "-h, --db-host")
		assert.Contains(t, out.String(), "--help")
	}

	assert.NotPanics(t, func() {
		assert.NoError(t, Run([]string{"--help"}))
	})
}

func TestRunEntryPoint(t *testing.T) {
	f := newFixture(t)

	var err error
	require.NotPanics(t, func() {
		err = Run(f.args("run", "--dry-run"))
	})
	require.NoError(t, err)
	assert.True(t, f.exists("old/a.png"))

	t.Setenv("RETENTION_DAYS", "")
	require.NotPanics(t, func() {
		err = Run([]string{"run", "--env-file", ""})
	})
	assert.ErrorIs(t, err, config.ErrInvalidInput)
}

func TestSchedule(t *testing.T) {
	f := newFixture(t)

	t.Run("requires a schedule", func(t *testing.T) {
		_, err := execute(t, f.args("schedule"))
		require.Error(t, err)
		assert.Equal(t, config.ErrInvalidInput, errors.Cause(err))
		assert.Contains(t, err.Error(), "field:cron")
	})

	t.Run("runs until cancelled", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
		defer cancel()

		root := NewRootCmd()
		root.SetArgs(f.args("schedule", "--cron", "@every 1s"))
		require.NoError(t, root.ExecuteContext(ctx))

		assert.False(t, f.exists("old/a.png"))
		assert.Equal(t, 1, f.rows(t, "FileInfo"))
	})
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("MATTERMOST_DATA_DIRECTORY", "/data")
	t.Setenv("PGDATABASE", "mattermost")
	t.Setenv("PGUSER", "mmuser")
	t.Setenv("PGPASSWORD", "secret")
	t.Setenv("PGHOST", "db")
	t.Setenv("PGPORT", "5433")
	t.Setenv("RETENTION_DAYS", "90")
	t.Setenv("FILE_BATCH_SIZE", "500")
	t.Setenv("REMOVE_POSTS", "true")

	root := NewRootCmd()
	v := viper.New()
	bindFlags(v, root.PersistentFlags())
	require.NoError(t, root.PersistentFlags().Parse([]string{"-D", "7"}))

	cfg := loadConfig(v)
	assert.Equal(t, "/data", cfg.DataDirectory)
	assert.Equal(t, config.DB{
		Name:     "mattermost",
		User:     "mmuser",
		Password: "secret",
		Host:     "db",
		Port:     "5433",
		SSLMode:  "disable",
	}, cfg.DB)
	assert.Equal(t, 7, cfg.RetentionDays, "flags win over the environment")
	assert.Equal(t, 500, cfg.FileBatchSize)
	assert.True(t, cfg.RemovePosts)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, config.PaginationOffset, cfg.Pagination)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.IsValid())
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("PGHOST", "from-env")
	t.Setenv("PGUSER", "")
	os.Unsetenv("PGUSER")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PGHOST=from-file\nPGUSER=mmuser\n"), 0o600))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("PGHOST"), "the environment wins")
	assert.Equal(t, "mmuser", os.Getenv("PGUSER"))

	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
	assert.NoError(t, loadDotEnv(""))
}
