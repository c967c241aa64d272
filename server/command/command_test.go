package command_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ericzzh/mattermost-prune/server/app"
	mock_prune "github.com/ericzzh/mattermost-prune/server/app/mocks"
	mock_bot "github.com/ericzzh/mattermost-prune/server/bot/mocks"
	"github.com/ericzzh/mattermost-prune/server/command"
	"github.com/ericzzh/mattermost-prune/server/config"
	mock_config "github.com/ericzzh/mattermost-prune/server/config/mocks"
	gomock "github.com/golang/mock/gomock"
	pluginapi "github.com/mattermost/mattermost-plugin-api"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/mattermost/mattermost-server/v6/plugin"
	"github.com/mattermost/mattermost-server/v6/plugin/plugintest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	api     *plugintest.API
	poster  *mock_bot.MockPoster
	config  *mock_config.MockService
	service *mock_prune.MockPruneService
	logger  *mock_bot.MockLogger
	posts   []string
	logged  []string
}

func setup(t *testing.T, roles string) *testEnv {
	ctrl := gomock.NewController(t)

	env := &testEnv{
		api:     &plugintest.API{},
		poster:  mock_bot.NewMockPoster(ctrl),
		config:  mock_config.NewMockService(ctrl),
		service: mock_prune.NewMockPruneService(ctrl),
		logger:  mock_bot.NewMockLogger(ctrl),
	}
	t.Cleanup(func() { env.api.AssertExpectations(t) })

	env.api.On("GetUser", "user1").Return(&model.User{Id: "user1", Roles: roles}, nil).Maybe()
	env.poster.EXPECT().EphemeralPost("user1", "channel1", gomock.Any()).
		Do(func(userID, channelID string, post *model.Post) {
			env.posts = append(env.posts, post.Message)
		}).AnyTimes()
	env.logger.EXPECT().Errorf(gomock.Any(), gomock.Any()).
		Do(func(format string, args ...interface{}) {
			env.logged = append(env.logged, fmt.Sprintf(format, args...))
		}).AnyTimes()

	return env
}

func (env *testEnv) execute(t *testing.T, cmd string) {
	runner := command.NewCommandRunner(
		&plugin.Context{},
		&model.CommandArgs{Command: cmd, UserId: "user1", ChannelId: "channel1"},
		pluginapi.NewClient(env.api, &plugintest.Driver{}),
		env.logger,
		env.poster,
		env.config,
		env.service,
	)
	require.NoError(t, runner.Execute())
}

func validConfig() *config.Configuration {
	return &config.Configuration{
		RetentionDays: 30,
		FileBatchSize: 100,
		RemovePosts:   true,
		Pagination:    config.PaginationOffset,
	}
}

func TestRegisterCommands(t *testing.T) {
	var registered *model.Command
	err := command.RegisterCommands(func(c *model.Command) error {
		registered = c
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "prune", registered.Trigger)
	require.NotNil(t, registered.AutocompleteData)
	assert.Len(t, registered.AutocompleteData.SubCommands, 1)
}

func TestExecute(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		env := setup(t, model.SystemUserRoleId)
		env.execute(t, "/prune")
		env.execute(t, "/prune bogus")

		require.Len(t, env.posts, 2)
		assert.Contains(t, env.posts[0], "/prune run")
		assert.Equal(t, env.posts[0], env.posts[1])
	})

	t.Run("other trigger", func(t *testing.T) {
		env := setup(t, model.SystemUserRoleId)
		env.execute(t, "/other run")
		assert.Empty(t, env.posts)
	})

	t.Run("not admin", func(t *testing.T) {
		env := setup(t, model.SystemUserRoleId)
		env.execute(t, "/prune run")

		require.Len(t, env.posts, 1)
		assert.Contains(t, env.posts[0], "don't have permission")
	})

	t.Run("run", func(t *testing.T) {
		env := setup(t, model.SystemUserRoleId+" "+model.SystemAdminRoleId)
		env.config.EXPECT().GetConfiguration().Return(validConfig())
		env.service.EXPECT().Start(gomock.Any(), app.Options{
			RetentionDays: 30,
			BatchSize:     100,
			RemovePosts:   true,
			Pagination:    config.PaginationOffset,
		}).Return(&app.Result{RunId: "run1", Stats: app.Stats{FilesRemoved: 3}}, nil)

		env.execute(t, "/prune run")

		require.Len(t, env.posts, 1)
		assert.True(t, strings.HasPrefix(env.posts[0], "Pruned successfully."))
		assert.Contains(t, env.posts[0], `"run_id": "run1"`)
		assert.Contains(t, env.posts[0], `"files_removed": 3`)
	})

	t.Run("dry run", func(t *testing.T) {
		env := setup(t, model.SystemAdminRoleId)
		env.config.EXPECT().GetConfiguration().Return(validConfig())
		env.service.EXPECT().Start(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, opt app.Options) (*app.Result, error) {
				assert.True(t, opt.DryRun)
				return &app.Result{DryRun: true}, nil
			})

		env.execute(t, "/prune run dry-run")

		require.Len(t, env.posts, 1)
		assert.Contains(t, env.posts[0], `"dry_run": true`)
	})

	t.Run("unknown argument", func(t *testing.T) {
		env := setup(t, model.SystemAdminRoleId)
		env.config.EXPECT().GetConfiguration().Return(validConfig())

		env.execute(t, "/prune run now")

		require.Len(t, env.posts, 1)
		assert.Contains(t, env.posts[0], `unknown argument "now"`)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		env := setup(t, model.SystemAdminRoleId)
		c := validConfig()
		c.RetentionDays = 0
		env.config.EXPECT().GetConfiguration().Return(c)

		env.execute(t, "/prune run")

		require.Len(t, env.posts, 1)
		assert.Contains(t, env.posts[0], "Invalid prune settings")
		assert.Contains(t, env.posts[0], "RetentionDays")
	})

	t.Run("failure reports partial result", func(t *testing.T) {
		env := setup(t, model.SystemAdminRoleId)
		env.config.EXPECT().GetConfiguration().Return(validConfig())
		env.service.EXPECT().Start(gomock.Any(), gomock.Any()).
			Return(&app.Result{Stats: app.Stats{FilesRemoved: 2}}, errors.New("permission denied"))

		env.execute(t, "/prune run")

		require.Len(t, env.posts, 1)
		assert.Contains(t, env.posts[0], "Prune failed. permission denied")
		assert.Contains(t, env.posts[0], `"files_removed": 2`)
		assert.Equal(t, []string{"Prune failed. permission denied"}, env.logged)
	})

	t.Run("failure message is logged verbatim", func(t *testing.T) {
		env := setup(t, model.SystemAdminRoleId)
		env.config.EXPECT().GetConfiguration().Return(validConfig())
		env.service.EXPECT().Start(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("failed to delete file 20240101/100%.png: permission denied"))

		env.execute(t, "/prune run")

		require.Len(t, env.logged, 1)
		assert.Equal(t, "Prune failed. failed to delete file 20240101/100%.png: permission denied", env.logged[0])
		require.Len(t, env.posts, 1)
		assert.Contains(t, env.posts[0], "100%.png")
	})

	t.Run("unknown user", func(t *testing.T) {
		env := setup(t, "")
		env.api.ExpectedCalls = nil
		env.api.On("GetUser", "user1").Return(nil, model.NewAppError("GetUser", "app.user.missing", nil, "", 404))

		env.execute(t, "/prune run")

		require.Len(t, env.posts, 1)
		assert.Contains(t, env.posts[0], "Can't find user.")
	})
}

func TestExecuteInvalidRunner(t *testing.T) {
	runner := command.NewCommandRunner(nil, nil, nil, nil, nil, nil, nil)
	assert.Error(t, runner.Execute())
}
