package main

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/mattermost/mattermost-server/v6/plugin"
	"github.com/pkg/errors"

	"github.com/ericzzh/mattermost-prune/server/app"
	"github.com/ericzzh/mattermost-prune/server/bot"
	"github.com/ericzzh/mattermost-prune/server/command"
	"github.com/ericzzh/mattermost-prune/server/config"
	"github.com/ericzzh/mattermost-prune/server/sqlstore"
	pluginapi "github.com/mattermost/mattermost-plugin-api"
)

// Plugin implements the interface expected by the Mattermost server to communicate between the server and plugin processes.
type Plugin struct {
	plugin.MattermostPlugin
	config       *config.ServiceImpl
	pluginAPI    *pluginapi.Client
	bot          *bot.Bot
	pruneService app.PruneService
}

// See https://developers.mattermost.com/extend/plugins/server/reference/
func (p *Plugin) OnActivate() error {
	pluginAPIClient := pluginapi.NewClient(p.API, p.Driver)
	p.pluginAPI = pluginAPIClient

	p.config = config.NewConfigService(pluginAPIClient)
	if err := p.config.OnConfigurationChange(); err != nil {
		return err
	}

	botID, err := pluginAPIClient.Bot.EnsureBot(&model.Bot{
		Username:    "prune",
		DisplayName: "Prune Plugin Bot",
		Description: "A bot account created by the prune plugin.",
	})
	if err != nil {
		return errors.Wrap(err, "failed to ensure prune bot")
	}

	err = p.config.UpdateConfiguration(func(c *config.Configuration) {
		c.BotUserID = botID
	})
	if err != nil {
		return errors.Wrapf(err, "failed save bot to config")
	}

	p.bot = bot.New(pluginAPIClient, botID)

	db, err := pluginAPIClient.Store.GetMasterDB()
	if err != nil {
		return errors.Wrap(err, "failed to get the master database")
	}
	sqlStore := sqlstore.New(sqlx.NewDb(db, pluginAPIClient.Store.DriverName()))

	files, err := fileBackend(pluginAPIClient.Configuration.GetConfig().FileSettings)
	if err != nil {
		return err
	}

	if err = command.RegisterCommands(p.API.RegisterCommand); err != nil {
		return errors.Wrapf(err, "failed register commands")
	}

	pruneStore := sqlstore.NewPruneStore(p.bot, sqlStore)
	p.pruneService = app.NewPruneService(pruneStore, files, p.bot)

	return nil
}

// OnDeactivate releases the database handed out by the server.
func (p *Plugin) OnDeactivate() error {
	if p.pluginAPI == nil {
		return nil
	}
	return p.pluginAPI.Store.Close()
}

// fileBackend only accepts the local driver: the sweep checks paths against the data directory.
func fileBackend(settings model.FileSettings) (app.FileBackend, error) {
	driver := model.ImageDriverLocal
	if settings.DriverName != nil && *settings.DriverName != "" {
		driver = *settings.DriverName
	}
	if driver != model.ImageDriverLocal {
		return nil, errors.Errorf("unsupported file driver %q, only %q is supported", driver, model.ImageDriverLocal)
	}

	dir := ""
	if settings.Directory != nil {
		dir = *settings.Directory
	}
	if dir == "" {
		return nil, errors.New("the server has no data directory configured")
	}

	return app.NewLocalFileBackend(dir)
}

func (p *Plugin) ExecuteCommand(c *plugin.Context, args *model.CommandArgs) (*model.CommandResponse, *model.AppError) {
	runner := command.NewCommandRunner(c, args, p.pluginAPI, p.bot, p.bot, p.config, p.pruneService)

	if err := runner.Execute(); err != nil {
		return nil, model.NewAppError("Prune.ExecuteCommand", "app.command.execute.error", nil, err.Error(), http.StatusInternalServerError)
	}

	return &model.CommandResponse{}, nil
}

// OnConfigurationChange handles any change in the configuration.
func (p *Plugin) OnConfigurationChange() error {
	if p.config == nil {
		return nil
	}

	return p.config.OnConfigurationChange()
}
