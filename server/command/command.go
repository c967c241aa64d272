package command

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/mattermost/mattermost-server/v6/plugin"

	"github.com/ericzzh/mattermost-prune/server/app"
	"github.com/ericzzh/mattermost-prune/server/bot"
	"github.com/ericzzh/mattermost-prune/server/config"
	pluginapi "github.com/mattermost/mattermost-plugin-api"
	"github.com/pkg/errors"
)

const helpText = "######  Prune Plugin - Slash Command Help\n" +
	"* `/prune run` - Remove files, FileInfo rows and, if enabled, posts older than the retention period.\n" +
	"* `/prune run dry-run` - Report what a run would remove without changing anything.\n" +
	""

// Register is a function that allows the runner to register commands with the mattermost server.
type Register func(*model.Command) error

// RegisterCommands should be called by the plugin to register all necessary commands
func RegisterCommands(registerFunc Register) error {
	return registerFunc(getCommand())
}

func getCommand() *model.Command {
	return &model.Command{
		Trigger:          "prune",
		DisplayName:      "Prune",
		Description:      "Prune files and posts older than the retention period",
		AutoComplete:     true,
		AutoCompleteDesc: "Available commands: run",
		AutoCompleteHint: "[command]",
		AutocompleteData: getAutocompleteData(),
	}
}

func getAutocompleteData() *model.AutocompleteData {
	command := model.NewAutocompleteData("prune", "[command]",
		"Available commands: run")

	run := model.NewAutocompleteData("run", "[dry-run]", "Starts a prune run")
	run.AddStaticListArgument("", false, []model.AutocompleteListItem{
		{Item: "dry-run", HelpText: "Only report what would be removed"},
	})
	command.AddCommand(run)

	return command
}

// Runner handles commands.
type Runner struct {
	context      *plugin.Context
	args         *model.CommandArgs
	pluginAPI    *pluginapi.Client
	logger       bot.Logger
	poster       bot.Poster
	config       config.Service
	pruneService app.PruneService
}

// NewCommandRunner creates a command runner.
func NewCommandRunner(ctx *plugin.Context,
	args *model.CommandArgs,
	api *pluginapi.Client,
	logger bot.Logger,
	poster bot.Poster,
	configService config.Service,
	ps app.PruneService,
) *Runner {
	return &Runner{
		context:      ctx,
		args:         args,
		pluginAPI:    api,
		logger:       logger,
		poster:       poster,
		config:       configService,
		pruneService: ps,
	}
}

func (r *Runner) isValid() error {
	if r.context == nil || r.args == nil || r.pluginAPI == nil {
		return errors.New("invalid arguments to command.Runner")
	}
	return nil
}

// Execute should be called by the plugin when a command invocation is received from the Mattermost server.
func (r *Runner) Execute() error {
	if err := r.isValid(); err != nil {
		return err
	}

	split := strings.Fields(r.args.Command)
	if len(split) == 0 || split[0] != "/prune" {
		return nil
	}

	cmd := ""
	parameters := []string{}
	if len(split) > 1 {
		cmd = split[1]
	}
	if len(split) > 2 {
		parameters = split[2:]
	}

	switch cmd {
	case "run":
		r.actionRun(parameters)
	default:
		r.postCommandResponse(helpText)
	}

	return nil
}

func (r *Runner) postCommandResponse(text string) {
	post := &model.Post{
		Message: text,
	}
	r.poster.EphemeralPost(r.args.UserId, r.args.ChannelId, post)
}

func (r *Runner) options(args []string) (app.Options, error) {
	c := r.config.GetConfiguration()
	if err := c.IsValid(); err != nil {
		return app.Options{}, err
	}

	opt := app.Options{
		RetentionDays: c.RetentionDays,
		BatchSize:     c.FileBatchSize,
		RemovePosts:   c.RemovePosts,
		DryRun:        c.DryRun,
		Pagination:    c.Pagination,
	}

	for _, a := range args {
		switch a {
		case "dry-run":
			opt.DryRun = true
		default:
			return app.Options{}, errors.Errorf("unknown argument %q", a)
		}
	}

	return opt, nil
}

func (r *Runner) actionRun(args []string) {
	usr, err := r.pluginAPI.User.Get(r.args.UserId)
	if err != nil {
		r.postCommandResponse(fmt.Sprintf("Can't find user. Error: %v", err))
		return
	}

	if !usr.IsInRole(model.SystemAdminRoleId) {
		r.postCommandResponse("You don't have permission to run this command.")
		return
	}

	opt, err := r.options(args)
	if err != nil {
		r.postCommandResponse(fmt.Sprintf("Invalid prune settings. %v\n\n%s", err, helpText))
		return
	}

	rs, err := r.pruneService.Start(context.Background(), opt)
	if err != nil {
		txt := fmt.Sprintf("Prune failed. %v", err)
		r.logger.Errorf("%s", txt)
		if rs != nil {
			if partial, mErr := json.MarshalIndent(rs, "", "\t"); mErr == nil {
				txt += fmt.Sprintf("\nCompleted before the failure: \n ```%s```", partial)
			}
		}
		r.postCommandResponse(txt)
		return
	}

	res, err := json.MarshalIndent(rs, "", "\t")
	if err != nil {
		txt := fmt.Sprintf("Marshaling statistics to json has errors. %v", err)
		r.logger.Errorf("%s", txt)
		r.postCommandResponse(txt)
		return
	}

	r.postCommandResponse(fmt.Sprintf("Pruned successfully. \n ```%s```", res))
}
