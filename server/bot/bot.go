package bot

import (
	"fmt"

	pluginapi "github.com/mattermost/mattermost-plugin-api"
	"github.com/mattermost/mattermost-server/v6/model"
)

//go:generate mockgen -destination=mocks/mock_bot.go -package=mock_bot github.com/ericzzh/mattermost-prune/server/bot Logger,Poster

// Logger is implemented by the plugin bot and by the command line zap logger.
type Logger interface {
	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Poster interface - a small subset of the plugin posting API.
type Poster interface {
	// EphemeralPost sends an ephemeral message to a user from the bot.
	EphemeralPost(userID, channelID string, post *model.Post)
}

// Bot stores the information for the plugin configuration, and implements the Poster and Logger
// interfaces.
type Bot struct {
	pluginAPI *pluginapi.Client
	botUserID string
}

// New creates a new bot poster/logger.
func New(api *pluginapi.Client, botUserID string) *Bot {
	return &Bot{
		pluginAPI: api,
		botUserID: botUserID,
	}
}

// EphemeralPost sends an ephemeral message to a user.
func (b *Bot) EphemeralPost(userID, channelID string, post *model.Post) {
	post.UserId = b.botUserID
	post.ChannelId = channelID

	b.pluginAPI.Post.SendEphemeralPost(userID, post)
}

// Tracef writes at debug level, the server log has no trace level for plugins.
func (b *Bot) Tracef(format string, args ...interface{}) {
	b.pluginAPI.Log.Debug(fmt.Sprintf(format, args...), "trace", true)
}

// Debugf logs a debug message to the server log.
func (b *Bot) Debugf(format string, args ...interface{}) {
	b.pluginAPI.Log.Debug(fmt.Sprintf(format, args...))
}

// Infof logs an info message to the server log.
func (b *Bot) Infof(format string, args ...interface{}) {
	b.pluginAPI.Log.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a warning to the server log.
func (b *Bot) Warnf(format string, args ...interface{}) {
	b.pluginAPI.Log.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs an error to the server log.
func (b *Bot) Errorf(format string, args ...interface{}) {
	b.pluginAPI.Log.Error(fmt.Sprintf(format, args...))
}
