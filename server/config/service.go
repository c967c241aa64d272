package config

import (
	"reflect"
	"sync"

	pluginapi "github.com/mattermost/mattermost-plugin-api"
	"github.com/pkg/errors"
)

// Configuration captures the plugin's external configuration as exposed in the Mattermost server
// configuration, as well as values computed from the configuration. Any public fields will be
// deserialized from the Mattermost server configuration in OnConfigurationChange.
//
// The data directory and the database connection are not part of it: the plugin takes
// both from the server it runs in.
type Configuration struct {
	RetentionDays int
	FileBatchSize int
	RemovePosts   bool
	DryRun        bool
	Pagination    string

	// BotUserID is filled in at activation, it is never read from the server.
	BotUserID string
}

// Clone shallow copies the configuration.
func (c *Configuration) Clone() *Configuration {
	var clone = *c
	return &clone
}

// IsValid checks the fields the server administrator is expected to fill in.
func (c *Configuration) IsValid() error {
	if c.RetentionDays <= 0 {
		return errors.Wrap(ErrInvalidInput, "RetentionDays must be positive")
	}
	if c.FileBatchSize <= 0 {
		return errors.Wrap(ErrInvalidInput, "FileBatchSize must be positive")
	}
	return ValidatePagination(c.Pagination)
}

//go:generate mockgen -destination=mocks/mock_config.go -package=mock_config github.com/ericzzh/mattermost-prune/server/config Service

type Service interface {
	GetConfiguration() *Configuration
	UpdateConfiguration(f func(*Configuration)) error
}

// ServiceImpl holds access to the plugin configuration.
type ServiceImpl struct {
	api *pluginapi.Client

	// configurationLock synchronizes access to the configuration.
	configurationLock sync.RWMutex

	// configuration is the active plugin configuration. Consult getConfiguration and
	// setConfiguration for usage.
	configuration *Configuration
}

// NewConfigService creates a new ServiceImpl struct.
func NewConfigService(api *pluginapi.Client) *ServiceImpl {
	c := &ServiceImpl{api: api}
	c.configuration = new(Configuration)

	return c
}

// GetConfiguration retrieves the active configuration under lock, making it safe to use
// concurrently. The active configuration may change underneath the client of this method, but
// the struct returned by this API call is considered immutable.
func (c *ServiceImpl) GetConfiguration() *Configuration {
	c.configurationLock.RLock()
	defer c.configurationLock.RUnlock()

	if c.configuration == nil {
		return &Configuration{}
	}

	return c.configuration
}

// UpdateConfiguration applies f to a copy of the active configuration and stores the copy.
func (c *ServiceImpl) UpdateConfiguration(f func(*Configuration)) error {
	c.configurationLock.Lock()
	defer c.configurationLock.Unlock()

	clone := c.configuration.Clone()
	f(clone)
	c.configuration = clone

	return nil
}

// setConfiguration replaces the active configuration under lock.
//
// Do not call setConfiguration while holding the configurationLock, as sync.Mutex is not
// reentrant.
func (c *ServiceImpl) setConfiguration(configuration *Configuration) {
	c.configurationLock.Lock()
	defer c.configurationLock.Unlock()

	if configuration != nil && c.configuration == configuration {
		// Ignore assignment if the configuration struct is empty. Go will optimize the
		// allocation for same to point at the same memory address, breaking the check
		// above.
		if reflect.ValueOf(*configuration).NumField() == 0 {
			return
		}

		panic("setConfiguration called with the existing configuration")
	}

	c.configuration = configuration
}

// OnConfigurationChange is invoked when configuration changes may have been made.
func (c *ServiceImpl) OnConfigurationChange() error {
	var configuration = new(Configuration)

	// Load the public configuration fields from the Mattermost server configuration.
	if err := c.api.Configuration.LoadPluginConfiguration(configuration); err != nil {
		return errors.Wrap(err, "failed to load plugin configuration")
	}

	// The bot user is created at activation and must survive a reload.
	configuration.BotUserID = c.GetConfiguration().BotUserID

	c.setConfiguration(configuration)

	return nil
}
