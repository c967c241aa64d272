package config

import (
	"net"
	"net/url"

	"github.com/pkg/errors"
)

var ErrInvalidInput = errors.New("invalid input parameters")

const (
	PaginationOffset = "offset"
	PaginationKeyset = "keyset"
)

// DB holds the parameters of the postgres connection.
type DB struct {
	Name     string
	User     string
	Password string
	Host     string
	Port     string
	SSLMode  string
}

// RetentionConfig is the validated configuration of one command line run.
// It is built once at startup and never modified afterwards.
type RetentionConfig struct {
	DataDirectory string
	DB            DB
	RetentionDays int
	FileBatchSize int
	RemovePosts   bool
	DryRun        bool
	Pagination    string

	LogLevel    string
	LogFormat   string
	MetricsFile string
}

// IsValid rejects a configuration before any I/O happens.
// The returned error wraps ErrInvalidInput and names the first bad field.
func (c *RetentionConfig) IsValid() error {
	for _, f := range []struct {
		name  string
		value string
	}{
		{"data-dir", c.DataDirectory},
		{"db-name", c.DB.Name},
		{"db-user", c.DB.User},
		{"db-host", c.DB.Host},
		{"db-port", c.DB.Port},
	} {
		if f.value == "" {
			return errors.Wrapf(ErrInvalidInput, "field:%s", f.name)
		}
	}

	if c.RetentionDays <= 0 {
		return errors.Wrap(ErrInvalidInput, "field:retention-days")
	}

	if c.FileBatchSize <= 0 {
		return errors.Wrap(ErrInvalidInput, "field:file-batch-size")
	}

	return ValidatePagination(c.Pagination)
}

// ValidatePagination accepts the empty string as the offset default.
func ValidatePagination(mode string) error {
	switch mode {
	case "", PaginationOffset, PaginationKeyset:
		return nil
	}
	return errors.Wrapf(ErrInvalidInput, "field:pagination value:%s", mode)
}

func (c *RetentionConfig) dataSourceURL() *url.URL {
	sslMode := c.DB.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     net.JoinHostPort(c.DB.Host, c.DB.Port),
		Path:     "/" + c.DB.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
}

// DataSourceName assembles the postgres connection string.
func (c *RetentionConfig) DataSourceName() string {
	return c.dataSourceURL().String()
}

// RedactedDataSourceName is DataSourceName with the password masked, safe to log.
func (c *RetentionConfig) RedactedDataSourceName() string {
	return c.dataSourceURL().Redacted()
}
