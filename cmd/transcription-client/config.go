package main

import (
	"github.com/kbukum/transcribe-mcp/config"
	"github.com/kbukum/transcribe-mcp/toolclient"
	"github.com/kbukum/transcribe-mcp/version"
)

const serviceName = "transcription-client"

// Config is the client binary's configuration. Client settings are read
// flat from the environment: TRANSPORT, SERVER_URL, TRANSLATE_PATHS, ...
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	toolclient.Config    `yaml:",inline" mapstructure:",squash"`
}

// ApplyDefaults fills unset fields. The console log defaults to warn so it
// does not interleave with the client's own output.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Config.ApplyDefaults()
}

// Validate checks the service and client sections.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return c.Config.Validate()
}
