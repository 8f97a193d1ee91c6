package main

import (
	"fmt"
	"strings"

	"github.com/kbukum/transcribe-mcp/config"
	"github.com/kbukum/transcribe-mcp/observability"
	"github.com/kbukum/transcribe-mcp/server"
	"github.com/kbukum/transcribe-mcp/toolserver"
	"github.com/kbukum/transcribe-mcp/transcription/assemblyai"
	"github.com/kbukum/transcribe-mcp/validation"
	"github.com/kbukum/transcribe-mcp/version"
)

const serviceName = "transcription-server"

// Mode is how the process runs, resolved once from MCP_MODE.
type Mode int

const (
	// ModeCLI dispatches transcribe and list from the command line.
	ModeCLI Mode = iota
	// ModeTool serves the tools over the configured transport.
	ModeTool
)

func (m Mode) String() string {
	if m == ModeTool {
		return "tool"
	}
	return "cli"
}

// Config is the server binary's configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	config.Credentials   `yaml:",inline" mapstructure:",squash"`

	// MCPMode is the raw MCP_MODE value; "true" in any case selects ModeTool.
	MCPMode        string `yaml:"mcp_mode" mapstructure:"mcp_mode"`
	Transport      string `yaml:"transport" mapstructure:"transport" validate:"required,oneof=stdio sse"`
	TranscriptsDir string `yaml:"transcripts_dir" mapstructure:"transcripts_dir" validate:"required"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	AssemblyAI    assemblyai.Config    `yaml:"assemblyai" mapstructure:"assemblyai"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// Mode resolves the startup mode.
func (c *Config) Mode() Mode {
	if strings.ToLower(c.MCPMode) == "true" {
		return ModeTool
	}
	return ModeCLI
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Transport == "" {
		c.Transport = toolserver.BindingSSE
	}
	if c.TranscriptsDir == "" {
		c.TranscriptsDir = "transcripts"
	}
	if c.AssemblyAI.APIKey == "" {
		c.AssemblyAI.APIKey = c.APIKey
	}
	c.Server.ApplyDefaults()
	c.AssemblyAI.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks everything but the credential, which is checked once the
// logger exists so its absence is logged like any other startup failure.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	stdoutFree := c.Transport != toolserver.BindingStdio || !strings.EqualFold(c.Logging.Output, "stdout")
	if appErr := validation.New().
		Custom(stdoutFree, "logging.output", "stdout is reserved for the stdio transport").
		Validate(); appErr != nil {
		return appErr
	}
	return validation.Validate(c)
}
