package toolclient

import (
	"path"
	"time"

	"github.com/kbukum/transcribe-mcp/pathmap"
	"github.com/kbukum/transcribe-mcp/toolserver"
	"github.com/kbukum/transcribe-mcp/validation"
)

// Default bounds of the two suspension points.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultCallTimeout    = 60 * time.Second
)

// DefaultServerURL is the stream endpoint of a locally running server.
const DefaultServerURL = "http://localhost:8050" + toolserver.SSEPath

// Config selects the transport and the bounds of a client session.
type Config struct {
	// Transport is "stdio" (spawn the server) or "sse" (dial ServerURL).
	Transport string `yaml:"transport" mapstructure:"transport" validate:"required,oneof=stdio sse"`
	ServerURL string `yaml:"server_url" mapstructure:"server_url" validate:"omitempty,url"`
	// ServerCommand and ServerArgs start the server for the stdio transport.
	ServerCommand string   `yaml:"server_command" mapstructure:"server_command"`
	ServerArgs    []string `yaml:"server_args" mapstructure:"server_args"`
	// ServerEnv is added to the inherited environment of the spawned server.
	ServerEnv []string `yaml:"server_env" mapstructure:"server_env"`
	// TranslatePaths rewrites host drive paths to MountRoot before the call.
	TranslatePaths bool          `yaml:"translate_paths" mapstructure:"translate_paths"`
	MountRoot      string        `yaml:"mount_root" mapstructure:"mount_root"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`
	CallTimeout    time.Duration `yaml:"call_timeout" mapstructure:"call_timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Transport == "" {
		c.Transport = toolserver.BindingSSE
	}
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.ServerCommand == "" {
		c.ServerCommand = "transcription-server"
	}
	if len(c.ServerArgs) == 0 {
		c.ServerArgs = []string{"serve", "--transport", toolserver.BindingStdio}
	}
	if c.MountRoot == "" {
		c.MountRoot = pathmap.DefaultMountRoot
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
}

// Validate checks the struct tags and the settings each transport needs.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	v := validation.New()
	if c.Transport == toolserver.BindingStdio {
		v.Required("server_command", c.ServerCommand)
	}
	if c.TranslatePaths {
		v.Custom(path.IsAbs(c.MountRoot), "mount_root", "must be an absolute path")
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (c *Config) target() string {
	if c.Transport == toolserver.BindingStdio {
		return c.ServerCommand
	}
	return c.ServerURL
}
