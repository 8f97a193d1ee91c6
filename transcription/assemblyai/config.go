package assemblyai

import (
	"time"

	"github.com/kbukum/transcribe-mcp/errors"
)

const (
	// ProviderName is the registered name of the AssemblyAI provider.
	ProviderName = "assemblyai"

	// SpeechModel is the model tier every job is submitted with.
	SpeechModel = "best"

	defaultBaseURL      = "https://api.assemblyai.com"
	defaultPollInterval = 3 * time.Second
	defaultTimeout      = 60 * time.Second
)

// Config configures the AssemblyAI provider.
type Config struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// BaseURL is the API root. Defaults to https://api.assemblyai.com.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`
	// PollInterval is the delay between job status checks. Defaults to 3s.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
	// Timeout bounds each HTTP call (upload, submit, poll). Defaults to 60s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.MissingField("api_key")
	}
	return nil
}
