package config

import (
	"strings"

	"github.com/kbukum/transcribe-mcp/errors"
)

// MissingAPIKeyMessage is logged when the provider credential is absent.
const MissingAPIKeyMessage = "No API key provided. Set it using API_KEY environment variable"

// Credentials holds the speech-to-text provider credential, read once at
// startup from API_KEY.
type Credentials struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key" json:"api_key"`
}

// Validate reports a missing or blank API key.
func (c *Credentials) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		err := errors.MissingField("api_key")
		err.Message = MissingAPIKeyMessage
		return err
	}
	return nil
}
