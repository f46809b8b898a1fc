package ollama

import "codeberg.org/mutker/agentctl/internal/errors"

const (
	defaultAPIBase = "http://localhost:11434"
	defaultModel   = "llama2"
)

type Config struct {
	Model   string
	APIBase string
}

func DefaultConfig() Config {
	return Config{
		Model:   defaultModel,
		APIBase: defaultAPIBase,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.Model == "" {
		return errFactory.WithMessage(ErrInvalidConfig, "model name is required")
	}
	if c.APIBase == "" {
		return errFactory.WithMessage(ErrInvalidConfig, "API base URL is required")
	}
	return nil
}
