package agent

import (
	"time"

	"codeberg.org/mutker/agentctl/internal/errors"
	"codeberg.org/mutker/agentctl/internal/features"
)

const defaultInterval = 60 * time.Second

type Config struct {
	Interval time.Duration
	Policy   features.ThresholdPolicy
}

func DefaultConfig() Config {
	return Config{
		Interval: defaultInterval,
		Policy:   features.DefaultPolicy(),
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.Interval <= 0 {
		return errFactory.WithData(ErrInvalidInterval, c.Interval)
	}
	return nil
}
