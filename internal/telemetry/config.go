package telemetry

import "codeberg.org/mutker/agentctl/internal/errors"

const (
	defaultCacheWindowSecs = 5
	defaultProcessLimit    = 10
	defaultLogLimit        = 5
)

type Config struct {
	// CacheWindow is the number of seconds a collected snapshot stays valid
	CacheWindow  int
	ProcessLimit int
	LogLimit     int
}

func DefaultConfig() Config {
	return Config{
		CacheWindow:  defaultCacheWindowSecs,
		ProcessLimit: defaultProcessLimit,
		LogLimit:     defaultLogLimit,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.CacheWindow < 0 {
		return errFactory.WithData(ErrInvalidCacheWindow, c.CacheWindow)
	}
	if c.ProcessLimit < 0 || c.LogLimit < 0 {
		return errFactory.New(ErrInvalidLimit)
	}
	return nil
}
