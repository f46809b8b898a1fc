package history

import (
	"context"

	"codeberg.org/mutker/agentctl/internal/errors"
	"codeberg.org/mutker/agentctl/internal/features"
	"codeberg.org/mutker/agentctl/internal/telemetry"
)

type service struct {
	repo Repository
	cfg  Config
}

// NewService builds a Recorder. When history is disabled it returns one
// that accepts and discards everything, so callers never branch.
func NewService(cfg Config) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		return noopRecorder{}, nil
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, snapshot *telemetry.Snapshot, feats features.FeatureSet) error {
	errFactory := errors.New()

	if snapshot == nil {
		return errFactory.New(ErrInvalidRecord)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationAbort, ctx.Err())
	default:
		return s.repo.Store(ctx, snapshot, feats)
	}
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrServiceClosed, err)
	}
	return nil
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, *telemetry.Snapshot, features.FeatureSet) error {
	return nil
}

func (noopRecorder) Close() error { return nil }
