package agent

import (
	"context"
	"time"

	"codeberg.org/mutker/agentctl/internal/directive"
	"codeberg.org/mutker/agentctl/internal/errors"
	"codeberg.org/mutker/agentctl/internal/features"
	"codeberg.org/mutker/agentctl/internal/logger"
)

// RunBackground polls the system on the configured interval and lets the
// model suggest actions only when the extracted features call for them.
// Iteration failures are logged and the loop carries on; only context
// cancellation ends it.
func (a *Agent) RunBackground(ctx context.Context) error {
	logger.Info().
		Dur("interval", a.cfg.Interval).
		Msg("Starting background service")

	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	// First pass runs right away; the ticker paces the ones after it
	a.backgroundIteration(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Background service stopped")
			return nil
		case <-ticker.C:
			a.backgroundIteration(ctx)
		}
	}
}

func (a *Agent) backgroundIteration(ctx context.Context) {
	snapshot := a.collector.Collect(ctx)
	feats := features.Extract(snapshot, a.cfg.Policy)

	if err := a.recorder.Record(ctx, snapshot, feats); err != nil {
		logger.Warn().Err(err).Msg("Failed to record snapshot history")
	}

	if !features.ShouldAct(feats) {
		logger.Debug().Msg("System within thresholds, no action needed")
		return
	}

	prompt := features.BuildPrompt("", feats)

	response, err := a.model.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorWithCode(errors.New().Wrap(ErrModelFailure, err)).Msg("Model request failed, skipping iteration")
		return
	}

	directives := directive.Parse(response)
	if len(directives) == 0 {
		logger.Debug().Msg("Model suggested no actions")
		return
	}

	logger.Info().Int("count", len(directives)).Msg("Taking automatic actions")
	results := a.dispatch.Execute(directives)

	for i, dir := range directives {
		logger.Info().
			Str("action", dir.Name).
			Str("result", string(results[i])).
			Msg("Automatic action executed")
	}
}
