package agent

import (
	"context"
	"fmt"
	"io"
	"os"

	"codeberg.org/mutker/agentctl/internal/actions"
	"codeberg.org/mutker/agentctl/internal/directive"
	"codeberg.org/mutker/agentctl/internal/errors"
	"codeberg.org/mutker/agentctl/internal/features"
	"codeberg.org/mutker/agentctl/internal/history"
	"codeberg.org/mutker/agentctl/internal/logger"
	"codeberg.org/mutker/agentctl/internal/telemetry"
)

// modelClient is the slice of the Ollama client the agent needs.
type modelClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// dispatcher executes a parsed batch of directives.
type dispatcher interface {
	Execute(directives []directive.Directive) []actions.Result
}

// Agent wires the collect, extract, prompt, generate, parse and dispatch
// pipeline together. One iteration at a time; no internal concurrency.
type Agent struct {
	cfg       Config
	collector telemetry.Collector
	model     modelClient
	dispatch  dispatcher
	recorder  history.Recorder

	in  io.Reader
	out io.Writer
}

func New(cfg Config, collector telemetry.Collector, model modelClient, disp dispatcher, recorder history.Recorder) (*Agent, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	return &Agent{
		cfg:       cfg,
		collector: collector,
		model:     model,
		dispatch:  disp,
		recorder:  recorder,
		in:        os.Stdin,
		out:       os.Stdout,
	}, nil
}

// Outcome is the result of one full pipeline pass.
type Outcome struct {
	Response   string
	Directives []directive.Directive
	Results    []actions.Result
}

// ProcessInput runs one pipeline pass for a user request. Model failures do
// not propagate as errors: the failure text becomes the response, with no
// directives, so both modes stay alive.
func (a *Agent) ProcessInput(ctx context.Context, userText string) Outcome {
	snapshot := a.collector.Collect(ctx)
	feats := features.Extract(snapshot, a.cfg.Policy)

	if err := a.recorder.Record(ctx, snapshot, feats); err != nil {
		logger.Warn().Err(err).Msg("Failed to record snapshot history")
	}

	prompt := features.BuildPrompt(userText, feats)

	response, err := a.model.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorWithCode(errors.New().Wrap(ErrModelFailure, err)).Msg("Model request failed")
		return Outcome{Response: fmt.Sprintf("Error: %v", err)}
	}

	directives := directive.Parse(response)
	results := a.dispatch.Execute(directives)

	return Outcome{
		Response:   response,
		Directives: directives,
		Results:    results,
	}
}
