package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/agentctl/internal/actions"
	"codeberg.org/mutker/agentctl/internal/directive"
	"codeberg.org/mutker/agentctl/internal/history"
	"codeberg.org/mutker/agentctl/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCollector struct {
	snapshot *telemetry.Snapshot
}

func (f *fakeCollector) Collect(context.Context) *telemetry.Snapshot {
	return f.snapshot
}

type fakeModel struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

type fakeDispatcher struct {
	mu      sync.Mutex
	batches [][]directive.Directive
}

func (f *fakeDispatcher) Execute(directives []directive.Directive) []actions.Result {
	f.mu.Lock()
	f.batches = append(f.batches, directives)
	f.mu.Unlock()

	results := make([]actions.Result, len(directives))
	for i := range directives {
		results[i] = actions.Result(fmt.Sprintf("ok %d", i))
	}
	return results
}

func (f *fakeDispatcher) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func noopRecorder(t *testing.T) history.Recorder {
	t.Helper()
	rec, err := history.NewService(history.Config{Enabled: false})
	require.NoError(t, err)
	return rec
}

func calmSnapshot() *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Timestamp:     time.Now(),
		CPUPercent:    10,
		MemoryPercent: 20,
	}
}

func hotSnapshot() *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Timestamp:  time.Now(),
		CPUPercent: 95,
	}
}

func newTestAgent(t *testing.T, collector telemetry.Collector, model modelClient, disp dispatcher) *Agent {
	t.Helper()
	a, err := New(DefaultConfig(), collector, model, disp, noopRecorder(t))
	require.NoError(t, err)
	return a
}

func TestProcessInput(t *testing.T) {
	model := &fakeModel{response: "Closing it.\nACTION: close_application with name=chrome"}
	disp := &fakeDispatcher{}
	a := newTestAgent(t, &fakeCollector{snapshot: calmSnapshot()}, model, disp)

	outcome := a.ProcessInput(context.Background(), "close chrome")

	assert.Equal(t, model.response, outcome.Response)
	require.Len(t, outcome.Directives, 1)
	assert.Equal(t, "close_application", outcome.Directives[0].Name)
	require.Len(t, outcome.Results, 1)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "close chrome")
}

func TestProcessInputModelError(t *testing.T) {
	model := &fakeModel{err: fmt.Errorf("connection refused")}
	disp := &fakeDispatcher{}
	a := newTestAgent(t, &fakeCollector{snapshot: calmSnapshot()}, model, disp)

	outcome := a.ProcessInput(context.Background(), "hello")

	assert.True(t, strings.HasPrefix(outcome.Response, "Error:"))
	assert.Empty(t, outcome.Directives)
	assert.Empty(t, outcome.Results)
	assert.Empty(t, disp.batches, "No dispatch on model failure")
}

func TestProcessInputNoDirectives(t *testing.T) {
	model := &fakeModel{response: "Everything looks fine."}
	disp := &fakeDispatcher{}
	a := newTestAgent(t, &fakeCollector{snapshot: calmSnapshot()}, model, disp)

	outcome := a.ProcessInput(context.Background(), "status?")

	assert.Equal(t, "Everything looks fine.", outcome.Response)
	assert.Empty(t, outcome.Directives)
	assert.Empty(t, outcome.Results)
}

func TestInteractiveExitKeywords(t *testing.T) {
	for _, keyword := range []string{"exit", "quit", "EXIT", "Quit"} {
		model := &fakeModel{response: "unused"}
		a := newTestAgent(t, &fakeCollector{snapshot: calmSnapshot()}, model, &fakeDispatcher{})

		var out bytes.Buffer
		a.in = strings.NewReader(keyword + "\n")
		a.out = &out

		require.NoError(t, a.RunInteractive(context.Background()))
		assert.Contains(t, out.String(), "Exiting...")
		assert.Zero(t, model.calls, "Exit keyword must not reach the model")
	}
}

func TestInteractiveEOF(t *testing.T) {
	a := newTestAgent(t, &fakeCollector{snapshot: calmSnapshot()}, &fakeModel{}, &fakeDispatcher{})

	var out bytes.Buffer
	a.in = strings.NewReader("")
	a.out = &out

	assert.NoError(t, a.RunInteractive(context.Background()))
}

func TestInteractiveStopsOnCancelWhileBlocked(t *testing.T) {
	a := newTestAgent(t, &fakeCollector{snapshot: calmSnapshot()}, &fakeModel{}, &fakeDispatcher{})

	// A pipe with no writer activity keeps the reader blocked the way an
	// idle terminal does
	pr, pw := io.Pipe()
	defer pw.Close()
	a.in = pr

	var out bytes.Buffer
	a.out = &out

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunInteractive(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("interactive loop did not stop on cancellation")
	}
	assert.Contains(t, out.String(), "Exiting...")
}

func TestInteractiveProcessesRequest(t *testing.T) {
	model := &fakeModel{response: "Done.\nACTION: show_notification with title=Hi, message=There"}
	disp := &fakeDispatcher{}
	a := newTestAgent(t, &fakeCollector{snapshot: calmSnapshot()}, model, disp)

	var out bytes.Buffer
	a.in = strings.NewReader("notify me\nexit\n")
	a.out = &out

	require.NoError(t, a.RunInteractive(context.Background()))

	assert.Equal(t, 1, model.calls)
	require.Len(t, disp.batches, 1)
	assert.Contains(t, out.String(), "Response: Done.")
	assert.Contains(t, out.String(), "Actions taken:")
	assert.Contains(t, out.String(), "Result: ok 0")
}

func TestInteractiveSkipsBlankLines(t *testing.T) {
	model := &fakeModel{response: "ok"}
	a := newTestAgent(t, &fakeCollector{snapshot: calmSnapshot()}, model, &fakeDispatcher{})

	var out bytes.Buffer
	a.in = strings.NewReader("\n   \nexit\n")
	a.out = &out

	require.NoError(t, a.RunInteractive(context.Background()))
	assert.Zero(t, model.calls)
}

func TestBackgroundActsOnThresholdBreach(t *testing.T) {
	model := &fakeModel{response: "ACTION: show_notification with title=CPU, message=High load"}
	disp := &fakeDispatcher{}

	cfg := DefaultConfig()
	cfg.Interval = 5 * time.Millisecond
	a, err := New(cfg, &fakeCollector{snapshot: hotSnapshot()}, model, disp, noopRecorder(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunBackground(ctx) }()

	require.Eventually(t, func() bool { return disp.batchCount() > 0 },
		2*time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, "show_notification", disp.batches[0][0].Name)
}

func TestBackgroundFirstCheckIsImmediate(t *testing.T) {
	model := &fakeModel{response: "ACTION: show_notification with title=CPU, message=High load"}
	disp := &fakeDispatcher{}

	// An interval this long means only the up-front pass can dispatch
	cfg := DefaultConfig()
	cfg.Interval = time.Hour
	a, err := New(cfg, &fakeCollector{snapshot: hotSnapshot()}, model, disp, noopRecorder(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunBackground(ctx) }()

	require.Eventually(t, func() bool { return disp.batchCount() > 0 },
		2*time.Second, time.Millisecond,
		"First collection must not wait out a full interval")

	cancel()
	require.NoError(t, <-done)
}

func TestBackgroundSkipsHealthySystem(t *testing.T) {
	model := &fakeModel{response: "unused"}
	disp := &fakeDispatcher{}

	cfg := DefaultConfig()
	cfg.Interval = 5 * time.Millisecond
	a, err := New(cfg, &fakeCollector{snapshot: calmSnapshot()}, model, disp, noopRecorder(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunBackground(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Zero(t, model.calls, "Healthy snapshots never reach the model")
	assert.Empty(t, disp.batches)
}

func TestNewRejectsInvalidInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interval = 0

	_, err := New(cfg, &fakeCollector{}, &fakeModel{}, &fakeDispatcher{}, noopRecorder(t))
	assert.Error(t, err)
}
