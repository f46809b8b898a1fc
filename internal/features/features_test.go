package features_test

import (
	"strings"
	"testing"

	"codeberg.org/mutker/agentctl/internal/features"
	"codeberg.org/mutker/agentctl/internal/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestExtractThresholdsStrictlyGreater(t *testing.T) {
	policy := features.DefaultPolicy()

	over := features.Extract(&telemetry.Snapshot{CPUPercent: 85}, policy)
	assert.True(t, over.HighCPU, "85 over threshold 80")

	exact := features.Extract(&telemetry.Snapshot{CPUPercent: 80}, policy)
	assert.False(t, exact.HighCPU, "Exactly at threshold is not high")
}

func TestExtractMemoryAndDisk(t *testing.T) {
	policy := features.DefaultPolicy()

	fs := features.Extract(&telemetry.Snapshot{
		MemoryPercent: 90,
		Disk:          telemetry.DiskUsage{Percent: 95},
	}, policy)

	assert.True(t, fs.HighMemory)
	assert.True(t, fs.HighDisk)
	assert.False(t, fs.HighCPU)
}

func TestExtractBatteryDefaults(t *testing.T) {
	policy := features.DefaultPolicy()

	// Absent battery: a desktop is assumed plugged in
	fs := features.Extract(&telemetry.Snapshot{}, policy)
	assert.False(t, fs.LowBattery)
	assert.True(t, fs.IsCharging)

	fs = features.Extract(&telemetry.Snapshot{
		Battery: telemetry.BatteryStatus{Present: true, Percent: 10, Charging: false},
	}, policy)
	assert.True(t, fs.LowBattery)
	assert.False(t, fs.IsCharging)
}

func TestExtractLogsAndTopProcess(t *testing.T) {
	fs := features.Extract(&telemetry.Snapshot{
		Logs: []telemetry.LogRecord{
			{Level: telemetry.LevelWarning, Message: "slow"},
			{Level: telemetry.LevelError, Message: "broken"},
		},
		Processes: []telemetry.ProcessRecord{
			{Name: "chrome", CPUPercent: 42.5, MemoryPercent: 12.0},
			{Name: "idle", CPUPercent: 0.1},
		},
	}, features.DefaultPolicy())

	assert.True(t, fs.HasErrors)
	assert.True(t, fs.HasWarnings)
	if assert.NotNil(t, fs.TopProcess) {
		assert.Equal(t, "chrome", fs.TopProcess.Name)
		assert.InDelta(t, 42.5, fs.TopProcess.CPUPercent, 0.01)
	}
}

func TestExtractNilSnapshot(t *testing.T) {
	fs := features.Extract(nil, features.DefaultPolicy())

	assert.False(t, features.ShouldAct(fs), "Empty snapshot never warrants action")
	assert.True(t, fs.IsCharging)
}

func TestShouldAct(t *testing.T) {
	assert.False(t, features.ShouldAct(features.FeatureSet{IsCharging: true}))

	assert.True(t, features.ShouldAct(features.FeatureSet{HasErrors: true}),
		"Errors alone warrant action")
	assert.True(t, features.ShouldAct(features.FeatureSet{HighCPU: true}))
	assert.True(t, features.ShouldAct(features.FeatureSet{HighMemory: true}))
	assert.True(t, features.ShouldAct(features.FeatureSet{HighDisk: true}))

	assert.False(t, features.ShouldAct(features.FeatureSet{HasWarnings: true}),
		"Warnings alone do not warrant action")
	assert.False(t, features.ShouldAct(features.FeatureSet{LowBattery: true, IsCharging: true}),
		"Low battery on the charger is fine")
	assert.True(t, features.ShouldAct(features.FeatureSet{LowBattery: true, IsCharging: false}))
}

func TestBuildPromptWithUserText(t *testing.T) {
	prompt := features.BuildPrompt("close whatever is eating my CPU", features.FeatureSet{
		HighCPU: true,
		TopProcess: &features.TopProcess{
			Name: "miner", CPUPercent: 97.3, MemoryPercent: 5.5,
		},
	})

	assert.Contains(t, prompt, "CPU usage is high")
	assert.Contains(t, prompt, "miner using 97.3% CPU")
	assert.Contains(t, prompt, "User request: close whatever is eating my CPU")
	assert.True(t, strings.HasSuffix(prompt, "ACTION: [action_name] with [parameters]."),
		"Prompt always ends with the directive syntax instruction")
}

func TestBuildPromptBackground(t *testing.T) {
	prompt := features.BuildPrompt("", features.FeatureSet{HasErrors: true})

	assert.Contains(t, prompt, "System has error logs")
	assert.Contains(t, prompt, "suggest any actions that should be taken")
	assert.NotContains(t, prompt, "User request")
	assert.Contains(t, prompt, "ACTION: [action_name] with [parameters].")
}

func TestBuildPromptDeterministic(t *testing.T) {
	fs := features.FeatureSet{HighMemory: true, HasWarnings: true}

	assert.Equal(t, features.BuildPrompt("x", fs), features.BuildPrompt("x", fs))
}
