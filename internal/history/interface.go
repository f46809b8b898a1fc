package history

import (
	"context"

	"codeberg.org/mutker/agentctl/internal/features"
	"codeberg.org/mutker/agentctl/internal/telemetry"
)

// Recorder persists one row per collected snapshot together with the
// flags derived from it. Implementations must be safe for use from the
// agent loop goroutine only.
type Recorder interface {
	Record(ctx context.Context, snapshot *telemetry.Snapshot, feats features.FeatureSet) error
	Close() error
}
