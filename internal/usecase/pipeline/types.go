package pipeline

// Config carries the static pipeline settings the coordinator needs.
// Resolved once at startup; never mutated afterwards.
type Config struct {
	BatchSize int
	TempDir   string

	PhotoOptimizationEnabled bool
	PhotoMaxWidth            int
	PhotoMaxHeight           int
	PhotoJPEGQuality         int

	PhotoSourcePrefix    string
	PhotoOptimizedPrefix string
	VideoPlaybackPrefix  string
	RehomePhotos         bool
}

// assetOutcome is the per-asset result of one processing attempt. Failures
// are values, not panics or early returns, which is what keeps one bad asset
// from aborting the rest of the batch.
type assetOutcome struct {
	ready bool
	err   error
}

func succeeded() assetOutcome {
	return assetOutcome{ready: true}
}

func failed(err error) assetOutcome {
	return assetOutcome{err: err}
}
