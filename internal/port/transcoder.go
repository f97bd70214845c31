package port

import "context"

// TranscodeResult carries the metadata probed from the produced MP4.
// Every field is nil when the probe failed; probing never fails a transcode.
type TranscodeResult struct {
	DurationSeconds *int
	Width           *int
	Height          *int
}

// Transcoder converts an input video file into a web-deliverable MP4.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string) (TranscodeResult, error)
}

// OptimiseOptions bound the photo optimisation output. A zero or negative
// dimension means that axis is uncapped.
type OptimiseOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// ImageOptimiser re-encodes an image as a web-deliverable JPEG and returns
// the pixel dimensions actually written.
type ImageOptimiser interface {
	Optimise(ctx context.Context, inputPath, outputPath string, opts OptimiseOptions) (width, height int, err error)
}
