package mock

import (
	"context"

	"github.com/fhuszti/media-pipeline-go/internal/port"
)

// Transcoder implements the video transcoder for tests.
type Transcoder struct {
	Result port.TranscodeResult
	Err    error

	Called     bool
	InputPath  string
	OutputPath string
}

func (m *Transcoder) Transcode(ctx context.Context, inputPath, outputPath string) (port.TranscodeResult, error) {
	m.Called = true
	m.InputPath = inputPath
	m.OutputPath = outputPath
	if m.Err != nil {
		return port.TranscodeResult{}, m.Err
	}
	return m.Result, nil
}

// ImageOptimiser implements the photo optimiser for tests.
type ImageOptimiser struct {
	Width  int
	Height int
	Err    error

	Called     bool
	InputPath  string
	OutputPath string
	Opts       port.OptimiseOptions
}

func (m *ImageOptimiser) Optimise(ctx context.Context, inputPath, outputPath string, opts port.OptimiseOptions) (int, int, error) {
	m.Called = true
	m.InputPath = inputPath
	m.OutputPath = outputPath
	m.Opts = opts
	if m.Err != nil {
		return 0, 0, m.Err
	}
	return m.Width, m.Height, nil
}

// CommandRunner implements external process invocation for tests, replaying
// canned outputs keyed by executable name.
type CommandRunner struct {
	Outputs map[string][]byte
	Errs    map[string]error

	Calls []RunnerCall
}

type RunnerCall struct {
	Name string
	Args []string
}

func (m *CommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, RunnerCall{Name: name, Args: args})
	if err := m.Errs[name]; err != nil {
		return nil, err
	}
	return m.Outputs[name], nil
}

// Coordinator implements the processing coordinator for tests.
type Coordinator struct {
	// Counts is returned cycle by cycle; after it runs out, 0 is returned.
	Counts []int
	Err    error

	Calls int
}

func (m *Coordinator) ProcessPending(ctx context.Context) (int, error) {
	call := m.Calls
	m.Calls++
	if m.Err != nil {
		return 0, m.Err
	}
	if call < len(m.Counts) {
		return m.Counts[call], nil
	}
	return 0, nil
}
