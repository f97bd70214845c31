package transcoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fhuszti/media-pipeline-go/internal/port"
)

// FFmpegTranscoder converts videos into progressive MP4 through the external
// ffmpeg binary and probes metadata through ffprobe.
type FFmpegTranscoder struct {
	runner port.CommandRunner
	tools  ToolPaths
}

// compile-time check: *FFmpegTranscoder must satisfy port.Transcoder
var _ port.Transcoder = (*FFmpegTranscoder)(nil)

func NewFFmpegTranscoder(runner port.CommandRunner, tools ToolPaths) *FFmpegTranscoder {
	return &FFmpegTranscoder{runner: runner, tools: tools}
}

// Transcode produces an MP4 at outputPath from the video at inputPath.
// Inputs that are already MP4 are copied byte for byte. Probe failures are
// never fatal: the asset can play without duration or dimensions.
func (t *FFmpegTranscoder) Transcode(ctx context.Context, inputPath, outputPath string) (port.TranscodeResult, error) {
	if strings.TrimSpace(inputPath) == "" || strings.TrimSpace(outputPath) == "" {
		return port.TranscodeResult{}, fmt.Errorf("transcoder: input and output paths are required")
	}
	if _, err := os.Stat(inputPath); err != nil {
		return port.TranscodeResult{}, fmt.Errorf("transcoder: input file %q not readable: %w", inputPath, err)
	}

	if strings.EqualFold(filepath.Ext(inputPath), ".mp4") {
		if err := copyFile(inputPath, outputPath); err != nil {
			return port.TranscodeResult{}, fmt.Errorf("transcoder: failed to copy %q to %q: %w", inputPath, outputPath, err)
		}
	} else {
		if err := t.encode(ctx, inputPath, outputPath); err != nil {
			return port.TranscodeResult{}, err
		}
	}

	if _, err := os.Stat(outputPath); err != nil {
		return port.TranscodeResult{}, fmt.Errorf("transcoder: expected output %q missing: %w", outputPath, err)
	}

	return t.probe(ctx, outputPath), nil
}

func (t *FFmpegTranscoder) encode(ctx context.Context, inputPath, outputPath string) error {
	args := []string{"-y", "-i", inputPath, "-sn", "-map", "0:v:0?", "-map", "0:a:0?"}
	if codec := t.probeVideoCodec(ctx, inputPath); codec == "h264" {
		// Source stream already fits the target container; skip the re-encode.
		args = append(args, "-c:v", "copy")
	} else {
		args = append(args, "-c:v", "libx264", "-preset", "veryfast", "-crf", "20")
	}
	args = append(args,
		"-c:a", "aac",
		"-ac", "2",
		"-b:a", "192k",
		"-f", "mp4",
		"-movflags", "+faststart",
		outputPath,
	)

	if _, err := t.runner.Run(ctx, t.tools.FFmpeg, args...); err != nil {
		return fmt.Errorf("transcoder: %w", err)
	}
	return nil
}

func (t *FFmpegTranscoder) probeVideoCodec(ctx context.Context, inputPath string) string {
	out, err := t.runner.Run(ctx, t.tools.FFprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name",
		"-of", "default=nokey=1:noprint_wrappers=1",
		inputPath,
	)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

func (t *FFmpegTranscoder) probe(ctx context.Context, path string) port.TranscodeResult {
	out, err := t.runner.Run(ctx, t.tools.FFprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		log.Printf("warning: probing %q failed, keeping metadata empty: %v", path, err)
		return port.TranscodeResult{}
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		log.Printf("warning: unparseable probe output for %q, keeping metadata empty: %v", path, err)
		return port.TranscodeResult{}
	}

	var result port.TranscodeResult
	if seconds, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil && seconds > 0 {
		rounded := int(seconds + 0.5)
		result.DurationSeconds = &rounded
	}
	for _, stream := range parsed.Streams {
		if stream.CodecType != "video" {
			continue
		}
		if stream.Width > 0 && stream.Height > 0 {
			w, h := stream.Width, stream.Height
			result.Width = &w
			result.Height = &h
		}
		break
	}
	return result
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
