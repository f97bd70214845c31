package transcoder

// ToolPaths holds the resolved encoder and prober executables.
type ToolPaths struct {
	FFmpeg  string
	FFprobe string
}

// ResolveToolPaths returns the effective executable paths for the given
// platform tag (runtime.GOOS), honouring non-empty overrides.
func ResolveToolPaths(platform, ffmpegOverride, ffprobeOverride string) ToolPaths {
	paths := ToolPaths{FFmpeg: "ffmpeg", FFprobe: "ffprobe"}
	if platform == "windows" {
		paths.FFmpeg = "ffmpeg.exe"
		paths.FFprobe = "ffprobe.exe"
	}
	if ffmpegOverride != "" {
		paths.FFmpeg = ffmpegOverride
	}
	if ffprobeOverride != "" {
		paths.FFprobe = ffprobeOverride
	}
	return paths
}
