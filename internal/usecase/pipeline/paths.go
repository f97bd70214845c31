package pipeline

import (
	"path"
	"strings"

	"github.com/fhuszti/media-pipeline-go/internal/model"
)

// fallbackBaseName is used when sanitizing leaves nothing of the original name.
const fallbackBaseName = "asset"

// derivePlaybackKey computes the canonical playback key for an asset: the
// sanitized base name of the best available source-ish key plus the
// type-specific suffix, under the configured prefix.
func derivePlaybackKey(asset *model.MediaAsset, prefix, suffix string) string {
	source := asset.SourcePath
	if source == "" {
		source = asset.StoragePath
	}
	if source == "" && asset.PlaybackPath != nil {
		source = *asset.PlaybackPath
	}
	if source == "" {
		source = asset.ID.String()
	}

	return path.Join(prefix, sanitizeBaseName(source)+suffix)
}

// playbackTarget picks the key the processed artifact is uploaded to. An
// existing playback key is always reused, even when it carries a foreign
// suffix (externally supplied files keep their key); only assets without one
// get the canonical derived key.
func playbackTarget(asset *model.MediaAsset, prefix, suffix string) string {
	if asset.PlaybackPath != nil && *asset.PlaybackPath != "" {
		return *asset.PlaybackPath
	}
	return derivePlaybackKey(asset, prefix, suffix)
}

// sanitizeBaseName extracts the file name without extension and reduces it to
// a safe key segment: every non-alphanumeric run becomes a single '-', with
// no leading or trailing dashes.
func sanitizeBaseName(key string) string {
	base := path.Base(strings.ReplaceAll(key, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))

	var b strings.Builder
	lastDash := true // swallow leading dashes
	for _, r := range base {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if alnum {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return fallbackBaseName
	}
	return out
}
