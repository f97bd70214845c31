package pipeline

import (
	"testing"

	"github.com/fhuszti/media-pipeline-go/internal/model"
	"github.com/fhuszti/media-pipeline-go/internal/uuid"
)

func TestSanitizeBaseName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "media/originals/holiday.mov", "holiday"},
		{"spaces and symbols", "media/My Summer (2024)!.jpg", "My-Summer-2024"},
		{"consecutive separators", "a___b...c.png", "a-b-c"},
		{"windows separators", `media\photos\trip.jpg`, "trip"},
		{"leading and trailing junk", "--weird--.mp4", "weird"},
		{"nothing left", "???.gif", "asset"},
		{"no extension", "media/raw/clip", "clip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeBaseName(tt.in); got != tt.want {
				t.Errorf("sanitizeBaseName(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDerivePlaybackKey(t *testing.T) {
	id := uuid.MustParse("0c19dd78-1a52-4a53-89bb-5e6bb7b7c5a4")

	tests := []struct {
		name  string
		asset *model.MediaAsset
		want  string
	}{
		{
			"from source path",
			&model.MediaAsset{ID: id, SourcePath: "media/originals/holiday.mov"},
			"media/videos/web/holiday_mp4.mp4",
		},
		{
			"falls back to storage path",
			&model.MediaAsset{ID: id, StoragePath: "media/originals/backup.avi"},
			"media/videos/web/backup_mp4.mp4",
		},
		{
			"falls back to asset id",
			&model.MediaAsset{ID: id},
			"media/videos/web/0c19dd78-1a52-4a53-89bb-5e6bb7b7c5a4_mp4.mp4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := derivePlaybackKey(tt.asset, "media/videos/web", model.VideoPlaybackSuffix)
			if got != tt.want {
				t.Errorf("derivePlaybackKey() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestPlaybackTarget_ReusesExistingKey(t *testing.T) {
	existing := "legacy/store/old-name.bin"
	asset := &model.MediaAsset{ID: uuid.NewUUID(), SourcePath: "media/originals/new.mov", PlaybackPath: &existing}

	if got := playbackTarget(asset, "media/videos/web", model.VideoPlaybackSuffix); got != existing {
		t.Errorf("playbackTarget() = %q; want existing key %q", got, existing)
	}
}

func TestPlaybackTarget_DerivesWhenEmpty(t *testing.T) {
	empty := ""
	asset := &model.MediaAsset{ID: uuid.NewUUID(), SourcePath: "media/photos/originals/cat.png", PlaybackPath: &empty}

	want := "media/photos/web/cat_web.jpg"
	if got := playbackTarget(asset, "media/photos/web", model.PhotoPlaybackSuffix); got != want {
		t.Errorf("playbackTarget() = %q; want %q", got, want)
	}
}
