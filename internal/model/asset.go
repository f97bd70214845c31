package model

import (
	"time"

	"github.com/fhuszti/media-pipeline-go/internal/uuid"
)

const (
	AssetTypePhoto = "photo"
	AssetTypeVideo = "video"
)

const (
	StatePending    = "pending"
	StateProcessing = "processing"
	StateReady      = "ready"
	StateError      = "error"
)

// Playback keys written by the pipeline always carry one of these suffixes.
// Anything else on an asset is an externally supplied playback file and is
// only ever reused as an upload target, never rewritten.
const (
	VideoPlaybackSuffix = "_mp4.mp4"
	PhotoPlaybackSuffix = "_web.jpg"
)

// MaxProcessingErrorLen is the column width of processing_error.
const MaxProcessingErrorLen = 400

// MediaAsset is the unit of work of the processing pipeline.
type MediaAsset struct {
	ID              uuid.UUID  `json:"id"`
	AssetType       string     `json:"asset_type"`
	ProcessingState string     `json:"processing_state"`
	SourcePath      string     `json:"source_path"`
	StoragePath     string     `json:"storage_path"`
	PlaybackPath    *string    `json:"playback_path"`
	PosterPath      *string    `json:"poster_path"`
	Width           *int       `json:"width"`
	Height          *int       `json:"height"`
	DurationSeconds *int       `json:"duration_seconds"`
	ProcessingError *string    `json:"processing_error"`
	LastProcessedAt *time.Time `json:"last_processed_at"`
	CreatedAt       time.Time  `json:"created_at"`

	// Presentation metadata; never touched by the pipeline.
	DisplayOrder int  `json:"display_order"`
	IsFeatured   bool `json:"is_featured"`
	ShowOnHome   bool `json:"show_on_home"`
	IsPublished  bool `json:"is_published"`
}

// IsVideo reports whether the asset goes through the transcoding pipeline.
func (a *MediaAsset) IsVideo() bool {
	return a.AssetType == AssetTypeVideo
}

// IsPhoto reports whether the asset goes through the optimisation pipeline.
func (a *MediaAsset) IsPhoto() bool {
	return a.AssetType == AssetTypePhoto
}
