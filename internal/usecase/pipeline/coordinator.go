package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/net/context"

	"github.com/fhuszti/media-pipeline-go/internal/logger"
	"github.com/fhuszti/media-pipeline-go/internal/model"
	"github.com/fhuszti/media-pipeline-go/internal/pipectx"
	"github.com/fhuszti/media-pipeline-go/internal/port"
	"github.com/fhuszti/media-pipeline-go/internal/uuid"
)

type coordinatorSrv struct {
	repo  port.AssetRepository
	strg  port.Storage
	trans port.Transcoder
	opt   port.ImageOptimiser
	clock port.Clock
	cfg   Config
}

// compile-time check: *coordinatorSrv must satisfy port.Coordinator
var _ port.Coordinator = (*coordinatorSrv)(nil)

// NewCoordinator constructs the processing coordinator. It is the only
// component that mutates asset processing state.
func NewCoordinator(repo port.AssetRepository, strg port.Storage, trans port.Transcoder, opt port.ImageOptimiser, clock port.Clock, cfg Config) port.Coordinator {
	return &coordinatorSrv{repo: repo, strg: strg, trans: trans, opt: opt, clock: clock, cfg: cfg}
}

// ProcessPending claims one batch of pending assets, runs each through its
// type-specific pipeline and persists every outcome. Per-asset failures end
// up on the asset record; only infrastructure failures are returned.
func (c *coordinatorSrv) ProcessPending(ctx context.Context) (int, error) {
	if err := c.rehomePhotos(ctx); err != nil {
		return 0, err
	}

	assetTypes := []string{model.AssetTypeVideo}
	if c.cfg.PhotoOptimizationEnabled {
		assetTypes = append(assetTypes, model.AssetTypePhoto)
	}

	batch, err := c.repo.ListPending(ctx, c.cfg.BatchSize, assetTypes...)
	if err != nil {
		return 0, fmt.Errorf("failed listing pending assets: %w", err)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	// Claim the whole batch before touching any asset, so a second pass over
	// the table cannot pick the same work up again.
	for _, asset := range batch {
		asset.ProcessingState = model.StateProcessing
		asset.ProcessingError = nil
	}
	if err := c.repo.UpdateBatch(ctx, batch); err != nil {
		return 0, fmt.Errorf("failed claiming batch: %w", err)
	}

	ready := 0
	for _, asset := range batch {
		assetCtx := pipectx.WithAssetID(ctx, asset.ID)
		outcome := c.processOne(assetCtx, asset)

		now := c.clock.Now()
		asset.LastProcessedAt = &now
		if outcome.ready {
			asset.ProcessingState = model.StateReady
			asset.ProcessingError = nil
			ready++
		} else {
			logger.Errorf(assetCtx, "asset processing failed: %v", outcome.err)
			asset.ProcessingState = model.StateError
			msg := truncateError(outcome.err.Error())
			asset.ProcessingError = &msg
		}
	}

	if err := c.repo.UpdateBatch(ctx, batch); err != nil {
		return 0, fmt.Errorf("failed persisting batch outcomes: %w", err)
	}
	return ready, nil
}

// rehomePhotos resets ready photos whose playback key predates the current
// storage layout back to pending, so a convention change re-triggers
// optimisation without manual intervention. Videos are never touched.
func (c *coordinatorSrv) rehomePhotos(ctx context.Context) error {
	if !c.cfg.RehomePhotos || !c.cfg.PhotoOptimizationEnabled {
		return nil
	}

	assets, err := c.repo.ListReadyPhotosForRehoming(ctx, c.cfg.PhotoSourcePrefix, c.cfg.PhotoOptimizedPrefix)
	if err != nil {
		return fmt.Errorf("failed listing photos to rehome: %w", err)
	}
	if len(assets) == 0 {
		return nil
	}

	for _, asset := range assets {
		target := derivePlaybackKey(asset, c.cfg.PhotoOptimizedPrefix, model.PhotoPlaybackSuffix)
		logger.Infof(pipectx.WithAssetID(ctx, asset.ID), "rehoming photo to %q", target)
		asset.PlaybackPath = &target
		asset.ProcessingState = model.StatePending
		asset.ProcessingError = nil
	}
	return c.repo.UpdateBatch(ctx, assets)
}

func (c *coordinatorSrv) processOne(ctx context.Context, asset *model.MediaAsset) assetOutcome {
	switch {
	case asset.IsVideo():
		return c.processVideo(ctx, asset)
	case asset.IsPhoto():
		return c.processPhoto(ctx, asset)
	default:
		return failed(fmt.Errorf("unknown asset type %q", asset.AssetType))
	}
}

func (c *coordinatorSrv) processVideo(ctx context.Context, asset *model.MediaAsset) assetOutcome {
	sourceKey, err := c.resolveSource(asset)
	if err != nil {
		return failed(err)
	}

	localPath, err := c.strg.EnsureLocalCopy(ctx, sourceKey)
	if err != nil {
		return failed(fmt.Errorf("failed fetching source %q: %w", sourceKey, err))
	}

	target := playbackTarget(asset, c.cfg.VideoPlaybackPrefix, model.VideoPlaybackSuffix)
	tempPath := c.tempFile(asset.ID, ".mp4")
	defer c.cleanupTemp(ctx, tempPath)

	result, err := c.trans.Transcode(ctx, localPath, tempPath)
	if err != nil {
		return failed(err)
	}

	if err := c.strg.UploadFromFile(ctx, target, tempPath, "video/mp4"); err != nil {
		return failed(fmt.Errorf("failed uploading %q: %w", target, err))
	}

	asset.PlaybackPath = &target
	if result.DurationSeconds != nil {
		asset.DurationSeconds = result.DurationSeconds
	}
	if result.Width != nil {
		asset.Width = result.Width
	}
	if result.Height != nil {
		asset.Height = result.Height
	}
	if asset.StoragePath == "" {
		asset.StoragePath = target
	}
	return succeeded()
}

func (c *coordinatorSrv) processPhoto(ctx context.Context, asset *model.MediaAsset) assetOutcome {
	sourceKey, err := c.resolveSource(asset)
	if err != nil {
		return failed(err)
	}

	localPath, err := c.strg.EnsureLocalCopy(ctx, sourceKey)
	if err != nil {
		return failed(fmt.Errorf("failed fetching source %q: %w", sourceKey, err))
	}

	target := playbackTarget(asset, c.cfg.PhotoOptimizedPrefix, model.PhotoPlaybackSuffix)
	tempPath := c.tempFile(asset.ID, ".jpg")
	defer c.cleanupTemp(ctx, tempPath)

	width, height, err := c.opt.Optimise(ctx, localPath, tempPath, port.OptimiseOptions{
		MaxWidth:  c.cfg.PhotoMaxWidth,
		MaxHeight: c.cfg.PhotoMaxHeight,
		Quality:   c.cfg.PhotoJPEGQuality,
	})
	if err != nil {
		return failed(err)
	}

	if err := c.strg.UploadFromFile(ctx, target, tempPath, "image/jpeg"); err != nil {
		return failed(fmt.Errorf("failed uploading %q: %w", target, err))
	}

	asset.PlaybackPath = &target
	asset.Width = &width
	asset.Height = &height
	asset.DurationSeconds = nil
	if asset.StoragePath == "" {
		asset.StoragePath = target
	}
	return succeeded()
}

// resolveSource picks the canonical input key, back-filling SourcePath from
// StoragePath when unset. An asset with neither cannot be processed.
func (c *coordinatorSrv) resolveSource(asset *model.MediaAsset) (string, error) {
	if asset.SourcePath == "" && asset.StoragePath != "" {
		asset.SourcePath = asset.StoragePath
	}
	if asset.SourcePath == "" {
		return "", ErrNoSource
	}
	return c.strg.NormalizeKey(asset.SourcePath), nil
}

// tempFile builds a fresh output path: asset id plus a random suffix, so
// parallel attempts on the same asset can never collide.
func (c *coordinatorSrv) tempFile(id uuid.UUID, ext string) string {
	return filepath.Join(c.cfg.TempDir, fmt.Sprintf("%s_%s%s", id, uuid.NewUUID(), ext))
}

func (c *coordinatorSrv) cleanupTemp(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf(ctx, "failed to remove temp file %q: %v", path, err)
	}
}
