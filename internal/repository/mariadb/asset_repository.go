package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/fhuszti/media-pipeline-go/internal/model"
	"github.com/fhuszti/media-pipeline-go/internal/port"
	"github.com/fhuszti/media-pipeline-go/internal/uuid"
)

type AssetRepository struct {
	db *sql.DB
}

// compile-time check: *AssetRepository must satisfy port.AssetRepository
var _ port.AssetRepository = (*AssetRepository)(nil)

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `
      id, asset_type, processing_state, source_path, storage_path,
      playback_path, poster_path, width, height, duration_seconds,
      processing_error, last_processed_at, created_at,
      display_order, is_featured, show_on_home, is_published
`

func (r *AssetRepository) GetByID(ctx context.Context, ID uuid.UUID) (*model.MediaAsset, error) {
	log.Printf("fetching asset #%s from the database...", ID)

	query := `SELECT` + assetColumns + `FROM media_assets WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, ID)

	asset, err := scanAsset(row)
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (r *AssetRepository) ListPending(ctx context.Context, limit int, assetTypes ...string) ([]*model.MediaAsset, error) {
	if len(assetTypes) == 0 {
		return nil, nil
	}
	log.Printf("fetching up to %d pending assets of types %v...", limit, assetTypes)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(assetTypes)), ", ")
	query := `SELECT` + assetColumns + `
      FROM media_assets
      WHERE processing_state = ? AND asset_type IN (` + placeholders + `)
      ORDER BY created_at ASC
      LIMIT ?`

	args := make([]any, 0, len(assetTypes)+2)
	args = append(args, model.StatePending)
	for _, t := range assetTypes {
		args = append(args, t)
	}
	args = append(args, limit)

	return r.queryAssets(ctx, query, args...)
}

func (r *AssetRepository) ListReadyPhotosForRehoming(ctx context.Context, sourcePrefix, optimizedPrefix string) ([]*model.MediaAsset, error) {
	log.Printf("fetching ready photos under %q missing an optimized key under %q...", sourcePrefix, optimizedPrefix)

	query := `SELECT` + assetColumns + `
      FROM media_assets
      WHERE processing_state = ?
        AND asset_type = ?
        AND source_path LIKE ?
        AND (playback_path IS NULL OR playback_path = '' OR playback_path NOT LIKE ?)
      ORDER BY created_at ASC`

	return r.queryAssets(ctx, query,
		model.StateReady,
		model.AssetTypePhoto,
		likePrefix(sourcePrefix),
		likePrefix(optimizedPrefix),
	)
}

func (r *AssetRepository) UpdateBatch(ctx context.Context, assets []*model.MediaAsset) error {
	if len(assets) == 0 {
		return nil
	}
	log.Printf("updating database records for %d assets...", len(assets))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
      UPDATE media_assets
      SET
        processing_state  = ?,
        source_path       = ?,
        storage_path      = ?,
        playback_path     = ?,
        width             = ?,
        height            = ?,
        duration_seconds  = ?,
        processing_error  = ?,
        last_processed_at = ?
      WHERE id = ?
    `
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, asset := range assets {
		if _, err := stmt.ExecContext(ctx,
			asset.ProcessingState,
			asset.SourcePath,
			asset.StoragePath,
			asset.PlaybackPath,
			asset.Width,
			asset.Height,
			asset.DurationSeconds,
			asset.ProcessingError,
			asset.LastProcessedAt,
			asset.ID, // WHERE clause
		); err != nil {
			return fmt.Errorf("failed updating asset #%s: %w", asset.ID, err)
		}
	}

	return tx.Commit()
}

func (r *AssetRepository) CountByState(ctx context.Context, state string) (int, error) {
	const query = `SELECT COUNT(*) FROM media_assets WHERE processing_state = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, state).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AssetRepository) queryAssets(ctx context.Context, query string, args ...any) ([]*model.MediaAsset, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var assets []*model.MediaAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*model.MediaAsset, error) {
	var asset model.MediaAsset
	if err := row.Scan(
		&asset.ID, &asset.AssetType, &asset.ProcessingState,
		&asset.SourcePath, &asset.StoragePath,
		&asset.PlaybackPath, &asset.PosterPath,
		&asset.Width, &asset.Height, &asset.DurationSeconds,
		&asset.ProcessingError, &asset.LastProcessedAt, &asset.CreatedAt,
		&asset.DisplayOrder, &asset.IsFeatured, &asset.ShowOnHome, &asset.IsPublished,
	); err != nil {
		return nil, err
	}
	return &asset, nil
}

func likePrefix(prefix string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(prefix)
	return escaped + "%"
}
