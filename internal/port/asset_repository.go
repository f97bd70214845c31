package port

import (
	"context"

	"github.com/fhuszti/media-pipeline-go/internal/model"
	"github.com/fhuszti/media-pipeline-go/internal/uuid"
)

// AssetRepository defines persistence operations for media assets.
// The processing coordinator is the only consumer that mutates state
// through it.
type AssetRepository interface {
	GetByID(ctx context.Context, ID uuid.UUID) (*model.MediaAsset, error)
	// ListPending returns up to limit assets in pending state whose type is
	// one of assetTypes, oldest created_at first.
	ListPending(ctx context.Context, limit int, assetTypes ...string) ([]*model.MediaAsset, error)
	// ListReadyPhotosForRehoming returns ready photos whose source sits under
	// sourcePrefix but whose playback key is missing or outside optimizedPrefix.
	ListReadyPhotosForRehoming(ctx context.Context, sourcePrefix, optimizedPrefix string) ([]*model.MediaAsset, error)
	// UpdateBatch persists every given asset in a single transaction.
	UpdateBatch(ctx context.Context, assets []*model.MediaAsset) error
	CountByState(ctx context.Context, state string) (int, error)
}
