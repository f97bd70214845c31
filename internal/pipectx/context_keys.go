package pipectx

import (
	"context"

	"github.com/fhuszti/media-pipeline-go/internal/uuid"
)

type ctxKey int

const assetIDKey ctxKey = iota

// WithAssetID tags the context with the asset currently being processed so
// every log line of its pipeline run carries the id.
func WithAssetID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, assetIDKey, id)
}

func AssetIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(assetIDKey).(uuid.UUID)
	return id, ok
}
