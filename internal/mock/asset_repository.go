package mock

import (
	"context"

	"github.com/fhuszti/media-pipeline-go/internal/model"
	"github.com/fhuszti/media-pipeline-go/internal/uuid"
)

// AssetRepo implements repository operations for tests. UpdateBatch snapshots
// every call so tests can assert the claim write separately from the final
// outcome write.
type AssetRepo struct {
	AssetRecord *model.MediaAsset
	PendingOut  []*model.MediaAsset
	RehomeOut   []*model.MediaAsset
	CountOut    map[string]int

	GetErr    error
	ListErr   error
	RehomeErr error
	UpdateErr error
	CountErr  error

	GetCalled    bool
	ListCalled   bool
	ListLimit    int
	ListTypes    []string
	RehomeCalled bool
	UpdateCalls  [][]*model.MediaAsset
}

func (m *AssetRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.MediaAsset, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.AssetRecord, nil
}

func (m *AssetRepo) ListPending(ctx context.Context, limit int, assetTypes ...string) ([]*model.MediaAsset, error) {
	m.ListCalled = true
	m.ListLimit = limit
	m.ListTypes = assetTypes
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if limit < len(m.PendingOut) {
		return m.PendingOut[:limit], nil
	}
	return m.PendingOut, nil
}

func (m *AssetRepo) ListReadyPhotosForRehoming(ctx context.Context, sourcePrefix, optimizedPrefix string) ([]*model.MediaAsset, error) {
	m.RehomeCalled = true
	if m.RehomeErr != nil {
		return nil, m.RehomeErr
	}
	return m.RehomeOut, nil
}

func (m *AssetRepo) UpdateBatch(ctx context.Context, assets []*model.MediaAsset) error {
	snapshot := make([]*model.MediaAsset, len(assets))
	copy(snapshot, assets)
	m.UpdateCalls = append(m.UpdateCalls, snapshot)
	return m.UpdateErr
}

func (m *AssetRepo) CountByState(ctx context.Context, state string) (int, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return m.CountOut[state], nil
}
