package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/fhuszti/media-pipeline-go/internal/model"
	"github.com/fhuszti/media-pipeline-go/internal/uuid"
)

var assetRows = []string{
	"id", "asset_type", "processing_state", "source_path", "storage_path",
	"playback_path", "poster_path", "width", "height", "duration_seconds",
	"processing_error", "last_processed_at", "created_at",
	"display_order", "is_featured", "show_on_home", "is_published",
}

func idBytes(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	v, err := id.Value()
	if err != nil {
		t.Fatalf("could not serialise id: %v", err)
	}
	return v.([]byte)
}

func addAssetRow(t *testing.T, rows *sqlmock.Rows, id uuid.UUID, assetType, state, sourcePath string) *sqlmock.Rows {
	t.Helper()
	return rows.AddRow(
		idBytes(t, id), assetType, state, sourcePath, "",
		nil, nil, nil, nil, nil,
		nil, nil, time.Now(),
		0, false, false, true,
	)
}

func TestAssetRepository_GetByID_Success(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewAssetRepository(sqlDB)
	mockID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	rows := addAssetRow(t, sqlmock.NewRows(assetRows), mockID, model.AssetTypeVideo, model.StatePending, "media/originals/clip.mov")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT` + assetColumns + `FROM media_assets WHERE id = ?`)).
		WithArgs(mockID).
		WillReturnRows(rows)

	asset, err := repo.GetByID(context.Background(), mockID)
	if err != nil {
		t.Fatalf("GetByID() returned unexpected error: %v", err)
	}
	if asset.ID != mockID {
		t.Errorf("id = %s; want %s", asset.ID, mockID)
	}
	if asset.AssetType != model.AssetTypeVideo || asset.ProcessingState != model.StatePending {
		t.Errorf("got %s/%s; want video/pending", asset.AssetType, asset.ProcessingState)
	}
	if asset.SourcePath != "media/originals/clip.mov" {
		t.Errorf("source path = %q", asset.SourcePath)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestAssetRepository_GetByID_NotFound(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewAssetRepository(sqlDB)
	mockID := uuid.NewUUID()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT` + assetColumns + `FROM media_assets WHERE id = ?`)).
		WithArgs(mockID).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), mockID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("GetByID() error = %v; want sql.ErrNoRows", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestAssetRepository_ListPending(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewAssetRepository(sqlDB)

	first := uuid.NewUUID()
	second := uuid.NewUUID()
	rows := sqlmock.NewRows(assetRows)
	addAssetRow(t, rows, first, model.AssetTypeVideo, model.StatePending, "media/originals/a.mov")
	addAssetRow(t, rows, second, model.AssetTypePhoto, model.StatePending, "media/photos/originals/b.jpg")

	mock.ExpectQuery("SELECT(.|\n)+FROM media_assets(.|\n)+WHERE processing_state = \\? AND asset_type IN \\(\\?, \\?\\)(.|\n)+ORDER BY created_at ASC(.|\n)+LIMIT \\?").
		WithArgs(model.StatePending, model.AssetTypeVideo, model.AssetTypePhoto, 4).
		WillReturnRows(rows)

	assets, err := repo.ListPending(context.Background(), 4, model.AssetTypeVideo, model.AssetTypePhoto)
	if err != nil {
		t.Fatalf("ListPending() returned unexpected error: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("got %d assets; want 2", len(assets))
	}
	// Rows come back oldest first and order must be preserved.
	if assets[0].ID != first || assets[1].ID != second {
		t.Error("ListPending() reordered the rows")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestAssetRepository_ListPending_NoTypes(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewAssetRepository(sqlDB)

	assets, err := repo.ListPending(context.Background(), 4)
	if err != nil {
		t.Fatalf("ListPending() returned unexpected error: %v", err)
	}
	if assets != nil {
		t.Errorf("got %v; want nil without hitting the database", assets)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestAssetRepository_ListReadyPhotosForRehoming(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewAssetRepository(sqlDB)

	rows := sqlmock.NewRows(assetRows)
	addAssetRow(t, rows, uuid.NewUUID(), model.AssetTypePhoto, model.StateReady, "media/photos/originals/c.jpg")

	mock.ExpectQuery("SELECT(.|\n)+FROM media_assets(.|\n)+WHERE processing_state = \\?(.|\n)+AND asset_type = \\?(.|\n)+AND source_path LIKE \\?").
		WithArgs(model.StateReady, model.AssetTypePhoto, "media/photos/originals%", "media/photos/web%").
		WillReturnRows(rows)

	assets, err := repo.ListReadyPhotosForRehoming(context.Background(), "media/photos/originals", "media/photos/web")
	if err != nil {
		t.Fatalf("ListReadyPhotosForRehoming() returned unexpected error: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("got %d assets; want 1", len(assets))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestAssetRepository_UpdateBatch_Success(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewAssetRepository(sqlDB)

	now := time.Now()
	playback := "media/videos/web/a_mp4.mp4"
	a := &model.MediaAsset{
		ID:              uuid.NewUUID(),
		AssetType:       model.AssetTypeVideo,
		ProcessingState: model.StateReady,
		SourcePath:      "media/originals/a.mov",
		StoragePath:     playback,
		PlaybackPath:    &playback,
		LastProcessedAt: &now,
	}
	failure := "Transcoder failed"
	b := &model.MediaAsset{
		ID:              uuid.NewUUID(),
		AssetType:       model.AssetTypeVideo,
		ProcessingState: model.StateError,
		SourcePath:      "media/originals/b.mov",
		ProcessingError: &failure,
		LastProcessedAt: &now,
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("UPDATE media_assets(.|\n)+SET(.|\n)+WHERE id = \\?")
	prep.ExpectExec().
		WithArgs(a.ProcessingState, a.SourcePath, a.StoragePath, a.PlaybackPath, a.Width, a.Height, a.DurationSeconds, a.ProcessingError, a.LastProcessedAt, a.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(b.ProcessingState, b.SourcePath, b.StoragePath, b.PlaybackPath, b.Width, b.Height, b.DurationSeconds, b.ProcessingError, b.LastProcessedAt, b.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.UpdateBatch(context.Background(), []*model.MediaAsset{a, b}); err != nil {
		t.Fatalf("UpdateBatch() returned unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestAssetRepository_UpdateBatch_Empty(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewAssetRepository(sqlDB)

	if err := repo.UpdateBatch(context.Background(), nil); err != nil {
		t.Fatalf("UpdateBatch() returned unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestAssetRepository_UpdateBatch_ExecFailureRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewAssetRepository(sqlDB)

	a := &model.MediaAsset{ID: uuid.NewUUID(), ProcessingState: model.StateReady}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("UPDATE media_assets(.|\n)+SET(.|\n)+WHERE id = \\?")
	prep.ExpectExec().WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	if err := repo.UpdateBatch(context.Background(), []*model.MediaAsset{a}); err == nil {
		t.Fatal("UpdateBatch() should propagate the exec failure")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestAssetRepository_CountByState(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	repo := NewAssetRepository(sqlDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM media_assets WHERE processing_state = ?`)).
		WithArgs(model.StatePending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountByState(context.Background(), model.StatePending)
	if err != nil {
		t.Fatalf("CountByState() returned unexpected error: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d; want 7", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestLikePrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"media/photos/originals", "media/photos/originals%"},
		{"media/web_dir", `media/web\_dir%`},
		{"50%_off", `50\%\_off%`},
		{`back\slash`, `back\\slash%`},
	}
	for _, tt := range tests {
		if got := likePrefix(tt.in); got != tt.want {
			t.Errorf("likePrefix(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
