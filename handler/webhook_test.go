package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ShenShiNing/new-tube/config"
	"github.com/ShenShiNing/new-tube/constant"
	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/pkg/blob"
	"github.com/ShenShiNing/new-tube/pkg/pipeline"
	"github.com/ShenShiNing/new-tube/repository"
	"github.com/ShenShiNing/new-tube/service"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const webhookSecret = "whsec_test"

type stubUploader struct {
	fail bool
}

func (s *stubUploader) UploadFromURL(_ context.Context, remoteURL string) (*blob.StoredObject, error) {
	if s.fail {
		return nil, errors.New("object storage unavailable")
	}
	return &blob.StoredObject{Key: "obj_1", URL: "https://cdn.example/media/obj_1"}, nil
}

func (s *stubUploader) Delete(context.Context, string) error { return nil }

type stubPipeline struct{}

func (stubPipeline) CreateUpload(context.Context, string) (*pipeline.Upload, error) {
	return nil, errors.New("not wired")
}
func (stubPipeline) GetUpload(context.Context, string) (*pipeline.Upload, error) {
	return nil, errors.New("not wired")
}
func (stubPipeline) GetAsset(context.Context, string) (*pipeline.Asset, error) {
	return nil, errors.New("not wired")
}

type webhookFixture struct {
	router   *gin.Engine
	repo     repository.Repository
	uploader *stubUploader
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:newtube_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	repo := repository.NewRepoWithDB(db)

	uploader := &stubUploader{}
	reconcile := service.NewReconcileService(repo, stubPipeline{}, uploader, "https://image.pipeline.example")

	cfg := &config.Config{Pipeline: config.Pipeline{WebhookSecret: webhookSecret}}
	api := NewAPI(cfg, nil, reconcile, nil, nil, nil, nil, nil)

	router := gin.New()
	router.POST("/api/videos/webhook", api.HandleWebhook)
	return &webhookFixture{router: router, repo: repo, uploader: uploader}
}

func (f *webhookFixture) seedVideo(t *testing.T, uploadID string) *entities.Video {
	t.Helper()
	ctx := context.Background()
	owner, err := f.repo.UpsertUserByExternalID(ctx, "ext_owner", "owner", "")
	require.NoError(t, err)
	video := &entities.Video{
		UserID:     owner.ID,
		Title:      "Untitled",
		Visibility: constant.VisibilityPrivate,
		UploadID:   &uploadID,
	}
	require.NoError(t, f.repo.CreateVideo(ctx, video))
	return video
}

func (f *webhookFixture) post(body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/videos/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set(pipeline.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func signed(body []byte) string {
	return pipeline.Sign(body, webhookSecret, time.Now())
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	f := newWebhookFixture(t)

	rec := f.post([]byte(`{"type":"video.asset.created","data":{}}`), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newWebhookFixture(t)

	body := []byte(`{"type":"video.asset.created","data":{}}`)
	tampered := pipeline.Sign([]byte(`{"other":"payload"}`), webhookSecret, time.Now())
	rec := f.post(body, tampered)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRejectsStaleSignature(t *testing.T) {
	f := newWebhookFixture(t)

	body := []byte(`{"type":"video.asset.created","data":{}}`)
	stale := pipeline.Sign(body, webhookSecret, time.Now().Add(-time.Hour))
	rec := f.post(body, stale)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookAppliesAssetCreated(t *testing.T) {
	f := newWebhookFixture(t)
	video := f.seedVideo(t, "up_1")

	body := []byte(`{"type":"video.asset.created","data":{"id":"ast_1","upload_id":"up_1","status":"preparing"}}`)
	rec := f.post(body, signed(body))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.repo.FindVideoByIDAndUser(context.Background(), video.ID, video.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored.TranscodeAssetID)
	assert.Equal(t, "ast_1", *stored.TranscodeAssetID)
	assert.Equal(t, constant.AssetStatusPreparing, stored.TranscodeStatus)
}

func TestWebhookAcceptsUnknownEventType(t *testing.T) {
	f := newWebhookFixture(t)

	body := []byte(`{"type":"video.asset.future_event","data":{"id":"ast_1"}}`)
	rec := f.post(body, signed(body))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookDropsEventMissingUploadID(t *testing.T) {
	f := newWebhookFixture(t)

	body := []byte(`{"type":"video.asset.created","data":{"id":"ast_1","status":"preparing"}}`)
	rec := f.post(body, signed(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookDropsEventForUnknownUpload(t *testing.T) {
	f := newWebhookFixture(t)

	body := []byte(`{"type":"video.asset.created","data":{"id":"ast_1","upload_id":"up_unknown","status":"preparing"}}`)
	rec := f.post(body, signed(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookRejectsMalformedEnvelope(t *testing.T) {
	f := newWebhookFixture(t)

	body := []byte(`{not json`)
	rec := f.post(body, signed(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookInducesRetryOnUpstreamFailure(t *testing.T) {
	f := newWebhookFixture(t)
	f.seedVideo(t, "up_1")
	f.uploader.fail = true

	body := []byte(`{"type":"video.asset.ready","data":{"id":"ast_1","upload_id":"up_1","status":"ready","duration":12.5,"playback_ids":[{"id":"pb_1"}]}}`)
	rec := f.post(body, signed(body))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
