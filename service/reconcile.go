package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ShenShiNing/new-tube/constant"
	"github.com/ShenShiNing/new-tube/dto"
	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/pkg/blob"
	"github.com/ShenShiNing/new-tube/pkg/pipeline"
	"github.com/ShenShiNing/new-tube/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// webhook event types posted by the transcoding pipeline
const (
	EventAssetCreated = "video.asset.created"
	EventAssetReady   = "video.asset.ready"
	EventAssetErrored = "video.asset.errored"
	EventAssetDeleted = "video.asset.deleted"
	EventTrackReady   = "video.asset.track.ready"
)

// ReconcileService applies the pipeline's asynchronously reported truth to
// local video rows. Push events arrive at-least-once and unordered, so every
// branch is idempotent: keyed lookup plus unconditional overwrite. The pull
// path (Revalidate) and the push path may race on the same row;
// last-writer-wins is the accepted resolution, there is no version token.
type ReconcileService interface {
	Apply(ctx context.Context, event dto.WebhookEvent) error
	Revalidate(ctx context.Context, userID, videoID uuid.UUID) (*entities.Video, error)
	RestoreThumbnail(ctx context.Context, userID, videoID uuid.UUID) (*entities.Video, error)
}

type reconcileService struct {
	repo         repository.Repository
	pipeline     pipeline.Client
	uploader     blob.Uploader
	imageBaseURL string
}

func NewReconcileService(repo repository.Repository, pipelineClient pipeline.Client, uploader blob.Uploader, imageBaseURL string) ReconcileService {
	return &reconcileService{
		repo:         repo,
		pipeline:     pipelineClient,
		uploader:     uploader,
		imageBaseURL: imageBaseURL,
	}
}

func (s *reconcileService) Apply(ctx context.Context, event dto.WebhookEvent) error {
	switch event.Type {
	case EventAssetCreated:
		return s.assetCreated(ctx, event.Data)
	case EventAssetReady:
		return s.assetReady(ctx, event.Data)
	case EventAssetErrored:
		return s.assetErrored(ctx, event.Data)
	case EventAssetDeleted:
		return s.assetDeleted(ctx, event.Data)
	case EventTrackReady:
		return s.trackReady(ctx, event.Data)
	default:
		// unrecognized types are accepted with no state change so the
		// pipeline can add events without breaking us
		zerolog.Ctx(ctx).Debug().Str("type", event.Type).Msg("ignoring unrecognized webhook event")
		return nil
	}
}

func decodeAssetEvent(raw json.RawMessage) (*dto.AssetEventData, error) {
	var data dto.AssetEventData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, validationErr("malformed event data: %v", err)
	}
	if data.UploadID == "" {
		return nil, validationErr("missing upload id")
	}
	return &data, nil
}

func (s *reconcileService) assetCreated(ctx context.Context, raw json.RawMessage) error {
	data, err := decodeAssetEvent(raw)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("upload_id", data.UploadID).Str("asset_id", data.ID).Msg("asset created")

	affected, err := s.repo.UpdateVideoByUploadID(ctx, data.UploadID, map[string]any{
		"transcode_asset_id": data.ID,
		"transcode_status":   data.Status,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr("no video for upload %s", data.UploadID)
	}
	return nil
}

func (s *reconcileService) assetReady(ctx context.Context, raw json.RawMessage) error {
	data, err := decodeAssetEvent(raw)
	if err != nil {
		return err
	}
	if len(data.PlaybackIDs) == 0 || data.PlaybackIDs[0].ID == "" {
		return validationErr("missing playback id")
	}
	playbackID := data.PlaybackIDs[0].ID

	// both derived stills go through the blob collaborator before any row
	// mutation, so a failed upload leaves the record untouched and the
	// sender retries the whole event
	thumbnail, err := s.uploader.UploadFromURL(ctx, s.stillURL(playbackID, "thumbnail.jpg"))
	if err != nil {
		return upstreamErr(err)
	}
	preview, err := s.uploader.UploadFromURL(ctx, s.stillURL(playbackID, "animated.gif"))
	if err != nil {
		return upstreamErr(err)
	}

	affected, err := s.repo.UpdateVideoByUploadID(ctx, data.UploadID, map[string]any{
		"transcode_status":   data.Status,
		"transcode_asset_id": data.ID,
		"playback_id":        playbackID,
		"thumbnail_key":      thumbnail.Key,
		"thumbnail_url":      thumbnail.URL,
		"preview_key":        preview.Key,
		"preview_url":        preview.URL,
		"duration_ms":        durationToMs(data.Duration),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr("no video for upload %s", data.UploadID)
	}
	return nil
}

func (s *reconcileService) assetErrored(ctx context.Context, raw json.RawMessage) error {
	data, err := decodeAssetEvent(raw)
	if err != nil {
		return err
	}

	affected, err := s.repo.UpdateVideoByUploadID(ctx, data.UploadID, map[string]any{
		"transcode_status": data.Status,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		// delivery ordering relative to asset.created is not guaranteed;
		// a missing row means the created event has not landed yet
		zerolog.Ctx(ctx).Warn().Str("upload_id", data.UploadID).Msg("errored event for unknown upload, ignoring")
	}
	return nil
}

func (s *reconcileService) assetDeleted(ctx context.Context, raw json.RawMessage) error {
	data, err := decodeAssetEvent(raw)
	if err != nil {
		return err
	}

	affected, err := s.repo.DeleteVideoByUploadID(ctx, data.UploadID)
	if err != nil {
		return err
	}
	if affected == 0 {
		// already deleted or never created; replays land here
		zerolog.Ctx(ctx).Info().Str("upload_id", data.UploadID).Msg("delete event for unknown upload, ignoring")
	}
	return nil
}

func (s *reconcileService) trackReady(ctx context.Context, raw json.RawMessage) error {
	var data dto.TrackEventData
	if err := json.Unmarshal(raw, &data); err != nil {
		return validationErr("malformed event data: %v", err)
	}
	// the track event carries the asset id, not the upload id: by the time
	// a track is ready the asset association has already happened
	if data.AssetID == "" {
		return validationErr("missing asset id")
	}

	affected, err := s.repo.UpdateVideoByAssetID(ctx, data.AssetID, map[string]any{
		"track_id":     data.ID,
		"track_status": data.Status,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr("no video for asset %s", data.AssetID)
	}
	return nil
}

// Revalidate re-fetches upload, asset and track state straight from the
// pipeline and overwrites the local row. Owners invoke it to recover from
// missed or delayed webhook delivery.
func (s *reconcileService) Revalidate(ctx context.Context, userID, videoID uuid.UUID) (*entities.Video, error) {
	video, err := s.repo.FindVideoByIDAndUser(ctx, videoID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("video %s", videoID)
		}
		return nil, err
	}
	if video.UploadID == nil {
		return nil, validationErr("video %s has no upload session", videoID)
	}

	upload, err := s.pipeline.GetUpload(ctx, *video.UploadID)
	if err != nil {
		return nil, upstreamErr(err)
	}
	if upload.AssetID == "" {
		return nil, validationErr("upload %s has no asset yet", *video.UploadID)
	}

	asset, err := s.pipeline.GetAsset(ctx, upload.AssetID)
	if err != nil {
		return nil, upstreamErr(err)
	}
	if len(asset.PlaybackIDs) == 0 || asset.PlaybackIDs[0].ID == "" {
		return nil, validationErr("asset %s has no playback id", asset.ID)
	}

	updates := map[string]any{
		"transcode_status":   asset.Status,
		"transcode_asset_id": asset.ID,
		"playback_id":        asset.PlaybackIDs[0].ID,
		"duration_ms":        durationToMs(asset.Duration),
	}

	if track := asset.AudioTrack(); track != nil && track.ID != "" && track.Status != "" {
		if !constant.TrackStatus(track.Status).Acceptable() {
			return nil, validationErr("invalid track status %q", track.Status)
		}
		updates["track_id"] = track.ID
		updates["track_status"] = track.Status
	}

	if _, err := s.repo.UpdateVideoByIDAndUser(ctx, videoID, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.FindVideoByIDAndUser(ctx, videoID, userID)
}

// RestoreThumbnail throws away any stored thumbnail and re-derives it from
// the playback id.
func (s *reconcileService) RestoreThumbnail(ctx context.Context, userID, videoID uuid.UUID) (*entities.Video, error) {
	video, err := s.repo.FindVideoByIDAndUser(ctx, videoID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("video %s", videoID)
		}
		return nil, err
	}

	if video.ThumbnailKey != nil {
		if err := s.uploader.Delete(ctx, *video.ThumbnailKey); err != nil {
			return nil, upstreamErr(err)
		}
		if _, err := s.repo.UpdateVideoByIDAndUser(ctx, videoID, userID, map[string]any{
			"thumbnail_key": nil,
			"thumbnail_url": nil,
		}); err != nil {
			return nil, err
		}
	}

	if video.PlaybackID == nil {
		return nil, validationErr("video %s has no playback id", videoID)
	}

	thumbnail, err := s.uploader.UploadFromURL(ctx, s.stillURL(*video.PlaybackID, "thumbnail.jpg"))
	if err != nil {
		return nil, upstreamErr(err)
	}

	if _, err := s.repo.UpdateVideoByIDAndUser(ctx, videoID, userID, map[string]any{
		"thumbnail_key": thumbnail.Key,
		"thumbnail_url": thumbnail.URL,
	}); err != nil {
		return nil, err
	}
	return s.repo.FindVideoByIDAndUser(ctx, videoID, userID)
}

func (s *reconcileService) stillURL(playbackID, name string) string {
	return fmt.Sprintf("%s/%s/%s", s.imageBaseURL, playbackID, name)
}

// durationToMs converts the pipeline's duration in seconds to rounded
// milliseconds.
func durationToMs(seconds float64) int64 {
	if seconds <= 0 {
		return 0
	}
	return int64(math.Round(seconds * 1000))
}
