package entities

import (
	"time"

	"github.com/ShenShiNing/new-tube/constant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video tracks a single upload through the external transcoding pipeline.
// The pipeline never learns the local primary key: webhook reconciliation
// looks rows up by UploadId or TranscodeAssetId, both of which are assigned
// by the pipeline and unique across their non-null lifetimes.
type Video struct {
	ID               uuid.UUID             `json:"id" gorm:"type:uuid;primary_key"`
	UserID           uuid.UUID             `json:"user_id" gorm:"type:uuid;not null;index:idx_videos_user_id"`
	CategoryID       *uuid.UUID            `json:"category_id" gorm:"type:uuid;index:idx_videos_category_id"`
	Title            string                `json:"title" gorm:"type:varchar(255);not null"`
	Description      *string               `json:"description" gorm:"type:text"`
	Visibility       constant.Visibility   `json:"visibility" gorm:"type:varchar(20);not null;default:'private';index:idx_videos_visibility"`
	UploadID         *string               `json:"upload_id" gorm:"type:varchar(255);uniqueIndex:unique_videos_upload_id"`
	TranscodeAssetID *string               `json:"transcode_asset_id" gorm:"type:varchar(255);uniqueIndex:unique_videos_transcode_asset_id"`
	TranscodeStatus  constant.AssetStatus  `json:"transcode_status" gorm:"type:varchar(20);not null;default:'waiting'"`
	PlaybackID       *string               `json:"playback_id" gorm:"type:varchar(255)"`
	TrackID          *string               `json:"track_id" gorm:"type:varchar(255)"`
	TrackStatus      *constant.TrackStatus `json:"track_status" gorm:"type:varchar(20)"`
	ThumbnailKey     *string               `json:"thumbnail_key" gorm:"type:varchar(500)"`
	ThumbnailURL     *string               `json:"thumbnail_url" gorm:"type:varchar(500)"`
	PreviewKey       *string               `json:"preview_key" gorm:"type:varchar(500)"`
	PreviewURL       *string               `json:"preview_url" gorm:"type:varchar(500)"`
	DurationMs       int64                 `json:"duration_ms" gorm:"not null;default:0"`
	CreatedAt        time.Time             `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time             `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_videos_updated_at"`
}

func (Video) TableName() string {
	return "videos"
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
