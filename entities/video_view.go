package entities

import (
	"time"

	"github.com/google/uuid"
)

// VideoView records at most one view per user per video.
type VideoView struct {
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;primary_key"`
	VideoID   uuid.UUID `json:"video_id" gorm:"type:uuid;primary_key;index:idx_video_views_video_id"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (VideoView) TableName() string {
	return "video_views"
}
