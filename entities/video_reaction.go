package entities

import (
	"time"

	"github.com/ShenShiNing/new-tube/constant"
	"github.com/google/uuid"
)

type VideoReaction struct {
	UserID    uuid.UUID             `json:"user_id" gorm:"type:uuid;primary_key"`
	VideoID   uuid.UUID             `json:"video_id" gorm:"type:uuid;primary_key;index:idx_video_reactions_video_id"`
	Type      constant.ReactionType `json:"type" gorm:"type:varchar(10);not null"`
	CreatedAt time.Time             `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time             `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (VideoReaction) TableName() string {
	return "video_reactions"
}
