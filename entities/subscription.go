package entities

import (
	"time"

	"github.com/google/uuid"
)

// Subscription links a viewer to a creator. The pair is the primary key;
// list pagination tie-breaks on the creator id.
type Subscription struct {
	ViewerID  uuid.UUID `json:"viewer_id" gorm:"type:uuid;primary_key"`
	CreatorID uuid.UUID `json:"creator_id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
