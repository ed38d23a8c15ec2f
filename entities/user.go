package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ExternalID string    `json:"external_id" gorm:"type:varchar(255);not null;uniqueIndex:unique_users_external_id"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	ImageURL   string    `json:"image_url" gorm:"type:varchar(500)"`
	BannerKey  *string   `json:"banner_key" gorm:"type:varchar(500)"`
	BannerURL  *string   `json:"banner_url" gorm:"type:varchar(500)"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
