package repository

import (
	"context"

	"github.com/ShenShiNing/new-tube/entities"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (r *repo) CreateVideoViewIfAbsent(ctx context.Context, view *entities.VideoView) error {
	return r.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(view).Error
}

func (r *repo) FindVideoReaction(ctx context.Context, userID, videoID uuid.UUID) (*entities.VideoReaction, error) {
	reaction := &entities.VideoReaction{}
	err := r.GetDB().WithContext(ctx).
		First(reaction, "user_id = ? AND video_id = ?", userID, videoID).Error
	if err != nil {
		return nil, err
	}
	return reaction, nil
}

func (r *repo) DeleteVideoReaction(ctx context.Context, userID, videoID uuid.UUID) (int64, error) {
	res := r.GetDB().WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&entities.VideoReaction{})
	return res.RowsAffected, res.Error
}

// UpsertVideoReaction switches an existing reaction's type in place, so a
// like on a disliked video flips it rather than erroring on the primary key.
func (r *repo) UpsertVideoReaction(ctx context.Context, reaction *entities.VideoReaction) error {
	return r.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
		}).
		Create(reaction).Error
}
