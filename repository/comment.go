package repository

import (
	"context"

	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/google/uuid"
)

func (r *repo) CreateComment(ctx context.Context, comment *entities.Comment) error {
	return r.GetDB().WithContext(ctx).Create(comment).Error
}

func (r *repo) DeleteCommentByIDAndUser(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	res := r.GetDB().WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Comment{})
	return res.RowsAffected, res.Error
}

func (r *repo) ListComments(ctx context.Context, videoID uuid.UUID, cursor *pagination.TimeCursor, limit int) ([]CommentRow, error) {
	var rows []CommentRow
	err := r.GetDB().WithContext(ctx).Model(&entities.Comment{}).
		Select("comments.*, users.name AS user_name, users.image_url AS user_image_url").
		Joins("INNER JOIN users ON users.id = comments.user_id").
		Where("comments.video_id = ?", videoID).
		Scopes(
			cursor.Scope("comments.updated_at", "comments.id"),
			pagination.OrderDesc("comments.updated_at", "comments.id"),
			pagination.Probe(limit),
		).Scan(&rows).Error
	return rows, err
}

func (r *repo) CountComments(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var count int64
	err := r.GetDB().WithContext(ctx).Model(&entities.Comment{}).
		Where("video_id = ?", videoID).
		Count(&count).Error
	return count, err
}
