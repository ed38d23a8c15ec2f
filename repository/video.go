package repository

import (
	"context"

	"github.com/ShenShiNing/new-tube/constant"
	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	viewCountExpr    = "(SELECT COUNT(*) FROM video_views WHERE video_views.video_id = videos.id)"
	likeCountExpr    = "(SELECT COUNT(*) FROM video_reactions WHERE video_reactions.video_id = videos.id AND video_reactions.type = 'like')"
	dislikeCountExpr = "(SELECT COUNT(*) FROM video_reactions WHERE video_reactions.video_id = videos.id AND video_reactions.type = 'dislike')"

	videoRowSelect = "videos.*, users.name AS user_name, users.image_url AS user_image_url, " +
		viewCountExpr + " AS view_count, " +
		likeCountExpr + " AS like_count, " +
		dislikeCountExpr + " AS dislike_count"
)

func (r *repo) CreateVideo(ctx context.Context, video *entities.Video) error {
	return r.GetDB().WithContext(ctx).Create(video).Error
}

func (r *repo) FindVideoByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entities.Video, error) {
	video := &entities.Video{}
	err := r.GetDB().WithContext(ctx).First(video, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (r *repo) UpdateVideoByIDAndUser(ctx context.Context, id, userID uuid.UUID, updates map[string]any) (int64, error) {
	res := r.GetDB().WithContext(ctx).Model(&entities.Video{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteVideoByIDAndUser(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	res := r.GetDB().WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Video{})
	return res.RowsAffected, res.Error
}

// The reconciliation lookups key on pipeline-assigned identifiers; webhook
// events never carry the local primary key or the owner.

func (r *repo) UpdateVideoByUploadID(ctx context.Context, uploadID string, updates map[string]any) (int64, error) {
	res := r.GetDB().WithContext(ctx).Model(&entities.Video{}).
		Where("upload_id = ?", uploadID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdateVideoByAssetID(ctx context.Context, assetID string, updates map[string]any) (int64, error) {
	res := r.GetDB().WithContext(ctx).Model(&entities.Video{}).
		Where("transcode_asset_id = ?", assetID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteVideoByUploadID(ctx context.Context, uploadID string) (int64, error) {
	res := r.GetDB().WithContext(ctx).
		Where("upload_id = ?", uploadID).
		Delete(&entities.Video{})
	return res.RowsAffected, res.Error
}

func (r *repo) FindVideoDetail(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*VideoDetailRow, error) {
	subscriberCountExpr := "(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.creator_id = videos.user_id)"

	q := r.GetDB().WithContext(ctx).Model(&entities.Video{}).
		Joins("INNER JOIN users ON users.id = videos.user_id").
		Where("videos.id = ?", id)

	if viewerID != nil {
		q = q.Select(videoRowSelect+", "+subscriberCountExpr+" AS owner_subscriber_count, "+
			"EXISTS(SELECT 1 FROM subscriptions WHERE subscriptions.viewer_id = ? AND subscriptions.creator_id = videos.user_id) AS viewer_subscribed, "+
			"(SELECT type FROM video_reactions WHERE video_reactions.video_id = videos.id AND video_reactions.user_id = ?) AS viewer_reaction",
			*viewerID, *viewerID)
	} else {
		q = q.Select(videoRowSelect + ", " + subscriberCountExpr + " AS owner_subscriber_count, " +
			"FALSE AS viewer_subscribed, NULL AS viewer_reaction")
	}

	var row VideoDetailRow
	res := q.Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *repo) ListVideos(ctx context.Context, filter VideoListFilter, cursor *pagination.TimeCursor, limit int) ([]VideoRow, error) {
	q := r.GetDB().WithContext(ctx).Model(&entities.Video{}).
		Select(videoRowSelect).
		Joins("INNER JOIN users ON users.id = videos.user_id").
		Where("videos.visibility = ?", constant.VisibilityPublic)

	if filter.UserID != nil {
		q = q.Where("videos.user_id = ?", *filter.UserID)
	}
	if filter.CategoryID != nil {
		q = q.Where("videos.category_id = ?", *filter.CategoryID)
	}
	if filter.Query != nil {
		q = q.Where("videos.title LIKE ?", "%"+*filter.Query+"%")
	}

	var rows []VideoRow
	err := q.Scopes(
		cursor.Scope("videos.updated_at", "videos.id"),
		pagination.OrderDesc("videos.updated_at", "videos.id"),
		pagination.Probe(limit),
	).Scan(&rows).Error
	return rows, err
}

func (r *repo) ListTrendingVideos(ctx context.Context, cursor *pagination.CountCursor, limit int) ([]VideoRow, error) {
	var rows []VideoRow
	err := r.GetDB().WithContext(ctx).Model(&entities.Video{}).
		Select(videoRowSelect).
		Joins("INNER JOIN users ON users.id = videos.user_id").
		Where("videos.visibility = ?", constant.VisibilityPublic).
		Scopes(
			cursor.Scope(viewCountExpr, "videos.id"),
			pagination.OrderDesc(viewCountExpr, "videos.id"),
			pagination.Probe(limit),
		).Scan(&rows).Error
	return rows, err
}

func (r *repo) ListSubscribedVideos(ctx context.Context, viewerID uuid.UUID, cursor *pagination.TimeCursor, limit int) ([]VideoRow, error) {
	var rows []VideoRow
	err := r.GetDB().WithContext(ctx).Model(&entities.Video{}).
		Select(videoRowSelect).
		Joins("INNER JOIN users ON users.id = videos.user_id").
		Joins("INNER JOIN subscriptions ON subscriptions.creator_id = videos.user_id AND subscriptions.viewer_id = ?", viewerID).
		Where("videos.visibility = ?", constant.VisibilityPublic).
		Scopes(
			cursor.Scope("videos.updated_at", "videos.id"),
			pagination.OrderDesc("videos.updated_at", "videos.id"),
			pagination.Probe(limit),
		).Scan(&rows).Error
	return rows, err
}

func (r *repo) ListStudioVideos(ctx context.Context, ownerID uuid.UUID, cursor *pagination.TimeCursor, limit int) ([]VideoRow, error) {
	var rows []VideoRow
	err := r.GetDB().WithContext(ctx).Model(&entities.Video{}).
		Select(videoRowSelect).
		Joins("INNER JOIN users ON users.id = videos.user_id").
		Where("videos.user_id = ?", ownerID).
		Scopes(
			cursor.Scope("videos.updated_at", "videos.id"),
			pagination.OrderDesc("videos.updated_at", "videos.id"),
			pagination.Probe(limit),
		).Scan(&rows).Error
	return rows, err
}
