package repository

import (
	"context"

	"github.com/ShenShiNing/new-tube/entities"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertUserByExternalID provisions a local row for an authenticated
// identity on first sight and refreshes display fields afterwards.
func (r *repo) UpsertUserByExternalID(ctx context.Context, externalID, name, imageURL string) (*entities.User, error) {
	user := &entities.User{
		ExternalID: externalID,
		Name:       name,
		ImageURL:   imageURL,
	}
	err := r.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "image_url", "updated_at"}),
		}).
		Create(user).Error
	if err != nil {
		return nil, err
	}

	// the conflict path leaves the generated ID unset; re-read the row
	stored := &entities.User{}
	if err := r.GetDB().WithContext(ctx).First(stored, "external_id = ?", externalID).Error; err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *repo) FindUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user := &entities.User{}
	err := r.GetDB().WithContext(ctx).First(user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repo) FindUserDetail(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*UserDetailRow, error) {
	baseSelect := "users.*, " +
		"(SELECT COUNT(*) FROM videos WHERE videos.user_id = users.id) AS video_count, " +
		"(SELECT COUNT(*) FROM subscriptions WHERE subscriptions.creator_id = users.id) AS subscriber_count"

	q := r.GetDB().WithContext(ctx).Model(&entities.User{}).
		Where("users.id = ?", id)

	if viewerID != nil {
		q = q.Select(baseSelect+", EXISTS(SELECT 1 FROM subscriptions WHERE subscriptions.viewer_id = ? AND subscriptions.creator_id = users.id) AS viewer_subscribed", *viewerID)
	} else {
		q = q.Select(baseSelect + ", FALSE AS viewer_subscribed")
	}

	var row UserDetailRow
	res := q.Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}
