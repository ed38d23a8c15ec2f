package repository

import (
	"context"

	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (r *repo) CreateSubscription(ctx context.Context, subscription *entities.Subscription) error {
	return r.GetDB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(subscription).Error
}

func (r *repo) DeleteSubscription(ctx context.Context, viewerID, creatorID uuid.UUID) (int64, error) {
	res := r.GetDB().WithContext(ctx).
		Where("viewer_id = ? AND creator_id = ?", viewerID, creatorID).
		Delete(&entities.Subscription{})
	return res.RowsAffected, res.Error
}

func (r *repo) ListSubscriptions(ctx context.Context, viewerID uuid.UUID, cursor *pagination.TimeCursor, limit int) ([]SubscriptionRow, error) {
	var rows []SubscriptionRow
	err := r.GetDB().WithContext(ctx).Model(&entities.Subscription{}).
		Select("subscriptions.*, users.name AS creator_name, users.image_url AS creator_image_url, "+
			"(SELECT COUNT(*) FROM subscriptions s2 WHERE s2.creator_id = subscriptions.creator_id) AS creator_subscriber_count").
		Joins("INNER JOIN users ON users.id = subscriptions.creator_id").
		Where("subscriptions.viewer_id = ?", viewerID).
		Scopes(
			cursor.Scope("subscriptions.updated_at", "subscriptions.creator_id"),
			pagination.OrderDesc("subscriptions.updated_at", "subscriptions.creator_id"),
			pagination.Probe(limit),
		).Scan(&rows).Error
	return rows, err
}
