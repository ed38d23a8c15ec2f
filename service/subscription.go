package service

import (
	"context"
	"errors"

	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/ShenShiNing/new-tube/repository"
	"github.com/google/uuid"
)

type SubscriptionPage = pagination.Page[repository.SubscriptionRow, pagination.TimeCursor]

type SubscriptionService interface {
	Subscribe(ctx context.Context, viewerID, creatorID uuid.UUID) (*entities.Subscription, error)
	Unsubscribe(ctx context.Context, viewerID, creatorID uuid.UUID) error
	List(ctx context.Context, viewerID uuid.UUID, cursor *pagination.TimeCursor, limit int) (SubscriptionPage, error)
}

type subscriptionService struct {
	repo repository.Repository
}

func NewSubscriptionService(repo repository.Repository) SubscriptionService {
	return &subscriptionService{repo: repo}
}

func (s *subscriptionService) Subscribe(ctx context.Context, viewerID, creatorID uuid.UUID) (*entities.Subscription, error) {
	if viewerID == creatorID {
		return nil, validationErr("cannot subscribe to yourself")
	}
	subscription := &entities.Subscription{
		ViewerID:  viewerID,
		CreatorID: creatorID,
	}
	if err := s.repo.CreateSubscription(ctx, subscription); err != nil {
		return nil, err
	}
	return subscription, nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, viewerID, creatorID uuid.UUID) error {
	if viewerID == creatorID {
		return validationErr("cannot unsubscribe from yourself")
	}
	affected, err := s.repo.DeleteSubscription(ctx, viewerID, creatorID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr("subscription to %s", creatorID)
	}
	return nil
}

func (s *subscriptionService) List(ctx context.Context, viewerID uuid.UUID, cursor *pagination.TimeCursor, limit int) (SubscriptionPage, error) {
	if err := pagination.ValidateLimit(limit); err != nil {
		return SubscriptionPage{}, errors.Join(ErrValidation, err)
	}
	rows, err := s.repo.ListSubscriptions(ctx, viewerID, cursor, limit)
	if err != nil {
		return SubscriptionPage{}, err
	}
	return pagination.Resolve(rows, limit, func(row repository.SubscriptionRow) pagination.TimeCursor {
		return pagination.TimeCursor{UpdatedAt: row.UpdatedAt, ID: row.CreatorID}
	}), nil
}
