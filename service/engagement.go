package service

import (
	"context"
	"errors"

	"github.com/ShenShiNing/new-tube/constant"
	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EngagementService covers views and reactions: a view is recorded at most
// once per viewer per video; a reaction toggles off when repeated and
// switches in place when flipped.
type EngagementService interface {
	RecordView(ctx context.Context, userID, videoID uuid.UUID) error
	React(ctx context.Context, userID, videoID uuid.UUID, reaction constant.ReactionType) (*entities.VideoReaction, error)
}

type engagementService struct {
	repo repository.Repository
}

func NewEngagementService(repo repository.Repository) EngagementService {
	return &engagementService{repo: repo}
}

func (s *engagementService) RecordView(ctx context.Context, userID, videoID uuid.UUID) error {
	return s.repo.CreateVideoViewIfAbsent(ctx, &entities.VideoView{
		UserID:  userID,
		VideoID: videoID,
	})
}

func (s *engagementService) React(ctx context.Context, userID, videoID uuid.UUID, reaction constant.ReactionType) (*entities.VideoReaction, error) {
	if reaction != constant.ReactionTypeLike && reaction != constant.ReactionTypeDislike {
		return nil, validationErr("invalid reaction type %q", reaction)
	}

	existing, err := s.repo.FindVideoReaction(ctx, userID, videoID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// repeating the same reaction removes it
	if existing != nil && existing.Type == reaction {
		if _, err := s.repo.DeleteVideoReaction(ctx, userID, videoID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	updated := &entities.VideoReaction{
		UserID:  userID,
		VideoID: videoID,
		Type:    reaction,
	}
	if err := s.repo.UpsertVideoReaction(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
