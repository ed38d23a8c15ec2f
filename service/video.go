package service

import (
	"context"
	"errors"

	"github.com/ShenShiNing/new-tube/constant"
	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/ShenShiNing/new-tube/pkg/pipeline"
	"github.com/ShenShiNing/new-tube/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type CreateUploadResult struct {
	Video     *entities.Video `json:"video"`
	UploadURL string          `json:"uploadUrl"`
}

type VideoUpdateInput struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	CategoryID  *uuid.UUID           `json:"categoryId"`
	Visibility  *constant.Visibility `json:"visibility"`
}

type VideoPage = pagination.Page[repository.VideoRow, pagination.TimeCursor]
type TrendingPage = pagination.Page[repository.VideoRow, pagination.CountCursor]

type VideoService interface {
	CreateUpload(ctx context.Context, userID uuid.UUID) (*CreateUploadResult, error)
	Update(ctx context.Context, userID, videoID uuid.UUID, input VideoUpdateInput) (*entities.Video, error)
	Remove(ctx context.Context, userID, videoID uuid.UUID) error
	GetOne(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*repository.VideoDetailRow, error)
	List(ctx context.Context, filter repository.VideoListFilter, cursor *pagination.TimeCursor, limit int) (VideoPage, error)
	ListTrending(ctx context.Context, cursor *pagination.CountCursor, limit int) (TrendingPage, error)
	ListSubscribed(ctx context.Context, viewerID uuid.UUID, cursor *pagination.TimeCursor, limit int) (VideoPage, error)
	ListStudio(ctx context.Context, ownerID uuid.UUID, cursor *pagination.TimeCursor, limit int) (VideoPage, error)
}

type videoService struct {
	repo     repository.Repository
	pipeline pipeline.Client
}

func NewVideoService(repo repository.Repository, pipelineClient pipeline.Client) VideoService {
	return &videoService{
		repo:     repo,
		pipeline: pipelineClient,
	}
}

// CreateUpload opens an upload session with the pipeline and records the
// waiting row keyed by the session's upload id. The direct upload URL goes
// back to the caller; everything after that arrives through reconciliation.
func (s *videoService) CreateUpload(ctx context.Context, userID uuid.UUID) (*CreateUploadResult, error) {
	upload, err := s.pipeline.CreateUpload(ctx, userID.String())
	if err != nil {
		return nil, upstreamErr(err)
	}

	uploadID := upload.ID
	video := &entities.Video{
		UserID:          userID,
		Title:           "Untitled",
		Visibility:      constant.VisibilityPrivate,
		TranscodeStatus: constant.AssetStatusWaiting,
		UploadID:        &uploadID,
	}
	if err := s.repo.CreateVideo(ctx, video); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("video_id", video.ID.String()).Str("upload_id", uploadID).Msg("upload session created")
	return &CreateUploadResult{
		Video:     video,
		UploadURL: upload.URL,
	}, nil
}

func (s *videoService) Update(ctx context.Context, userID, videoID uuid.UUID, input VideoUpdateInput) (*entities.Video, error) {
	updates := map[string]any{}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, validationErr("title must not be empty")
		}
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}
	if input.Visibility != nil {
		if *input.Visibility != constant.VisibilityPublic && *input.Visibility != constant.VisibilityPrivate {
			return nil, validationErr("invalid visibility %q", *input.Visibility)
		}
		updates["visibility"] = *input.Visibility
	}
	if len(updates) == 0 {
		return nil, validationErr("nothing to update")
	}

	affected, err := s.repo.UpdateVideoByIDAndUser(ctx, videoID, userID, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, notFoundErr("video %s", videoID)
	}
	return s.repo.FindVideoByIDAndUser(ctx, videoID, userID)
}

func (s *videoService) Remove(ctx context.Context, userID, videoID uuid.UUID) error {
	affected, err := s.repo.DeleteVideoByIDAndUser(ctx, videoID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr("video %s", videoID)
	}
	return nil
}

func (s *videoService) GetOne(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*repository.VideoDetailRow, error) {
	row, err := s.repo.FindVideoDetail(ctx, videoID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("video %s", videoID)
		}
		return nil, err
	}
	return row, nil
}

func timeCursorOf(row repository.VideoRow) pagination.TimeCursor {
	return pagination.TimeCursor{UpdatedAt: row.UpdatedAt, ID: row.ID}
}

func (s *videoService) List(ctx context.Context, filter repository.VideoListFilter, cursor *pagination.TimeCursor, limit int) (VideoPage, error) {
	if err := pagination.ValidateLimit(limit); err != nil {
		return VideoPage{}, errors.Join(ErrValidation, err)
	}
	rows, err := s.repo.ListVideos(ctx, filter, cursor, limit)
	if err != nil {
		return VideoPage{}, err
	}
	return pagination.Resolve(rows, limit, timeCursorOf), nil
}

func (s *videoService) ListTrending(ctx context.Context, cursor *pagination.CountCursor, limit int) (TrendingPage, error) {
	if err := pagination.ValidateLimit(limit); err != nil {
		return TrendingPage{}, errors.Join(ErrValidation, err)
	}
	rows, err := s.repo.ListTrendingVideos(ctx, cursor, limit)
	if err != nil {
		return TrendingPage{}, err
	}
	return pagination.Resolve(rows, limit, func(row repository.VideoRow) pagination.CountCursor {
		return pagination.CountCursor{ViewCount: row.ViewCount, ID: row.ID}
	}), nil
}

func (s *videoService) ListSubscribed(ctx context.Context, viewerID uuid.UUID, cursor *pagination.TimeCursor, limit int) (VideoPage, error) {
	if err := pagination.ValidateLimit(limit); err != nil {
		return VideoPage{}, errors.Join(ErrValidation, err)
	}
	rows, err := s.repo.ListSubscribedVideos(ctx, viewerID, cursor, limit)
	if err != nil {
		return VideoPage{}, err
	}
	return pagination.Resolve(rows, limit, timeCursorOf), nil
}

func (s *videoService) ListStudio(ctx context.Context, ownerID uuid.UUID, cursor *pagination.TimeCursor, limit int) (VideoPage, error) {
	if err := pagination.ValidateLimit(limit); err != nil {
		return VideoPage{}, errors.Join(ErrValidation, err)
	}
	rows, err := s.repo.ListStudioVideos(ctx, ownerID, cursor, limit)
	if err != nil {
		return VideoPage{}, err
	}
	return pagination.Resolve(rows, limit, timeCursorOf), nil
}
