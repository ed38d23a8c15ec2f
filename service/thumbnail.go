package service

import (
	"context"
	"errors"

	"github.com/ShenShiNing/new-tube/dto"
	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/pkg/blob"
	"github.com/ShenShiNing/new-tube/pkg/imagegen"
	"github.com/ShenShiNing/new-tube/pkg/rabbitmq"
	"github.com/ShenShiNing/new-tube/pkg/workflow"
	"github.com/ShenShiNing/new-tube/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const minThumbnailPromptLength = 10

// ThumbnailService regenerates a video's thumbnail from a prompt as a
// multi-step background workflow. Trigger is fire-and-forget for the caller;
// Process runs on the queue consumer. Two concurrent runs for the same
// video are not mutually excluded; the overwrite-on-write policy makes the
// double-run tolerable.
type ThumbnailService interface {
	Trigger(ctx context.Context, userID, videoID uuid.UUID, prompt string) (uuid.UUID, error)
	Process(ctx context.Context, msg dto.ThumbnailWorkflowMessage) error
}

type thumbnailService struct {
	repo      repository.Repository
	publisher rabbitmq.Publisher
	generator imagegen.Client
	uploader  blob.Uploader
	runner    *workflow.Runner
}

func NewThumbnailService(
	repo repository.Repository,
	publisher rabbitmq.Publisher,
	generator imagegen.Client,
	uploader blob.Uploader,
	runner *workflow.Runner,
) ThumbnailService {
	return &thumbnailService{
		repo:      repo,
		publisher: publisher,
		generator: generator,
		uploader:  uploader,
		runner:    runner,
	}
}

func (s *thumbnailService) Trigger(ctx context.Context, userID, videoID uuid.UUID, prompt string) (uuid.UUID, error) {
	if len(prompt) < minThumbnailPromptLength {
		return uuid.Nil, validationErr("prompt must be at least %d characters", minThumbnailPromptLength)
	}

	runID := uuid.New()
	msg := dto.ThumbnailWorkflowMessage{
		RunID:   runID,
		UserID:  userID,
		VideoID: videoID,
		Prompt:  prompt,
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		return uuid.Nil, upstreamErr(err)
	}

	zerolog.Ctx(ctx).Info().Str("run_id", runID.String()).Str("video_id", videoID.String()).Msg("thumbnail workflow triggered")
	return runID, nil
}

// Process executes the run's steps in order. Each step is retried
// independently and commits its output only in its own step, so a retried
// step re-runs from a clean slate.
func (s *thumbnailService) Process(ctx context.Context, msg dto.ThumbnailWorkflowMessage) error {
	logger := zerolog.Ctx(ctx).With().Str("run_id", msg.RunID.String()).Str("video_id", msg.VideoID.String()).Logger()
	ctx = logger.WithContext(ctx)

	video, err := workflow.StepValue(ctx, s.runner, "get-video", func(ctx context.Context) (*entities.Video, error) {
		v, err := s.repo.FindVideoByIDAndUser(ctx, msg.VideoID, msg.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFoundErr("video %s", msg.VideoID)
			}
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return err
	}

	generatedURL, err := workflow.StepValue(ctx, s.runner, "generate-thumbnail", func(ctx context.Context) (string, error) {
		return s.generator.Generate(ctx, msg.Prompt)
	})
	if err != nil {
		return err
	}

	// clearing the old object is naturally idempotent: a retry finds the
	// reference already gone and does nothing
	err = s.runner.Step(ctx, "cleanup-thumbnail", func(ctx context.Context) error {
		if video.ThumbnailKey == nil {
			return nil
		}
		if err := s.uploader.Delete(ctx, *video.ThumbnailKey); err != nil {
			return err
		}
		_, err := s.repo.UpdateVideoByIDAndUser(ctx, msg.VideoID, msg.UserID, map[string]any{
			"thumbnail_key": nil,
			"thumbnail_url": nil,
		})
		if err != nil {
			return err
		}
		video.ThumbnailKey = nil
		video.ThumbnailURL = nil
		return nil
	})
	if err != nil {
		return err
	}

	stored, err := workflow.StepValue(ctx, s.runner, "upload-thumbnail", func(ctx context.Context) (*blob.StoredObject, error) {
		return s.uploader.UploadFromURL(ctx, generatedURL)
	})
	if err != nil {
		return err
	}

	return s.runner.Step(ctx, "update-video", func(ctx context.Context) error {
		_, err := s.repo.UpdateVideoByIDAndUser(ctx, msg.VideoID, msg.UserID, map[string]any{
			"thumbnail_key": stored.Key,
			"thumbnail_url": stored.URL,
		})
		return err
	})
}
