package handler

import (
	"context"
	"encoding/json"

	"github.com/ShenShiNing/new-tube/dto"
	"github.com/ShenShiNing/new-tube/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type ServiceDependencies struct {
	ThumbnailService service.ThumbnailService
}

// ThumbnailWorkflowHandler drains the thumbnail regeneration queue. The
// whole run executes on the consumer worker; step retries happen inside the
// service.
func ThumbnailWorkflowHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var workflowMsg dto.ThumbnailWorkflowMessage
	if err := json.Unmarshal(msg.Body, &workflowMsg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal thumbnail workflow message")
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("run_id", workflowMsg.RunID.String()).
		Str("video_id", workflowMsg.VideoID.String()).
		Msg("received thumbnail workflow message")

	err := deps.ThumbnailService.Process(ctx, workflowMsg)
	if err != nil {
		return err
	}

	return nil
}
