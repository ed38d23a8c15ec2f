package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// WebhookEvent is the signed envelope the transcoding pipeline posts.
// Data stays raw until the type switch picks a shape to decode into.
type WebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

// AssetEventData is the payload of video.asset.created/ready/errored/deleted.
type AssetEventData struct {
	ID          string       `json:"id"`
	UploadID    string       `json:"upload_id"`
	Status      string       `json:"status"`
	Duration    float64      `json:"duration"`
	PlaybackIDs []PlaybackID `json:"playback_ids"`
}

// TrackEventData is the payload of video.asset.track.ready. AssetID is
// present on the wire even though the pipeline's published event schema
// omits it; the runtime payload is what we key on.
type TrackEventData struct {
	ID      string `json:"id"`
	AssetID string `json:"asset_id"`
	Type    string `json:"type"`
	Status  string `json:"status"`
}

// ThumbnailWorkflowMessage is the queue message that drives one thumbnail
// regeneration run.
type ThumbnailWorkflowMessage struct {
	RunID   uuid.UUID `json:"runId"`
	UserID  uuid.UUID `json:"userId"`
	VideoID uuid.UUID `json:"videoId"`
	Prompt  string    `json:"prompt"`
}
