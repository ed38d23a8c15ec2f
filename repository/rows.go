package repository

import (
	"github.com/ShenShiNing/new-tube/entities"
	"github.com/google/uuid"
)

// One named result type per distinct row shape a list or detail query
// returns. The aggregate columns are correlated subqueries, aliased to the
// field names below.

// VideoRow is a video plus its owner's display fields and engagement counts.
type VideoRow struct {
	entities.Video
	UserName     string `json:"user_name"`
	UserImageURL string `json:"user_image_url"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	DislikeCount int64  `json:"dislike_count"`
}

// VideoDetailRow extends VideoRow with viewer-relative state for the single
// video page.
type VideoDetailRow struct {
	VideoRow
	OwnerSubscriberCount int64   `json:"owner_subscriber_count"`
	ViewerSubscribed     bool    `json:"viewer_subscribed"`
	ViewerReaction       *string `json:"viewer_reaction"`
}

type CommentRow struct {
	entities.Comment
	UserName     string `json:"user_name"`
	UserImageURL string `json:"user_image_url"`
}

type SubscriptionRow struct {
	entities.Subscription
	CreatorName            string `json:"creator_name"`
	CreatorImageURL        string `json:"creator_image_url"`
	CreatorSubscriberCount int64  `json:"creator_subscriber_count"`
}

type UserDetailRow struct {
	entities.User
	VideoCount       int64 `json:"video_count"`
	SubscriberCount  int64 `json:"subscriber_count"`
	ViewerSubscribed bool  `json:"viewer_subscribed"`
}

// VideoListFilter narrows the public video listing. Nil fields are not
// applied; an explicit optional owner identity replaces any
// membership-test-against-a-singleton construction.
type VideoListFilter struct {
	UserID     *uuid.UUID
	CategoryID *uuid.UUID
	Query      *string
}
