package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ShenShiNing/new-tube/constant"
	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVideoViewIfAbsent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, r, "alice")
	viewer := createTestUser(t, r, "bob")
	video := createTestVideo(t, r, owner.ID, "clip", testBase)

	view := &entities.VideoView{UserID: viewer.ID, VideoID: video.ID}
	require.NoError(t, r.CreateVideoViewIfAbsent(ctx, view))
	require.NoError(t, r.CreateVideoViewIfAbsent(ctx, &entities.VideoView{UserID: viewer.ID, VideoID: video.ID}))

	var count int64
	require.NoError(t, r.GetDB().Model(&entities.VideoView{}).Where("video_id = ?", video.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertVideoReactionFlipsType(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, r, "alice")
	viewer := createTestUser(t, r, "bob")
	video := createTestVideo(t, r, owner.ID, "clip", testBase)

	require.NoError(t, r.UpsertVideoReaction(ctx, &entities.VideoReaction{
		UserID: viewer.ID, VideoID: video.ID, Type: constant.ReactionTypeLike,
	}))
	require.NoError(t, r.UpsertVideoReaction(ctx, &entities.VideoReaction{
		UserID: viewer.ID, VideoID: video.ID, Type: constant.ReactionTypeDislike,
	}))

	stored, err := r.FindVideoReaction(ctx, viewer.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.ReactionTypeDislike, stored.Type)

	affected, err := r.DeleteVideoReaction(ctx, viewer.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = r.DeleteVideoReaction(ctx, viewer.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestUpsertUserByExternalID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.UpsertUserByExternalID(ctx, "ext_1", "Old Name", "https://img.example/old")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)

	second, err := r.UpsertUserByExternalID(ctx, "ext_1", "New Name", "https://img.example/new")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "New Name", second.Name)
	assert.Equal(t, "https://img.example/new", second.ImageURL)
}

func TestListSubscriptions(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	viewer := createTestUser(t, r, "viewer")
	creatorA := createTestUser(t, r, "creatorA")
	creatorB := createTestUser(t, r, "creatorB")
	otherFan := createTestUser(t, r, "fan")

	require.NoError(t, r.CreateSubscription(ctx, &entities.Subscription{
		ViewerID: viewer.ID, CreatorID: creatorA.ID, UpdatedAt: testBase,
	}))
	require.NoError(t, r.CreateSubscription(ctx, &entities.Subscription{
		ViewerID: viewer.ID, CreatorID: creatorB.ID, UpdatedAt: testBase.Add(-time.Minute),
	}))
	require.NoError(t, r.CreateSubscription(ctx, &entities.Subscription{
		ViewerID: otherFan.ID, CreatorID: creatorA.ID, UpdatedAt: testBase,
	}))

	rows, err := r.ListSubscriptions(ctx, viewer.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, creatorA.ID, rows[0].CreatorID)
	assert.Equal(t, "creatorA", rows[0].CreatorName)
	assert.Equal(t, int64(2), rows[0].CreatorSubscriberCount)
	assert.Equal(t, creatorB.ID, rows[1].CreatorID)
}

func TestCreateSubscriptionIsIdempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	viewer := createTestUser(t, r, "viewer")
	creator := createTestUser(t, r, "creator")

	sub := &entities.Subscription{ViewerID: viewer.ID, CreatorID: creator.ID}
	require.NoError(t, r.CreateSubscription(ctx, sub))
	require.NoError(t, r.CreateSubscription(ctx, &entities.Subscription{ViewerID: viewer.ID, CreatorID: creator.ID}))

	rows, err := r.ListSubscriptions(ctx, viewer.ID, nil, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestListCommentsPagination(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, r, "alice")
	commenter := createTestUser(t, r, "bob")
	video := createTestVideo(t, r, owner.ID, "clip", testBase)

	for i := 0; i < 5; i++ {
		require.NoError(t, r.CreateComment(ctx, &entities.Comment{
			UserID:    commenter.ID,
			VideoID:   video.ID,
			Value:     "nice",
			UpdatedAt: testBase.Add(-time.Duration(i%2) * time.Minute),
		}))
	}

	count, err := r.CountComments(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	const limit = 2
	seen := map[uuid.UUID]bool{}
	var cursor *pagination.TimeCursor
	for {
		rows, err := r.ListComments(ctx, video.ID, cursor, limit)
		require.NoError(t, err)
		page := pagination.Resolve(rows, limit, func(row CommentRow) pagination.TimeCursor {
			return pagination.TimeCursor{UpdatedAt: row.UpdatedAt, ID: row.ID}
		})
		for _, row := range page.Items {
			require.False(t, seen[row.ID])
			seen[row.ID] = true
			assert.Equal(t, "bob", row.UserName)
		}
		if page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}
	assert.Len(t, seen, 5)
}

func TestFindUserDetail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	creator := createTestUser(t, r, "creator")
	viewer := createTestUser(t, r, "viewer")

	createTestVideo(t, r, creator.ID, "clip", testBase)
	createTestVideo(t, r, creator.ID, "clip two", testBase)
	require.NoError(t, r.CreateSubscription(ctx, &entities.Subscription{ViewerID: viewer.ID, CreatorID: creator.ID}))

	anon, err := r.FindUserDetail(ctx, creator.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), anon.VideoCount)
	assert.Equal(t, int64(1), anon.SubscriberCount)
	assert.False(t, anon.ViewerSubscribed)

	detail, err := r.FindUserDetail(ctx, creator.ID, &viewer.ID)
	require.NoError(t, err)
	assert.True(t, detail.ViewerSubscribed)
}
