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
	"gorm.io/gorm"
)

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func timeCursorOf(row VideoRow) pagination.TimeCursor {
	return pagination.TimeCursor{UpdatedAt: row.UpdatedAt, ID: row.ID}
}

func countCursorOf(row VideoRow) pagination.CountCursor {
	return pagination.CountCursor{ViewCount: row.ViewCount, ID: row.ID}
}

// Walks the full listing page by page and checks every row is visited
// exactly once, including across pages that split a group of rows sharing
// one updated_at value.
func TestListVideosTraversalVisitsEachRowOnce(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, r, "alice")

	want := map[uuid.UUID]bool{}
	for i := 0; i < 10; i++ {
		// three distinct timestamps, so several rows tie on updated_at
		v := createTestVideo(t, r, owner.ID, "clip", testBase.Add(-time.Duration(i%3)*time.Minute))
		want[v.ID] = true
	}

	const limit = 4
	seen := map[uuid.UUID]bool{}
	var cursor *pagination.TimeCursor
	var prev *pagination.TimeCursor
	pages := 0
	for {
		rows, err := r.ListVideos(ctx, VideoListFilter{}, cursor, limit)
		require.NoError(t, err)
		page := pagination.Resolve(rows, limit, timeCursorOf)
		for _, row := range page.Items {
			require.False(t, seen[row.ID], "row %s returned twice", row.ID)
			seen[row.ID] = true
		}
		pages++
		if page.NextCursor == nil {
			break
		}
		// the cursor must advance, otherwise the walk never terminates
		if prev != nil {
			require.NotEqual(t, *prev, *page.NextCursor)
		}
		prev = page.NextCursor
		cursor = page.NextCursor
	}

	assert.Equal(t, want, seen)
	assert.Equal(t, 3, pages)
}

func TestListVideosOrderIsDescending(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, r, "alice")
	for i := 0; i < 6; i++ {
		createTestVideo(t, r, owner.ID, "clip", testBase.Add(-time.Duration(i%2)*time.Minute))
	}

	rows, err := r.ListVideos(ctx, VideoListFilter{}, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	for i := 1; i < len(rows); i++ {
		a, b := rows[i-1], rows[i]
		if a.UpdatedAt.Equal(b.UpdatedAt) {
			assert.Greater(t, a.ID.String(), b.ID.String())
		} else {
			assert.True(t, a.UpdatedAt.After(b.UpdatedAt))
		}
	}
}

func TestListVideosCursorBoundary(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, r, "alice")

	const limit = 3
	for i := 0; i < limit; i++ {
		createTestVideo(t, r, owner.ID, "clip", testBase.Add(-time.Duration(i)*time.Minute))
	}

	// exactly limit rows: the probe finds nothing beyond the page
	rows, err := r.ListVideos(ctx, VideoListFilter{}, nil, limit)
	require.NoError(t, err)
	page := pagination.Resolve(rows, limit, timeCursorOf)
	assert.Len(t, page.Items, limit)
	assert.Nil(t, page.NextCursor)

	// one more row: the first page cursors, the second drains and stops
	createTestVideo(t, r, owner.ID, "clip", testBase.Add(-time.Hour))
	rows, err = r.ListVideos(ctx, VideoListFilter{}, nil, limit)
	require.NoError(t, err)
	page = pagination.Resolve(rows, limit, timeCursorOf)
	require.NotNil(t, page.NextCursor)

	rows, err = r.ListVideos(ctx, VideoListFilter{}, page.NextCursor, limit)
	require.NoError(t, err)
	page = pagination.Resolve(rows, limit, timeCursorOf)
	assert.Len(t, page.Items, 1)
	assert.Nil(t, page.NextCursor)
}

func TestListVideosFilters(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, r, "alice")
	bob := createTestUser(t, r, "bob")

	category := &entities.Category{Name: "music"}
	require.NoError(t, r.GetDB().WithContext(ctx).Create(category).Error)

	public := createTestVideo(t, r, alice.ID, "guitar solo", testBase)
	require.NoError(t, r.CreateVideo(ctx, &entities.Video{
		UserID:     alice.ID,
		Title:      "hidden draft",
		Visibility: constant.VisibilityPrivate,
		UpdatedAt:  testBase,
	}))
	categorized := &entities.Video{
		UserID:     bob.ID,
		CategoryID: &category.ID,
		Title:      "drum cover",
		Visibility: constant.VisibilityPublic,
		UpdatedAt:  testBase,
	}
	require.NoError(t, r.CreateVideo(ctx, categorized))

	rows, err := r.ListVideos(ctx, VideoListFilter{}, nil, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2, "private videos stay out of the public listing")

	rows, err = r.ListVideos(ctx, VideoListFilter{UserID: &bob.ID}, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, categorized.ID, rows[0].ID)

	rows, err = r.ListVideos(ctx, VideoListFilter{CategoryID: &category.ID}, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, categorized.ID, rows[0].ID)

	query := "guitar"
	rows, err = r.ListVideos(ctx, VideoListFilter{Query: &query}, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, public.ID, rows[0].ID)
}

func TestVideoRowAggregates(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, r, "alice")
	fan := createTestUser(t, r, "bob")
	critic := createTestUser(t, r, "carol")

	video := createTestVideo(t, r, owner.ID, "clip", testBase)

	require.NoError(t, r.CreateVideoViewIfAbsent(ctx, &entities.VideoView{UserID: fan.ID, VideoID: video.ID}))
	require.NoError(t, r.CreateVideoViewIfAbsent(ctx, &entities.VideoView{UserID: critic.ID, VideoID: video.ID}))
	require.NoError(t, r.UpsertVideoReaction(ctx, &entities.VideoReaction{UserID: fan.ID, VideoID: video.ID, Type: constant.ReactionTypeLike}))
	require.NoError(t, r.UpsertVideoReaction(ctx, &entities.VideoReaction{UserID: critic.ID, VideoID: video.ID, Type: constant.ReactionTypeDislike}))

	rows, err := r.ListVideos(ctx, VideoListFilter{}, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].UserName)
	assert.Equal(t, int64(2), rows[0].ViewCount)
	assert.Equal(t, int64(1), rows[0].LikeCount)
	assert.Equal(t, int64(1), rows[0].DislikeCount)
}

func TestListTrendingVideosOrdersByViewCount(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, r, "alice")
	viewers := []*entities.User{
		createTestUser(t, r, "v1"),
		createTestUser(t, r, "v2"),
		createTestUser(t, r, "v3"),
	}

	cold := createTestVideo(t, r, owner.ID, "cold", testBase)
	warm := createTestVideo(t, r, owner.ID, "warm", testBase)
	hot := createTestVideo(t, r, owner.ID, "hot", testBase)

	for _, v := range viewers {
		require.NoError(t, r.CreateVideoViewIfAbsent(ctx, &entities.VideoView{UserID: v.ID, VideoID: hot.ID}))
	}
	require.NoError(t, r.CreateVideoViewIfAbsent(ctx, &entities.VideoView{UserID: viewers[0].ID, VideoID: warm.ID}))

	rows, err := r.ListTrendingVideos(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, hot.ID, rows[0].ID)
	assert.Equal(t, warm.ID, rows[1].ID)
	assert.Equal(t, cold.ID, rows[2].ID)
	assert.Equal(t, int64(3), rows[0].ViewCount)

	// a one-row walk must still visit all three exactly once
	seen := map[uuid.UUID]bool{}
	var cursor *pagination.CountCursor
	for {
		rows, err := r.ListTrendingVideos(ctx, cursor, 1)
		require.NoError(t, err)
		page := pagination.Resolve(rows, 1, countCursorOf)
		for _, row := range page.Items {
			require.False(t, seen[row.ID])
			seen[row.ID] = true
		}
		if page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}
	assert.Len(t, seen, 3)
}

func TestListSubscribedVideos(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	viewer := createTestUser(t, r, "viewer")
	followed := createTestUser(t, r, "followed")
	stranger := createTestUser(t, r, "stranger")

	require.NoError(t, r.CreateSubscription(ctx, &entities.Subscription{ViewerID: viewer.ID, CreatorID: followed.ID}))

	inFeed := createTestVideo(t, r, followed.ID, "in feed", testBase)
	createTestVideo(t, r, stranger.ID, "out of feed", testBase)
	require.NoError(t, r.CreateVideo(ctx, &entities.Video{
		UserID:     followed.ID,
		Title:      "private",
		Visibility: constant.VisibilityPrivate,
		UpdatedAt:  testBase,
	}))

	rows, err := r.ListSubscribedVideos(ctx, viewer.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, inFeed.ID, rows[0].ID)
}

func TestListStudioVideosIncludesPrivate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, r, "alice")
	other := createTestUser(t, r, "bob")

	createTestVideo(t, r, owner.ID, "published", testBase)
	require.NoError(t, r.CreateVideo(ctx, &entities.Video{
		UserID:     owner.ID,
		Title:      "draft",
		Visibility: constant.VisibilityPrivate,
		UpdatedAt:  testBase.Add(-time.Minute),
	}))
	createTestVideo(t, r, other.ID, "someone else's", testBase)

	rows, err := r.ListStudioVideos(ctx, owner.ID, nil, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFindVideoDetail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, r, "alice")
	viewer := createTestUser(t, r, "bob")

	video := createTestVideo(t, r, owner.ID, "clip", testBase)
	require.NoError(t, r.CreateSubscription(ctx, &entities.Subscription{ViewerID: viewer.ID, CreatorID: owner.ID}))
	require.NoError(t, r.UpsertVideoReaction(ctx, &entities.VideoReaction{UserID: viewer.ID, VideoID: video.ID, Type: constant.ReactionTypeLike}))

	anon, err := r.FindVideoDetail(ctx, video.ID, nil)
	require.NoError(t, err)
	assert.False(t, anon.ViewerSubscribed)
	assert.Nil(t, anon.ViewerReaction)
	assert.Equal(t, int64(1), anon.OwnerSubscriberCount)

	detail, err := r.FindVideoDetail(ctx, video.ID, &viewer.ID)
	require.NoError(t, err)
	assert.True(t, detail.ViewerSubscribed)
	require.NotNil(t, detail.ViewerReaction)
	assert.Equal(t, string(constant.ReactionTypeLike), *detail.ViewerReaction)

	_, err = r.FindVideoDetail(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateVideoByUploadID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, r, "alice")

	uploadID := "up_123"
	require.NoError(t, r.CreateVideo(ctx, &entities.Video{
		UserID:     owner.ID,
		Title:      "clip",
		Visibility: constant.VisibilityPrivate,
		UploadID:   &uploadID,
		UpdatedAt:  testBase,
	}))

	affected, err := r.UpdateVideoByUploadID(ctx, uploadID, map[string]any{"transcode_status": constant.AssetStatusPreparing})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = r.UpdateVideoByUploadID(ctx, "up_unknown", map[string]any{"transcode_status": constant.AssetStatusPreparing})
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}
