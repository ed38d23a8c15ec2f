package repository

import (
	"context"
	"database/sql"

	"github.com/ShenShiNing/new-tube/entities"
	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Repository interface {
	Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error
	GetDB() *gorm.DB

	// videos
	CreateVideo(ctx context.Context, video *entities.Video) error
	FindVideoByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entities.Video, error)
	UpdateVideoByIDAndUser(ctx context.Context, id, userID uuid.UUID, updates map[string]any) (int64, error)
	DeleteVideoByIDAndUser(ctx context.Context, id, userID uuid.UUID) (int64, error)
	UpdateVideoByUploadID(ctx context.Context, uploadID string, updates map[string]any) (int64, error)
	UpdateVideoByAssetID(ctx context.Context, assetID string, updates map[string]any) (int64, error)
	DeleteVideoByUploadID(ctx context.Context, uploadID string) (int64, error)
	FindVideoDetail(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*VideoDetailRow, error)
	ListVideos(ctx context.Context, filter VideoListFilter, cursor *pagination.TimeCursor, limit int) ([]VideoRow, error)
	ListTrendingVideos(ctx context.Context, cursor *pagination.CountCursor, limit int) ([]VideoRow, error)
	ListSubscribedVideos(ctx context.Context, viewerID uuid.UUID, cursor *pagination.TimeCursor, limit int) ([]VideoRow, error)
	ListStudioVideos(ctx context.Context, ownerID uuid.UUID, cursor *pagination.TimeCursor, limit int) ([]VideoRow, error)

	// comments
	CreateComment(ctx context.Context, comment *entities.Comment) error
	DeleteCommentByIDAndUser(ctx context.Context, id, userID uuid.UUID) (int64, error)
	ListComments(ctx context.Context, videoID uuid.UUID, cursor *pagination.TimeCursor, limit int) ([]CommentRow, error)
	CountComments(ctx context.Context, videoID uuid.UUID) (int64, error)

	// subscriptions
	CreateSubscription(ctx context.Context, subscription *entities.Subscription) error
	DeleteSubscription(ctx context.Context, viewerID, creatorID uuid.UUID) (int64, error)
	ListSubscriptions(ctx context.Context, viewerID uuid.UUID, cursor *pagination.TimeCursor, limit int) ([]SubscriptionRow, error)

	// views and reactions
	CreateVideoViewIfAbsent(ctx context.Context, view *entities.VideoView) error
	FindVideoReaction(ctx context.Context, userID, videoID uuid.UUID) (*entities.VideoReaction, error)
	DeleteVideoReaction(ctx context.Context, userID, videoID uuid.UUID) (int64, error)
	UpsertVideoReaction(ctx context.Context, reaction *entities.VideoReaction) error

	// users
	UpsertUserByExternalID(ctx context.Context, externalID, name, imageURL string) (*entities.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindUserDetail(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*UserDetailRow, error)

	// categories
	ListCategories(ctx context.Context) ([]entities.Category, error)
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) Repository {
	gormDB, _ := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		},
	)
	return &repo{
		db: gormDB,
	}
}

// NewRepoWithDB wires an already-open gorm handle; tests use it with an
// in-memory database.
func NewRepoWithDB(db *gorm.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

func (r *repo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return r.GetDB().Transaction(func(tx *gorm.DB) error {
		err := callback(ctx)
		if err != nil {
			return err
		}
		return nil
	}, opts...)
}

// Migrate creates the schema for every entity. Production runs migrations
// out of band; tests call this against their in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Video{},
		&entities.Comment{},
		&entities.Subscription{},
		&entities.VideoView{},
		&entities.VideoReaction{},
	)
}
