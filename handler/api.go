package handler

import (
	"github.com/ShenShiNing/new-tube/config"
	"github.com/ShenShiNing/new-tube/service"
	"github.com/gin-gonic/gin"
)

// API bundles every service the HTTP surface depends on; construction is
// explicit, nothing reaches for ambient globals.
type API struct {
	cfg           *config.Config
	Videos        service.VideoService
	Reconcile     service.ReconcileService
	Thumbnails    service.ThumbnailService
	Comments      service.CommentService
	Subscriptions service.SubscriptionService
	Engagement    service.EngagementService
	Users         service.UserService
}

func NewAPI(
	cfg *config.Config,
	videos service.VideoService,
	reconcile service.ReconcileService,
	thumbnails service.ThumbnailService,
	comments service.CommentService,
	subscriptions service.SubscriptionService,
	engagement service.EngagementService,
	users service.UserService,
) *API {
	return &API{
		cfg:           cfg,
		Videos:        videos,
		Reconcile:     reconcile,
		Thumbnails:    thumbnails,
		Comments:      comments,
		Subscriptions: subscriptions,
		Engagement:    engagement,
		Users:         users,
	}
}

func (a *API) Register(r *gin.Engine, auth *AuthMiddleware) {
	api := r.Group("/api")

	api.POST("/videos/webhook", a.HandleWebhook)

	api.GET("/videos", auth.Optional(), a.ListVideos)
	api.GET("/videos/trending", a.ListTrendingVideos)
	api.GET("/videos/search", a.SearchVideos)
	api.GET("/videos/:videoId", auth.Optional(), a.GetVideo)
	api.GET("/videos/:videoId/comments", a.ListComments)
	api.GET("/users/:userId", auth.Optional(), a.GetUser)
	api.GET("/categories", a.ListCategories)

	protected := api.Group("")
	protected.Use(auth.Required())
	{
		protected.GET("/videos/subscribed", a.ListSubscribedVideos)
		protected.GET("/studio/videos", a.ListStudioVideos)
		protected.POST("/videos", a.CreateUpload)
		protected.PATCH("/videos/:videoId", a.UpdateVideo)
		protected.DELETE("/videos/:videoId", a.RemoveVideo)
		protected.POST("/videos/:videoId/revalidate", a.RevalidateVideo)
		protected.POST("/videos/:videoId/thumbnail/restore", a.RestoreThumbnail)
		protected.POST("/videos/:videoId/thumbnail/generate", a.GenerateThumbnail)
		protected.POST("/videos/:videoId/views", a.RecordView)
		protected.POST("/videos/:videoId/like", a.LikeVideo)
		protected.POST("/videos/:videoId/dislike", a.DislikeVideo)
		protected.POST("/videos/:videoId/comments", a.CreateComment)
		protected.DELETE("/comments/:commentId", a.RemoveComment)
		protected.GET("/subscriptions", a.ListSubscriptions)
		protected.POST("/subscriptions/:userId", a.Subscribe)
		protected.DELETE("/subscriptions/:userId", a.Unsubscribe)
	}
}
