package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ShenShiNing/new-tube/config"
	"github.com/ShenShiNing/new-tube/constant"
	"github.com/ShenShiNing/new-tube/handler"
	"github.com/ShenShiNing/new-tube/pkg/blob"
	"github.com/ShenShiNing/new-tube/pkg/imagegen"
	"github.com/ShenShiNing/new-tube/pkg/pipeline"
	"github.com/ShenShiNing/new-tube/pkg/rabbitmq"
	"github.com/ShenShiNing/new-tube/pkg/workflow"
	"github.com/ShenShiNing/new-tube/repository"
	"github.com/ShenShiNing/new-tube/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var thumbnailTopology = rabbitmq.Topology{
	Exchange:   "workflow_exchange",
	Queue:      "thumbnail_generation_queue",
	RoutingKey: "workflow.thumbnail",
}

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
	if err != nil {
		zerolog.Ctx(ctx).Fatal().Err(err).Msg("NewRabbitMQConn")
	}

	repo := repository.NewRepo(cfg.DB)
	pipelineClient := pipeline.NewClient(cfg.Pipeline.BaseURL, cfg.Pipeline.TokenID, cfg.Pipeline.TokenSecret)
	uploader := blob.NewUploader(cfg.Storage, cfg.MinIOBucket, cfg.StoragePublicURL)
	generator := imagegen.NewClient(cfg.ImageGen.BaseURL, cfg.ImageGen.APIKey, cfg.ImageGen.Model, cfg.ImageGen.Size)
	runner := workflow.NewRunner(3)
	publisher := rabbitmq.NewPublisher(conn, cfg.Queue, thumbnailTopology)

	videoService := service.NewVideoService(repo, pipelineClient)
	reconcileService := service.NewReconcileService(repo, pipelineClient, uploader, cfg.Pipeline.ImageBaseURL)
	thumbnailService := service.NewThumbnailService(repo, publisher, generator, uploader, runner)
	commentService := service.NewCommentService(repo)
	subscriptionService := service.NewSubscriptionService(repo)
	engagementService := service.NewEngagementService(repo)
	userService := service.NewUserService(repo)

	serviceDeps := handler.ServiceDependencies{
		ThumbnailService: thumbnailService,
	}

	// drain thumbnail workflow runs in the background
	workflowConsumer := rabbitmq.NewConsumer(conn, cfg.Queue, thumbnailTopology, cfg.Server.Workers, handler.ThumbnailWorkflowHandler)
	go func() {
		err := workflowConsumer.Consume(ctx, serviceDeps)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Thumbnail workflow consumer error")
		}
	}()

	r := gin.Default()
	addHealth(r)

	api := handler.NewAPI(cfg, videoService, reconcileService, thumbnailService, commentService, subscriptionService, engagementService, userService)
	auth := handler.NewAuthMiddleware(cfg.Auth.JWTSecret, repo)
	api.Register(r, auth)

	srv := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("start http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
