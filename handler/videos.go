package handler

import (
	"net/http"

	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/ShenShiNing/new-tube/repository"
	"github.com/ShenShiNing/new-tube/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (a *API) CreateUpload(c *gin.Context) {
	user := currentUser(c)
	result, err := a.Videos.CreateUpload(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (a *API) UpdateVideo(c *gin.Context) {
	videoID, ok := pathUUID(c, "videoId")
	if !ok {
		return
	}

	var input service.VideoUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "malformed body")
		return
	}

	user := currentUser(c)
	video, err := a.Videos.Update(c.Request.Context(), user.ID, videoID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (a *API) RemoveVideo(c *gin.Context) {
	videoID, ok := pathUUID(c, "videoId")
	if !ok {
		return
	}

	user := currentUser(c)
	if err := a.Videos.Remove(c.Request.Context(), user.ID, videoID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (a *API) GetVideo(c *gin.Context) {
	videoID, ok := pathUUID(c, "videoId")
	if !ok {
		return
	}

	row, err := a.Videos.GetOne(c.Request.Context(), videoID, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (a *API) ListVideos(c *gin.Context) {
	cursor, limit, ok := pageParams[pagination.TimeCursor](c)
	if !ok {
		return
	}

	filter := repository.VideoListFilter{}
	if raw := c.Query("categoryId"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid categoryId")
			return
		}
		filter.CategoryID = &categoryID
	}
	if raw := c.Query("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid userId")
			return
		}
		filter.UserID = &userID
	}

	page, err := a.Videos.List(c.Request.Context(), filter, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	a.respondPage(c, page)
}

func (a *API) SearchVideos(c *gin.Context) {
	cursor, limit, ok := pageParams[pagination.TimeCursor](c)
	if !ok {
		return
	}

	query := c.Query("query")
	if query == "" {
		badRequest(c, "query is required")
		return
	}
	filter := repository.VideoListFilter{Query: &query}

	page, err := a.Videos.List(c.Request.Context(), filter, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	a.respondPage(c, page)
}

func (a *API) ListTrendingVideos(c *gin.Context) {
	cursor, limit, ok := pageParams[pagination.CountCursor](c)
	if !ok {
		return
	}

	page, err := a.Videos.ListTrending(c.Request.Context(), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := toListResponse(page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a *API) ListSubscribedVideos(c *gin.Context) {
	cursor, limit, ok := pageParams[pagination.TimeCursor](c)
	if !ok {
		return
	}

	user := currentUser(c)
	page, err := a.Videos.ListSubscribed(c.Request.Context(), user.ID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	a.respondPage(c, page)
}

func (a *API) ListStudioVideos(c *gin.Context) {
	cursor, limit, ok := pageParams[pagination.TimeCursor](c)
	if !ok {
		return
	}

	user := currentUser(c)
	page, err := a.Videos.ListStudio(c.Request.Context(), user.ID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	a.respondPage(c, page)
}

func (a *API) RevalidateVideo(c *gin.Context) {
	videoID, ok := pathUUID(c, "videoId")
	if !ok {
		return
	}

	user := currentUser(c)
	video, err := a.Reconcile.Revalidate(c.Request.Context(), user.ID, videoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (a *API) RestoreThumbnail(c *gin.Context) {
	videoID, ok := pathUUID(c, "videoId")
	if !ok {
		return
	}

	user := currentUser(c)
	video, err := a.Reconcile.RestoreThumbnail(c.Request.Context(), user.ID, videoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

type generateThumbnailRequest struct {
	Prompt string `json:"prompt"`
}

func (a *API) GenerateThumbnail(c *gin.Context) {
	videoID, ok := pathUUID(c, "videoId")
	if !ok {
		return
	}

	var req generateThumbnailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed body")
		return
	}

	user := currentUser(c)
	runID, err := a.Thumbnails.Trigger(c.Request.Context(), user.ID, videoID, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"workflowRunId": runID})
}

func (a *API) respondPage(c *gin.Context, page service.VideoPage) {
	resp, err := toListResponse(page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
