package handler

import (
	"net/http"

	"github.com/ShenShiNing/new-tube/constant"
	"github.com/gin-gonic/gin"
)

func (a *API) GetUser(c *gin.Context) {
	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}

	row, err := a.Users.GetOne(c.Request.Context(), userID, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.Users.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": categories})
}

func (a *API) RecordView(c *gin.Context) {
	videoID, ok := pathUUID(c, "videoId")
	if !ok {
		return
	}

	user := currentUser(c)
	if err := a.Engagement.RecordView(c.Request.Context(), user.ID, videoID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

func (a *API) LikeVideo(c *gin.Context) {
	a.react(c, constant.ReactionTypeLike)
}

func (a *API) DislikeVideo(c *gin.Context) {
	a.react(c, constant.ReactionTypeDislike)
}

func (a *API) react(c *gin.Context, reaction constant.ReactionType) {
	videoID, ok := pathUUID(c, "videoId")
	if !ok {
		return
	}

	user := currentUser(c)
	updated, err := a.Engagement.React(c.Request.Context(), user.ID, videoID, reaction)
	if err != nil {
		respondError(c, err)
		return
	}
	if updated == nil {
		c.JSON(http.StatusOK, gin.H{"status": "removed"})
		return
	}
	c.JSON(http.StatusOK, updated)
}
