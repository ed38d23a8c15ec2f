package handler

import (
	"net/http"

	"github.com/ShenShiNing/new-tube/pagination"
	"github.com/gin-gonic/gin"
)

type createCommentRequest struct {
	Value string `json:"value"`
}

func (a *API) CreateComment(c *gin.Context) {
	videoID, ok := pathUUID(c, "videoId")
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed body")
		return
	}

	user := currentUser(c)
	comment, err := a.Comments.Create(c.Request.Context(), user.ID, videoID, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (a *API) RemoveComment(c *gin.Context) {
	commentID, ok := pathUUID(c, "commentId")
	if !ok {
		return
	}

	user := currentUser(c)
	if err := a.Comments.Remove(c.Request.Context(), user.ID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (a *API) ListComments(c *gin.Context) {
	videoID, ok := pathUUID(c, "videoId")
	if !ok {
		return
	}
	cursor, limit, ok := pageParams[pagination.TimeCursor](c)
	if !ok {
		return
	}

	list, err := a.Comments.List(c.Request.Context(), videoID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := toListResponse(list.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      resp.Items,
		"nextCursor": resp.NextCursor,
		"totalCount": list.TotalCount,
	})
}
